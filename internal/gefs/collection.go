package gefs

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// CollectionOptions are the few variable parts of the collection.
type CollectionOptions struct {
	// ID overrides DefaultCollectionID.
	ID string
	// Thumbnail is the href of a PNG or JPEG preview; empty for none.
	Thumbnail string
	// StartTime is an RFC 3339 start for the temporal extent; empty uses
	// DefaultStartTime.
	StartTime string
}

// CreateCollection builds the GEFS collection.
func CreateCollection(opts CollectionOptions) (*stac.Collection, error) {
	start := DefaultStartTime
	if opts.StartTime != "" {
		t, err := stac.ParseTime(opts.StartTime)
		if err != nil {
			return nil, fmt.Errorf("parse start time %q: %w", opts.StartTime, err)
		}
		start = t
	}

	id := opts.ID
	if id == "" {
		id = DefaultCollectionID
	}

	c := &stac.Collection{
		Type:        "Collection",
		StacVersion: stac.Version,
		StacExtensions: []string{
			stac.ForecastExtension,
			stac.ItemAssetsExtension,
			stac.ProcessingExtension,
			stac.RasterExtension,
		},
		ID:          id,
		Title:       collectionTitle,
		Description: collectionDescription,
		Keywords:    append([]string(nil), keywords...),
		License:     license,
		Providers:   providers(),
		Extent: stac.Extent{
			Spatial:  stac.SpatialExtent{BBox: [][]float64{{-180, -90, 180, 90}}},
			Temporal: stac.TemporalExtent{Interval: [][2]*stac.Time{{stac.NewTime(start), nil}}},
		},
		Summaries: map[string]any{
			"processing:facility": []string{"NCEP"},
			"forecast:perturbed":  []bool{false, true},
			"gefs:model":          []string{"atmos", "chem", "wave"},
			"gefs:resolution":     []string{"0p25", "0p50"},
		},
		Links: []stac.Link{licenseLink(), aboutLink()},
		ItemAssets: map[string]stac.ItemAsset{
			AssetGRIB2: {Asset: grib2Asset(""), RasterBands: []stac.Band{{DataType: bandDataType}}},
			AssetIndex: {Asset: indexAsset("")},
		},
	}

	if opts.Thumbnail != "" {
		mediaType := MediaTypeJPEG
		if strings.HasSuffix(strings.ToLower(opts.Thumbnail), ".png") {
			mediaType = MediaTypePNG
		}
		c.Assets = map[string]stac.Asset{
			AssetThumbnail: {
				Href:  opts.Thumbnail,
				Type:  mediaType,
				Title: "Preview",
				Roles: []string{"thumbnail"},
			},
		}
	}
	return c, nil
}
