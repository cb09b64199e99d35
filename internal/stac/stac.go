// Package stac defines the STAC 1.0.0 documents this tool produces as
// explicit structs, one per object type, so every emitted field is declared
// at compile time.
package stac

import (
	"time"
)

// Version is the STAC specification version written into every document.
const Version = "1.0.0"

// Extension schema URIs.
const (
	ItemAssetsExtension = "https://stac-extensions.github.io/item-assets/v1.0.0/schema.json"
	RasterExtension     = "https://stac-extensions.github.io/raster/v1.1.0/schema.json"
	ProcessingExtension = "https://stac-extensions.github.io/processing/v1.2.0/schema.json"
	ForecastExtension   = "https://stac-extensions.github.io/forecast/v0.2.0/schema.json"
	ProjectionExtension = "https://stac-extensions.github.io/projection/v1.1.0/schema.json"
	TimestampsExtension = "https://stac-extensions.github.io/timestamps/v1.1.0/schema.json"
)

// Link relation types used by this tool.
const (
	RelSelf       = "self"
	RelRoot       = "root"
	RelParent     = "parent"
	RelCollection = "collection"
	RelLicense    = "license"
	RelAbout      = "about"
)

// Link is a STAC link object.
type Link struct {
	Href  string `json:"href"`
	Rel   string `json:"rel"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// Asset is a STAC asset object. Href is omitted in item_assets definitions.
type Asset struct {
	Href        string   `json:"href,omitempty"`
	Type        string   `json:"type,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Provider is a STAC provider object.
type Provider struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Extent is the spatial and temporal extent of a collection.
type Extent struct {
	Spatial  SpatialExtent  `json:"spatial"`
	Temporal TemporalExtent `json:"temporal"`
}

// SpatialExtent holds one or more [west, south, east, north] boxes.
type SpatialExtent struct {
	BBox [][]float64 `json:"bbox"`
}

// TemporalExtent holds [start, end] intervals; nil ends are open.
type TemporalExtent struct {
	Interval [][2]*Time `json:"interval"`
}

// Collection is a STAC Collection document.
type Collection struct {
	Type           string               `json:"type"`
	StacVersion    string               `json:"stac_version"`
	StacExtensions []string             `json:"stac_extensions"`
	ID             string               `json:"id"`
	Title          string               `json:"title,omitempty"`
	Description    string               `json:"description"`
	Keywords       []string             `json:"keywords,omitempty"`
	License        string               `json:"license"`
	Providers      []Provider           `json:"providers,omitempty"`
	Extent         Extent               `json:"extent"`
	Summaries      map[string]any       `json:"summaries,omitempty"`
	Links          []Link               `json:"links"`
	Assets         map[string]Asset     `json:"assets,omitempty"`
	ItemAssets     map[string]ItemAsset `json:"item_assets,omitempty"`
}

// ItemAsset is an item_assets definition: an asset without href, optionally
// carrying raster band templates.
type ItemAsset struct {
	Asset
	RasterBands []Band `json:"raster:bands,omitempty"`
}

// Item is a STAC Item (GeoJSON Feature) document.
type Item struct {
	Type           string           `json:"type"`
	StacVersion    string           `json:"stac_version"`
	StacExtensions []string         `json:"stac_extensions"`
	ID             string           `json:"id"`
	Geometry       Geometry         `json:"geometry"`
	BBox           []float64        `json:"bbox"`
	Properties     Properties       `json:"properties"`
	Links          []Link           `json:"links"`
	Assets         map[string]Asset `json:"assets"`
	Collection     string           `json:"collection,omitempty"`
}

// Geometry is a GeoJSON Polygon.
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Properties holds the item's common metadata and extension fields.
type Properties struct {
	Datetime      *Time  `json:"datetime"`
	StartDatetime *Time  `json:"start_datetime,omitempty"`
	EndDatetime   *Time  `json:"end_datetime,omitempty"`
	Title         string `json:"title,omitempty"`
	Published     *Time  `json:"published,omitempty"`

	ForecastReferenceDatetime *Time     `json:"forecast:reference_datetime,omitempty"`
	ForecastHorizon           *Duration `json:"forecast:horizon,omitempty"`
	ForecastVariable          string    `json:"forecast:variable,omitempty"`
	ForecastPerturbed         *bool     `json:"forecast:perturbed,omitempty"`

	ProcessingFacility string            `json:"processing:facility,omitempty"`
	ProcessingDatetime *Time             `json:"processing:datetime,omitempty"`
	ProcessingSoftware map[string]string `json:"processing:software,omitempty"`

	// ProjEPSG is written as null when a WKT2 definition is given instead.
	ProjEPSG      *int      `json:"proj:epsg"`
	ProjWKT2      string    `json:"proj:wkt2,omitempty"`
	ProjShape     []int     `json:"proj:shape,omitempty"`
	ProjTransform []float64 `json:"proj:transform,omitempty"`
	ProjBBox      []float64 `json:"proj:bbox,omitempty"`

	GribDiscipline string `json:"grib:discipline,omitempty"`
	GribElement    string `json:"grib:element,omitempty"`
	GribShortName  string `json:"grib:short_name,omitempty"`

	RasterBands []Band `json:"raster:bands,omitempty"`

	GEFSModel      string `json:"gefs:model,omitempty"`
	GEFSMember     string `json:"gefs:member,omitempty"`
	GEFSProduct    string `json:"gefs:product,omitempty"`
	GEFSResolution string `json:"gefs:resolution,omitempty"`
}

// Band is a raster extension band object extended with per-message GRIB fields.
type Band struct {
	Description   string `json:"description,omitempty"`
	DataType      string `json:"data_type,omitempty"`
	BitsPerSample int    `json:"bits_per_sample,omitempty"`
	Unit          string `json:"unit,omitempty"`

	GribDiscipline  string    `json:"grib:discipline,omitempty"`
	GribElement     string    `json:"grib:element,omitempty"`
	GribShortName   string    `json:"grib:short_name,omitempty"`
	ForecastHorizon *Duration `json:"forecast:horizon,omitempty"`
}

// Time is a UTC timestamp serialised as RFC 3339 with a "Z" suffix.
type Time struct {
	time.Time
}

// NewTime returns a *Time in UTC.
func NewTime(t time.Time) *Time {
	return &Time{Time: t.UTC()}
}

// MarshalJSON writes the time in UTC with second or sub-second precision.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON parses RFC 3339. Timestamps without a zone are read as UTC.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	parsed, err := ParseTime(trimQuotes(s))
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTime parses an RFC 3339 timestamp. Values without a zone designator
// are interpreted as UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	_, err := time.Parse(time.RFC3339, s)
	return time.Time{}, err
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
