package gefs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/noaa-gefs-stac/internal/grib2"
	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// Source is a decoded GRIB2 file and whatever was found next to it.
type Source struct {
	Path    string
	ModTime time.Time
	Header  *grib2.File

	// IndexPath is the sidecar that exists on disk, or "" when none does.
	IndexPath string
	// Index holds the parsed sidecar entries. It is empty when the sidecar is
	// missing or could not be parsed.
	Index []grib2.IndexEntry

	// Warnings are non-fatal problems, e.g. ErrSidecarNotFound.
	Warnings []error
}

// ItemOptions control everything about an item that is not read from the source.
type ItemOptions struct {
	// CollectionID defaults to DefaultCollectionID.
	CollectionID string
	// CollectionHref adds collection, parent and root links when set.
	CollectionHref string
	// IndexPath overrides the sidecar location.
	IndexPath string
	// Now is processing:datetime. Zero samples the package clock.
	Now    time.Time
	Logger *slog.Logger
}

func (o ItemOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// CreateItem reads the GRIB2 file at path and builds its item.
func CreateItem(path string, opts ItemOptions) (*stac.Item, error) {
	src, err := ReadSource(path, opts.IndexPath, opts.logger())
	if err != nil {
		return nil, err
	}
	return BuildItem(src, opts)
}

// ReadSource decodes the header of every message in path and looks for its
// sidecar. indexPath overrides the sidecar location; empty probes
// "<path>.idx" and, for names with a GRIB extension, "<stem>.idx".
func ReadSource(path, indexPath string, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnreadableSource, path)
	}

	header, err := grib2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, path, err)
	}
	if header.TrailingBytes > 0 {
		logger.Warn("ignoring trailing bytes after last message", "source", path, "bytes", header.TrailingBytes)
	}

	src := &Source{
		Path:    path,
		ModTime: info.ModTime().UTC(),
		Header:  header,
	}

	sidecar, ok := findSidecar(path, indexPath)
	if !ok {
		warn := fmt.Errorf("%w: %s", ErrSidecarNotFound, sidecarCandidates(path, indexPath)[0])
		src.Warnings = append(src.Warnings, warn)
		logger.Warn("sidecar index not found, omitting index asset", "source", path)
		return src, nil
	}
	src.IndexPath = sidecar

	entries, err := grib2.ReadIndex(sidecar)
	switch {
	case err != nil:
		src.Warnings = append(src.Warnings, err)
		logger.Warn("sidecar index unreadable", "index", sidecar, "error", err)
	case len(entries) != len(header.Messages):
		logger.Warn("sidecar index does not match source",
			"index", sidecar, "entries", len(entries), "messages", len(header.Messages))
	default:
		src.Index = entries
	}
	return src, nil
}

func sidecarCandidates(path, explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	candidates := []string{path + ".idx"}
	if stem := Stem(path); stem != filepath.Base(path) {
		candidates = append(candidates, filepath.Join(filepath.Dir(path), stem+".idx"))
	}
	return candidates
}

func findSidecar(path, explicit string) (string, bool) {
	for _, c := range sidecarCandidates(path, explicit) {
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return c, true
		}
	}
	return "", false
}

// BuildItem maps a decoded source to a STAC item. The result depends only on
// src and opts, so the same inputs always give the same document.
func BuildItem(src *Source, opts ItemOptions) (*stac.Item, error) {
	if src == nil || src.Header == nil || len(src.Header.Messages) == 0 {
		return nil, &MissingFieldError{Field: "messages"}
	}
	msgs := src.Header.Messages
	first := msgs[0]
	logger := opts.logger()

	ref := first.Identification.ReferenceTime
	if ref.IsZero() {
		return nil, &MissingFieldError{Field: "reference time"}
	}
	ref = ref.UTC()

	start, end, err := validRange(msgs, ref)
	if err != nil {
		return nil, err
	}
	horizon := end.Sub(ref)

	name, named := ParseFileName(src.Path)
	if named {
		checkFileName(logger, src.Path, name, ref, horizon)
	}

	now := opts.Now
	if now.IsZero() {
		now = clock.Now()
	}

	collectionID := opts.CollectionID
	if collectionID == "" {
		collectionID = DefaultCollectionID
	}

	bbox := footprint(first.Grid)
	proj := projectionOf(first.Grid)
	bands := rasterBands(src, ref)

	props := stac.Properties{
		Datetime:                  stac.NewTime(end),
		Title:                     Stem(src.Path),
		ForecastReferenceDatetime: stac.NewTime(ref),
		ForecastHorizon:           stac.NewDuration(horizon),
		ForecastVariable:          commonElement(bands),
		ForecastPerturbed:         perturbed(msgs, name),
		ProcessingFacility:        grib2.CentreName(first.Identification.Centre),
		ProcessingDatetime:        stac.NewTime(now),
		ProcessingSoftware:        map[string]string{SoftwareName: Version},
		ProjEPSG:                  proj.EPSG,
		ProjWKT2:                  proj.WKT2,
		ProjShape:                 proj.Shape,
		ProjTransform:             proj.Transform,
		ProjBBox:                  proj.BBox,
		GribDiscipline:            bands[0].GribDiscipline,
		GribElement:               bands[0].GribElement,
		GribShortName:             bands[0].GribShortName,
		RasterBands:               bands,
	}
	if !start.Equal(end) {
		props.StartDatetime = stac.NewTime(start)
		props.EndDatetime = stac.NewTime(end)
	}
	if !src.ModTime.IsZero() {
		props.Published = stac.NewTime(src.ModTime)
	}
	if named {
		props.GEFSModel = name.Model
		props.GEFSMember = name.Member
		props.GEFSProduct = name.Product
		props.GEFSResolution = name.Resolution
	}

	assets := map[string]stac.Asset{AssetGRIB2: grib2Asset(src.Path)}
	if src.IndexPath != "" {
		assets[AssetIndex] = indexAsset(src.IndexPath)
	}

	links := []stac.Link{}
	if opts.CollectionHref != "" {
		for _, rel := range []string{stac.RelCollection, stac.RelParent, stac.RelRoot} {
			links = append(links, stac.Link{Href: opts.CollectionHref, Rel: rel, Type: stac.MediaTypeJSON, Title: collectionTitle})
		}
	}

	return &stac.Item{
		Type:        "Feature",
		StacVersion: stac.Version,
		StacExtensions: []string{
			stac.ForecastExtension,
			stac.ProcessingExtension,
			stac.ProjectionExtension,
			stac.RasterExtension,
			stac.TimestampsExtension,
		},
		ID:         ItemID(src.Path, ref),
		Geometry:   polygon(bbox),
		BBox:       bbox,
		Properties: props,
		Links:      links,
		Assets:     assets,
		Collection: collectionID,
	}, nil
}

// validRange returns the earliest start and latest valid time over all
// messages. Every message must share ref and be valid at or after it.
func validRange(msgs []grib2.Message, ref time.Time) (time.Time, time.Time, error) {
	var start, end time.Time
	for i, m := range msgs {
		if !m.Product.Timed {
			return time.Time{}, time.Time{}, &MissingFieldError{
				Field: fmt.Sprintf("forecast time (message %d.%d, product template 4.%d)", m.Index, m.Field, m.Product.Template),
			}
		}
		if !m.Identification.ReferenceTime.Equal(ref) {
			return time.Time{}, time.Time{}, &MissingFieldError{
				Field: fmt.Sprintf("reference time (message %d.%d has %s, message 1.1 has %s)",
					m.Index, m.Field, m.Identification.ReferenceTime.UTC().Format(time.RFC3339), ref.Format(time.RFC3339)),
			}
		}
		s, v := m.StartTime(), m.ValidTime()
		if v.Before(ref) {
			return time.Time{}, time.Time{}, &MissingFieldError{
				Field: fmt.Sprintf("valid time (message %d.%d at %s precedes reference %s)",
					m.Index, m.Field, v.UTC().Format(time.RFC3339), ref.Format(time.RFC3339)),
			}
		}
		if s.After(v) {
			s = v
		}
		if i == 0 || s.Before(start) {
			start = s
		}
		if i == 0 || v.After(end) {
			end = v
		}
	}
	return start.UTC(), end.UTC(), nil
}

// rasterBands describes every message. Elements unknown to the built-in
// tables take the sidecar's name when the sidecar lines up with the messages.
func rasterBands(src *Source, ref time.Time) []stac.Band {
	msgs := src.Header.Messages
	bands := make([]stac.Band, 0, len(msgs))
	for i, m := range msgs {
		param, known := m.LookupParameter()
		if !known && len(src.Index) == len(msgs) && src.Index[i].Variable != "" {
			param.Name = src.Index[i].Variable
		}

		desc := param.Description
		if level := m.LevelDescription(); level != "" {
			desc += " @ " + level
		}

		bands = append(bands, stac.Band{
			Description:     desc,
			DataType:        bandDataType,
			BitsPerSample:   int(m.Representation.BitsPerValue),
			Unit:            param.Unit,
			GribDiscipline:  strings.ToLower(grib2.DisciplineName(m.Discipline)),
			GribElement:     param.Name,
			GribShortName:   m.LevelShortName(),
			ForecastHorizon: stac.NewDuration(m.ValidTime().Sub(ref)),
		})
	}
	return bands
}

// commonElement returns the element shared by every band, or "".
func commonElement(bands []stac.Band) string {
	element := bands[0].GribElement
	for _, b := range bands[1:] {
		if b.GribElement != element {
			return ""
		}
	}
	return element
}

// perturbed prefers the ensemble information in the product definition and
// falls back to the member in the file name.
func perturbed(msgs []grib2.Message, name FileName) *bool {
	for _, m := range msgs {
		switch {
		case m.Product.Ensemble:
			v := m.Perturbed()
			return &v
		case m.Product.Derived:
			v := false
			return &v
		}
	}
	if v, ok := name.Perturbed(); ok {
		return &v
	}
	return nil
}

func checkFileName(logger *slog.Logger, path string, name FileName, ref time.Time, horizon time.Duration) {
	if name.Cycle != ref.Hour() {
		logger.Warn("file name cycle differs from header", "source", path, "file_cycle", name.Cycle, "header_cycle", ref.Hour())
	}
	if !name.Date.IsZero() && !name.Date.Equal(ref.Truncate(24*time.Hour)) {
		logger.Warn("file name date differs from header", "source", path, "file_date", name.Date.Format(time.DateOnly), "header_date", ref.Format(time.DateOnly))
	}
	if time.Duration(name.ForecastHour)*time.Hour != horizon {
		logger.Warn("file name lead time differs from header", "source", path, "file_hour", name.ForecastHour, "horizon", stac.Duration(horizon).String())
	}
}
