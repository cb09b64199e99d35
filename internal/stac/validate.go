package stac

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ValidateItem checks the structural rules of an item: required fields,
// geometry and bbox ranges, and that every extension field in use has its
// schema declared. It does not fetch or apply JSON schemas.
func ValidateItem(item *Item) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if item.Type != "Feature" {
		fail("type is %q, want Feature", item.Type)
	}
	if item.StacVersion != Version {
		fail("stac_version is %q, want %s", item.StacVersion, Version)
	}
	if item.ID == "" {
		fail("id is empty")
	}

	p := item.Properties
	if p.Datetime == nil && (p.StartDatetime == nil || p.EndDatetime == nil) {
		fail("datetime is null without start_datetime and end_datetime")
	}
	if p.StartDatetime != nil && p.EndDatetime != nil && p.EndDatetime.Before(p.StartDatetime.Time) {
		fail("end_datetime precedes start_datetime")
	}
	if p.ForecastHorizon != nil && *p.ForecastHorizon < 0 {
		fail("forecast:horizon %s is negative", p.ForecastHorizon)
	}

	if err := validateBBox(item.BBox); err != nil {
		fail("bbox: %w", err)
	}
	if err := validatePolygon(item.Geometry); err != nil {
		fail("geometry: %w", err)
	}

	if len(item.Assets) == 0 {
		fail("no assets")
	}
	for key, a := range item.Assets {
		if a.Href == "" {
			fail("asset %q has no href", key)
		}
	}

	uses := map[string]bool{
		ForecastExtension:   p.ForecastReferenceDatetime != nil || p.ForecastHorizon != nil || p.ForecastVariable != "" || p.ForecastPerturbed != nil,
		ProcessingExtension: p.ProcessingFacility != "" || p.ProcessingDatetime != nil || len(p.ProcessingSoftware) > 0,
		ProjectionExtension: p.ProjEPSG != nil || p.ProjWKT2 != "" || len(p.ProjShape) > 0,
		RasterExtension:     len(p.RasterBands) > 0,
		TimestampsExtension: p.Published != nil,
	}
	for _, ext := range slices.Sorted(maps.Keys(uses)) {
		if uses[ext] && !slices.Contains(item.StacExtensions, ext) {
			fail("extension fields used but %s not declared", ext)
		}
	}

	return errors.Join(errs...)
}

// ValidateCollection checks the structural rules of a collection.
func ValidateCollection(c *Collection) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Type != "Collection" {
		fail("type is %q, want Collection", c.Type)
	}
	if c.StacVersion != Version {
		fail("stac_version is %q, want %s", c.StacVersion, Version)
	}
	if c.ID == "" {
		fail("id is empty")
	}
	if c.Description == "" {
		fail("description is empty")
	}
	if c.License == "" {
		fail("license is empty")
	}
	if len(c.Extent.Spatial.BBox) == 0 {
		fail("extent.spatial.bbox is empty")
	}
	for i, b := range c.Extent.Spatial.BBox {
		if err := validateBBox(b); err != nil {
			fail("extent.spatial.bbox[%d]: %w", i, err)
		}
	}
	if len(c.Extent.Temporal.Interval) == 0 {
		fail("extent.temporal.interval is empty")
	}
	for i, iv := range c.Extent.Temporal.Interval {
		if iv[0] == nil && iv[1] == nil {
			fail("extent.temporal.interval[%d] is open at both ends", i)
		}
		if iv[0] != nil && iv[1] != nil && iv[1].Before(iv[0].Time) {
			fail("extent.temporal.interval[%d] ends before it starts", i)
		}
	}
	if len(c.ItemAssets) > 0 && !slices.Contains(c.StacExtensions, ItemAssetsExtension) {
		fail("item_assets used but %s not declared", ItemAssetsExtension)
	}
	return errors.Join(errs...)
}

func validateBBox(b []float64) error {
	if len(b) != 4 {
		return fmt.Errorf("want 4 values, got %d", len(b))
	}
	west, south, east, north := b[0], b[1], b[2], b[3]
	if west < -180 || west > 180 || east < -180 || east > 180 {
		return fmt.Errorf("longitude outside [-180, 180]: %v", b)
	}
	if south < -90 || north > 90 || south > north {
		return fmt.Errorf("latitude outside [-90, 90] or inverted: %v", b)
	}
	return nil
}

func validatePolygon(g Geometry) error {
	if g.Type != "Polygon" {
		return fmt.Errorf("type is %q, want Polygon", g.Type)
	}
	if len(g.Coordinates) == 0 || len(g.Coordinates[0]) < 4 {
		return errors.New("exterior ring needs at least 4 positions")
	}
	ring := g.Coordinates[0]
	if ring[0] != ring[len(ring)-1] {
		return errors.New("exterior ring is not closed")
	}
	return nil
}
