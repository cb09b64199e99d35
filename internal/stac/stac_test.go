package stac

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_String(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"zero", 0, "P0D"},
		{"hours", 6 * time.Hour, "PT6H"},
		{"whole days", 48 * time.Hour, "P2D"},
		{"days and hours", 36 * time.Hour, "P1DT12H"},
		{"minutes", 90 * time.Minute, "PT1H30M"},
		{"fractional seconds", 1500 * time.Millisecond, "PT1.5S"},
		{"long range", 840 * time.Hour, "P35D"},
		{"negative", -3 * time.Hour, "-PT3H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.in).String())
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"P0D", 0},
		{"PT6H", 6 * time.Hour},
		{"P1DT12H", 36 * time.Hour},
		{"P1W", 7 * 24 * time.Hour},
		{"PT0.5S", 500 * time.Millisecond},
		{"-PT3H", -3 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, Duration(tt.want), got)
		})
	}

	for _, bad := range []string{"", "P", "PT", "P1Y", "6h", "P1M2D"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseDuration(bad)
			require.Error(t, err)
		})
	}
}

func TestDuration_JSON(t *testing.T) {
	d := NewDuration(30 * time.Hour)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"P1DT6H"`, string(data))

	var back Duration
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *d, back)
}

func TestTime_JSON(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	tm := NewTime(time.Date(2022, time.August, 15, 19, 0, 0, 0, est))

	data, err := json.Marshal(tm)
	require.NoError(t, err)
	assert.Equal(t, `"2022-08-16T00:00:00Z"`, string(data))

	var back Time
	require.NoError(t, json.Unmarshal([]byte(`"2022-08-16T00:00:00"`), &back))
	assert.True(t, back.Equal(tm.Time))
	assert.Equal(t, time.UTC, back.Location())
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2017-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTime("2022-08-16T06:00:00+06:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, time.August, 16, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseTime("yesterday")
	require.Error(t, err)
}

func TestEncode(t *testing.T) {
	item := Item{
		Type:        "Feature",
		StacVersion: Version,
		ID:          "a&b",
		Properties:  Properties{Datetime: NewTime(time.Date(2022, 8, 16, 0, 0, 0, 0, time.UTC)), ForecastHorizon: NewDuration(0)},
		Assets:      map[string]Asset{"z": {Href: "z"}, "a": {Href: "a"}},
	}

	data, err := Encode(item)
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasSuffix(s, "}\n"))
	assert.Contains(t, s, `"id": "a&b"`)
	assert.Contains(t, s, `"forecast:horizon": "P0D"`)
	assert.Contains(t, s, `"proj:epsg": null`)
	assert.Less(t, strings.Index(s, `"a": {`), strings.Index(s, `"z": {`))

	again, err := Encode(item)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestSetSelfLink(t *testing.T) {
	links := []Link{
		{Href: "old.json", Rel: RelSelf},
		{Href: "https://www.weather.gov/disclaimer", Rel: RelLicense},
	}
	out := SetSelfLink(links, "/tmp/collection.json", MediaTypeJSON)

	require.Len(t, out, 2)
	assert.Equal(t, RelLicense, out[0].Rel)
	assert.Equal(t, Link{Href: "/tmp/collection.json", Rel: RelSelf, Type: MediaTypeJSON}, out[1])
}

func validItem() *Item {
	ref := time.Date(2022, time.August, 16, 0, 0, 0, 0, time.UTC)
	return &Item{
		Type:           "Feature",
		StacVersion:    Version,
		StacExtensions: []string{ForecastExtension},
		ID:             "gec00.t00z.pgrb2a.0p50.f006-20220816T0000Z",
		Geometry: Geometry{Type: "Polygon", Coordinates: [][][2]float64{{
			{-180, -90}, {180, -90}, {180, 90}, {-180, 90}, {-180, -90},
		}}},
		BBox: []float64{-180, -90, 180, 90},
		Properties: Properties{
			Datetime:                  NewTime(ref.Add(6 * time.Hour)),
			ForecastReferenceDatetime: NewTime(ref),
			ForecastHorizon:           NewDuration(6 * time.Hour),
		},
		Assets: map[string]Asset{"grib2": {Href: "gec00.t00z.pgrb2a.0p50.f006"}},
	}
}

func TestValidateItem(t *testing.T) {
	require.NoError(t, ValidateItem(validItem()))

	tests := []struct {
		name   string
		mutate func(*Item)
		want   string
	}{
		{"wrong type", func(i *Item) { i.Type = "Collection" }, "want Feature"},
		{"empty id", func(i *Item) { i.ID = "" }, "id is empty"},
		{"no datetime", func(i *Item) { i.Properties.Datetime = nil }, "datetime is null"},
		{"short bbox", func(i *Item) { i.BBox = []float64{0, 0} }, "want 4 values"},
		{"inverted latitude", func(i *Item) { i.BBox = []float64{-10, 10, 10, -10} }, "inverted"},
		{"open ring", func(i *Item) { i.Geometry.Coordinates[0][4] = [2]float64{0, 0} }, "not closed"},
		{"no assets", func(i *Item) { i.Assets = nil }, "no assets"},
		{"undeclared extension", func(i *Item) { i.StacExtensions = nil }, "forecast/v0.2.0"},
		{"undeclared raster", func(i *Item) { i.Properties.RasterBands = []Band{{DataType: "float64"}} }, "raster/v1.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(item)
			err := ValidateItem(item)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateCollection(t *testing.T) {
	start := NewTime(time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC))
	c := &Collection{
		Type:        "Collection",
		StacVersion: Version,
		ID:          "noaa-gefs",
		Description: "ensemble",
		License:     "proprietary",
		Extent: Extent{
			Spatial:  SpatialExtent{BBox: [][]float64{{-180, -90, 180, 90}}},
			Temporal: TemporalExtent{Interval: [][2]*Time{{start, nil}}},
		},
		ItemAssets: map[string]ItemAsset{"grib2": {Asset: Asset{Type: "application/wmo-GRIB2"}}},
	}

	err := ValidateCollection(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item_assets used")

	c.StacExtensions = []string{ItemAssetsExtension}
	require.NoError(t, ValidateCollection(c))

	c.Extent.Temporal.Interval = [][2]*Time{{nil, nil}}
	err = ValidateCollection(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open at both ends")
}
