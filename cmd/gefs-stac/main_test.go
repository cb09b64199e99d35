package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/noaa-gefs-stac/internal/gefs"
	"github.com/couchcryptid/noaa-gefs-stac/internal/grib2/grib2test"
	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

var refTime = time.Date(2022, time.August, 16, 0, 0, 0, 0, time.UTC)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("KAFKA_BROKERS", "")

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func temperatureMessage() grib2test.Message {
	return grib2test.Message{
		Centre:        7,
		ReferenceTime: refTime,
		Grid:          grib2test.GlobalLatLon(0.5),
		Fields: []grib2test.Field{{
			ProductTemplate: 1,
			Category:        0,
			Number:          0,
			TimeUnit:        1,
			ForecastTime:    6,
			SurfaceType:     103,
			SurfaceValue:    2,
			EnsembleType:    3,
			Perturbation:    1,
			BitsPerValue:    12,
		}},
	}
}

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	return grib2test.WriteFile(t, dir, "gep01.t00z.pgrb2a.0p50.f006", temperatureMessage())
}

func readItem(t *testing.T, path string) stac.Item {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var item stac.Item
	require.NoError(t, json.Unmarshal(data, &item))
	return item
}

func TestCreateCollection(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "catalog", "collection.json")

	_, _, err := runCLI(t, "create-collection", dest, "--thumbnail", "preview.png", "--start-time", "2020-09-23")
	require.NoError(t, err)

	c, err := readCollection(dest)
	require.NoError(t, err)
	require.NoError(t, stac.ValidateCollection(c))

	assert.Equal(t, gefs.DefaultCollectionID, c.ID)
	assert.Equal(t, time.Date(2020, time.September, 23, 0, 0, 0, 0, time.UTC), c.Extent.Temporal.Interval[0][0].Time)
	require.Contains(t, c.Assets, gefs.AssetThumbnail)
	assert.Equal(t, gefs.MediaTypePNG, c.Assets[gefs.AssetThumbnail].Type)

	abs, err := filepath.Abs(dest)
	require.NoError(t, err)
	assert.Contains(t, c.Links, stac.Link{Href: abs, Rel: stac.RelSelf, Type: stac.MediaTypeJSON})
}

func TestCreateCollection_IDFromEnvironment(t *testing.T) {
	t.Setenv("GEFS_COLLECTION_ID", "gefs-test")
	dest := filepath.Join(t.TempDir(), "collection.json")

	_, _, err := runCLI(t, "create-collection", dest)
	require.NoError(t, err)

	c, err := readCollection(dest)
	require.NoError(t, err)
	assert.Equal(t, "gefs-test", c.ID)
}

func TestCreateCollection_BadStartTime(t *testing.T) {
	_, _, err := runCLI(t, "create-collection", filepath.Join(t.TempDir(), "c.json"), "--start-time", "soon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse start time")
}

func TestCreateItem_LinksCollection(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir)
	collection := filepath.Join(dir, "collection.json")
	dest := filepath.Join(dir, "items", "gep01.json")

	_, _, err := runCLI(t, "create-collection", collection, "--id", "gefs-members")
	require.NoError(t, err)

	_, _, err = runCLI(t, "create-item", source, dest,
		"--collection", collection,
		"--processing-time", "2022-08-16T05:30:00Z",
	)
	require.NoError(t, err)

	item := readItem(t, dest)
	require.NoError(t, stac.ValidateItem(&item))

	assert.Equal(t, "gep01.t00z.pgrb2a.0p50.f006-20220816T0000Z", item.ID)
	assert.Equal(t, "gefs-members", item.Collection)
	require.Len(t, item.Links, 3)
	for _, l := range item.Links {
		assert.Equal(t, "../collection.json", l.Href, l.Rel)
	}
	require.NotNil(t, item.Properties.ProcessingDatetime)
	assert.Equal(t, time.Date(2022, time.August, 16, 5, 30, 0, 0, time.UTC), item.Properties.ProcessingDatetime.Time)
	require.NotNil(t, item.Properties.ForecastHorizon)
	assert.Equal(t, "PT6H", item.Properties.ForecastHorizon.String())
	require.NotNil(t, item.Properties.ForecastPerturbed)
	assert.True(t, *item.Properties.ForecastPerturbed)
	assert.NotContains(t, item.Assets, gefs.AssetIndex)
}

func TestCreateItem_Stdout(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir)
	require.NoError(t, os.WriteFile(source+".idx", []byte(grib2test.Index([]grib2test.Message{temperatureMessage()}, "TMP")), 0o644))

	stdout, _, err := runCLI(t, "create-item", source, "-")
	require.NoError(t, err)

	var item stac.Item
	require.NoError(t, json.Unmarshal([]byte(stdout), &item))
	assert.Equal(t, gefs.DefaultCollectionID, item.Collection)
	assert.Empty(t, item.Links)
	require.Contains(t, item.Assets, gefs.AssetIndex)
	assert.Equal(t, source+".idx", item.Assets[gefs.AssetIndex].Href)
}

func TestCreateItem_Errors(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing source", []string{"create-item", filepath.Join(dir, "absent.grib2"), "-"}, "unreadable source"},
		{"not grib", []string{"create-item", writeText(t, dir, "notes.txt", "hello"), "-"}, "unreadable source"},
		{"bad processing time", []string{"create-item", source, "-", "--processing-time", "later"}, "parse processing time"},
		{"missing collection", []string{"create-item", source, "-", "--collection", filepath.Join(dir, "nope.json")}, "read collection"},
		{"wrong arg count", []string{"create-item", source}, "accepts 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCreateItem_WritesMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir)
	metrics := filepath.Join(dir, "gefs_stac.prom")
	t.Setenv("METRICS_TEXTFILE", metrics)

	_, _, err := runCLI(t, "create-item", source, filepath.Join(dir, "item.json"))
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gefs_stac_items_written_total 1")
	assert.Contains(t, string(data), "gefs_stac_messages_read_total 1")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir)

	stdout, _, err := runCLI(t, "inspect", source)
	require.NoError(t, err)
	assert.Contains(t, stdout, "TMP")
	assert.Contains(t, stdout, "2-HTGL")
	assert.Contains(t, stdout, "PT6H")
	assert.Contains(t, stdout, "4.1")

	stdout, _, err = runCLI(t, "inspect", source, "--json")
	require.NoError(t, err)

	var rows []messageSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "1.1", rows[0].Message)
	assert.Equal(t, refTime.Add(6*time.Hour), rows[0].Valid)
	assert.True(t, rows[0].Perturbed)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir)
	collection := filepath.Join(dir, "collection.json")
	item := filepath.Join(dir, "item.json")

	_, _, err := runCLI(t, "create-collection", collection)
	require.NoError(t, err)
	_, _, err = runCLI(t, "create-item", source, item)
	require.NoError(t, err)

	stdout, _, err := runCLI(t, "validate", collection, item)
	require.NoError(t, err)
	assert.Contains(t, stdout, "PASS")
	assert.NotContains(t, stdout, "FAIL")

	broken := writeText(t, dir, "broken.json", `{"type": "Feature", "stac_version": "1.0.0", "id": "", "bbox": [0, 0], "properties": {"datetime": null}}`)
	stdout, _, err = runCLI(t, "validate", item, broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed validation")
	assert.Contains(t, stdout, "--- "+broken+" ---")
	assert.Contains(t, stdout, "id is empty")
}

func writeText(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
