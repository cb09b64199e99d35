package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/noaa-gefs-stac/internal/gefs"
	"github.com/couchcryptid/noaa-gefs-stac/internal/grib2"
	"github.com/couchcryptid/noaa-gefs-stac/internal/grib2/grib2test"
	"github.com/couchcryptid/noaa-gefs-stac/internal/observability"
	"github.com/couchcryptid/noaa-gefs-stac/internal/pipeline"
	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	src *gefs.Source
	err error
}

func (m *mockExtractor) Extract(_ context.Context, _ pipeline.Request) (*gefs.Source, error) {
	return m.src, m.err
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, src *gefs.Source) (*stac.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &stac.Item{ID: src.Path}, nil
}

type mockLoader struct {
	loaded []*stac.Item
	err    error
}

func (m *mockLoader) Load(_ context.Context, item *stac.Item) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, item)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sourceWithMessages(n int) *gefs.Source {
	return &gefs.Source{Path: "gec00.t00z.pgrb2a.0p50.f000", Header: &grib2.File{Messages: make([]grib2.Message, n)}}
}

// --- tests ---

func TestPipeline_Process_HappyPath(t *testing.T) {
	ext := &mockExtractor{src: sourceWithMessages(3)}
	first, second := &mockLoader{}, &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, []pipeline.Loader{first, second}, testLogger(), metrics)

	item, err := p.Process(context.Background(), pipeline.Request{Source: "gec00.t00z.pgrb2a.0p50.f000"})
	require.NoError(t, err)
	assert.Equal(t, "gec00.t00z.pgrb2a.0p50.f000", item.ID)
	assert.Len(t, first.loaded, 1)
	assert.Len(t, second.loaded, 1)
	assert.Same(t, item, second.loaded[0])
}

func TestPipeline_Process_Failures(t *testing.T) {
	extractErr := errors.New("no such file")
	transformErr := errors.New("missing field")
	loadErr := errors.New("disk full")

	tests := []struct {
		name        string
		ext         *mockExtractor
		tfm         *mockTransformer
		ldr         *mockLoader
		wantErr     error
		wantLoadRun bool
	}{
		{"extract", &mockExtractor{err: extractErr}, &mockTransformer{}, &mockLoader{}, extractErr, false},
		{"transform", &mockExtractor{src: sourceWithMessages(1)}, &mockTransformer{err: transformErr}, &mockLoader{}, transformErr, false},
		{"load", &mockExtractor{src: sourceWithMessages(1)}, &mockTransformer{}, &mockLoader{err: loadErr}, loadErr, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after := &mockLoader{}
			p := pipeline.New(tt.ext, tt.tfm, []pipeline.Loader{tt.ldr, after}, testLogger(), observability.NewMetricsForTesting())

			item, err := p.Process(context.Background(), pipeline.Request{Source: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, item)
			assert.Empty(t, tt.ldr.loaded)
			assert.Empty(t, after.loaded, "later loaders must not run after a failure")
		})
	}
}

func TestPipeline_Process_RealStages(t *testing.T) {
	ref := time.Date(2022, time.August, 16, 0, 0, 0, 0, time.UTC)
	msg := grib2test.Message{
		Centre:        7,
		ReferenceTime: ref,
		Grid:          grib2test.GlobalLatLon(0.5),
		Fields: []grib2test.Field{
			{Category: 0, Number: 0, TimeUnit: 1, ForecastTime: 6, SurfaceType: 103, SurfaceValue: 2},
		},
	}
	path := grib2test.WriteFile(t, t.TempDir(), "gec00.t00z.pgrb2a.0p50.f006", msg)

	opts := gefs.ItemOptions{Now: ref.Add(5 * time.Hour), Logger: testLogger()}
	ldr := &mockLoader{}
	p := pipeline.New(pipeline.NewExtractor(testLogger()), pipeline.NewTransformer(opts), []pipeline.Loader{ldr}, testLogger(), observability.NewMetricsForTesting())

	item, err := p.Process(context.Background(), pipeline.Request{Source: path})
	require.NoError(t, err)

	direct, err := gefs.CreateItem(path, opts)
	require.NoError(t, err)
	if diff := cmp.Diff(direct, item); diff != "" {
		t.Fatalf("pipeline item differs from direct build (-want +got):\n%s", diff)
	}
	assert.Equal(t, "gec00.t00z.pgrb2a.0p50.f006-20220816T0000Z", item.ID)
	assert.Equal(t, "PT6H", item.Properties.ForecastHorizon.String())
}

func TestGRIBExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.NewExtractor(testLogger()).Extract(ctx, pipeline.Request{Source: "anything"})
	require.ErrorIs(t, err, context.Canceled)
}
