package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/noaa-gefs-stac/internal/gefs"
	"github.com/couchcryptid/noaa-gefs-stac/internal/observability"
	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// Request names one GRIB2 file to catalogue.
type Request struct {
	Source string
	// IndexPath overrides the sidecar location.
	IndexPath string
}

// Extractor decodes a source file's headers.
type Extractor interface {
	Extract(ctx context.Context, req Request) (*gefs.Source, error)
}

// Transformer converts a decoded source into an item.
type Transformer interface {
	Transform(ctx context.Context, src *gefs.Source) (*stac.Item, error)
}

// Loader writes an item to a destination.
type Loader interface {
	Load(ctx context.Context, item *stac.Item) error
}

// Pipeline runs extract, transform and load for one source at a time.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline with the given stages and observability. Loaders
// run in order; the first failure stops the pass.
func New(e Extractor, t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
	}
}

// Process catalogues one source and returns the item that was loaded. No
// loader runs unless extraction and transformation both succeed.
func (p *Pipeline) Process(ctx context.Context, req Request) (*stac.Item, error) {
	start := time.Now()

	src, err := p.extractor.Extract(ctx, req)
	if err != nil {
		p.metrics.ExtractionErrors.Inc()
		p.logger.Error("extract failed", "source", req.Source, "error", err)
		return nil, fmt.Errorf("extract %s: %w", req.Source, err)
	}
	p.metrics.MessagesRead.Add(float64(len(src.Header.Messages)))

	item, err := p.transformer.Transform(ctx, src)
	if err != nil {
		p.metrics.ExtractionErrors.Inc()
		p.logger.Error("transform failed", "source", req.Source, "error", err)
		return nil, fmt.Errorf("transform %s: %w", req.Source, err)
	}

	for _, l := range p.loaders {
		if err := l.Load(ctx, item); err != nil {
			p.logger.Error("load failed", "item", item.ID, "error", err)
			return nil, fmt.Errorf("load item %s: %w", item.ID, err)
		}
	}

	p.metrics.ItemsWritten.Inc()
	p.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("item written",
		"item", item.ID,
		"messages", len(src.Header.Messages),
		"index", src.IndexPath != "",
		"duration", time.Since(start),
	)
	return item, nil
}
