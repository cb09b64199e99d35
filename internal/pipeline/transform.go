package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/noaa-gefs-stac/internal/gefs"
	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// GRIBExtractor implements Extractor by decoding headers from local files.
type GRIBExtractor struct {
	logger *slog.Logger
}

// NewExtractor creates a GRIBExtractor.
func NewExtractor(logger *slog.Logger) *GRIBExtractor {
	return &GRIBExtractor{logger: logger}
}

func (e *GRIBExtractor) Extract(ctx context.Context, req Request) (*gefs.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return gefs.ReadSource(req.Source, req.IndexPath, e.logger)
}

// ItemTransformer implements Transformer with gefs.BuildItem.
type ItemTransformer struct {
	opts gefs.ItemOptions
}

// NewTransformer creates an ItemTransformer. opts.IndexPath is ignored; the
// sidecar is resolved during extraction.
func NewTransformer(opts gefs.ItemOptions) *ItemTransformer {
	return &ItemTransformer{opts: opts}
}

func (t *ItemTransformer) Transform(_ context.Context, src *gefs.Source) (*stac.Item, error) {
	return gefs.BuildItem(src, t.opts)
}
