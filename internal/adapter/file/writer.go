// Package file writes STAC documents to the local filesystem.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/facebookgo/atomicfile"

	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// Writer writes one document per destination path. It implements
// pipeline.Loader for items.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer for the destination path. Parent directories are
// created on write.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Path returns the destination path.
func (w *Writer) Path() string {
	return w.path
}

// Load writes the item.
func (w *Writer) Load(ctx context.Context, item *stac.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.write(item)
}

// WriteCollection writes the collection with a self link to its absolute path.
func (w *Writer) WriteCollection(ctx context.Context, c *stac.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve collection path: %w", err)
	}
	out := *c
	out.Links = stac.SetSelfLink(c.Links, abs, stac.MediaTypeJSON)
	return w.write(&out)
}

// write encodes doc and replaces the destination atomically so a failed run
// never leaves a partial document behind.
func (w *Writer) write(doc any) error {
	data, err := stac.Encode(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := atomicfile.New(w.path, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Abort()
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("commit %s: %w", w.path, err)
	}

	w.logger.Debug("document written", "path", w.path, "bytes", len(data))
	return nil
}
