package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/noaa-gefs-stac/internal/adapter/file"
	"github.com/couchcryptid/noaa-gefs-stac/internal/adapter/kafka"
	"github.com/couchcryptid/noaa-gefs-stac/internal/gefs"
	"github.com/couchcryptid/noaa-gefs-stac/internal/pipeline"
	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// stdoutDestination writes the item to the command's stdout instead of a file.
const stdoutDestination = "-"

func newCreateItemCommand(ctx *commandContext) *cobra.Command {
	var (
		collectionPath string
		indexPath      string
		processingTime string
	)

	cmd := &cobra.Command{
		Use:   "create-item <source> <destination>",
		Short: "Write the item for one GEFS GRIB2 file",
		Long: "Write the item for one GEFS GRIB2 file. The destination \"-\" prints\n" +
			"the item to stdout. When KAFKA_BROKERS is set the item is also published.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.flushMetrics()
			source, destination := args[0], args[1]

			opts := gefs.ItemOptions{
				CollectionID: ctx.cfg.CollectionID,
				Logger:       ctx.logger,
			}
			if processingTime != "" {
				t, err := stac.ParseTime(processingTime)
				if err != nil {
					return fmt.Errorf("parse processing time %q: %w", processingTime, err)
				}
				opts.Now = t
			}
			if collectionPath != "" {
				id, href, err := collectionLink(collectionPath, destination)
				if err != nil {
					return err
				}
				opts.CollectionID, opts.CollectionHref = id, href
			}

			loaders := []pipeline.Loader{}
			if destination == stdoutDestination {
				loaders = append(loaders, stdoutLoader{w: cmd.OutOrStdout()})
			} else {
				loaders = append(loaders, file.NewWriter(destination, ctx.logger))
			}
			if ctx.cfg.PublishEnabled() {
				publisher := kafka.NewWriter(ctx.cfg, ctx.logger)
				defer func() {
					if err := publisher.Close(); err != nil {
						ctx.logger.Error("kafka writer close error", "error", err)
					}
				}()
				loaders = append(loaders, publisher)
			}

			p := pipeline.New(
				pipeline.NewExtractor(ctx.logger),
				pipeline.NewTransformer(opts),
				loaders,
				ctx.logger,
				ctx.metrics,
			)
			_, err := p.Process(cmd.Context(), pipeline.Request{Source: source, IndexPath: indexPath})
			return err
		},
	}

	cmd.Flags().StringVar(&collectionPath, "collection", "", "path to the collection document to link the item to")
	cmd.Flags().StringVar(&indexPath, "index", "", "path to the .idx sidecar (default <source>.idx)")
	cmd.Flags().StringVar(&processingTime, "processing-time", "", "RFC 3339 processing:datetime (default now)")
	return cmd
}

// collectionLink reads the collection's id and returns an href to it that is
// relative to the item's directory.
func collectionLink(collectionPath, destination string) (string, string, error) {
	collection, err := readCollection(collectionPath)
	if err != nil {
		return "", "", err
	}
	if destination == stdoutDestination {
		return collection.ID, filepath.ToSlash(collectionPath), nil
	}

	from, err := filepath.Abs(filepath.Dir(destination))
	if err != nil {
		return "", "", fmt.Errorf("resolve destination: %w", err)
	}
	to, err := filepath.Abs(collectionPath)
	if err != nil {
		return "", "", fmt.Errorf("resolve collection: %w", err)
	}
	rel, err := filepath.Rel(from, to)
	if err != nil {
		return "", "", fmt.Errorf("relate collection to destination: %w", err)
	}
	return collection.ID, filepath.ToSlash(rel), nil
}

type stdoutLoader struct {
	w io.Writer
}

func (l stdoutLoader) Load(ctx context.Context, item *stac.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := stac.Encode(item)
	if err != nil {
		return err
	}
	_, err = l.w.Write(data)
	return err
}
