package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/noaa-gefs-stac/internal/adapter/file"
	"github.com/couchcryptid/noaa-gefs-stac/internal/gefs"
)

func newCreateCollectionCommand(ctx *commandContext) *cobra.Command {
	var opts gefs.CollectionOptions

	cmd := &cobra.Command{
		Use:   "create-collection <destination>",
		Short: "Write the GEFS collection document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.flushMetrics()

			if opts.ID == "" {
				opts.ID = ctx.cfg.CollectionID
			}
			collection, err := gefs.CreateCollection(opts)
			if err != nil {
				return err
			}

			w := file.NewWriter(args[0], ctx.logger)
			if err := w.WriteCollection(cmd.Context(), collection); err != nil {
				return err
			}
			ctx.metrics.CollectionsWritten.Inc()
			ctx.logger.Info("collection written", "collection", collection.ID, "path", w.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "collection id (default from GEFS_COLLECTION_ID)")
	cmd.Flags().StringVar(&opts.Thumbnail, "thumbnail", "", "href of a PNG or JPEG preview image")
	cmd.Flags().StringVar(&opts.StartTime, "start-time", "", "RFC 3339 start of the temporal extent (default 2017-01-01T00:00:00Z)")
	return cmd
}
