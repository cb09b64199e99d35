package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/noaa-gefs-stac/internal/gefs"
	"github.com/couchcryptid/noaa-gefs-stac/internal/grib2"
	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// messageSummary is one row of inspect output.
type messageSummary struct {
	Message    string    `json:"message"`
	Offset     int64     `json:"offset"`
	Size       uint64    `json:"size"`
	Discipline string    `json:"discipline"`
	Element    string    `json:"element"`
	Level      string    `json:"level"`
	Reference  time.Time `json:"reference_datetime"`
	Valid      time.Time `json:"valid_datetime"`
	Horizon    string    `json:"horizon"`
	Product    string    `json:"product_template"`
	Grid       string    `json:"grid_template"`
	Perturbed  bool      `json:"perturbed"`
	IndexName  string    `json:"index_variable,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var (
		indexPath string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "List the GRIB2 messages in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.flushMetrics()

			src, err := gefs.ReadSource(args[0], indexPath, ctx.logger)
			if err != nil {
				ctx.metrics.ExtractionErrors.Inc()
				return err
			}
			ctx.metrics.MessagesRead.Add(float64(len(src.Header.Messages)))

			summaries := summarize(src)
			if asJSON {
				return writeJSON(cmd, summaries)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					s.Message,
					strconv.FormatInt(s.Offset, 10),
					humanize.IBytes(s.Size),
					s.Element,
					s.Level,
					s.Reference.Format(time.RFC3339),
					s.Horizon,
					s.Product,
					s.Grid,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Msg", "Offset", "Size", "Element", "Level", "Reference", "Horizon", "Product", "Grid"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				shouldColorize(out),
			))
			if src.IndexPath != "" {
				fmt.Fprintf(out, "index: %s (%d entries)\n", src.IndexPath, len(src.Index))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "", "path to the .idx sidecar (default <source>.idx)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print messages as JSON")
	return cmd
}

func summarize(src *gefs.Source) []messageSummary {
	aligned := len(src.Index) == len(src.Header.Messages)
	out := make([]messageSummary, 0, len(src.Header.Messages))
	for i, m := range src.Header.Messages {
		param, _ := m.LookupParameter()
		ref := m.Identification.ReferenceTime.UTC()
		s := messageSummary{
			Message:    fmt.Sprintf("%d.%d", m.Index, m.Field),
			Offset:     m.Offset,
			Size:       m.Length,
			Discipline: grib2.DisciplineName(m.Discipline),
			Element:    param.Name,
			Level:      m.LevelShortName(),
			Reference:  ref,
			Valid:      m.ValidTime().UTC(),
			Horizon:    stac.Duration(m.ValidTime().Sub(ref)).String(),
			Product:    fmt.Sprintf("4.%d", m.Product.Template),
			Grid:       fmt.Sprintf("3.%d", m.Grid.Template),
			Perturbed:  m.Perturbed(),
		}
		if !m.Product.Timed {
			s.Horizon = "?"
		}
		if aligned {
			s.IndexName = src.Index[i].Variable
		}
		out = append(out, s)
	}
	return out
}
