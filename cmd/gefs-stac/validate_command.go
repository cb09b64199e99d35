package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// check tracks pass/fail for one document.
type check struct {
	path   string
	kind   string
	id     string
	errors []string
}

func (c *check) passed() bool { return len(c.errors) == 0 }

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document>...",
		Short: "Check the structure of item and collection documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := make([]*check, 0, len(args))
			for _, path := range args {
				c := &check{path: path}
				kind, id, err := validateDocument(path)
				c.kind, c.id = kind, id
				if err != nil {
					c.errors = splitJoined(err)
				}
				checks = append(checks, c)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(checks))
			failed := 0
			for _, c := range checks {
				status := "PASS"
				if !c.passed() {
					failed++
					status = fmt.Sprintf("FAIL (%d errors)", len(c.errors))
				}
				if colorize {
					status = colorStatus(status, c.passed())
				}
				rows = append(rows, []string{c.path, c.kind, c.id, status})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Document", "Type", "ID", "Result"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				colorize,
			))

			for _, c := range checks {
				if c.passed() {
					continue
				}
				fmt.Fprintf(out, "\n--- %s ---\n", c.path)
				for i, e := range c.errors {
					fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
				}
			}

			if failed > 0 {
				ctx.logger.Warn("validation failed", "documents", len(checks), "failed", failed)
				return fmt.Errorf("%d of %d documents failed validation", failed, len(checks))
			}
			return nil
		},
	}
}

// splitJoined flattens an errors.Join result into one message per error.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return strings.Split(err.Error(), "\n")
}
