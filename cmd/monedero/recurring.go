package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvidela/monedero/internal/cli"
	"github.com/nvidela/monedero/internal/engine"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Materialize recurring transactions",
	}

	cmd.AddCommand(recurringRunCmd())

	return cmd
}

func recurringRunCmd() *cobra.Command {
	var monthStr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate this month's recurring transactions",
		Long: `Generate one transaction per active template for the target month.

The run is idempotent: a template whose transaction already exists for the
month is skipped, so running twice never duplicates rows. Failures on one
template do not stop the rest.

Examples:
  monedero recurring run
  monedero recurring run --month 2026-02`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			target := time.Now()
			if monthStr != "" {
				parsed, err := time.Parse("2006-01", monthStr)
				if err != nil {
					return fmt.Errorf("invalid month %q (want YYYY-MM): %w", monthStr, err)
				}
				target = parsed
			}

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			report := eng.RunAllTemplates(ctx, target.Year(), target.Month())

			for _, result := range report.Results {
				switch {
				case result.Err == nil:
					fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
						"  created %s: #%d %s $%.2f on %s",
						result.Template, result.Row.ID, result.Row.Merchant,
						result.Row.Amount, result.Row.Date.Format("2006-01-02"))))
				case errors.Is(result.Err, engine.ErrDuplicate):
					fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
						"  skipped %s: already materialized", result.Template)))
				default:
					fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf(
						"  failed %s: %v", result.Template, result.Err)))
				}
			}

			summary := fmt.Sprintf("%s: %d created, %d already present, %d failed",
				target.Format("2006-01"), report.Created, report.Duplicates, report.Failed)
			if report.Failed > 0 {
				fmt.Println(cli.WarningStyle.Render(summary))
			} else {
				fmt.Println(cli.InfoStyle.Render(summary))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&monthStr, "month", "", "target month YYYY-MM (default: current month)")

	return cmd
}
