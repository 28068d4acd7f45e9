package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvidela/monedero/internal/cli"
	"github.com/nvidela/monedero/internal/model"
)

func bulkCmd() *cobra.Command {
	var (
		idsStr   string
		category string
		txType   string
		dateStr  string
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply one edit to many transactions",
		Long: `Apply a sparse edit to a set of transactions in one operation.

Only the flags you pass are changed; everything else on each row stays as
it was. The whole batch is one undoable action and one change log entry.

Example:
  monedero bulk --ids 4,9,12 --category Transporte`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ids, err := parseIDList(idsStr)
			if err != nil {
				return err
			}

			var patch model.Patch
			if category != "" {
				patch.Category = &category
			}
			if txType != "" {
				parsed, parseErr := model.ParseTransactionType(txType)
				if parseErr != nil {
					return parseErr
				}
				patch.Type = &parsed
			}
			if dateStr != "" {
				parsed, parseErr := time.Parse("2006-01-02", dateStr)
				if parseErr != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", dateStr, parseErr)
				}
				date := model.DateOnly(parsed)
				patch.Date = &date
			}
			if patch.IsZero() {
				return fmt.Errorf("nothing to change: pass at least one of --category, --type, --date")
			}

			eng, store, cfg, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := eng.ApplyBulk(ctx, ids, patch); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Updated %d transaction(s): %s", len(ids), patch.Summary())))
			if patch.Category != nil {
				warnUnknownCategory(ctx, store, *patch.Category)
			}

			_, err = cli.OfferUndo(ctx, eng, os.Stdin, os.Stdout, cfg.Undo.Window)
			return err
		},
	}

	cmd.Flags().StringVar(&idsStr, "ids", "", "comma-separated transaction ids (required)")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&txType, "type", "", "new type: income or expense")
	cmd.Flags().StringVar(&dateStr, "date", "", "new date YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("ids")

	return cmd
}
