package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nvidela/monedero/internal/cli"
	"github.com/nvidela/monedero/internal/engine"
	"github.com/nvidela/monedero/internal/model"
	"github.com/nvidela/monedero/internal/ofx"
)

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from
your bank. Rows without an explicit category get one from the rule engine.

Examples:
  # Import single file
  monedero import ~/Downloads/chase_jan_2024.qfx

  # Import all QFX files in a directory
  monedero import ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Expand globs and collect all files
			var allFiles []string
			for _, pattern := range args {
				matches, err := filepath.Glob(pattern)
				if err != nil {
					return fmt.Errorf("invalid pattern %s: %w", pattern, err)
				}
				if len(matches) == 0 {
					// If no glob matches, check if it's a direct file
					if _, err := os.Stat(pattern); err == nil {
						allFiles = append(allFiles, pattern)
					} else {
						slog.Warn("No files found matching pattern", "pattern", pattern)
					}
				} else {
					allFiles = append(allFiles, matches...)
				}
			}
			if len(allFiles) == 0 {
				return fmt.Errorf("no files found to import")
			}

			parser := ofx.NewParser()
			var rows []model.Transaction

			for _, filePath := range allFiles {
				f, err := os.Open(filePath)
				if err != nil {
					slog.Error("Failed to open file", "file", filePath, "error", err)
					continue
				}

				parsed, err := parser.ParseFile(ctx, f)
				_ = f.Close()
				if err != nil {
					slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
					continue
				}
				if len(parsed) == 0 {
					slog.Warn("No transactions found in file", "file", filepath.Base(filePath))
					continue
				}

				rows = append(rows, parsed...)
			}

			if len(rows) == 0 {
				slog.Warn("No transactions found in any file")
				return nil
			}

			if dryRun {
				for _, row := range rows {
					fmt.Printf("%s  %-7s  $%8.2f  %s\n",
						row.Date.Format("2006-01-02"), row.Type, row.Amount, row.Merchant)
				}
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf(
					"Dry run: %d transaction(s) from %d file(s), nothing saved.", len(rows), len(allFiles))))
				return nil
			}

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := newImportProgressBar(len(rows))
			imported, failed := 0, 0
			for _, row := range rows {
				input := engine.NewTransaction{
					Merchant: row.Merchant,
					Category: row.Category,
					Type:     row.Type,
					Amount:   row.Amount,
					Date:     row.Date,
				}
				// Statement rows carry no category; rows no rule matches
				// land in a bucket the user can bulk-edit later.
				if input.Category == "" && eng.Infer(input.Merchant) == nil {
					input.Category = "Uncategorized"
				}
				_, err := eng.AddTransaction(ctx, input)
				if err != nil {
					failed++
					slog.Warn("Failed to import transaction",
						"merchant", row.Merchant,
						"date", row.Date.Format("2006-01-02"),
						"error", err)
				} else {
					imported++
				}
				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}

			summary := fmt.Sprintf("Imported %d transaction(s) from %d file(s)", imported, len(allFiles))
			if failed > 0 {
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("%s, %d failed.", summary, failed)))
			} else {
				fmt.Println(cli.SuccessStyle.Render(summary + "."))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview import without saving")

	return cmd
}

func newImportProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
