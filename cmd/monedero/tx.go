package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvidela/monedero/internal/cli"
	"github.com/nvidela/monedero/internal/engine"
	"github.com/nvidela/monedero/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage ledger transactions",
		Long:  `Add, list and delete individual ledger transactions.`,
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txDeleteCmd())

	return cmd
}

func txAddCmd() *cobra.Command {
	var (
		category string
		txType   string
		dateStr  string
	)

	cmd := &cobra.Command{
		Use:   "add <merchant> <amount>",
		Short: "Add a transaction",
		Long: `Add a single transaction to the ledger.

Category and type may be omitted; the rule engine fills them from the
merchant text. After a successful add you get a short window to undo.

Examples:
  monedero tx add "UBER EATS 123" 18.50
  monedero tx add "PAYROLL ACME" 2500 --type income --date 2026-08-28`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			input := engine.NewTransaction{
				Merchant: args[0],
				Category: category,
				Amount:   amount,
				Date:     model.DateOnly(time.Now()),
			}
			if txType != "" {
				parsed, parseErr := model.ParseTransactionType(txType)
				if parseErr != nil {
					return parseErr
				}
				input.Type = parsed
			}
			if dateStr != "" {
				parsed, parseErr := time.Parse("2006-01-02", dateStr)
				if parseErr != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", dateStr, parseErr)
				}
				input.Date = model.DateOnly(parsed)
			}

			eng, store, cfg, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			row, err := eng.AddTransaction(ctx, input)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Added #%d %s %s $%.2f (%s)", row.ID, row.Date.Format("2006-01-02"), row.Merchant, row.Amount, row.Category)))
			warnUnknownCategory(ctx, store, row.Category)

			_, err = cli.OfferUndo(ctx, eng, os.Stdin, os.Stdout, cfg.Undo.Window)
			return err
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category (default: inferred from rules)")
	cmd.Flags().StringVar(&txType, "type", "", "transaction type: income or expense (default: inferred)")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date YYYY-MM-DD (default: today)")

	return cmd
}

func txListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `Display ledger transactions, newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rows := eng.Transactions()
			if len(rows) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions yet. Use 'monedero tx add' or 'monedero import'."))
				return nil
			}
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Merchant"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Amount"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 10),
				strings.Repeat("-", 24),
				strings.Repeat("-", 16),
				strings.Repeat("-", 7),
				strings.Repeat("-", 10))

			for _, row := range rows {
				category := row.Category
				if category == "" {
					category = cli.SubtleStyle.Render("(none)")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t$%.2f\n",
					row.ID,
					row.Date.Format("2006-01-02"),
					row.Merchant,
					category,
					row.Type,
					row.Amount)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n rows (0 = all)")

	return cmd
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <ids>",
		Short: "Delete transactions",
		Long: `Delete one or more transactions by id (comma-separated).

The deletion can be undone within the undo window.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ids, err := parseIDList(args[0])
			if err != nil {
				return err
			}

			eng, store, cfg, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := eng.DeleteTransactions(ctx, ids); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted %d transaction(s).", len(ids))))

			_, err = cli.OfferUndo(ctx, eng, os.Stdin, os.Stdout, cfg.Undo.Window)
			return err
		},
	}
}
