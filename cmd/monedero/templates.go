package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvidela/monedero/internal/cli"
	"github.com/nvidela/monedero/internal/model"
)

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage recurring transaction templates",
		Long: `List, add, delete, pause and resume recurring transaction templates.

Each active template produces at most one transaction per month, on its
configured day of month. Use 'monedero recurring run' to materialize them.`,
	}

	cmd.AddCommand(templatesListCmd())
	cmd.AddCommand(templatesAddCmd())
	cmd.AddCommand(templatesDeleteCmd())
	cmd.AddCommand(templatesSetActiveCmd("pause", false))
	cmd.AddCommand(templatesSetActiveCmd("resume", true))

	return cmd
}

func templatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			templates := eng.Templates()
			if len(templates) == 0 {
				fmt.Println(cli.InfoStyle.Render("No templates yet. Use 'monedero templates add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Merchant"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Day"),
				cli.HeaderStyle.Render("Status"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 16),
				strings.Repeat("-", 20),
				strings.Repeat("-", 16),
				strings.Repeat("-", 10),
				strings.Repeat("-", 4),
				strings.Repeat("-", 7))

			for _, tpl := range templates {
				status := cli.SuccessStyle.Render("active")
				if !tpl.Active {
					status = cli.SubtleStyle.Render("paused")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t$%.2f\t%d\t%s\n",
					tpl.ID, tpl.Name, tpl.Merchant, tpl.Category, tpl.Amount, tpl.DayOfMonth, status)
			}

			return nil
		},
	}
}

func templatesAddCmd() *cobra.Command {
	var (
		name   string
		txType string
		day    int
	)

	cmd := &cobra.Command{
		Use:   "add <merchant> <category> <amount>",
		Short: "Add a template",
		Long: `Add a recurring transaction template. Day of month must be between
1 and 28; in months shorter than the chosen day the date clamps to the
month's last day.

Example:
  monedero templates add "NETFLIX.COM" Entretenimiento 15.00 --day 10 --name netflix`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			tpl := model.RecurringTemplate{
				Name:       name,
				Merchant:   args[0],
				Category:   args[1],
				Type:       model.TypeExpense,
				Amount:     amount,
				DayOfMonth: day,
				Active:     true,
			}
			if tpl.Name == "" {
				tpl.Name = args[0]
			}
			if txType != "" {
				parsed, parseErr := model.ParseTransactionType(txType)
				if parseErr != nil {
					return parseErr
				}
				tpl.Type = parsed
			}

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stored, err := eng.AddTemplate(ctx, tpl)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Added template #%d %q: %s $%.2f on day %d",
				stored.ID, stored.Name, stored.Merchant, stored.Amount, stored.DayOfMonth)))
			warnUnknownCategory(ctx, store, stored.Category)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "template name (default: merchant)")
	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type: income or expense")
	cmd.Flags().IntVar(&day, "day", 1, "day of month (1-28)")

	return cmd
}

func templatesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := eng.RemoveTemplate(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted template #%d.", id)))
			return nil
		},
	}
}

func templatesSetActiveCmd(use string, active bool) *cobra.Command {
	short := "Pause a template"
	done := "Paused"
	if active {
		short = "Resume a paused template"
		done = "Resumed"
	}

	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := eng.SetTemplateActive(ctx, id, active); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s template #%d.", done, id)))
			return nil
		},
	}
}
