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

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage categorization rules",
		Long: `List, add and delete categorization rules.

A rule maps a merchant substring (case-insensitive) to a category and
optionally a transaction type. Newer rules shadow older ones.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesDeleteCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules := eng.Rules()
			if len(rules) == 0 {
				fmt.Println(cli.InfoStyle.Render("No rules yet. Use 'monedero rules add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Pattern"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Type"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 16),
				strings.Repeat("-", 7))

			for _, rule := range rules {
				ruleType := cli.SubtleStyle.Render("(any)")
				if rule.Type != nil {
					ruleType = string(*rule.Type)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", rule.ID, rule.Pattern, rule.Category, ruleType)
			}

			return nil
		},
	}
}

func rulesAddCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "add <pattern> <category>",
		Short: "Add a rule",
		Long: `Add a categorization rule. The new rule takes precedence over any
existing rule with an overlapping pattern.

Examples:
  monedero rules add uber Transporte
  monedero rules add payroll Salario --type income`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rule := model.Rule{Pattern: args[0], Category: args[1]}
			if txType != "" {
				parsed, err := model.ParseTransactionType(txType)
				if err != nil {
					return err
				}
				rule.Type = &parsed
			}

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stored, err := eng.AddRule(ctx, rule)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Added rule #%d: %q -> %s", stored.ID, stored.Pattern, stored.Category)))
			warnUnknownCategory(ctx, store, stored.Category)
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "", "restrict the inferred type: income or expense")

	return cmd
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
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

			if err := eng.RemoveRule(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted rule #%d.", id)))
			return nil
		},
	}
}
