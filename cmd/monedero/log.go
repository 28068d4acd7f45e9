package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvidela/monedero/internal/cli"
)

func logCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the change log",
		Long: `Display the audit trail of ledger mutations, newest first.

Entries marked degraded were written while the store was unreachable and
exist only in this session's local cache.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, _, err := initEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries := eng.ChangeLog()
			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render("Change log is empty."))
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("When"),
				cli.HeaderStyle.Render("Action"),
				cli.HeaderStyle.Render("Detail"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 16),
				strings.Repeat("-", 11),
				strings.Repeat("-", 40))

			for _, entry := range entries {
				detail := entry.Detail
				if entry.Degraded {
					detail = cli.DegradedStyle.Render(detail)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					entry.Timestamp.Local().Format("2006-01-02 15:04"),
					entry.Kind,
					detail)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries (0 = all)")

	return cmd
}
