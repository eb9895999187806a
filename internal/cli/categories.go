package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gastos/internal/backend"
	"gastos/internal/core"
	"gastos/internal/log"
)

var categoriesCmd = LeafCommand{
	Use:   "categories",
	Short: "List the category catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadAndValidateConfig()
		if err != nil {
			return err
		}
		bcfg, err := backend.FromAppConfig(cfg)
		if err != nil {
			return err
		}
		// notifications are irrelevant for a listing
		bcfg.AMQPURL = ""

		res, err := backend.NewFactory(log.Discard()).CreateBackend(cmd.Context(), bcfg)
		if err != nil {
			return err
		}
		defer res.Cleanup()

		return writeCategories(cmd.OutOrStdout(), res.Catalog.All())
	},
}.Build()

func writeCategories(out io.Writer, defs []core.CategoryDef) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tTITLE\tKIND\tCOLOR")
	for _, d := range defs {
		kind := "income"
		if d.IsExpense {
			kind = "expense"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Key, d.Title, kind, d.ColorHex)
	}
	return tw.Flush()
}
