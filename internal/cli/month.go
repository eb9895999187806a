package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gastos/internal/config"
	"gastos/internal/core"
)

var monthCmd = LeafCommand{
	Use:   "month [yyyy-mm]",
	Short: "Print a month id and its label",
	Long: "Print a month id and its label. Without an argument the current month is used;\n" +
		"--next and --previous step one month from it.",
	Args: cobra.MaximumNArgs(1),
	BoolFlags: []BoolFlag{
		{Name: "next", Usage: "step to the following month"},
		{Name: "previous", Usage: "step to the preceding month"},
	},
	StrFlags: []StringFlag{
		{Name: "locale", Usage: "label locale (defaults to LOCALE)"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		next, _ := cmd.Flags().GetBool("next")
		previous, _ := cmd.Flags().GetBool("previous")
		locale, _ := cmd.Flags().GetString("locale")
		if locale == "" {
			locale = config.Load().Locale
		}
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		return runMonth(cmd, arg, next, previous, locale)
	},
}.Build()

func runMonth(cmd *cobra.Command, arg string, next, previous bool, locale string) error {
	if next && previous {
		return errors.New("--next and --previous are mutually exclusive")
	}

	m := core.CurrentMonth()
	if arg != "" {
		parsed, err := core.ParseMonthID(arg)
		if err != nil {
			return err
		}
		m = parsed
	}
	switch {
	case next:
		m = m.Next()
	case previous:
		m = m.Previous()
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", m, m.Label(locale))
	return err
}
