package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/catalog"
	"gastos/internal/config"
	"gastos/internal/core"
	"gastos/internal/log"
)

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHasSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "categories")
	assert.Contains(t, names, "month")
	assert.Contains(t, names, "version")
	assert.Equal(t, "gastos", rootCmd.Use)
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.0.0", "abc1234", "2025-01-01")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	out, err := execRoot(t, "version")

	assert.NoError(t, err)
	assert.Equal(t, "gastos 1.0.0 (commit: abc1234, built: 2025-01-01)\n", out)
}

func TestLeafCommandBuild(t *testing.T) {
	cmd := LeafCommand{
		Use:   "test",
		Short: "A test command",
		Args:  cobra.ExactArgs(1),
		BoolFlags: []BoolFlag{
			{Name: "next", Usage: "step forward", Default: false},
		},
		StrFlags: []StringFlag{
			{Name: "locale", Usage: "locale", Default: "pt-BR"},
		},
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}.Build()

	assert.Equal(t, "test", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	next := cmd.Flags().Lookup("next")
	require.NotNil(t, next)
	assert.Equal(t, "false", next.DefValue)

	locale := cmd.Flags().Lookup("locale")
	require.NotNil(t, locale)
	assert.Equal(t, "pt-BR", locale.DefValue)
}

func TestRunMonth(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		next     bool
		previous bool
		locale   string
		want     string
		wantErr  bool
	}{
		{name: "explicit month", arg: "2025-03", locale: "pt-BR", want: "2025-03  Mar/2025\n"},
		{name: "next rolls the year", arg: "2024-12", next: true, locale: "pt-BR", want: "2025-01  Jan/2025\n"},
		{name: "previous rolls the year", arg: "2025-01", previous: true, locale: "pt-BR", want: "2024-12  Dez/2024\n"},
		{name: "english label", arg: "2025-05", locale: "en", want: "2025-05  May/2025\n"},
		{name: "invalid month", arg: "2025-13", locale: "en", wantErr: true},
		{name: "both directions", arg: "2025-01", next: true, previous: true, locale: "en", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)

			err := runMonth(cmd, tt.arg, tt.next, tt.previous, tt.locale)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRunMonthInvalidFormatIsSentinel(t *testing.T) {
	err := runMonth(&cobra.Command{}, "march", false, false, "en")
	assert.ErrorIs(t, err, core.ErrInvalidFormat)
}

func TestRunMonthDefaultsToCurrent(t *testing.T) {
	cmd := &cobra.Command{}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	require.NoError(t, runMonth(cmd, "", false, false, "en"))
	assert.True(t, strings.HasPrefix(buf.String(), core.CurrentMonth().String()))
}

func TestMonthCommand(t *testing.T) {
	out, err := execRoot(t, "month", "2025-01", "--next=false", "--previous=true", "--locale=en")

	require.NoError(t, err)
	assert.Equal(t, "2024-12  Dec/2024\n", out)
}

func TestWriteCategories(t *testing.T) {
	buf := new(bytes.Buffer)

	require.NoError(t, writeCategories(buf, catalog.Default().All()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, catalog.Default().Len()+1)
	assert.Contains(t, lines[0], "KEY")
	assert.Contains(t, lines[1], "salary")
	assert.Contains(t, lines[1], "income")
	assert.Contains(t, buf.String(), "expense")
}

func TestCategoriesCommandBuiltin(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "builtin")
	t.Setenv("AMQP_URL", "")

	out, err := execRoot(t, "categories")

	require.NoError(t, err)
	assert.Contains(t, out, "rent")
	assert.Contains(t, out, "#C62828")
}

func TestCategoriesCommandInvalidConfig(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "postgres")

	_, err := execRoot(t, "categories")

	assert.ErrorContains(t, err, "invalid catalog backend")
}

func TestRunServeStopsOnCancel(t *testing.T) {
	cfg := config.Load()
	cfg.Port = "0"
	cfg.CatalogBackend = config.CatalogBuiltin
	cfg.AMQPURL = ""
	cfg.ShutdownTimeout = time.Second
	cfg.SeedDemo = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg, core.MonthID{}, log.Discard()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after cancellation")
	}
}
