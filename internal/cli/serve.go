package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gastos/internal/backend"
	"gastos/internal/config"
	"gastos/internal/core"
	apphttp "gastos/internal/http"
	"gastos/internal/ledger"
	"gastos/internal/log"
	"gastos/internal/services"
)

var serveCmd = LeafCommand{
	Use:   "serve",
	Short: "Run the ledger HTTP API",
	StrFlags: []StringFlag{
		{Name: "month", Usage: "initial month as yyyy-mm (defaults to the current month)"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadAndValidateConfig()
		if err != nil {
			return err
		}
		var month core.MonthID
		if s, _ := cmd.Flags().GetString("month"); s != "" {
			if month, err = core.ParseMonthID(s); err != nil {
				return err
			}
		}
		logger := SetupLogger(cfg.LogLevel, os.Stdout)

		ctx, stop := ShutdownContext(cmd.Context())
		defer stop()
		return runServe(ctx, cfg, month, logger)
	},
}.Build()

// runServe serves until ctx is cancelled, then shuts down within
// cfg.ShutdownTimeout.
func runServe(ctx context.Context, cfg *config.Config, month core.MonthID, logger *log.Logger) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentStorage)).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	svc := services.NewLedgerService(res.Catalog, services.Options{
		Month:    month,
		Locale:   cfg.Locale,
		Notifier: res.Notifier,
		Logger:   logger,
	})
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Ledger close failed", log.FieldError, err)
		}
	}()

	if cfg.SeedDemo {
		if err := svc.ReplaceAll(ctx, ledger.DefaultSeed(time.Now())); err != nil {
			return err
		}
	}

	srv := apphttp.NewServer(cfg.Addr(), svc, apphttp.Options{
		Logger:    logger,
		Locale:    cfg.Locale,
		Currency:  cfg.Currency,
		RateLimit: cfg.RateLimit,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting gastos server",
			"addr", cfg.Addr(),
			"catalog", cfg.CatalogBackend,
			"month", svc.Snapshot().Month.String(),
			"notifier", res.Notifier != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
