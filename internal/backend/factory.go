package backend

import (
	"context"
	"errors"
	"fmt"

	"gastos/internal/amqp"
	"gastos/internal/catalog"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend loads the catalog and connects the notifier. A notifier that
// cannot connect is logged and skipped; a catalog that cannot load is fatal.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var cleanups []CleanupFunc
	res := &Result{}

	switch config.CatalogType {
	case SQLiteCatalog:
		c, cleanup, err := f.loadSQLiteCatalog(ctx, config.CatalogDBPath)
		if err != nil {
			return nil, err
		}
		res.Catalog = c
		cleanups = append(cleanups, cleanup)
	case BuiltinCatalog:
		res.Catalog = catalog.Default()
		f.logger.Info("Using builtin catalog", "categories", res.Catalog.Len())
	}

	if config.AMQPURL != "" {
		attempts := max(config.AMQPAttempts, 1)
		client, err := amqp.NewClientWithRetry(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPQueue, attempts, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without notifications", log.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			res.Notifier = client
		}
	}

	res.Cleanup = func() error {
		var errs []error
		for _, c := range cleanups {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return res, nil
}

func (f *DefaultFactory) loadSQLiteCatalog(ctx context.Context, dbPath string) (*catalog.Catalog, CleanupFunc, error) {
	repo, err := storage.OpenCatalog(ctx, dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog database: %w", err)
	}
	defs, err := repo.LoadCategories(ctx)
	if err != nil {
		repo.Close()
		return nil, nil, fmt.Errorf("load categories: %w", err)
	}
	c, err := catalog.New(defs)
	if err != nil {
		repo.Close()
		return nil, nil, fmt.Errorf("build catalog: %w", err)
	}

	f.logger.Info("Loaded catalog from SQLite", "db_path", dbPath, "categories", c.Len())
	return c, repo.Close, nil
}
