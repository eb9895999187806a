// Package backend assembles the collaborators the ledger depends on: the
// category catalog and, optionally, the snapshot notifier.
package backend

import (
	"context"

	"gastos/internal/catalog"
	"gastos/internal/services"
)

// CleanupFunc releases resources acquired while building a backend.
type CleanupFunc func() error

// Result holds what the factory built. Notifier is nil when AMQP is disabled
// or unreachable.
type Result struct {
	Catalog  *catalog.Catalog
	Notifier services.Notifier
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// CatalogType selects where categories come from.
type CatalogType string

const (
	BuiltinCatalog CatalogType = "builtin"
	SQLiteCatalog  CatalogType = "sqlite"
)

func (ct CatalogType) String() string {
	return string(ct)
}

// IsValid returns true if the catalog type is known
func (ct CatalogType) IsValid() bool {
	switch ct {
	case BuiltinCatalog, SQLiteCatalog:
		return true
	default:
		return false
	}
}
