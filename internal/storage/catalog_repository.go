package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gastos/internal/core"

	_ "modernc.org/sqlite"
)

// CatalogRepository reads category definitions from a SQLite database whose
// schema and default rows come from the embedded migrations.
type CatalogRepository struct {
	db *sql.DB
}

// OpenCatalog opens (creating if needed) the database at dbPath and migrates it.
func OpenCatalog(ctx context.Context, dbPath string) (*CatalogRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &CatalogRepository{db: db}, nil
}

const listCategories = `SELECT key, title, color_hex, is_expense FROM categories ORDER BY position`

// LoadCategories returns every category in display order.
func (r *CatalogRepository) LoadCategories(ctx context.Context) ([]core.CategoryDef, error) {
	rows, err := r.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var defs []core.CategoryDef
	for rows.Next() {
		var (
			def       core.CategoryDef
			isExpense int64
		)
		if err := rows.Scan(&def.Key, &def.Title, &def.ColorHex, &isExpense); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		def.IsExpense = isExpense != 0
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return defs, nil
}

// Close releases the database handle.
func (r *CatalogRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
