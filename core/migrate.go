package core

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/rs/zerolog/log"

	"didacta-calendar/pkg/resources"
)

//go:embed migration/*.sql
var migrationFS embed.FS

// Migrate applies the embedded migrations in name order, each once.
func Migrate(ctx context.Context, pool resources.DBInstance) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS migrations (name TEXT PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("cannot create migrations table: %w", err)
	}

	names, err := fs.Glob(migrationFS, "migration/*.sql")
	if err != nil {
		return fmt.Errorf("cannot list migrations: %w", err)
	}

	sort.Strings(names)

	for _, name := range names {
		err = migrateFile(ctx, pool, name)
		if err != nil {
			return fmt.Errorf("migration error: name=%q err=%w", name, err)
		}
	}

	return nil
}

func migrateFile(ctx context.Context, pool resources.DBInstance, name string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var n int

	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM migrations WHERE name = $1`, name).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to check migration: %w", err)
	}

	if n != 0 {
		log.Ctx(ctx).Debug().Str("component", "migrate").Str("migration", name).Msg("already applied")
		return nil
	}

	buf, err := fs.ReadFile(migrationFS, name)
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}

	_, err = tx.Exec(ctx, string(buf))
	if err != nil {
		return fmt.Errorf("failed to apply migration: %w", err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO migrations (name) VALUES ($1)`, name)
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	log.Ctx(ctx).Info().Str("component", "migrate").Str("migration", name).Msg("applied")

	return tx.Commit(ctx)
}
