package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/osse101/Crucible_Go/migrations"
)

// Migrate applies every pending migration from fsys to the database at connString.
// A nil fsys uses the migrations embedded in the binary.
func Migrate(ctx context.Context, connString string, fsys fs.FS) error {
	if fsys == nil {
		fsys = migrations.FS
	}

	db, err := sql.Open(MigrationDriver, connString)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToOpenMigrationDB, err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLoadMigrations, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToApplyMigrations, err)
	}

	for _, r := range results {
		slog.Default().Info(LogMsgMigrationApplied, "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}
	return nil
}
