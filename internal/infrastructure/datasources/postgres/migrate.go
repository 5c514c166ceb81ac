package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	gooseUpContext     = goose.UpContext
	gooseDownContext   = goose.DownContext
	gooseStatusContext = goose.StatusContext
)

func setupGoose() error {
	goose.SetBaseFS(migrationsFS)
	return goose.SetDialect("postgres")
}

// Migrate applies the embedded migrations. command is up, down or status.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	if err := setupGoose(); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = gooseUpContext(ctx, db, "migrations")
	case "down":
		err = gooseDownContext(ctx, db, "migrations")
	case "status":
		err = gooseStatusContext(ctx, db, "migrations")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
