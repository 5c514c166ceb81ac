package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"devqa.backend/internal/config"
	"devqa.backend/internal/infrastructure/datasources/postgres"
	"github.com/joho/godotenv"
)

type migrateDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	open    func(cfg config.DatabaseConfig) (*sql.DB, error)
	migrate func(ctx context.Context, db *sql.DB, command string) error
	out     io.Writer
}

func defaultDeps() migrateDeps {
	return migrateDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		open:    postgres.NewConnection,
		migrate: postgres.Migrate,
		out:     os.Stdout,
	}
}

func main() {
	if err := run(context.Background(), os.Args[1:], defaultDeps()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, deps migrateDeps) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(deps.out)
	timeout := fs.Duration("timeout", 5*time.Minute, "abort when migrations take longer than this")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: migrate [-timeout d] [up|down|status]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	command := "up"
	if fs.NArg() > 0 {
		command = fs.Arg(0)
	}
	switch command {
	case "up", "down", "status":
	default:
		return fmt.Errorf("unknown command %q (want up, down or status)", command)
	}

	if err := deps.loadEnv(); err != nil {
		fmt.Fprintln(deps.out, "No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations target postgres, DB_DRIVER is %q", cfg.Database.Driver)
	}

	db, err := deps.open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()
	if err := deps.migrate(ctx, db, command); err != nil {
		return err
	}

	fmt.Fprintf(deps.out, "migrate %s: done\n", command)
	return nil
}
