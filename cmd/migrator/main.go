package main

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/YusovID/okr-service/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

type MigrationCfg struct {
	ConnStr         string
	MigrationsPath  string
	MigrationsTable string
}

func main() {
	migrationsPath := pflag.String("path", os.Getenv("MIGRATIONS_PATH"), "directory with migration files")
	migrationsTable := pflag.String("table", envOr("MIGRATIONS_TABLE", "schema_migrations"), "migrations bookkeeping table")
	pflag.Parse()

	migration, err := Load(*migrationsPath, *migrationsTable)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	m, err := migrate.New("file://"+migration.MigrationsPath, migration.ConnStr)
	if err != nil {
		log.Fatalf("can't create new migration: %v", err)
	}

	switch cmd := pflag.Arg(0); cmd {
	case "down":
		if err := down(m); err != nil {
			log.Fatal(err)
		}

		fmt.Println("migrations rolled back successfully")
	case "", "up":
		if err := up(m); err != nil {
			log.Fatal(err)
		}

		fmt.Println("migrations applied successfully")
	default:
		log.Fatalf("unknown command %q, want up or down", cmd)
	}
}

func Load(migrationsPath, migrationsTable string) (*MigrationCfg, error) {
	if migrationsPath == "" {
		return nil, fmt.Errorf("migrations path is not set, use --path or MIGRATIONS_PATH")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	connURL, err := url.Parse(cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %v", err)
	}

	q := connURL.Query()
	q.Set("x-migrations-table", migrationsTable)
	connURL.RawQuery = q.Encode()

	return &MigrationCfg{
		ConnStr:         connURL.String(),
		MigrationsPath:  migrationsPath,
		MigrationsTable: migrationsTable,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("no new migrations to apply")
			return nil
		}

		return fmt.Errorf("can't do migrations: %v", err)
	}

	return nil
}

func down(m *migrate.Migrate) error {
	if err := m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("no migrations to roll back")
		}

		return fmt.Errorf("can't down migrations: %v", err)
	}

	return nil
}
