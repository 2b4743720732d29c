// Command migrate applies the goose migrations under MIGRATIONS_DIR.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bookstock/internal/config"
)

const commands = "up, down, status, version, create"

func main() {
	command := flag.String("command", "up", "one of: "+commands)
	name := flag.String("name", "", "migration name for -command=create")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *command == "create" {
		if err := create(cfg.MigrationsDir, *name); err != nil {
			log.Fatalf("migrate create: %v", err)
		}
		return
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("connect %s: %v", cfg.RedactedDSN(), err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	m := migrator{db: db, dir: cfg.MigrationsDir}
	if err := m.run(*command); err != nil {
		log.Fatalf("migrate %s: %v", *command, err)
	}
}

func create(dir, name string) error {
	if name == "" {
		return fmt.Errorf("-name is required")
	}
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return err
	}
	log.Printf("migration created name=%s dir=%s", name, dir)
	return nil
}

type migrator struct {
	db  *sql.DB
	dir string
}

func (m migrator) run(command string) error {
	var step func() error
	switch command {
	case "up":
		step = func() error { return goose.Up(m.db, m.dir) }
	case "down":
		step = func() error { return goose.Down(m.db, m.dir) }
	case "status":
		step = func() error { return goose.Status(m.db, m.dir) }
	case "version":
		step = func() error { return goose.Version(m.db, m.dir) }
	default:
		return fmt.Errorf("unknown command %q, use one of: %s", command, commands)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := step(); err != nil {
		return err
	}
	log.Printf("migrate %s done dir=%s", command, m.dir)
	return nil
}
