package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/noah-isme/sma-syllabus-api/migrations"
	"github.com/noah-isme/sma-syllabus-api/pkg/config"
	"github.com/noah-isme/sma-syllabus-api/pkg/database"
	"github.com/noah-isme/sma-syllabus-api/pkg/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate COMMAND [ARGS...]")
	fmt.Fprintln(os.Stderr, "  up | up-by-one | down | redo | reset | status | version")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(context.Background(), cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logr.Sugar().Fatalw("goose dialect", "error", err)
	}

	if err := goose.Run(args[0], db.DB, migrations.Dir, args[1:]...); err != nil {
		logr.Sugar().Fatalw("migration failed", "command", args[0], "error", err)
	}
	logr.Sugar().Infow("migration finished", "command", args[0])
}
