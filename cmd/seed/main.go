package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nhp-platform/catalog/internal/categories"
	"github.com/nhp-platform/catalog/internal/storage"
	"github.com/nhp-platform/catalog/pkg/pagination"
)

const EnvDatabaseDSN = "DATABASE_DSN"

func main() {
	var (
		dsn      = flag.String("dsn", "", "Database connection string")
		blobs    = flag.String("blobs", ".data/blobs", "Filesystem blob storage base path")
		all      = flag.Bool("all", false, "Run all seeders")
		seedCats = flag.Bool("categories", false, "Seed categories")
		list     = flag.Bool("list", false, "List available seeders")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range listSeeders() {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	if *dsn == "" {
		*dsn = os.Getenv(EnvDatabaseDSN)
	}
	if *dsn == "" {
		log.Fatalf("database connection string required: use -dsn flag or %s env var", EnvDatabaseDSN)
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	env, err := buildEnvironment(db, *blobs)
	if err != nil {
		log.Fatalf("failed to build environment: %v", err)
	}

	ctx := context.Background()

	switch {
	case *all:
		if err := runAllSeeders(ctx, env); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("all seeders completed successfully")

	case *seedCats:
		if err := runSeeder(ctx, env, "categories"); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("categories seeded successfully")

	default:
		fmt.Println("usage: seed -dsn <connection-string> [-all|-categories] [-blobs <path>] [-list]")
		flag.PrintDefaults()
	}
}

func buildEnvironment(db *sql.DB, blobPath string) (*Environment, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.NewFilesystem(blobPath, logger)
	if err != nil {
		return nil, err
	}

	pageCfg := pagination.Config{}
	if err := pageCfg.Finalize(); err != nil {
		return nil, err
	}

	sys := categories.New(
		categories.NewRepository(db),
		storage.NewAssetStore(store),
		categories.NewValidator(),
		logger,
		pageCfg,
		".jpg",
		10<<20,
	)

	return &Environment{Categories: sys}, nil
}
