// seed loads a product catalog into MongoDB.
//
//	seed [--file catalog.yaml] [--count 50] [--drop] [--seed N]
//
// Without --file the embedded catalog is used. MONGODB_URI and MONGO_DB are
// read from the environment.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"

	"github.com/threadline/storefront/internal/infrastructure/config"
	"github.com/threadline/storefront/internal/infrastructure/db/mongo"
	"github.com/threadline/storefront/internal/infrastructure/seed"
	"github.com/threadline/storefront/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		file     string
		count    int
		drop     bool
		seedVal  uint64
		logLevel string
	)

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVarP(&file, "file", "f", "", "catalog YAML file (default: embedded catalog)")
	flagSet.IntVarP(&count, "count", "n", 50, "number of products to generate from the catalog templates")
	flagSet.BoolVar(&drop, "drop", false, "delete existing products before inserting")
	flagSet.Uint64Var(&seedVal, "seed", 0, "random seed for generated products (default: current time)")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("--count must not be negative, got %d", count)
	}

	log := logger.Init(logger.Options{Level: logLevel, Pretty: true, Service: "storefront-seed", Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var cfg config.MongoConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	catalog, err := loadCatalog(file)
	if err != nil {
		return err
	}
	if seedVal == 0 {
		seedVal = uint64(time.Now().UnixNano())
	}
	products := catalog.Generate(count, rand.New(rand.NewPCG(seedVal, seedVal)))

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Database).Msg("connected to mongodb")

	repo := mongo.NewProductRepository(db)
	if drop {
		deleted, err := repo.DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("drop products: %w", err)
		}
		log.Info().Int64("deleted", deleted).Msg("existing products removed")
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	inserted, err := repo.InsertMany(ctx, products)
	if err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	log.Info().Int("inserted", inserted).Uint64("seed", seedVal).Msg("catalog seeded")
	return nil
}

func loadCatalog(file string) (*seed.Catalog, error) {
	if file == "" {
		return seed.Default()
	}
	return seed.Load(file)
}
