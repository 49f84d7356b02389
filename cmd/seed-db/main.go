// Command seed-db creates the database schema and loads the product catalog.
// By default it loads the embedded default catalog; pass --products-file to
// load a custom one. Existing products with the same ID are overwritten.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/outdoor-shop/db"
	"github.com/xenking/outdoor-shop/internal/domain/product"
	"github.com/xenking/outdoor-shop/internal/storage/postgres"
)

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		onlyIfEmpty  bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "", "path to products JSON file (default: embedded catalog)")
	flag.BoolVar(&onlyIfEmpty, "only-if-empty", false, "skip seeding when the products table is not empty")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, onlyIfEmpty); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string, onlyIfEmpty bool) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewProductRepository(pool)

	if onlyIfEmpty {
		count, err := repo.Count(ctx)
		if err != nil {
			return errors.Wrap(err, "count products")
		}
		if count > 0 {
			slog.Info("products table not empty, skipping", slog.Int64("count", count))
			return nil
		}
	}

	data := db.SeedProducts
	if productsFile != "" {
		slog.Info("reading products file", slog.String("path", productsFile))
		data, err = os.ReadFile(productsFile)
		if err != nil {
			return errors.Wrap(err, "read products file")
		}
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	for _, p := range products {
		err := repo.Upsert(ctx, product.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		})
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}
	}

	slog.Info("seeded products", slog.Int("count", len(products)))
	return nil
}
