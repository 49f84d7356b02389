// Command catalog-ingest bulk-loads supplier product feeds into the catalog.
//
// Feeds are gzip-compressed JSONL files, one product per line. Large feeds
// routinely repeat SKUs across files, so a bloom filter drops duplicates
// before they reach the database. A false positive skips a product at the
// configured rate; upserts make re-running the ingest safe, so the trade is
// acceptable for feed-sized inputs.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/outdoor-shop/internal/domain/product"
	"github.com/xenking/outdoor-shop/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.0001
	progressEvery = 100_000
)

type feedProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

func (p feedProduct) validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("empty product id")
	case strings.TrimSpace(p.Name) == "":
		return errors.New("empty product name")
	case p.Price.IsNegative():
		return errors.Errorf("negative price %s", p.Price)
	}
	return nil
}

// dedup is a concurrency-safe wrapper around the bloom filter. Scanner
// goroutines share one filter so duplicates across feed files are caught.
type dedup struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

func newDedup() *dedup {
	return &dedup{filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR)}
}

// seen reports whether id was already ingested, marking it as seen.
func (d *dedup) seen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter.TestAndAddString(id)
}

func main() {
	var (
		feedGlob    string
		databaseURL string
	)

	flag.StringVar(&feedGlob, "feeds", "data/*.jsonl.gz", "glob of gzipped JSONL product feed files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
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

	if err := run(ctx, feedGlob, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, feedGlob, databaseURL string) error {
	files, err := filepath.Glob(feedGlob)
	if err != nil {
		return errors.Wrap(err, "expand feed glob")
	}
	if len(files) == 0 {
		return errors.Errorf("no feed files match %s", feedGlob)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewProductRepository(pool)

	slog.Info("ingesting feeds", slog.Int("files", len(files)))

	// Scanner goroutines stream and dedupe each feed; a single writer
	// goroutine owns the database so upserts are not interleaved.
	products := make(chan product.Product, 1024)
	dd := newDedup()

	g, ctx := errgroup.WithContext(ctx)

	scanners, scanCtx := errgroup.WithContext(ctx)
	for _, f := range files {
		scanners.Go(scanFeed(scanCtx, f, dd, products))
	}
	g.Go(func() error {
		defer close(products)
		return scanners.Wait()
	})
	g.Go(writeProducts(ctx, repo, products))

	return g.Wait()
}

// scanFeed streams one gzipped JSONL feed, validates each line, drops
// duplicates, and forwards the rest to the writer.
func scanFeed(ctx context.Context, path string, dd *dedup, out chan<- product.Product) func() error {
	return func() error {
		name := filepath.Base(path)

		var total, dupes, invalid uint64
		err := streamGzLines(ctx, path, func(line []byte) error {
			total++
			if total%progressEvery == 0 {
				slog.Info("feed progress", slog.String("feed", name), slog.Uint64("lines", total))
			}

			var p feedProduct
			if err := json.Unmarshal(line, &p); err != nil {
				invalid++
				slog.Warn("skipping malformed line",
					slog.String("feed", name),
					slog.Uint64("line", total),
					slog.String("error", err.Error()),
				)
				return nil
			}
			if err := p.validate(); err != nil {
				invalid++
				slog.Warn("skipping invalid product",
					slog.String("feed", name),
					slog.String("id", p.ID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			if dd.seen(p.ID) {
				dupes++
				return nil
			}

			select {
			case out <- product.Product{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				ImageURL:    p.ImageURL,
			}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			return errors.Wrapf(err, "scan feed %s", name)
		}

		slog.Info("feed complete",
			slog.String("feed", name),
			slog.Uint64("lines", total),
			slog.Uint64("duplicates", dupes),
			slog.Uint64("invalid", invalid),
		)
		return nil
	}
}

// writeProducts drains the channel, upserting each product.
func writeProducts(ctx context.Context, repo *postgres.ProductRepository, in <-chan product.Product) func() error {
	return func() error {
		var written uint64
		for p := range in {
			if err := repo.Upsert(ctx, p); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}
			written++
			if written%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", written))
			}
		}
		slog.Info("write complete", slog.Uint64("written", written))
		return nil
	}
}

// streamGzLines opens a gzip-compressed file and calls fn for each line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
