// Package main walks through the whole shop module: it seeds members
// and books, places and cancels orders, and renders the order report --
// once with the naive per-order line loading and once with the batched
// variant, printing the query count of each so the difference is visible.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shoplab/ordershop-go/example/shared/config"
	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/orderservice"
	"github.com/shoplab/ordershop-go/shop/sqlengine"
)

// queryCounter counts the SQL statements the store issues, so the demo
// can show what each report variant costs.
type queryCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newQueryCounter() *queryCounter {
	return &queryCounter{counts: make(map[string]int)}
}

func (c *queryCounter) IncrementCounter(metric string, labels map[string]string) {
	if metric != "shopstore_queries_total" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[labels["operation"]]++
}

func (c *queryCounter) RecordDuration(string, time.Duration, map[string]string) {}
func (c *queryCounter) RecordValue(string, float64, map[string]string)          {}

func (c *queryCounter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, count := range c.counts {
		total += count
	}

	return total
}

func (c *queryCounter) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]int)
}

var _ shop.MetricsCollector = (*queryCounter)(nil)

func buildStore(counter *queryCounter, logger *slog.Logger) (*sqlengine.Store, error) {
	options := []sqlengine.Option{
		sqlengine.WithLogger(logger),
		sqlengine.WithMetrics(counter),
	}

	// The demo runs on an in-memory database by default; point it at a
	// real database with SHOP_DB=postgres (see SHOP_POSTGRES_DSN).
	if os.Getenv("SHOP_DB") == "postgres" {
		return sqlengine.NewStoreFromSQLDB(config.PostgresSQLDBConfig(), options...)
	}

	options = append(options, sqlengine.WithDialect(sqlengine.DialectSQLite))

	return sqlengine.NewStoreFromSQLDB(config.SQLiteInMemoryConfig(), options...)
}

func seed(ctx context.Context, store *sqlengine.Store) ([]*shop.Member, []*shop.Book, error) {
	members := []*shop.Member{
		shop.BuildMember("userA", shop.BuildAddress("Seoul", "1", "1111")),
		shop.BuildMember("userB", shop.BuildAddress("Jinju", "2", "2222")),
	}
	books := []*shop.Book{
		shop.BuildBook("JPA1 BOOK", 10000, 10, "Kim Young-han", "978-89-6626-241-1"),
		shop.BuildBook("JPA2 BOOK", 20000, 20, "Kim Young-han", "978-89-6626-242-8"),
		shop.BuildBook("SPRING1 BOOK", 20000, 200, "Craig Walls", "978-1-6172-9120-3"),
		shop.BuildBook("SPRING2 BOOK", 40000, 300, "Craig Walls", "978-1-6172-9254-5"),
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for _, member := range members {
		group.Go(func() error {
			return store.Members().Save(groupCtx, member)
		})
	}
	for _, book := range books {
		group.Go(func() error {
			return store.Items().SaveBook(groupCtx, book)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	return members, books, nil
}

func run() error {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	counter := newQueryCounter()

	store, err := buildStore(counter, logger)
	if err != nil {
		return err
	}

	if err = store.ApplyMigrations(ctx); err != nil {
		return err
	}

	members, books, err := seed(ctx, store)
	if err != nil {
		return err
	}

	service := orderservice.NewService(store)

	firstOrder, err := service.PlaceOrder(ctx, members[0].ID, books[0].ID, 3)
	if err != nil {
		return err
	}
	secondOrder, err := service.PlaceOrder(ctx, members[1].ID, books[2].ID, 2)
	if err != nil {
		return err
	}
	canceledOrder, err := service.PlaceOrder(ctx, members[1].ID, books[3].ID, 1)
	if err != nil {
		return err
	}

	if err = service.CancelOrder(ctx, canceledOrder); err != nil {
		return err
	}

	// Asking for more than the stock fails and changes nothing.
	if _, err = service.PlaceOrder(ctx, members[0].ID, books[1].ID, 999); err != nil {
		fmt.Printf("placing an oversized order failed as expected: %v\n", err)
	}

	fmt.Printf("placed orders %d and %d, canceled order %d\n\n", firstOrder, secondOrder, canceledOrder)

	counter.reset()
	naive, err := store.OrderQueries().FindOrderDtos(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("naive report:     %d orders in %d queries\n", len(naive), counter.total())

	counter.reset()
	optimized, err := store.OrderQueries().FindOrderDtosOptimized(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("optimized report: %d orders in %d queries\n\n", len(optimized), counter.total())

	report, err := sqlengine.EncodeOrderReport(optimized)
	if err != nil {
		return err
	}
	fmt.Println(string(report))

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
