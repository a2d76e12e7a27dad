// Package migration runs versioned changes against the MongoDB database,
// mostly index management.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20260101000000_create_products_name_index", &CreateProductsNameIndex{})
//	}
//
//	type CreateProductsNameIndex struct{}
//	func (m *CreateProductsNameIndex) Up(ctx context.Context, db *mongo.Database) error { ... }
//	func (m *CreateProductsNameIndex) Down(ctx context.Context, db *mongo.Database) error { ... }
//
// Run from CLI:
//
//	stockroom migrate             // run all pending
//	stockroom migrate:rollback    // rollback last batch
package migration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/stockroom/pkg/logger"
)

// TrackingCollection records which migrations have run.
const TrackingCollection = "stockroom_migrations"

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(ctx context.Context, db *mongo.Database) error
	// Down reverses the migration.
	Down(ctx context.Context, db *mongo.Database) error
}

// Record is the document stored in the tracking collection.
type Record struct {
	Name  string    `bson:"name"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"runAt"`
}

// ------------------- Registry -------------------

type registered struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []registered
)

// Register adds a migration to the global registry. name should be
// timestamp-prefixed; pending migrations run sorted by name.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, registered{name: name, m: m})
}

func snapshot() []registered {
	mu.Lock()
	defer mu.Unlock()
	out := append([]registered(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db  *mongo.Database
	out io.Writer
}

// New creates a Runner that reports progress to out.
func New(db *mongo.Database, out io.Writer) *Runner {
	return &Runner{db: db, out: out}
}

func (r *Runner) tracking() *mongo.Collection {
	return r.db.Collection(TrackingCollection)
}

func (r *Runner) ran(ctx context.Context) (map[string]Record, error) {
	cur, err := r.tracking().Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}

	out := make(map[string]Record, len(records))
	for _, rec := range records {
		out[rec.Name] = rec
	}
	return out, nil
}

// Pending returns the names of migrations that have not yet been run.
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	ran, err := r.ran(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration: fetch ran: %w", err)
	}

	var names []string
	for _, reg := range snapshot() {
		if _, ok := ran[reg.name]; !ok {
			names = append(names, reg.name)
		}
	}
	return names, nil
}

// Run executes all pending migrations in a single batch.
func (r *Runner) Run(ctx context.Context) error {
	ran, err := r.ran(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch ran: %w", err)
	}

	batch := 1
	for _, rec := range ran {
		if rec.Batch >= batch {
			batch = rec.Batch + 1
		}
	}

	count := 0
	for _, reg := range snapshot() {
		if _, ok := ran[reg.name]; ok {
			continue
		}

		logger.Info("migration: running", "name", reg.name)
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		if err := reg.m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		rec := Record{Name: reg.name, Batch: batch, RunAt: time.Now().UTC()}
		if _, err := r.tracking().InsertOne(ctx, rec); err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
		count++
	}

	if count == 0 {
		logger.Info("migration: nothing to migrate")
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	logger.Info("migration: done", "ran", count, "batch", batch)
	return nil
}

// Rollback reverses all migrations from the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) error {
	var last Record
	err := r.tracking().FindOne(ctx, bson.D{},
		options.FindOne().SetSort(bson.D{{Key: "batch", Value: -1}})).Decode(&last)
	if err == mongo.ErrNoDocuments {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration: find last batch: %w", err)
	}

	cur, err := r.tracking().Find(ctx, bson.D{{Key: "batch", Value: last.Batch}},
		options.Find().SetSort(bson.D{{Key: "name", Value: -1}}))
	if err != nil {
		return fmt.Errorf("migration: fetch batch %d: %w", last.Batch, err)
	}
	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return fmt.Errorf("migration: fetch batch %d: %w", last.Batch, err)
	}

	known := make(map[string]Migration)
	for _, reg := range snapshot() {
		known[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := known[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if _, err := r.tracking().DeleteOne(ctx, bson.D{{Key: "name", Value: rec.Name}}); err != nil {
			return fmt.Errorf("migration: forget %s: %w", rec.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}

	return nil
}

// Status prints all migrations and whether each has been run.
func (r *Runner) Status(ctx context.Context) error {
	ran, err := r.ran(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch ran: %w", err)
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, reg := range snapshot() {
		if rec, ok := ran[reg.name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}
