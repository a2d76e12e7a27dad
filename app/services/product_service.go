package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

// ProductStore persists products.
type ProductStore interface {
	Insert(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// ProductCache holds fetched products. Products never change after insert,
// so entries only expire.
type ProductCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Dispatcher fires events without waiting for listeners.
type Dispatcher interface {
	FireAsync(ctx context.Context, event string, payload interface{})
}

type ProductService struct {
	store  ProductStore
	cache  ProductCache
	events Dispatcher
	ttl    time.Duration
	now    func() time.Time
}

func NewProductService(store ProductStore, cache ProductCache, events Dispatcher, ttl time.Duration) *ProductService {
	return &ProductService{
		store:  store,
		cache:  cache,
		events: events,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for timestamps.
func (s *ProductService) WithClock(now func() time.Time) *ProductService {
	s.now = now
	return s
}

func productKey(id primitive.ObjectID) string {
	return "product:" + id.Hex()
}

// Create validates in, inserts the prepared record and announces it.
func (s *ProductService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	p, err := models.PrepareProduct(in, s.now())
	if err != nil {
		countValidation(err)
		return nil, err
	}

	if err := s.store.Insert(ctx, p); err != nil {
		countValidation(err)
		return nil, err
	}
	metrics.ProductsCreated.Inc()

	if err := s.cache.Set(ctx, productKey(p.ID), p, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("product: cache write failed", "id", p.ID.Hex(), "error", err)
	}

	s.events.FireAsync(ctx, models.EventProductSaved, *p)
	return p, nil
}

// FetchByID returns the product with id, or nil when none exists.
func (s *ProductService) FetchByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := models.ParseProductID(id)
	if err != nil {
		return nil, err
	}

	var cached models.Product
	if s.cache.Get(ctx, productKey(oid), &cached) {
		metrics.CacheHits.Inc()
		return &cached, nil
	}
	metrics.CacheMisses.Inc()

	p, err := s.store.FindByID(ctx, oid)
	if err != nil || p == nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, productKey(oid), p, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("product: cache write failed", "id", id, "error", err)
	}
	return p, nil
}

func countValidation(err error) {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, fe := range verr.Fields {
		metrics.ValidationFailures.WithLabelValues(fe.Field, fe.Rule).Inc()
	}
}
