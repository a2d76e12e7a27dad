package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

// ProductRepository handles MongoDB operations for Product.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(col *mongo.Collection) *ProductRepository {
	return &ProductRepository{col: col}
}

// Insert persists a prepared product. A unique-index conflict on name is
// reported as a ValidationError wrapping models.ErrDuplicateName.
func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewDuplicateNameError(p.Name, err)
		}
		return fmt.Errorf("repositories: insert product: %w", err)
	}
	return nil
}

// FindByID looks a product up by identifier. A missing document yields
// (nil, nil).
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	var p models.Product
	err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repositories: find product %s: %w", id.Hex(), err)
	}
	return &p, nil
}

// Ping reports whether the collection's deployment answers.
func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}
