package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/migration"
)

// ProductsNameIndex is the unique index that arbitrates concurrent inserts
// of the same product name.
const ProductsNameIndex = "name_unique"

func init() {
	migration.Register("20260101000000_create_products_name_index", &CreateProductsNameIndex{})
}

type CreateProductsNameIndex struct{}

func (m *CreateProductsNameIndex) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(models.ProductCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName(ProductsNameIndex).SetUnique(true),
	})
	return err
}

func (m *CreateProductsNameIndex) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(models.ProductCollection).Indexes().DropOne(ctx, ProductsNameIndex)
	return err
}
