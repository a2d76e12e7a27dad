package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/stockroom/pkg/validate"
)

var productValidator = validate.New(map[string]string{
	"required": "Path `{PATH}` is required.",
	"present":  "Path `{PATH}` is required.",
})

// PrepareProduct validates in and returns the document to insert, with a new
// identifier, timestamps set to now and the stock status derived. Name
// uniqueness is left to the store's unique index.
func PrepareProduct(in ProductInput, now time.Time) (*Product, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}

	if errs := productValidator.Struct(in); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}

	// BSON dates carry millisecond precision.
	ts := now.UTC().Truncate(time.Millisecond)

	p := &Product{
		ID:          primitive.NewObjectID(),
		Name:        *in.Name,
		Description: *in.Description,
		Price:       *in.Price,
		Unit:        Unit(*in.Unit),
		Quantity:    int64(*in.Quantity),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if in.Status != nil {
		p.Status = Status(*in.Status)
	}

	ApplyStockStatus(p)
	return p, nil
}

// ApplyStockStatus marks an empty product out of stock. It never moves a
// product back in stock when quantity is positive.
func ApplyStockStatus(p *Product) {
	if p.Quantity == 0 {
		p.Status = StatusOutOfStock
	}
}

// ParseProductID converts a hex identifier, failing with a LookupError.
func ParseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &LookupError{ID: id, Err: err}
	}
	return oid, nil
}
