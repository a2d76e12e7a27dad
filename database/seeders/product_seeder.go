package seeders

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/stockroom/app/models"
)

func init() {
	Register("products", SeedProducts)
}

type sample struct {
	name, description, unit string
	price, quantity         float64
	status                  string
}

var samples = []sample{
	{"Rice", "Basmati", "kg", 50, 0, ""},
	{"Sunflower Oil", "Cold pressed, 1 litre bottle", "litre", 180, 24, "in-stock"},
	{"Eggs", "Free range, tray of 30", "pcs", 6.5, 300, "in-stock"},
	{"Jaggery", "Organic cane jaggery", "kg", 90, 12, "discontinued"},
}

// SeedProducts inserts the sample catalogue. Products that already exist
// are skipped so the seeder can run repeatedly.
func SeedProducts(ctx context.Context, products ProductCreator) error {
	for _, s := range samples {
		in := models.ProductInput{
			Name:        ptr(s.name),
			Description: ptr(s.description),
			Price:       ptr(s.price),
			Unit:        ptr(s.unit),
			Quantity:    ptr(s.quantity),
		}
		if s.status != "" {
			in.Status = ptr(s.status)
		}

		if _, err := products.Create(ctx, in); err != nil {
			if errors.Is(err, models.ErrDuplicateName) {
				continue
			}
			return err
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
