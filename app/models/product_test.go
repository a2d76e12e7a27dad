package models_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/app/models"
)

func ptr[T any](v T) *T { return &v }

func riceInput() models.ProductInput {
	return models.ProductInput{
		Name:        ptr("Rice"),
		Description: ptr("Basmati"),
		Price:       ptr(2.5),
		Unit:        ptr("kg"),
		Quantity:    ptr(10.0),
	}
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.FixedZone("IST", 19800))

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields.Map()
}

func TestPrepareProduct_Valid(t *testing.T) {
	p, err := models.PrepareProduct(riceInput(), now)
	require.NoError(t, err)

	assert.False(t, p.ID.IsZero())
	assert.Equal(t, "Rice", p.Name)
	assert.Equal(t, "Basmati", p.Description)
	assert.Equal(t, 2.5, p.Price)
	assert.Equal(t, models.UnitKg, p.Unit)
	assert.Equal(t, int64(10), p.Quantity)
	assert.Empty(t, p.Status)

	assert.Equal(t, time.UTC, p.CreatedAt.Location())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.True(t, p.CreatedAt.Equal(now.Truncate(time.Millisecond)))
}

func TestPrepareProduct_TrimsName(t *testing.T) {
	in := riceInput()
	in.Name = ptr("  Rice  ")

	p, err := models.PrepareProduct(in, now)
	require.NoError(t, err)
	assert.Equal(t, "Rice", p.Name)
}

func TestPrepareProduct_StockStatus(t *testing.T) {
	cases := []struct {
		name     string
		quantity float64
		status   *string
		want     models.Status
	}{
		{"zero quantity without status", 0, nil, models.StatusOutOfStock},
		{"zero quantity overrides in-stock", 0, ptr("in-stock"), models.StatusOutOfStock},
		{"zero quantity overrides discontinued", 0, ptr("discontinued"), models.StatusOutOfStock},
		{"positive quantity keeps status", 5, ptr("discontinued"), models.StatusDiscontinued},
		{"positive quantity keeps out-of-stock", 5, ptr("out-of-stock"), models.StatusOutOfStock},
		{"positive quantity without status", 5, nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := riceInput()
			in.Quantity = ptr(tc.quantity)
			in.Status = tc.status

			p, err := models.PrepareProduct(in, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Status)
		})
	}
}

func TestPrepareProduct_QuantityUpperBound(t *testing.T) {
	for _, q := range []float64{9007199254740992, 9.3e18, 1e20, 1e300} {
		in := riceInput()
		in.Quantity = ptr(q)

		p, err := models.PrepareProduct(in, now)
		require.Error(t, err, "quantity %g", q)
		assert.Nil(t, p)
		assert.Equal(t, "quantity is too large", validationFields(t, err)["quantity"])
	}

	in := riceInput()
	in.Quantity = ptr(9007199254740991.0)

	p, err := models.PrepareProduct(in, now)
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740991), p.Quantity)
	assert.Empty(t, p.Status)
}

func TestPrepareProduct_ZeroValuesArePresent(t *testing.T) {
	in := riceInput()
	in.Price = ptr(0.0)
	in.Quantity = ptr(0.0)
	in.Description = ptr("")

	p, err := models.PrepareProduct(in, now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, "", p.Description)
}

func TestPrepareProduct_FieldMessages(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.ProductInput)
		field  string
		want   string
	}{
		{"missing name", func(in *models.ProductInput) { in.Name = nil }, "name", "Please provide a name for this product"},
		{"blank name", func(in *models.ProductInput) { in.Name = ptr("   ") }, "name", "Please provide a name for this product"},
		{"short name", func(in *models.ProductInput) { in.Name = ptr("Ri") }, "name", "name must be at least 3 characters"},
		{"short after trim", func(in *models.ProductInput) { in.Name = ptr("  Ri  ") }, "name", "name must be at least 3 characters"},
		{"long name", func(in *models.ProductInput) { in.Name = ptr(strings.Repeat("a", 101)) }, "name", "Name is too large"},
		{"missing description", func(in *models.ProductInput) { in.Description = nil }, "description", "Path `description` is required."},
		{"missing price", func(in *models.ProductInput) { in.Price = nil }, "price", "Path `price` is required."},
		{"negative price", func(in *models.ProductInput) { in.Price = ptr(-1.0) }, "price", "price can't be negative"},
		{"missing unit", func(in *models.ProductInput) { in.Unit = nil }, "unit", "Path `unit` is required."},
		{"bad unit", func(in *models.ProductInput) { in.Unit = ptr("gallon") }, "unit", "unit value can't be gallon, must be kg/litre/pcs"},
		{"missing quantity", func(in *models.ProductInput) { in.Quantity = nil }, "quantity", "Path `quantity` is required."},
		{"negative quantity", func(in *models.ProductInput) { in.Quantity = ptr(-3.0) }, "quantity", "quantity can't be negative"},
		{"fractional quantity", func(in *models.ProductInput) { in.Quantity = ptr(3.5) }, "quantity", "Quantity must be an integer"},
		{"bad status", func(in *models.ProductInput) { in.Status = ptr("sold") }, "status", "status can't be sold"},
		{"empty status", func(in *models.ProductInput) { in.Status = ptr("") }, "status", "status can't be "},
		{"whitespace unit", func(in *models.ProductInput) { in.Unit = ptr("  ") }, "unit", "unit value can't be   , must be kg/litre/pcs"},
		{"empty unit", func(in *models.ProductInput) { in.Unit = ptr("") }, "unit", "Path `unit` is required."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := riceInput()
			tc.mutate(&in)

			p, err := models.PrepareProduct(in, now)
			require.Error(t, err)
			assert.Nil(t, p)

			fields := validationFields(t, err)
			assert.Len(t, fields, 1)
			assert.Equal(t, tc.want, fields[tc.field])
		})
	}
}

func TestPrepareProduct_NameLengthBounds(t *testing.T) {
	in := riceInput()
	in.Name = ptr("Tea")
	_, err := models.PrepareProduct(in, now)
	assert.NoError(t, err)

	in.Name = ptr(strings.Repeat("a", 100))
	_, err = models.PrepareProduct(in, now)
	assert.NoError(t, err)
}

func TestPrepareProduct_AggregatesErrors(t *testing.T) {
	in := riceInput()
	in.Price = ptr(-1.0)
	in.Unit = ptr("gallon")

	_, err := models.PrepareProduct(in, now)
	require.Error(t, err)
	assert.Equal(t,
		"Product validation failed: price: price can't be negative, unit: unit value can't be gallon, must be kg/litre/pcs",
		err.Error())
}

func TestPrepareProduct_EmptyInput(t *testing.T) {
	_, err := models.PrepareProduct(models.ProductInput{}, now)
	fields := validationFields(t, err)
	assert.Len(t, fields, 5)
	assert.NotContains(t, fields, "status")
}

func TestPrepareProduct_UniqueIDs(t *testing.T) {
	a, err := models.PrepareProduct(riceInput(), now)
	require.NoError(t, err)
	b, err := models.PrepareProduct(riceInput(), now)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestApplyStockStatus(t *testing.T) {
	p := &models.Product{Quantity: 0, Status: models.StatusInStock}
	models.ApplyStockStatus(p)
	assert.Equal(t, models.StatusOutOfStock, p.Status)

	p = &models.Product{Quantity: 4, Status: models.StatusOutOfStock}
	models.ApplyStockStatus(p)
	assert.Equal(t, models.StatusOutOfStock, p.Status, "status is never restored")
}

func TestDuplicateNameError(t *testing.T) {
	cause := errors.New("E11000 duplicate key error")
	err := models.NewDuplicateNameError("Rice", cause)

	assert.Equal(t, "Product validation failed: name: Name must be unique", err.Error())
	assert.ErrorIs(t, err, models.ErrDuplicateName)
	assert.ErrorIs(t, err, cause)
}

func TestParseProductID(t *testing.T) {
	oid, err := models.ParseProductID("65f1a2b3c4d5e6f7a8b9c0d1")
	require.NoError(t, err)
	assert.Equal(t, "65f1a2b3c4d5e6f7a8b9c0d1", oid.Hex())

	_, err = models.ParseProductID("123")
	var lerr *models.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, `Cast to ObjectId failed for value "123" (type string) at path "_id" for model "Product"`, err.Error())

	_, err = models.ParseProductID(`a"b é`)
	assert.Equal(t, `Cast to ObjectId failed for value "a"b é" (type string) at path "_id" for model "Product"`, err.Error())
}
