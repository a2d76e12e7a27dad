package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/ctx"
)

const (
	msgInserted    = "Data inserted successfully!"
	msgNotInserted = "Data is not inserted"
	msgNotFetched  = "can't get the data"
)

// ProductService is what the controller needs from services.ProductService.
type ProductService interface {
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	FetchByID(ctx context.Context, id string) (*models.Product, error)
}

type ProductController struct {
	service ProductService
}

func NewProductController(service ProductService) *ProductController {
	return &ProductController{service: service}
}

// Store handles POST /api/v1/product.
func (pc *ProductController) Store(c *ctx.Context) {
	var in models.ProductInput
	if err := c.BindJSON(&in); err != nil {
		c.Fail(http.StatusBadRequest, msgNotInserted, err)
		return
	}

	p, err := pc.service.Create(c.Context(), in)
	if err != nil {
		logFailure(c, "product: create failed", err)
		c.Fail(http.StatusBadRequest, msgNotInserted, err)
		return
	}

	c.Success(msgInserted, p)
}

// Show handles GET /api/v1/product?id= and GET /api/v1/product/{id}.
// A well-formed id with no match answers success with null data.
func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.service.FetchByID(c.Context(), c.ParamOrQuery("id"))
	if err != nil {
		logFailure(c, "product: fetch failed", err)
		c.Fail(http.StatusBadRequest, msgNotFetched, err)
		return
	}

	if p == nil {
		c.Success("", nil)
		return
	}
	c.Success("", p)
}

// logFailure keeps client mistakes at debug and store trouble at error.
func logFailure(c *ctx.Context, msg string, err error) {
	var verr *models.ValidationError
	var lerr *models.LookupError
	if errors.As(err, &verr) || errors.As(err, &lerr) {
		c.Logger().Debug(msg, "error", err)
		return
	}
	c.Logger().Error(msg, "error", err)
}
