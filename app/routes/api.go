package routes

import (
	"github.com/shashiranjanraj/stockroom/app/controllers"
	"github.com/shashiranjanraj/stockroom/pkg/ctx"
	"github.com/shashiranjanraj/stockroom/pkg/router"
)

// RegisterAPI mounts the product endpoints under /api/v1.
func RegisterAPI(r *router.Router, products *controllers.ProductController) {
	v1 := r.Group("/api/v1")

	v1.Post("/product", "product.store", ctx.Wrap(products.Store))
	v1.Get("/product", "product.show", ctx.Wrap(products.Show))
	v1.Get("/product/{id}", "product.show.id", ctx.Wrap(products.Show))
}

// RegisterWeb mounts the root liveness page.
func RegisterWeb(r *router.Router, home *controllers.HomeController) {
	r.Get("/", "home", ctx.Wrap(home.Index))
}
