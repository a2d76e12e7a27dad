package kernel_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockroom/app/controllers"
	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/internal/kernel"
	"github.com/shashiranjanraj/stockroom/pkg/reqid"
)

type nopService struct{}

func (nopService) Create(context.Context, models.ProductInput) (*models.Product, error) {
	return nil, nil
}

func (nopService) FetchByID(context.Context, string) (*models.Product, error) {
	return nil, nil
}

func newKernel(t *testing.T, rate int) *kernel.HTTPKernel {
	k := kernel.NewHTTPKernel(controllers.NewProductController(nopService{}), controllers.NewHomeController(), rate)
	t.Cleanup(k.Close)
	return k
}

func TestKernelRoutes(t *testing.T) {
	var got []string
	for _, r := range newKernel(t, 10).Routes() {
		got = append(got, r.Method+" "+r.Path)
	}

	assert.Equal(t, []string{
		"GET /",
		"GET /api/v1/product",
		"POST /api/v1/product",
		"GET /api/v1/product/{id}",
		"GET /metrics",
	}, got)
}

func TestKernelMiddlewareStack(t *testing.T) {
	h := newKernel(t, 10).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestKernelNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newKernel(t, 10).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"fail","message":"Not found"}`, rec.Body.String())
}

func TestKernelRateLimit(t *testing.T) {
	h := newKernel(t, 1).Handler()

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
