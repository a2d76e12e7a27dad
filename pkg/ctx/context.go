// Package ctx provides a request context for stockroom handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for the envelope responses:
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    p, err := pc.service.FetchByID(c.Context(), c.Param("id"))
//	    if err != nil {
//	        c.Fail(http.StatusBadRequest, "can't get the data", err)
//	        return
//	    }
//	    c.Success("", p)
//	}
//
//	// Register with ctx.Wrap:
//	api.Get("/product/{id}", "product.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/stockroom/pkg/bind"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/product/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// ParamOrQuery prefers the path parameter and falls back to the query string.
func (c *Context) ParamOrQuery(key string) string {
	if v := c.Param(key); v != "" {
		return v
	}
	return c.Query(key)
}

// Context returns the request's context.Context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Logger returns the request-scoped logger.
func (c *Context) Logger() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// BindJSON decodes the body into dest.
func (c *Context) BindJSON(dest any) error {
	return bind.JSON(c.W, c.R, dest)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// Success writes a 200 success envelope.
func (c *Context) Success(message string, data any) {
	c.status = http.StatusOK
	response.Success(c.W, message, data)
}

// Fail writes a fail envelope with err's text.
func (c *Context) Fail(code int, message string, err error) {
	c.status = code
	response.Fail(c.W, code, message, err)
}

// String writes a plain-text body.
func (c *Context) String(code int, body string) {
	c.status = code
	response.Text(c.W, code, body)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
