// Package logger provides the service-wide structured logger built on log/slog.
//
// Handlers pull a request-scoped logger out of the context so every line is
// tagged with the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product stored", "name", p.Name)
//	// → time=... level=INFO msg="product stored" request_id=6f1c... name=Rice
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/stockroom/config"
)

var (
	mu   sync.RWMutex
	base slog.Handler

	// L is the process-wide logger. Replace it only through Attach.
	L *slog.Logger
)

func init() {
	var handler slog.Handler

	if config.IsProduction() {
		// structured JSON for log aggregators
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	setHandler(handler)
	base = handler
}

// Attach fans every subsequent record out to extra in addition to stdout.
// Loggers already injected into request contexts keep their old handler.
func Attach(extra slog.Handler) {
	mu.Lock()
	defer mu.Unlock()
	L = slog.New(NewMultiHandler(base, extra))
	slog.SetDefault(L)
}

// Detach drops any handler added with Attach.
func Detach() {
	mu.Lock()
	defer mu.Unlock()
	L = slog.New(base)
	slog.SetDefault(L)
}

func setHandler(h slog.Handler) {
	L = slog.New(h)
	slog.SetDefault(L)
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the logger stored by InjectLogger, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return current()
}

// InjectLogger stores log (usually pre-tagged with request_id) in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return L
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

func Debug(msg string, args ...any) { current().Debug(msg, args...) }

func Info(msg string, args ...any) { current().Info(msg, args...) }

func Warn(msg string, args ...any) { current().Warn(msg, args...) }

func Error(msg string, args ...any) { current().Error(msg, args...) }
