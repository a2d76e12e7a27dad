// Package listeners holds reactions to domain events.
package listeners

import (
	"context"

	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/event"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
)

// Register wires every listener onto bus.
func Register(bus *event.Bus) {
	bus.Listen(models.EventProductSaved, LogProductSaved)
}

// LogProductSaved announces a newly stored product.
func LogProductSaved(ctx context.Context, payload interface{}) {
	p, ok := payload.(models.Product)
	if !ok {
		logger.WithCtx(ctx).Warn("listeners: unexpected payload", "event", models.EventProductSaved)
		return
	}
	logger.WithCtx(ctx).Info("Data saved for "+p.Name, "id", p.ID.Hex(), "status", string(p.Status))
}
