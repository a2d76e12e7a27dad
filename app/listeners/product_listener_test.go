package listeners_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockroom/app/listeners"
	"github.com/shashiranjanraj/stockroom/app/models"
	"github.com/shashiranjanraj/stockroom/pkg/event"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
)

func capture() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	return logger.InjectLogger(context.Background(), log), &buf
}

func TestProductSavedIsLogged(t *testing.T) {
	bus := event.NewBus(nil)
	listeners.Register(bus)

	ctx, buf := capture()
	bus.Fire(ctx, models.EventProductSaved, models.Product{Name: "Rice", Status: models.StatusOutOfStock})

	assert.Contains(t, buf.String(), `msg="Data saved for Rice"`)
	assert.Contains(t, buf.String(), "status=out-of-stock")
}

func TestUnexpectedPayloadIsIgnored(t *testing.T) {
	ctx, buf := capture()
	listeners.LogProductSaved(ctx, "Rice")

	assert.Contains(t, buf.String(), "unexpected payload")
	assert.NotContains(t, buf.String(), "Data saved")
}
