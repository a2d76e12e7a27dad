package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/stockroom/pkg/ctx"
)

type HomeController struct{}

func NewHomeController() *HomeController {
	return &HomeController{}
}

// Index is the liveness page.
func (hc *HomeController) Index(c *ctx.Context) {
	c.String(http.StatusOK, "Router is working! YaY")
}
