package routes

import (
	"skill-atlas/internal/delivery/http/handler"
	v1 "skill-atlas/internal/delivery/http/routes/v1"
	"skill-atlas/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	wsh    *ws.Handler
	deps   v1.Deps
}

func NewRegistry(health *handler.HealthHandler, wsh *ws.Handler, deps v1.Deps) *Registry {
	return &Registry{health: health, wsh: wsh, deps: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	if r.wsh != nil {
		app.Get("/ws/tree", r.wsh.HandleTreeWS)
	}

	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.deps)
}
