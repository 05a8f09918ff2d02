package app

import (
	"fmt"
	"strings"

	"skill-atlas/internal/config"
	"skill-atlas/internal/delivery/http/handler"
	"skill-atlas/internal/delivery/http/middleware"
	"skill-atlas/internal/delivery/http/routes"
	v1 "skill-atlas/internal/delivery/http/routes/v1"
	"skill-atlas/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	errMw := middleware.NewErrorMiddleware()
	f.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	f.Use(accessMw.Middleware())

	go c.Hub.Run()
	ws.SetDefaultHub(c.Hub)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		ws.NewHandler(c.Hub, c.Logger),
		v1.Deps{
			JWT:       c.JWT,
			Auth:      c.Auth,
			SkillSave: c.SkillSave,
			UserQuery: c.UserQuery,
			Tree:      c.Tree,
			Rebuild:   c.Rebuild,
			Analyze:   c.Analyze,
			Resources: c.Resources,
		},
	)
	registry.Register(f)

	cleanup := func() error {
		return c.Close()
	}
	return &App{Fiber: f, Container: c}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
