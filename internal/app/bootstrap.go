package app

import (
	"fmt"
	"strings"

	"skill-barter/internal/config"
	"skill-barter/internal/delivery/http/middleware"
	"skill-barter/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container

	stopSync func()
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	f.Use(middleware.NewErrorMiddleware().Middleware())
	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())

	routes.NewRegistry(c.SwipeUC, c.MatchUC, c.SyncUC).Register(f)

	app := &App{Fiber: f, Container: c}
	app.stopSync = startSyncScheduler(c.SyncUC, cfg.Sync.Interval, c.Logger)

	cleanup := func() error {
		if app.stopSync != nil {
			app.stopSync()
		}
		return c.Close()
	}
	return app, cleanup, nil
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
