package routes

import (
	"skill-barter/internal/delivery/http/handler"
	"skill-barter/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	swipe  *handler.SwipeHandler
	match  *handler.MatchHandler
	sync   *handler.SyncHandler
}

func NewRegistry(swipeUC usecase.SwipeUsecase, matchUC usecase.MatchUsecase, syncUC usecase.SyncUsecase) *Registry {
	return &Registry{
		health: handler.NewHealthHandler(),
		swipe:  handler.NewSwipeHandler(swipeUC),
		match:  handler.NewMatchHandler(matchUC),
		sync:   handler.NewSyncHandler(syncUC),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	r.swipe.RegisterRoutes(v1)
	r.match.RegisterRoutes(v1)
	r.sync.RegisterRoutes(v1)
}
