package handler

import (
	"skill-barter/internal/pkg/response"
	"skill-barter/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SyncHandler struct {
	uc usecase.SyncUsecase
}

func NewSyncHandler(uc usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

func (h *SyncHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/sync/user", h.SyncUser)
}

func (h *SyncHandler) SyncUser(c fiber.Ctx) error {
	userID, err := parseUserID(c, "userId")
	if err != nil {
		return err
	}

	if err := h.uc.SyncUser(c.Context(), userID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
