package handler

import (
	"time"

	"skill-barter/internal/delivery/http/dto"
	"skill-barter/internal/delivery/http/middleware"
	"skill-barter/internal/pkg/response"
	"skill-barter/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SwipeHandler struct {
	uc usecase.SwipeUsecase
}

func NewSwipeHandler(uc usecase.SwipeUsecase) *SwipeHandler {
	return &SwipeHandler{uc: uc}
}

func (h *SwipeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/swipe", h.Swipe)
}

func (h *SwipeHandler) Swipe(c fiber.Ctx) error {
	var req dto.SwipeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	res, err := h.uc.Swipe(c.Context(), usecase.SwipeInput{
		UserID:       req.UserID,
		SwipedUserID: req.SwipedUserID,
		Action:       req.Action,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.SwipeResponse{Matched: res.Matched}
	if res.Match != nil {
		out.Match = &dto.MatchResponse{
			User1ID:     res.Match.User1ID,
			User2ID:     res.Match.User2ID,
			MatchedDate: res.Match.MatchedDate.Format(time.DateOnly),
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
