package handler

import (
	"time"

	"skill-barter/internal/delivery/http/dto"
	"skill-barter/internal/delivery/http/middleware"
	"skill-barter/internal/domain/profile"
	"skill-barter/internal/pkg/response"
	"skill-barter/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchUsecase
}

func NewMatchHandler(uc usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/matches")
	grp.Get("/top", h.TopMatches)
	grp.Get("/history", h.History)
	grp.Delete("/unmatch", h.Unmatch)

	r.Get("/stats/matches", h.Stats)
}

func (h *MatchHandler) TopMatches(c fiber.Ctx) error {
	userID, err := parseUserID(c, "userId")
	if err != nil {
		return err
	}

	ranked, err := h.uc.FindTopMatches(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.CandidateResponse, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, toCandidateResponse(r.Profile, r.Score))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchHandler) History(c fiber.Ctx) error {
	userID, err := parseUserID(c, "userId")
	if err != nil {
		return err
	}

	items, err := h.uc.MatchHistory(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.MatchHistoryResponse, 0, len(items))
	for _, it := range items {
		entry := dto.MatchHistoryResponse{
			User1ID:     it.User1ID,
			User2ID:     it.User2ID,
			MatchedDate: it.MatchedDate.Format(time.DateOnly),
		}
		if it.OtherUser != nil {
			c := toCandidateResponse(*it.OtherUser, 0)
			entry.OtherUser = &c
		}
		out = append(out, entry)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchHandler) Unmatch(c fiber.Ctx) error {
	user1ID, err := parseUserID(c, "user1Id")
	if err != nil {
		return err
	}
	user2ID, err := parseUserID(c, "user2Id")
	if err != nil {
		return err
	}

	if err := h.uc.Unmatch(c.Context(), user1ID, user2ID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *MatchHandler) Stats(c fiber.Ctx) error {
	n, err := h.uc.MatchesCount(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchStatsResponse{Count: n})
}

func parseUserID(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Query(key))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	return id, nil
}

func toCandidateResponse(p profile.SkillProfile, score int) dto.CandidateResponse {
	return dto.CandidateResponse{
		UserID:        p.UserID,
		UserName:      p.UserName,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Gender:        p.Gender,
		SkillsOffered: p.CleanOffered(),
		SkillsWanted:  p.CleanWanted(),
		Score:         score,
	}
}
