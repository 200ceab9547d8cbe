package dto

import "github.com/google/uuid"

type SwipeRequest struct {
	UserID       uuid.UUID `json:"userId"`
	SwipedUserID uuid.UUID `json:"swipedUserId"`
	Action       string    `json:"action"`
}

type MatchResponse struct {
	User1ID     uuid.UUID `json:"user1Id"`
	User2ID     uuid.UUID `json:"user2Id"`
	MatchedDate string    `json:"matchedDate"`
}

type SwipeResponse struct {
	Matched bool           `json:"matched"`
	Match   *MatchResponse `json:"match,omitempty"`
}
