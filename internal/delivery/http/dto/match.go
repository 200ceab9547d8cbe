package dto

import "github.com/google/uuid"

type CandidateResponse struct {
	UserID        uuid.UUID `json:"userId"`
	UserName      string    `json:"userName"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Gender        string    `json:"gender"`
	SkillsOffered []string  `json:"skillsOffered"`
	SkillsWanted  []string  `json:"skillsWanted"`
	Score         int       `json:"score"`
}

type MatchHistoryResponse struct {
	User1ID     uuid.UUID          `json:"user1Id"`
	User2ID     uuid.UUID          `json:"user2Id"`
	MatchedDate string             `json:"matchedDate"`
	OtherUser   *CandidateResponse `json:"otherUser"`
}

type MatchStatsResponse struct {
	Count int64 `json:"count"`
}
