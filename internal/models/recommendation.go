// internal/models/recommendation.go
package models

// Recommendation is the gateway's answer to a mood description.
type Recommendation struct {
	ProductID string `json:"recommendedCookieId"`
	Reason    string `json:"reason"`
}

type RecommendationRequest struct {
	Mood string `json:"mood"`
}
