// Package web holds the presentation model for the browser client. Star
// rendering and owner-only controls are conveniences computed here; they are
// never authorization.
package web

import (
	"strings"

	"bookreviews-backend/domain/review"
)

const starWidth = 5

// ReviewView is a review decorated for display.
type ReviewView struct {
	review.Review
	Stars   string `json:"stars"`
	IsOwner bool   `json:"isOwner"`
}

// NewReviewView builds the render model for a review as seen by the caller
// identified by subject ("" for anonymous). Stars is always five characters
// wide: rating filled, remainder empty.
func NewReviewView(r review.Review, subject string) ReviewView {
	return ReviewView{
		Review:  r,
		Stars:   stars(r.Rating),
		IsOwner: subject != "" && subject == r.UserID,
	}
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > starWidth {
		rating = starWidth
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", starWidth-rating)
}
