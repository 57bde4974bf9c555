// Package fixtures provides builders for test data with sensible defaults.
package fixtures

import (
	"github.com/google/uuid"

	"bookreviews-backend/domain/review"
)

// ReviewBuilder helps create test reviews with default values
type ReviewBuilder struct {
	r review.Review
}

func NewReviewBuilder() *ReviewBuilder {
	return &ReviewBuilder{
		r: review.Review{
			ID:         uuid.New().String(),
			BookID:     "the-go-programming-language",
			BookTitle:  "The Go Programming Language",
			AuthorName: "Alan Donovan",
			Rating:     5,
			ReviewText: "A thorough and readable treatment of the language.",
			UserID:     "test-user-123",
			Username:   "testuser",
			CreatedAt:  "2024-01-15T10:00:00Z",
			UpdatedAt:  "2024-01-15T10:00:00Z",
		},
	}
}

func (b *ReviewBuilder) WithID(id string) *ReviewBuilder {
	b.r.ID = id
	return b
}

func (b *ReviewBuilder) WithBookID(bookID string) *ReviewBuilder {
	b.r.BookID = bookID
	return b
}

func (b *ReviewBuilder) WithBookTitle(title string) *ReviewBuilder {
	b.r.BookTitle = title
	return b
}

func (b *ReviewBuilder) WithAuthorName(name string) *ReviewBuilder {
	b.r.AuthorName = name
	return b
}

func (b *ReviewBuilder) WithRating(rating int) *ReviewBuilder {
	b.r.Rating = rating
	return b
}

func (b *ReviewBuilder) WithReviewText(text string) *ReviewBuilder {
	b.r.ReviewText = text
	return b
}

func (b *ReviewBuilder) WithUserID(userID string) *ReviewBuilder {
	b.r.UserID = userID
	return b
}

func (b *ReviewBuilder) WithUsername(username string) *ReviewBuilder {
	b.r.Username = username
	return b
}

// Anonymous clears the identity fields, modeling a signed-out submission
func (b *ReviewBuilder) Anonymous() *ReviewBuilder {
	b.r.UserID = ""
	b.r.Username = ""
	return b
}

func (b *ReviewBuilder) Build() review.Review {
	return b.r
}
