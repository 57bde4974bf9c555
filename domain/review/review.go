// Package review defines the review record, its validation rules, and the
// typed merge used by updates.
package review

import (
	"regexp"
	"strings"
	"time"
)

// Review is the sole entity of the service. Timestamps are RFC 3339 strings,
// matching what the table stores and what the client renders.
type Review struct {
	ID         string `json:"id,omitempty"`
	BookID     string `json:"bookId" validate:"required"`
	BookTitle  string `json:"bookTitle" validate:"required"`
	AuthorName string `json:"authorName" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"reviewText" validate:"required,min=10,max=5000"`
	UserID     string `json:"userId,omitempty"`
	Username   string `json:"username,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// Patch carries the fields an update request may change. Nil fields are left
// untouched by Merge. The set is fixed: id, userId, and timestamps are never
// patchable.
type Patch struct {
	BookID     *string `json:"bookId,omitempty"`
	BookTitle  *string `json:"bookTitle,omitempty"`
	AuthorName *string `json:"authorName,omitempty"`
	Rating     *int    `json:"rating,omitempty"`
	ReviewText *string `json:"reviewText,omitempty"`
}

// Merge returns a copy of r with the patch's non-nil fields applied.
func (r Review) Merge(p Patch) Review {
	if p.BookID != nil {
		r.BookID = *p.BookID
	}
	if p.BookTitle != nil {
		r.BookTitle = *p.BookTitle
	}
	if p.AuthorName != nil {
		r.AuthorName = *p.AuthorName
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.ReviewText != nil {
		r.ReviewText = *p.ReviewText
	}
	return r
}

var whitespace = regexp.MustCompile(`\s+`)

// Slugify derives the bookId grouping key from a title: lowercased, with
// whitespace runs collapsed to single hyphens.
func Slugify(title string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}

// NowRFC3339 returns the current time in RFC 3339 format
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
