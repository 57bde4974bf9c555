// Package ports defines the interfaces the HTTP layer depends on, keeping
// the managed-store and messaging clients behind narrow seams.
package ports

import (
	"context"

	"bookreviews-backend/domain/review"
)

// Page carries listing parameters. Token is the opaque continuation token
// from a previous page, round-tripped byte-for-byte by the caller.
type Page struct {
	Limit int32
	Token string
}

// ReviewPage is one page of listing results. NextToken is empty when no
// further records remain.
type ReviewPage struct {
	Reviews   []review.Review
	NextToken string
}

// ReviewRepository translates the five logical review operations into calls
// against the managed table.
type ReviewRepository interface {
	// Create assigns a fresh id and timestamp pair, persists the record
	// unconditionally, and returns it as stored.
	Create(ctx context.Context, r review.Review) (review.Review, error)

	// Get returns the record for id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (review.Review, error)

	// List returns up to Limit records in store-native order.
	List(ctx context.Context, page Page) (ReviewPage, error)

	// ListByBook is List filtered to one bookId via the secondary index.
	ListByBook(ctx context.Context, bookID string, page Page) (ReviewPage, error)

	// Update persists the merged record's mutable fields, refreshes
	// updatedAt, and returns the new full record. id and createdAt are
	// never altered.
	Update(ctx context.Context, id string, r review.Review) (review.Review, error)

	// Delete removes the record unconditionally; deleting a missing id is
	// not an error.
	Delete(ctx context.Context, id string) error
}

// Review lifecycle event types
const (
	EventReviewCreated = "review.created"
	EventReviewUpdated = "review.updated"
	EventReviewDeleted = "review.deleted"
)

// EventPublisher announces review lifecycle changes. Publishing is
// best-effort: failures are logged by implementations and never surfaced to
// the request path.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, r review.Review) error
}

// Metrics counts operation outcomes in the operational sink.
type Metrics interface {
	Count(ctx context.Context, name string)
}
