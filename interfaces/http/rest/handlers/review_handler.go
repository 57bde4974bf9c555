// Package handlers implements the five review operations. Each handler
// parses the request, enforces authorization and validation, calls the store
// adapter, and writes a uniform response. Storage detail never reaches the
// caller; it goes to the log.
package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bookreviews-backend/application/ports"
	"bookreviews-backend/domain/review"
	"bookreviews-backend/pkg/api"
	"bookreviews-backend/pkg/auth"
	apperrors "bookreviews-backend/pkg/errors"
)

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	repo    ports.ReviewRepository
	events  ports.EventPublisher
	metrics ports.Metrics
	logger  *zap.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(
	repo ports.ReviewRepository,
	events ports.EventPublisher,
	metrics ports.Metrics,
	logger *zap.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		repo:    repo,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

// CreateReviewRequest represents the request body for creating a review
type CreateReviewRequest struct {
	BookID     string `json:"bookId"`
	BookTitle  string `json:"bookTitle"`
	AuthorName string `json:"authorName"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"reviewText"`
}

// listResponse is the body of a listing call. LastEvaluatedKey is the opaque
// continuation token, present only when more records remain.
type listResponse struct {
	Reviews          []review.Review `json:"reviews"`
	LastEvaluatedKey string          `json:"lastEvaluatedKey,omitempty"`
}

// Create handles POST /reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	candidate := review.Review{
		BookID:     req.BookID,
		BookTitle:  req.BookTitle,
		AuthorName: req.AuthorName,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}

	// The client usually derives the slug itself; fall back to deriving it
	// from the title here so bare API callers get the same grouping key.
	if candidate.BookID == "" && candidate.BookTitle != "" {
		candidate.BookID = review.Slugify(candidate.BookTitle)
	}

	// Attach identity from the verified claims when the caller signed in
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		candidate.UserID = claims.Subject
		candidate.Username = claims.Username
	}

	if err := review.Validate(candidate); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request: "+validationMessage(err))
		return
	}

	created, err := h.repo.Create(r.Context(), candidate)
	if err != nil {
		h.logger.Error("Error creating review", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Could not create the review")
		return
	}

	h.metrics.Count(r.Context(), "ReviewCreated")
	h.events.Publish(r.Context(), ports.EventReviewCreated, created)

	api.Created(w, created)
}

// Get handles GET /reviews/{reviewID}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewID")

	found, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			api.Error(w, http.StatusNotFound, "Review not found")
			return
		}
		h.logger.Error("Error getting review",
			zap.String("reviewID", id),
			zap.Error(err),
		)
		api.Error(w, http.StatusInternalServerError, "Could not retrieve the review")
		return
	}

	api.Success(w, found)
}

// List handles GET /reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	page := ports.Page{
		Token: r.URL.Query().Get("lastEvaluatedKey"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 || n > math.MaxInt32 {
			api.Error(w, http.StatusBadRequest, "Invalid request: limit must be a non-negative integer")
			return
		}
		page.Limit = int32(n)
	}

	var result ports.ReviewPage
	var err error
	if bookID := r.URL.Query().Get("bookId"); bookID != "" {
		result, err = h.repo.ListByBook(r.Context(), bookID, page)
	} else {
		result, err = h.repo.List(r.Context(), page)
	}
	if err != nil {
		if apperrors.IsValidation(err) {
			api.Error(w, http.StatusBadRequest, "Invalid request: "+validationMessage(err))
			return
		}
		h.logger.Error("Error listing reviews", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "Could not retrieve reviews")
		return
	}

	api.Success(w, listResponse{
		Reviews:          result.Reviews,
		LastEvaluatedKey: result.NextToken,
	})
}

// Update handles PUT /reviews/{reviewID}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewID")

	var patch review.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			api.Error(w, http.StatusNotFound, "Review not found")
			return
		}
		h.logger.Error("Error updating review",
			zap.String("reviewID", id),
			zap.Error(err),
		)
		api.Error(w, http.StatusInternalServerError, "Could not update the review")
		return
	}

	claims, err := auth.RequireClaims(r.Context())
	if err != nil {
		api.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if existing.UserID != claims.Subject {
		writeAppError(w, apperrors.NewForbiddenError("You can only update your own reviews"))
		return
	}

	merged := existing.Merge(patch)
	if err := review.Validate(merged); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request: "+validationMessage(err))
		return
	}

	updated, err := h.repo.Update(r.Context(), id, merged)
	if err != nil {
		h.logger.Error("Error updating review",
			zap.String("reviewID", id),
			zap.Error(err),
		)
		api.Error(w, http.StatusInternalServerError, "Could not update the review")
		return
	}

	h.metrics.Count(r.Context(), "ReviewUpdated")
	h.events.Publish(r.Context(), ports.EventReviewUpdated, updated)

	api.Success(w, updated)
}

// Delete handles DELETE /reviews/{reviewID}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewID")

	existing, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			api.Error(w, http.StatusNotFound, "Review not found")
			return
		}
		h.logger.Error("Error deleting review",
			zap.String("reviewID", id),
			zap.Error(err),
		)
		api.Error(w, http.StatusInternalServerError, "Could not delete the review")
		return
	}

	claims, err := auth.RequireClaims(r.Context())
	if err != nil {
		api.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if existing.UserID != claims.Subject {
		writeAppError(w, apperrors.NewForbiddenError("You can only delete your own reviews"))
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("Error deleting review",
			zap.String("reviewID", id),
			zap.Error(err),
		)
		api.Error(w, http.StatusInternalServerError, "Could not delete the review")
		return
	}

	h.metrics.Count(r.Context(), "ReviewDeleted")
	h.events.Publish(r.Context(), ports.EventReviewDeleted, existing)

	api.Success(w, map[string]string{
		"message": "Review deleted successfully",
	})
}

// writeAppError renders a taxonomy error with its mapped status
func writeAppError(w http.ResponseWriter, err *apperrors.AppError) {
	api.Error(w, err.HTTPStatus, err.Message)
}

// validationMessage strips the taxonomy prefix for the client-facing text
func validationMessage(err error) string {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return "validation failed"
}
