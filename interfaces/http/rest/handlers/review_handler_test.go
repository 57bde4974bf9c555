package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookreviews-backend/application/ports"
	"bookreviews-backend/domain/review"
	"bookreviews-backend/pkg/auth"
	apperrors "bookreviews-backend/pkg/errors"
	"bookreviews-backend/tests/fixtures"
	"bookreviews-backend/tests/mocks"
)

func newTestHandler() (*ReviewHandler, *mocks.MockReviewRepository, *mocks.MockEventPublisher, *mocks.MockMetrics) {
	repo := new(mocks.MockReviewRepository)
	events := new(mocks.MockEventPublisher)
	metrics := new(mocks.MockMetrics)
	handler := NewReviewHandler(repo, events, metrics, zap.NewNop())
	return handler, repo, events, metrics
}

// withURLParam attaches a chi route parameter to the request context
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withClaims(r *http.Request, subject, username string) *http.Request {
	return r.WithContext(auth.WithClaims(r.Context(), &auth.Claims{
		Subject:  subject,
		Username: username,
	}))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreate_Success(t *testing.T) {
	handler, repo, events, metrics := newTestHandler()

	stored := fixtures.NewReviewBuilder().WithUserID("user-1").WithUsername("alice").Build()
	repo.On("Create", mock.Anything, mock.AnythingOfType("review.Review")).Return(stored, nil)
	metrics.On("Count", mock.Anything, "ReviewCreated").Return()
	events.On("Publish", mock.Anything, "review.created", stored).Return(nil)

	payload := `{"bookId":"dune","bookTitle":"Dune","authorName":"Frank Herbert","rating":5,"reviewText":"Still thinking about the sandworms."}`
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString(payload))
	req = withClaims(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	body := decodeBody(t, rec)
	assert.Equal(t, stored.ID, body["id"])
	assert.Equal(t, "alice", body["username"])

	// Identity from the verified claims is attached before persisting
	created := repo.Calls[0].Arguments.Get(1).(review.Review)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, "alice", created.Username)

	repo.AssertExpectations(t)
	events.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestCreate_AnonymousSucceeds(t *testing.T) {
	handler, repo, events, metrics := newTestHandler()

	stored := fixtures.NewReviewBuilder().Anonymous().Build()
	repo.On("Create", mock.Anything, mock.AnythingOfType("review.Review")).Return(stored, nil)
	metrics.On("Count", mock.Anything, "ReviewCreated").Return()
	events.On("Publish", mock.Anything, "review.created", stored).Return(nil)

	payload := `{"bookId":"dune","bookTitle":"Dune","authorName":"Frank Herbert","rating":4,"reviewText":"Dense but rewarding on a second read."}`
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	created := repo.Calls[0].Arguments.Get(1).(review.Review)
	assert.Empty(t, created.UserID)
	assert.Empty(t, created.Username)
}

func TestCreate_DerivesBookIDFromTitle(t *testing.T) {
	handler, repo, events, metrics := newTestHandler()

	stored := fixtures.NewReviewBuilder().WithBookID("the-left-hand-of-darkness").Build()
	repo.On("Create", mock.Anything, mock.AnythingOfType("review.Review")).Return(stored, nil)
	metrics.On("Count", mock.Anything, "ReviewCreated").Return()
	events.On("Publish", mock.Anything, "review.created", stored).Return(nil)

	payload := `{"bookTitle":"The Left Hand of Darkness","authorName":"Ursula K. Le Guin","rating":5,"reviewText":"Genly Ai deserved better weather."}`
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	created := repo.Calls[0].Arguments.Get(1).(review.Review)
	assert.Equal(t, "the-left-hand-of-darkness", created.BookID)
}

func TestCreate_InvalidBody(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, rec)["error"])
	repo.AssertNotCalled(t, "Create")
}

func TestCreate_ValidationFailure(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	payload := `{"bookId":"dune","bookTitle":"Dune","authorName":"Frank Herbert","rating":10,"reviewText":"too short"}`
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg := decodeBody(t, rec)["error"].(string)
	assert.Contains(t, msg, "Invalid request:")
	assert.Contains(t, msg, "rating must be at most 5")
	assert.Contains(t, msg, "reviewText must be at least 10 characters")
	repo.AssertNotCalled(t, "Create")
}

func TestCreate_StorageFailureIsGeneric(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	storeErr := apperrors.NewStorageError("create", errors.New("throughput exceeded"))
	repo.On("Create", mock.Anything, mock.AnythingOfType("review.Review")).Return(review.Review{}, storeErr)

	payload := `{"bookId":"dune","bookTitle":"Dune","authorName":"Frank Herbert","rating":5,"reviewText":"Still thinking about the sandworms."}`
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Storage detail stays in the log, never in the response
	msg := decodeBody(t, rec)["error"].(string)
	assert.Equal(t, "Could not create the review", msg)
	assert.NotContains(t, msg, "throughput")
}

func TestGet_Success(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	stored := fixtures.NewReviewBuilder().WithID("review-1").Build()
	repo.On("Get", mock.Anything, "review-1").Return(stored, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/reviews/review-1", nil), "reviewID", "review-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "review-1", decodeBody(t, rec)["id"])
}

func TestGet_NotFound(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	repo.On("Get", mock.Anything, "missing").Return(review.Review{}, apperrors.NewNotFoundError("review"))

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/reviews/missing", nil), "reviewID", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Review not found", decodeBody(t, rec)["error"])
}

func TestList_All(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	page := ports.ReviewPage{
		Reviews:   []review.Review{fixtures.NewReviewBuilder().Build()},
		NextToken: "opaque-token",
	}
	repo.On("List", mock.Anything, ports.Page{}).Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["reviews"], 1)
	assert.Equal(t, "opaque-token", body["lastEvaluatedKey"])
}

func TestList_LastPageOmitsToken(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	repo.On("List", mock.Anything, ports.Page{}).Return(ports.ReviewPage{Reviews: []review.Review{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotContains(t, body, "lastEvaluatedKey")
}

func TestList_PassesLimitAndToken(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	want := ports.Page{Limit: 25, Token: "prev-token"}
	repo.On("List", mock.Anything, want).Return(ports.ReviewPage{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/reviews?limit=25&lastEvaluatedKey=prev-token", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestList_ByBook(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	page := ports.ReviewPage{Reviews: []review.Review{fixtures.NewReviewBuilder().WithBookID("dune").Build()}}
	repo.On("ListByBook", mock.Anything, "dune", ports.Page{}).Return(page, nil)

	req := httptest.NewRequest(http.MethodGet, "/reviews?bookId=dune", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertNotCalled(t, "List")
	repo.AssertExpectations(t)
}

func TestList_InvalidLimit(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	// 2147483648 would wrap negative if truncated to int32
	for _, limit := range []string{"abc", "-1", "2147483648"} {
		req := httptest.NewRequest(http.MethodGet, "/reviews?limit="+limit, nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	repo.AssertNotCalled(t, "List")
}

func TestList_InvalidToken(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	repo.On("List", mock.Anything, ports.Page{Token: "garbage"}).
		Return(ports.ReviewPage{}, apperrors.NewValidationError("invalid pagination token"))

	req := httptest.NewRequest(http.MethodGet, "/reviews?lastEvaluatedKey=garbage", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "invalid pagination token")
}

func TestUpdate_Success(t *testing.T) {
	handler, repo, events, metrics := newTestHandler()

	existing := fixtures.NewReviewBuilder().WithID("review-1").WithUserID("user-1").WithRating(3).Build()
	updated := existing
	updated.Rating = 4
	updated.UpdatedAt = "2024-02-01T12:00:00Z"

	repo.On("Get", mock.Anything, "review-1").Return(existing, nil)
	repo.On("Update", mock.Anything, "review-1", mock.AnythingOfType("review.Review")).Return(updated, nil)
	metrics.On("Count", mock.Anything, "ReviewUpdated").Return()
	events.On("Publish", mock.Anything, "review.updated", updated).Return(nil)

	req := httptest.NewRequest(http.MethodPut, "/reviews/review-1", bytes.NewBufferString(`{"rating":4}`))
	req = withURLParam(req, "reviewID", "review-1")
	req = withClaims(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(4), body["rating"])
	assert.Equal(t, "2024-02-01T12:00:00Z", body["updatedAt"])

	// The merged record keeps the untouched fields from the stored one
	merged := repo.Calls[1].Arguments.Get(2).(review.Review)
	assert.Equal(t, existing.ReviewText, merged.ReviewText)
	assert.Equal(t, 4, merged.Rating)

	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	repo.On("Get", mock.Anything, "missing").Return(review.Review{}, apperrors.NewNotFoundError("review"))

	req := httptest.NewRequest(http.MethodPut, "/reviews/missing", bytes.NewBufferString(`{"rating":4}`))
	req = withURLParam(req, "reviewID", "missing")
	req = withClaims(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "Update")
}

func TestUpdate_MissingClaims(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	existing := fixtures.NewReviewBuilder().WithID("review-1").WithUserID("user-1").Build()
	repo.On("Get", mock.Anything, "review-1").Return(existing, nil)

	req := httptest.NewRequest(http.MethodPut, "/reviews/review-1", bytes.NewBufferString(`{"rating":4}`))
	req = withURLParam(req, "reviewID", "review-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", decodeBody(t, rec)["error"])
	repo.AssertNotCalled(t, "Update")
}

func TestUpdate_WrongOwner(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	existing := fixtures.NewReviewBuilder().WithID("review-1").WithUserID("user-1").Build()
	repo.On("Get", mock.Anything, "review-1").Return(existing, nil)

	req := httptest.NewRequest(http.MethodPut, "/reviews/review-1", bytes.NewBufferString(`{"rating":1}`))
	req = withURLParam(req, "reviewID", "review-1")
	req = withClaims(req, "user-2", "mallory")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only update your own reviews", decodeBody(t, rec)["error"])
	repo.AssertNotCalled(t, "Update")
}

func TestUpdate_MergedRecordFailsValidation(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	existing := fixtures.NewReviewBuilder().WithID("review-1").WithUserID("user-1").Build()
	repo.On("Get", mock.Anything, "review-1").Return(existing, nil)

	req := httptest.NewRequest(http.MethodPut, "/reviews/review-1", bytes.NewBufferString(`{"rating":10}`))
	req = withURLParam(req, "reviewID", "review-1")
	req = withClaims(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "rating must be at most 5")
	repo.AssertNotCalled(t, "Update")
}

func TestDelete_Success(t *testing.T) {
	handler, repo, events, metrics := newTestHandler()

	existing := fixtures.NewReviewBuilder().WithID("review-1").WithUserID("user-1").Build()
	repo.On("Get", mock.Anything, "review-1").Return(existing, nil)
	repo.On("Delete", mock.Anything, "review-1").Return(nil)
	metrics.On("Count", mock.Anything, "ReviewDeleted").Return()
	events.On("Publish", mock.Anything, "review.deleted", existing).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/reviews/review-1", nil)
	req = withURLParam(req, "reviewID", "review-1")
	req = withClaims(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Review deleted successfully", decodeBody(t, rec)["message"])

	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	repo.On("Get", mock.Anything, "missing").Return(review.Review{}, apperrors.NewNotFoundError("review"))

	req := httptest.NewRequest(http.MethodDelete, "/reviews/missing", nil)
	req = withURLParam(req, "reviewID", "missing")
	req = withClaims(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "Delete")
}

func TestDelete_WrongOwner(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	existing := fixtures.NewReviewBuilder().WithID("review-1").WithUserID("user-1").Build()
	repo.On("Get", mock.Anything, "review-1").Return(existing, nil)

	req := httptest.NewRequest(http.MethodDelete, "/reviews/review-1", nil)
	req = withURLParam(req, "reviewID", "review-1")
	req = withClaims(req, "user-2", "mallory")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only delete your own reviews", decodeBody(t, rec)["error"])
	repo.AssertNotCalled(t, "Delete")
}

func TestDelete_StorageFailure(t *testing.T) {
	handler, repo, _, _ := newTestHandler()

	existing := fixtures.NewReviewBuilder().WithID("review-1").WithUserID("user-1").Build()
	repo.On("Get", mock.Anything, "review-1").Return(existing, nil)
	repo.On("Delete", mock.Anything, "review-1").Return(apperrors.NewStorageError("delete", errors.New("connection refused")))

	req := httptest.NewRequest(http.MethodDelete, "/reviews/review-1", nil)
	req = withURLParam(req, "reviewID", "review-1")
	req = withClaims(req, "user-1", "alice")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Could not delete the review", decodeBody(t, rec)["error"])
}
