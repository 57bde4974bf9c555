// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookreviews-backend/application/ports"
	"bookreviews-backend/domain/review"
	"bookreviews-backend/pkg/auth"
)

// MockReviewRepository mocks ports.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, r review.Review) (review.Review, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(review.Review), args.Error(1)
}

func (m *MockReviewRepository) Get(ctx context.Context, id string) (review.Review, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(review.Review), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context, page ports.Page) (ports.ReviewPage, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(ports.ReviewPage), args.Error(1)
}

func (m *MockReviewRepository) ListByBook(ctx context.Context, bookID string, page ports.Page) (ports.ReviewPage, error) {
	args := m.Called(ctx, bookID, page)
	return args.Get(0).(ports.ReviewPage), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, id string, r review.Review) (review.Review, error) {
	args := m.Called(ctx, id, r)
	return args.Get(0).(review.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher mocks ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, eventType string, r review.Review) error {
	args := m.Called(ctx, eventType, r)
	return args.Error(0)
}

// MockMetrics mocks ports.Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) Count(ctx context.Context, name string) {
	m.Called(ctx, name)
}

// MockVerifier mocks auth.Verifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	if claims := args.Get(0); claims != nil {
		return claims.(*auth.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}
