// Package mocks provides mock implementations of the quote use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// MockQuoteUseCase is a mock implementation of QuoteUseCase for testing.
type MockQuoteUseCase struct {
	mock.Mock
}

// FetchPublicView mocks the FetchPublicView method of QuoteUseCase.
func (m *MockQuoteUseCase) FetchPublicView(
	ctx context.Context,
	quoteID, token string,
) (*quoteDomain.PublicView, error) {
	args := m.Called(ctx, quoteID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quoteDomain.PublicView), args.Error(1)
}

// SubmitDecision mocks the SubmitDecision method of QuoteUseCase.
func (m *MockQuoteUseCase) SubmitDecision(
	ctx context.Context,
	quoteID string,
	decision quoteDomain.UpdateDecision,
) (*quoteDomain.Ack, error) {
	args := m.Called(ctx, quoteID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quoteDomain.Ack), args.Error(1)
}

// Get mocks the Get method of QuoteUseCase.
func (m *MockQuoteUseCase) Get(
	ctx context.Context,
	quoteID string,
) (*quoteDomain.QuoteRecord, quoteDomain.Status, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(quoteDomain.Status), args.Error(2)
	}
	return args.Get(0).(*quoteDomain.QuoteRecord), args.Get(1).(quoteDomain.Status), args.Error(2)
}

// Attach mocks the Attach method of QuoteUseCase.
func (m *MockQuoteUseCase) Attach(ctx context.Context, quoteID, filename string, content []byte) error {
	args := m.Called(ctx, quoteID, filename, content)
	return args.Error(0)
}
