// Package mocks provides mock implementations of the artifact use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/quotelink/internal/artifact/domain"
)

// MockPDFUseCase is a mock implementation of PDFUseCase for testing.
type MockPDFUseCase struct {
	mock.Mock
}

// GenerateQuotePDF mocks the GenerateQuotePDF method of PDFUseCase.
func (m *MockPDFUseCase) GenerateQuotePDF(ctx context.Context, quoteID string) (*domain.GenerationResult, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationResult), args.Error(1)
}

// RenderProposal mocks the RenderProposal method of PDFUseCase.
func (m *MockPDFUseCase) RenderProposal(ctx context.Context, html, filename string) (*domain.Document, error) {
	args := m.Called(ctx, html, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

// Process mocks the Process method of PDFUseCase.
func (m *MockPDFUseCase) Process(ctx context.Context, job *domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
