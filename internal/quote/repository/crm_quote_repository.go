// Package repository implements quote persistence on top of the CRM record API.
package repository

import (
	"context"
	"encoding/json"

	"github.com/allisson/quotelink/internal/errors"
	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// RecordClient is the part of the CRM client the repository needs.
type RecordClient interface {
	GetRecord(ctx context.Context, accessToken, module, id string) (json.RawMessage, error)
	UpdateRecord(ctx context.Context, accessToken, module, id string, fields any) (json.RawMessage, error)
	UploadAttachment(
		ctx context.Context,
		accessToken, module, id, filename string,
		content []byte,
	) (json.RawMessage, error)
}

// CRMQuoteRepository reads and writes quote records in the CRM's Quotes module.
// Every call takes the access token explicitly; token renewal is the caller's concern.
type CRMQuoteRepository struct {
	client RecordClient
}

// NewCRMQuoteRepository creates a new CRMQuoteRepository.
func NewCRMQuoteRepository(client RecordClient) *CRMQuoteRepository {
	return &CRMQuoteRepository{client: client}
}

// Get fetches and decodes a quote. Returns ErrQuoteNotFound if the CRM has no such record.
func (r *CRMQuoteRepository) Get(ctx context.Context, accessToken, id string) (*quoteDomain.QuoteRecord, error) {
	raw, err := r.client.GetRecord(ctx, accessToken, quoteDomain.ModuleName, id)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, quoteDomain.ErrQuoteNotFound
		}
		return nil, err
	}

	record, err := quoteDomain.DecodeRecord(raw)
	if err != nil {
		return nil, &errors.UpstreamError{
			Err:        errors.Wrap(errors.ErrUpstreamFailure, "decode quote record"),
			StatusCode: 200,
			Raw:        raw,
		}
	}
	return record, nil
}

// Update writes the decision fields to the quote.
func (r *CRMQuoteRepository) Update(
	ctx context.Context,
	accessToken, id string,
	payload quoteDomain.UpdatePayload,
) error {
	_, err := r.client.UpdateRecord(ctx, accessToken, quoteDomain.ModuleName, id, payload)
	return err
}

// Attach uploads a file to the quote's attachments.
func (r *CRMQuoteRepository) Attach(ctx context.Context, accessToken, id, filename string, content []byte) error {
	_, err := r.client.UploadAttachment(ctx, accessToken, quoteDomain.ModuleName, id, filename, content)
	return err
}
