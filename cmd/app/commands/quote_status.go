package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// QuoteReader reads a quote with its derived status.
type QuoteReader interface {
	Get(ctx context.Context, quoteID string) (*quoteDomain.QuoteRecord, quoteDomain.Status, error)
}

type quoteStatusOutput struct {
	ID               string  `json:"id"`
	QuoteNumber      string  `json:"quote_number"`
	Subject          string  `json:"subject"`
	Status           string  `json:"status"`
	AcceptanceStatus string  `json:"acceptance_status"`
	ValidTill        *string `json:"valid_till"`
	TokenExpires     *string `json:"token_expires"`
	AcknowledgedBy   string  `json:"acknowledged_by"`
}

// RunQuoteStatus prints the stored and derived status of a quote. The link token is not shown.
func RunQuoteStatus(
	ctx context.Context,
	quotes QuoteReader,
	logger *slog.Logger,
	quoteID string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	record, status, err := quotes.Get(ctx, quoteID)
	if err != nil {
		return fmt.Errorf("failed to get quote: %w", err)
	}

	output := quoteStatusOutput{
		ID:               record.ID,
		QuoteNumber:      record.QuoteNumber,
		Subject:          record.Subject,
		Status:           string(status),
		AcceptanceStatus: string(record.AcceptanceStatus),
		ValidTill:        formatDate(record.ValidTill, time.DateOnly),
		TokenExpires:     formatDate(record.AcceptanceTokenExpires, time.RFC3339),
		AcknowledgedBy:   record.AcknowledgedBy,
	}

	logger.Debug("quote status resolved", slog.String("quote_id", record.ID), slog.String("status", output.Status))

	if format == "json" {
		return writeJSON(io.Writer, output)
	}

	_, _ = fmt.Fprintf(io.Writer, "Quote: %s", output.ID)
	if output.QuoteNumber != "" {
		_, _ = fmt.Fprintf(io.Writer, " (%s)", output.QuoteNumber)
	}
	_, _ = fmt.Fprintln(io.Writer)
	_, _ = fmt.Fprintf(io.Writer, "Status: %s\n", output.Status)
	if output.AcceptanceStatus != "" && output.AcceptanceStatus != output.Status {
		_, _ = fmt.Fprintf(io.Writer, "Stored status: %s\n", output.AcceptanceStatus)
	}
	if output.ValidTill != nil {
		_, _ = fmt.Fprintf(io.Writer, "Valid till: %s\n", *output.ValidTill)
	}
	if output.TokenExpires != nil {
		_, _ = fmt.Fprintf(io.Writer, "Link expires: %s\n", *output.TokenExpires)
	}
	if output.AcknowledgedBy != "" {
		_, _ = fmt.Fprintf(io.Writer, "Acknowledged by: %s\n", output.AcknowledgedBy)
	}
	return nil
}

func formatDate(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}
