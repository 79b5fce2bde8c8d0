package commands

import (
	"context"
	"fmt"
	"log/slog"

	artifactDomain "github.com/allisson/quotelink/internal/artifact/domain"
	artifactDTO "github.com/allisson/quotelink/internal/artifact/http/dto"
)

// QuotePDFGenerator renders and attaches the PDF of an accepted quote.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, quoteID string) (*artifactDomain.GenerationResult, error)
}

// RunGeneratePDF generates the quote PDF synchronously, for quotes whose background job was
// dropped or abandoned.
func RunGeneratePDF(
	ctx context.Context,
	generator QuotePDFGenerator,
	logger *slog.Logger,
	quoteID string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result, err := generator.GenerateQuotePDF(ctx, quoteID)
	if err != nil {
		return fmt.Errorf("failed to generate quote pdf: %w", err)
	}

	logger.Info("quote pdf command finished",
		slog.String("quote_id", result.QuoteID),
		slog.Bool("generated", result.Generated),
	)

	if format == "json" {
		return writeJSON(io.Writer, artifactDTO.MapGenerationResultToResponse(result))
	}

	if !result.Generated {
		_, _ = fmt.Fprintln(io.Writer, result.Message)
		return nil
	}
	_, _ = fmt.Fprintf(io.Writer, "Attached %s to quote %s\n", result.Filename, result.QuoteID)
	return nil
}
