package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/allisson/quotelink/internal/artifact/domain"
	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// PDFConfig holds PDF use case configuration.
type PDFConfig struct {
	// QuotePageURL is the public page rendered for a quote; qid and token are appended.
	QuotePageURL string
}

type pdfUseCase struct {
	config   PDFConfig
	quotes   QuoteSource
	renderer Renderer
	logger   *slog.Logger
}

// NewPDFUseCase creates the PDF use case.
func NewPDFUseCase(config PDFConfig, quotes QuoteSource, renderer Renderer, logger *slog.Logger) PDFUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &pdfUseCase{
		config:   config,
		quotes:   quotes,
		renderer: renderer,
		logger:   logger,
	}
}

func (p *pdfUseCase) GenerateQuotePDF(ctx context.Context, quoteID string) (*domain.GenerationResult, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return nil, quoteDomain.ErrQuoteIDRequired
	}

	record, status, err := p.quotes.Get(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if status != quoteDomain.StatusAccepted {
		return &domain.GenerationResult{
			QuoteID: quoteID,
			Status:  string(status),
			Message: fmt.Sprintf("Quote status is '%s', skipping PDF generation.", status),
		}, nil
	}

	pageURL, err := p.pageURL(quoteID, record.AcceptanceToken)
	if err != nil {
		return nil, err
	}

	filename := domain.QuoteFilename(quoteID)
	pdf, err := p.renderer.Render(ctx, domain.RenderRequest{URL: pageURL, Filename: filename})
	if err != nil {
		return nil, err
	}

	if err := p.quotes.Attach(ctx, quoteID, filename, pdf); err != nil {
		return nil, err
	}

	p.logger.Info("quote pdf attached",
		slog.String("quote_id", quoteID),
		slog.String("filename", filename),
		slog.Int("bytes", len(pdf)),
	)

	return &domain.GenerationResult{
		QuoteID:   quoteID,
		Status:    string(status),
		Generated: true,
		Filename:  filename,
	}, nil
}

func (p *pdfUseCase) RenderProposal(ctx context.Context, html, filename string) (*domain.Document, error) {
	if strings.TrimSpace(html) == "" {
		return nil, domain.ErrHTMLRequired
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = domain.DefaultProposalFilename
	}

	pdf, err := p.renderer.Render(ctx, domain.RenderRequest{HTML: html, Filename: filename})
	if err != nil {
		return nil, err
	}

	return &domain.Document{Filename: filename, Content: pdf}, nil
}

// Process runs a queued quote PDF job.
func (p *pdfUseCase) Process(ctx context.Context, job *domain.Job) error {
	switch job.Kind {
	case domain.JobKindQuotePDF:
		result, err := p.GenerateQuotePDF(ctx, job.QuoteID)
		if err != nil {
			return err
		}
		if !result.Generated {
			p.logger.Warn("quote pdf job skipped",
				slog.String("job_id", job.ID.String()),
				slog.String("quote_id", job.QuoteID),
				slog.String("status", result.Status),
			)
		}
		return nil
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

func (p *pdfUseCase) pageURL(quoteID, token string) (string, error) {
	if strings.TrimSpace(p.config.QuotePageURL) == "" {
		return "", domain.ErrQuotePageNotConfigured
	}

	u, err := url.Parse(p.config.QuotePageURL)
	if err != nil {
		return "", fmt.Errorf("invalid quote page url: %w", err)
	}
	query := u.Query()
	query.Set("qid", quoteID)
	query.Set("token", strings.TrimSpace(token))
	u.RawQuery = query.Encode()
	return u.String(), nil
}
