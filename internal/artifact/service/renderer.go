// Package service contains the client for the external HTML-to-PDF renderer.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/allisson/quotelink/internal/artifact/domain"
	apperrors "github.com/allisson/quotelink/internal/errors"
)

const (
	maxPDFBytes      = 25 << 20
	maxErrorBodySize = 2 << 10
	pdfMagic         = "%PDF-"
)

// RendererConfig holds the renderer connection settings.
type RendererConfig struct {
	URL     string
	Timeout time.Duration
}

// RendererClient posts render requests to the renderer service and returns PDF bytes.
type RendererClient struct {
	config     RendererConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRendererClient creates a renderer client. A nil httpClient falls back to http.DefaultClient.
func NewRendererClient(cfg RendererConfig, httpClient *http.Client, logger *slog.Logger) *RendererClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RendererClient{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

type renderMargin struct {
	Top    string `json:"top"`
	Right  string `json:"right"`
	Bottom string `json:"bottom"`
	Left   string `json:"left"`
}

type renderPayload struct {
	URL             string       `json:"url,omitempty"`
	HTML            string       `json:"html,omitempty"`
	Filename        string       `json:"filename"`
	Format          string       `json:"format"`
	PrintBackground bool         `json:"print_background"`
	Margin          renderMargin `json:"margin"`
}

// Render returns the PDF for req. Pages are A4 with backgrounds printed.
func (r *RendererClient) Render(ctx context.Context, req domain.RenderRequest) ([]byte, error) {
	if strings.TrimSpace(r.config.URL) == "" {
		return nil, domain.ErrRendererNotConfigured
	}

	body, err := json.Marshal(renderPayload{
		URL:             req.URL,
		HTML:            req.HTML,
		Filename:        req.Filename,
		Format:          "A4",
		PrintBackground: true,
		Margin:          renderMargin{Top: "20mm", Right: "10mm", Bottom: "20mm", Left: "10mm"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode render request: %w", err)
	}

	requestCtx, cancel := r.requestContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodPost, r.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create render request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/pdf")

	start := time.Now()
	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrRenderFailed, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &apperrors.UpstreamError{
			Err:        domain.ErrRenderFailed,
			StatusCode: resp.StatusCode,
			Raw:        rawSnippet(snippet),
		}
	}

	pdf, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrRenderFailed, err.Error())
	}
	if len(pdf) > maxPDFBytes {
		return nil, apperrors.Wrapf(domain.ErrRenderFailed, "pdf exceeds %d bytes", maxPDFBytes)
	}
	if !bytes.HasPrefix(pdf, []byte(pdfMagic)) {
		return nil, &apperrors.UpstreamError{
			Err:        apperrors.Wrap(domain.ErrRenderFailed, "response is not a pdf"),
			StatusCode: resp.StatusCode,
			Raw:        rawSnippet(pdf[:min(len(pdf), maxErrorBodySize)]),
		}
	}

	if r.logger != nil {
		r.logger.Debug("pdf rendered",
			slog.String("filename", req.Filename),
			slog.Int("bytes", len(pdf)),
			slog.Duration("took", time.Since(start)),
		)
	}

	return pdf, nil
}

func (r *RendererClient) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.config.Timeout)
}

func rawSnippet(raw []byte) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
