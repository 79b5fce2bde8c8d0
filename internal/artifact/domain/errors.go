package domain

import (
	"github.com/allisson/quotelink/internal/errors"
)

// Artifact pipeline errors.
var (
	// ErrHTMLRequired indicates a proposal request without HTML content.
	ErrHTMLRequired = errors.Wrap(errors.ErrMissingParameter, "html content is required")

	// ErrQuotePageNotConfigured indicates QUOTE_PAGE_URL is unset.
	ErrQuotePageNotConfigured = errors.New("quote page url is not configured")

	// ErrRendererNotConfigured indicates RENDERER_URL is unset.
	ErrRendererNotConfigured = errors.New("renderer url is not configured")

	// ErrRenderFailed indicates the renderer did not return a PDF.
	ErrRenderFailed = errors.Wrap(errors.ErrUpstreamFailure, "pdf rendering failed")

	// ErrQueueFull indicates the job queue has no free slot.
	ErrQueueFull = errors.New("artifact queue is full")

	// ErrDispatcherStopped indicates the dispatcher no longer accepts jobs.
	ErrDispatcherStopped = errors.New("artifact dispatcher is stopped")
)
