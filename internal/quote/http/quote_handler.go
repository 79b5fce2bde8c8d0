// Package http provides the HTTP handlers behind the public quote page.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/quotelink/internal/httputil"
	"github.com/allisson/quotelink/internal/quote/http/dto"
	quoteUseCase "github.com/allisson/quotelink/internal/quote/usecase"
	customValidation "github.com/allisson/quotelink/internal/validation"
)

// QuoteHandler serves quote reads and decisions for holders of a quote link.
type QuoteHandler struct {
	quoteUseCase quoteUseCase.QuoteUseCase
	logger       *slog.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(quoteUseCase quoteUseCase.QuoteUseCase, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteUseCase: quoteUseCase,
		logger:       logger,
	}
}

// GetHandler returns the public view of a quote.
// GET /v1/quotes/:id?token=
func (h *QuoteHandler) GetHandler(c *gin.Context) {
	h.fetch(c, c.Param("id"), c.Query("token"))
}

// LegacyGetHandler is GetHandler for the legacy page script.
// GET /api/quote?qid=&token=
func (h *QuoteHandler) LegacyGetHandler(c *gin.Context) {
	h.fetch(c, c.Query("qid"), c.Query("token"))
}

func (h *QuoteHandler) fetch(c *gin.Context, quoteID, token string) {
	if err := validateQuoteID(quoteID); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	view, err := h.quoteUseCase.FetchPublicView(c.Request.Context(), quoteID, token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPublicViewToResponse(view))
}

// RespondHandler records the customer's decision.
// POST /v1/quotes/:id/response
func (h *QuoteHandler) RespondHandler(c *gin.Context) {
	quoteID := c.Param("id")
	if err := validateQuoteID(quoteID); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	h.respond(c, quoteID, &req)
}

// LegacyRespondHandler is RespondHandler for the legacy page script.
// POST /api/respond {qid, action, comment, name}
func (h *QuoteHandler) LegacyRespondHandler(c *gin.Context) {
	var req dto.LegacyRespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	h.respond(c, req.QID, &req.DecisionRequest)
}

func (h *QuoteHandler) respond(c *gin.Context, quoteID string, req *dto.DecisionRequest) {
	ack, err := h.quoteUseCase.SubmitDecision(c.Request.Context(), quoteID, req.ToDecision())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAckToResponse(ack))
}

func validateQuoteID(quoteID string) error {
	return customValidation.ValidateRecordID("qid", quoteID)
}
