// Package http provides the HTTP handlers for PDF artifacts.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/quotelink/internal/artifact/http/dto"
	artifactUseCase "github.com/allisson/quotelink/internal/artifact/usecase"
	"github.com/allisson/quotelink/internal/httputil"
	customValidation "github.com/allisson/quotelink/internal/validation"
)

// PDFHandler serves synchronous quote PDF generation and proposal rendering.
type PDFHandler struct {
	pdfUseCase artifactUseCase.PDFUseCase
	logger     *slog.Logger
}

// NewPDFHandler creates a new PDF handler.
func NewPDFHandler(pdfUseCase artifactUseCase.PDFUseCase, logger *slog.Logger) *PDFHandler {
	return &PDFHandler{
		pdfUseCase: pdfUseCase,
		logger:     logger,
	}
}

// GenerateQuoteHandler renders an accepted quote and attaches the PDF to the CRM record.
// POST /v1/quotes/:id/pdf
func (h *PDFHandler) GenerateQuoteHandler(c *gin.Context) {
	quoteID := c.Param("id")
	if err := customValidation.ValidateRecordID("id", quoteID); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	h.generate(c, quoteID)
}

// LegacyGenerateQuoteHandler is GenerateQuoteHandler for the legacy page script.
// GET|POST /api/pdf?qid=
func (h *PDFHandler) LegacyGenerateQuoteHandler(c *gin.Context) {
	var req dto.LegacyQuotePDFRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	h.generate(c, req.QID)
}

func (h *PDFHandler) generate(c *gin.Context, quoteID string) {
	result, err := h.pdfUseCase.GenerateQuotePDF(c.Request.Context(), quoteID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGenerationResultToResponse(result))
}

// RenderProposalHandler renders inline HTML and returns the PDF as base64.
// POST /v1/proposals/pdf
func (h *PDFHandler) RenderProposalHandler(c *gin.Context) {
	var req dto.ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	doc, err := h.pdfUseCase.RenderProposal(c.Request.Context(), req.HTML, req.Filename)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDocumentToProposalResponse(doc))
}
