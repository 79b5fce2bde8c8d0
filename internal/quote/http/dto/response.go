package dto

import (
	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

// QuoteResponse wraps the public view of a quote.
type QuoteResponse struct {
	OK   bool                    `json:"ok"`
	Data *quoteDomain.PublicView `json:"data"`
}

// DecisionResponse echoes the normalized action and the fields written to the CRM.
type DecisionResponse struct {
	OK     bool                      `json:"ok"`
	Action quoteDomain.Status        `json:"action"`
	Sent   quoteDomain.UpdatePayload `json:"sent"`
}

// MapPublicViewToResponse wraps a public view.
func MapPublicViewToResponse(view *quoteDomain.PublicView) QuoteResponse {
	return QuoteResponse{OK: true, Data: view}
}

// MapAckToResponse converts a decision acknowledgement to its response.
func MapAckToResponse(ack *quoteDomain.Ack) DecisionResponse {
	return DecisionResponse{OK: true, Action: ack.Action, Sent: ack.Sent}
}
