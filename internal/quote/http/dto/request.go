// Package dto provides data transfer objects for the quote page endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
	customValidation "github.com/allisson/quotelink/internal/validation"
)

// DecisionRequest is the body of POST /v1/quotes/:id/response.
type DecisionRequest struct {
	Action  string  `json:"action"`
	Comment *string `json:"comment"`
	Name    *string `json:"name"`
	Token   string  `json:"token"`
}

// Validate checks if the decision request is valid.
func (r *DecisionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Action,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 64),
		),
		validation.Field(&r.Comment, validation.Length(0, 32000)),
		validation.Field(&r.Name, validation.Length(0, 255)),
	)
}

// ToDecision converts the request to the domain decision.
func (r *DecisionRequest) ToDecision() quoteDomain.UpdateDecision {
	return quoteDomain.UpdateDecision{
		Action:    r.Action,
		Comment:   r.Comment,
		ActorName: r.Name,
		Token:     r.Token,
	}
}

// LegacyRespondRequest is the body of POST /api/respond, which names the quote in the body.
type LegacyRespondRequest struct {
	QID string `json:"qid"`
	DecisionRequest
}

// Validate checks if the legacy respond request is valid.
func (r *LegacyRespondRequest) Validate() error {
	if err := customValidation.ValidateRecordID("qid", r.QID); err != nil {
		return err
	}
	return r.DecisionRequest.Validate()
}
