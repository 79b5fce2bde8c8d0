package domain

import "time"

// UpdateDecision is a customer's answer submitted from the quote page.
type UpdateDecision struct {
	Action    string
	Comment   *string
	ActorName *string
	// Token is the link token, verified before writing when present.
	Token string
}

// UpdatePayload is the field map written back to the CRM record.
type UpdatePayload struct {
	AcceptanceStatus       Status  `json:"Acceptance_Status"`
	ClientResponse         *string `json:"Client_Response"`
	AcknowledgedBy         *string `json:"Acknowledged_By"`
	AcceptanceTokenExpires string  `json:"Acceptance_Token_Expires,omitempty"`
}

// Ack echoes what was written for a decision.
type Ack struct {
	Action Status        `json:"action"`
	Sent   UpdatePayload `json:"sent"`
}

// NewUpdatePayload builds the write for an already normalized status. An absent or empty
// comment or actor becomes null; whitespace is written as given. A final answer also expires the link token at now.
func NewUpdatePayload(status Status, decision UpdateDecision, now time.Time) UpdatePayload {
	payload := UpdatePayload{
		AcceptanceStatus: status,
		ClientResponse:   nonEmpty(decision.Comment),
		AcknowledgedBy:   nonEmpty(decision.ActorName),
	}
	if status.IsFinal() {
		payload.AcceptanceTokenExpires = FormatCRMTime(now)
	}
	return payload
}

func nonEmpty(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}
