// Package domain defines the quote record as read from the CRM, the acceptance workflow
// statuses and the shapes exchanged with the public quote page.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ModuleName is the CRM module holding quote records.
const ModuleName = "Quotes"

// Lookup is a CRM reference to another record.
type Lookup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product identifies the product on a quote line.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"Product_Code"`
}

// LineItem is one row of a quote's product table.
type LineItem struct {
	ID        string   `json:"id"`
	Product   *Product `json:"product"`
	Quantity  float64  `json:"quantity"`
	ListPrice float64  `json:"list_price"`
	Discount  float64  `json:"Discount"`
	Total     float64  `json:"total"`
	NetTotal  float64  `json:"net_total"`
}

// QuoteRecord is the read-only view of a CRM quote.
type QuoteRecord struct {
	ID                     string
	QuoteNumber            string
	Subject                string
	Contact                *Lookup
	Account                *Lookup
	Deal                   *Lookup
	Currency               string
	SubTotal               float64
	Discount               float64
	Tax                    float64
	Adjustment             float64
	GrandTotal             float64
	Terms                  string
	Description            string
	LineItems              []LineItem
	AcceptanceToken        string
	AcceptanceTokenExpires *time.Time
	ValidTill              *time.Time
	AcceptanceStatus       Status // empty when the CRM field is absent
	ClientResponse         string
	AcknowledgedBy         string
}

// recordJSON mirrors the CRM field names.
type recordJSON struct {
	ID                     string     `json:"id"`
	QuoteNumber            string     `json:"Quote_Number"`
	Subject                string     `json:"Subject"`
	Contact                *Lookup    `json:"Contact_Name"`
	Account                *Lookup    `json:"Account_Name"`
	Deal                   *Lookup    `json:"Deal_Name"`
	Currency               string     `json:"Currency"`
	SubTotal               float64    `json:"Sub_Total"`
	Discount               float64    `json:"Discount"`
	Tax                    float64    `json:"Tax"`
	Adjustment             float64    `json:"Adjustment"`
	GrandTotal             float64    `json:"Grand_Total"`
	Terms                  string     `json:"Terms_and_Conditions"`
	Description            string     `json:"Description"`
	LineItems              []LineItem `json:"Product_Details"`
	AcceptanceToken        string     `json:"Acceptance_Token"`
	AcceptanceTokenExpires string     `json:"Acceptance_Token_Expires"`
	ValidTill              string     `json:"Valid_Till"`
	AcceptanceStatus       string     `json:"Acceptance_Status"`
	ClientResponse         string     `json:"Client_Response"`
	AcknowledgedBy         string     `json:"Acknowledged_By"`
}

// DecodeRecord parses one element of a CRM {"data":[...]} envelope. Unparseable dates are
// treated as absent.
func DecodeRecord(raw json.RawMessage) (*QuoteRecord, error) {
	var r recordJSON
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}

	return &QuoteRecord{
		ID:                     r.ID,
		QuoteNumber:            r.QuoteNumber,
		Subject:                r.Subject,
		Contact:                r.Contact,
		Account:                r.Account,
		Deal:                   r.Deal,
		Currency:               r.Currency,
		SubTotal:               r.SubTotal,
		Discount:               r.Discount,
		Tax:                    r.Tax,
		Adjustment:             r.Adjustment,
		GrandTotal:             r.GrandTotal,
		Terms:                  r.Terms,
		Description:            r.Description,
		LineItems:              r.LineItems,
		AcceptanceToken:        r.AcceptanceToken,
		AcceptanceTokenExpires: ParseCRMTime(r.AcceptanceTokenExpires),
		ValidTill:              ParseCRMTime(r.ValidTill),
		AcceptanceStatus:       Status(strings.TrimSpace(r.AcceptanceStatus)),
		ClientResponse:         r.ClientResponse,
		AcknowledgedBy:         r.AcknowledgedBy,
	}, nil
}

// crmTimeLayouts lists the layouts the CRM uses for date and datetime fields. Values without
// an offset are read as UTC, so a date-only Valid_Till means midnight UTC of that day.
var crmTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseCRMTime parses a CRM date or datetime. It returns nil for blank or unrecognized values.
func ParseCRMTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range crmTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// FormatCRMTime renders t in the CRM datetime format with an explicit offset.
func FormatCRMTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05-07:00")
}
