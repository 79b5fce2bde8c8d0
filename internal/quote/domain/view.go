package domain

import "time"

// PublicLineItem is a quote line as shown on the quote page.
type PublicLineItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	ProductCode string  `json:"product_code,omitempty"`
	Quantity    float64 `json:"quantity"`
	ListPrice   float64 `json:"list_price"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// PublicView is the subset of a quote exposed to the holder of its link token.
type PublicView struct {
	ID          string           `json:"id"`
	QuoteNumber string           `json:"quote_number"`
	Subject     string           `json:"subject"`
	ContactName string           `json:"contact_name"`
	Company     string           `json:"company"`
	ValidTill   *string          `json:"valid_till"`
	Status      Status           `json:"status"`
	ReadOnly    bool             `json:"read_only"`
	Currency    string           `json:"currency,omitempty"`
	SubTotal    float64          `json:"sub_total"`
	Discount    float64          `json:"discount"`
	Tax         float64          `json:"tax"`
	Adjustment  float64          `json:"adjustment"`
	GrandTotal  float64          `json:"grand_total"`
	Terms       string           `json:"terms"`
	Description string           `json:"description,omitempty"`
	Products    []PublicLineItem `json:"products"`
}

// NewPublicView shapes record for the quote page using an already derived status.
func NewPublicView(record *QuoteRecord, status Status) *PublicView {
	view := &PublicView{
		ID:          record.ID,
		QuoteNumber: record.QuoteNumber,
		Subject:     record.Subject,
		Status:      status,
		ReadOnly:    !status.IsMutable(),
		Currency:    record.Currency,
		SubTotal:    record.SubTotal,
		Discount:    record.Discount,
		Tax:         record.Tax,
		Adjustment:  record.Adjustment,
		GrandTotal:  record.GrandTotal,
		Terms:       record.Terms,
		Description: record.Description,
		Products:    make([]PublicLineItem, 0, len(record.LineItems)),
	}
	if record.Contact != nil {
		view.ContactName = record.Contact.Name
	}
	if record.Account != nil {
		view.Company = record.Account.Name
	}
	if record.ValidTill != nil {
		validTill := record.ValidTill.Format(time.DateOnly)
		view.ValidTill = &validTill
	}

	for _, item := range record.LineItems {
		line := PublicLineItem{
			ID:        item.ID,
			Quantity:  item.Quantity,
			ListPrice: item.ListPrice,
			Discount:  item.Discount,
			Total:     item.Total,
		}
		if item.Product != nil {
			line.ProductID = item.Product.ID
			line.ProductName = item.Product.Name
			line.ProductCode = item.Product.Code
		}
		view.Products = append(view.Products, line)
	}

	return view
}
