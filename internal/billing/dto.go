package billing

import "github.com/google/uuid"

// LineItemInput is one line of a replace-all line item edit.
type LineItemInput struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Qty       float64 `json:"qty" validate:"gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Taxable   bool    `json:"taxable"`
	SortOrder int     `json:"sort_order" validate:"gte=0"`
}

// ReplaceLineItemsRequest replaces the full line item set of a draft invoice.
type ReplaceLineItemsRequest struct {
	Items []LineItemInput `json:"items" validate:"required,min=1,dive"`
}

// MarkPaidRequest captures payment metadata. An empty method falls back to the
// configured shop default at the HTTP layer, never silently inside the service.
type MarkPaidRequest struct {
	Method   string `json:"method" validate:"omitempty,oneof=Cash Card 'Bank Transfer' Cheque Other"`
	PaidDate string `json:"paid_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListInvoicesRequest filters the invoice list.
type ListInvoicesRequest struct {
	Status  InvoiceStatus
	VisitID uuid.UUID
	Limit   int
	Offset  int
}
