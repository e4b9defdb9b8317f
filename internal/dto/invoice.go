package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/Huulamnguyen/biztime/internal/entity"
)

func init() {
	// Amounts are JSON numbers on the wire, e.g. {"amt": 100}.
	decimal.MarshalJSONWithoutQuotes = true
}

// InvoiceSummary is the list projection of an invoice.
type InvoiceSummary struct {
	ID       int64  `json:"id"`
	CompCode string `json:"comp_code"`
}

// InvoiceResponse is an invoice row as stored.
type InvoiceResponse struct {
	ID       int64           `json:"id"`
	CompCode string          `json:"comp_code"`
	Amount   decimal.Decimal `json:"amt"`
	Paid     bool            `json:"paid"`
	AddDate  *time.Time      `json:"add_date"`
	PaidDate *time.Time      `json:"paid_date"`
}

// InvoiceDetailResponse replaces comp_code with the owning company. Company
// is null when the company row no longer exists.
type InvoiceDetailResponse struct {
	ID       int64            `json:"id"`
	Amount   decimal.Decimal  `json:"amt"`
	Paid     bool             `json:"paid"`
	AddDate  *time.Time       `json:"add_date"`
	PaidDate *time.Time       `json:"paid_date"`
	Company  *CompanyResponse `json:"company"`
}

// CreateInvoiceRequest is the POST /invoices body. An absent or null amt
// stays invalid and reaches the store as NULL.
type CreateInvoiceRequest struct {
	CompCode string              `json:"comp_code"`
	Amount   decimal.NullDecimal `json:"amt"`
}

// UpdateInvoiceRequest is the PATCH /invoices/:id body.
type UpdateInvoiceRequest struct {
	Amount decimal.NullDecimal `json:"amt"`
}

// NewInvoiceSummaries projects invoices for the list view.
func NewInvoiceSummaries(invoices []entity.Invoice) []InvoiceSummary {
	return lo.Map(invoices, func(inv entity.Invoice, _ int) InvoiceSummary {
		return InvoiceSummary{ID: inv.ID, CompCode: inv.CompCode}
	})
}

// NewInvoiceResponse maps a stored invoice.
func NewInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:       inv.ID,
		CompCode: inv.CompCode,
		Amount:   inv.Amount.Decimal,
		Paid:     inv.Paid,
		AddDate:  nullableTime(inv.AddDate),
		PaidDate: nullableTime(inv.PaidDate),
	}
}

// NewInvoiceDetailResponse maps an invoice with its resolved company.
func NewInvoiceDetailResponse(inv *entity.Invoice, company *entity.Company) InvoiceDetailResponse {
	out := InvoiceDetailResponse{
		ID:       inv.ID,
		Amount:   inv.Amount.Decimal,
		Paid:     inv.Paid,
		AddDate:  nullableTime(inv.AddDate),
		PaidDate: nullableTime(inv.PaidDate),
	}
	if company != nil {
		c := NewCompanyResponse(company)
		out.Company = &c
	}
	return out
}

func nullableTime(t bun.NullTime) *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}
