package dto

import (
	"github.com/samber/lo"

	"github.com/Huulamnguyen/biztime/internal/entity"
)

// CompanySummary is the list projection of a company.
type CompanySummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CompanyResponse is a company row as stored.
type CompanyResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CompanyDetailResponse is a company together with all of its invoices.
type CompanyDetailResponse struct {
	CompanyResponse
	Invoices []InvoiceResponse `json:"invoices"`
}

// CreateCompanyRequest is the POST /companies body. Absent code or name
// reach the store as NULL.
type CreateCompanyRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Description string  `json:"description"`
}

// UpdateCompanyRequest is the PATCH /companies/:code body.
type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	Description string  `json:"description"`
}

// NewCompanySummaries projects companies for the list view.
func NewCompanySummaries(companies []entity.Company) []CompanySummary {
	return lo.Map(companies, func(c entity.Company, _ int) CompanySummary {
		return CompanySummary{Code: c.Code, Name: c.Name}
	})
}

// NewCompanyResponse maps a stored company.
func NewCompanyResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{Code: c.Code, Name: c.Name, Description: c.Description}
}

// NewCompanyDetailResponse maps a company and its invoices.
func NewCompanyDetailResponse(c *entity.Company, invoices []entity.Invoice) CompanyDetailResponse {
	return CompanyDetailResponse{
		CompanyResponse: NewCompanyResponse(c),
		Invoices: lo.Map(invoices, func(inv entity.Invoice, _ int) InvoiceResponse {
			return NewInvoiceResponse(&inv)
		}),
	}
}
