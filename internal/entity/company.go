package entity

import "github.com/uptrace/bun"

// Company is a business that invoices are billed to. Code is chosen by the
// caller and never changes after insert. Empty strings are written as NULL.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`

	Code        string `bun:"code,pk,nullzero"`
	Name        string `bun:"name,notnull,nullzero"`
	Description string `bun:"description,nullzero"`
}
