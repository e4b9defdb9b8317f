package testutil

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/Huulamnguyen/biztime/internal/entity"
)

// AddDate is the add_date given to seeded invoices.
var AddDate = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

// SeedCompany stores c as-is.
func (db *InMemoryDB) SeedCompany(c entity.Company) entity.Company {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.companies[c.Code] = c
	return c
}

// SeedInvoice stores inv with the next id and returns the stored row.
func (db *InMemoryDB) SeedInvoice(inv entity.Invoice) entity.Invoice {
	db.mu.Lock()
	defer db.mu.Unlock()
	inv.ID = db.nextID
	db.nextID++
	db.invoices[inv.ID] = inv
	return inv
}

// SeedApple stores the "apple" company with one paid invoice of 300.
func (db *InMemoryDB) SeedApple() (entity.Company, entity.Invoice) {
	company := db.SeedCompany(entity.Company{Code: "apple", Name: "Apple Computer", Description: "Maker of OSX."})
	invoice := db.SeedInvoice(entity.Invoice{
		CompCode: "apple",
		Amount:   decimal.NewNullDecimal(decimal.NewFromInt(300)),
		Paid:     true,
		AddDate:  bun.NullTime{Time: AddDate},
	})
	return company, invoice
}
