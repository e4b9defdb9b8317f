package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/Huulamnguyen/biztime/internal/entity"
	"github.com/Huulamnguyen/biztime/internal/repository"
)

// InMemoryDB backs the in-memory company and invoice stores. It enforces
// the same constraints as the SQL schema: unique company codes, NOT NULL
// columns, a foreign key from invoices to companies and cascading deletes.
type InMemoryDB struct {
	mu        sync.RWMutex
	companies map[string]entity.Company
	invoices  map[int64]entity.Invoice
	nextID    int64
	snapshots atomic.Int64

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// NewInMemoryDB returns an empty database.
func NewInMemoryDB() *InMemoryDB {
	return &InMemoryDB{
		companies: make(map[string]entity.Company),
		invoices:  make(map[int64]entity.Invoice),
		nextID:    1,
	}
}

// Companies returns a company store over db.
func (db *InMemoryDB) Companies() *InMemoryCompanyStore {
	return &InMemoryCompanyStore{db: db}
}

// Invoices returns an invoice store over db.
func (db *InMemoryDB) Invoices() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{db: db}
}

// ReadSnapshot counts the call and runs fn; every store call locks on its own.
func (db *InMemoryDB) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	db.snapshots.Add(1)
	return fn(ctx)
}

// Snapshots reports how many snapshot reads were opened.
func (db *InMemoryDB) Snapshots() int64 {
	return db.snapshots.Load()
}

// CompanyCount returns the number of stored companies.
func (db *InMemoryDB) CompanyCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.companies)
}

// Company returns a stored company by code.
func (db *InMemoryDB) Company(code string) (entity.Company, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	c, ok := db.companies[code]
	return c, ok
}

// Invoice returns a stored invoice by id.
func (db *InMemoryDB) Invoice(id int64) (entity.Invoice, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	inv, ok := db.invoices[id]
	return inv, ok
}

// InMemoryCompanyStore implements the company repository contract.
type InMemoryCompanyStore struct {
	db *InMemoryDB
}

func (s *InMemoryCompanyStore) List(ctx context.Context) ([]entity.Company, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if s.db.FailWith != nil {
		return nil, s.db.FailWith
	}

	out := make([]entity.Company, 0, len(s.db.companies))
	for _, c := range s.db.companies {
		out = append(out, entity.Company{Code: c.Code, Name: c.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *InMemoryCompanyStore) GetByCode(ctx context.Context, code string) (*entity.Company, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if s.db.FailWith != nil {
		return nil, s.db.FailWith
	}

	c, ok := s.db.companies[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryCompanyStore) Create(ctx context.Context, company *entity.Company) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailWith != nil {
		return s.db.FailWith
	}

	switch {
	case company.Code == "":
		return notNull("companies", "code")
	case company.Name == "":
		return notNull("companies", "name")
	}
	if _, exists := s.db.companies[company.Code]; exists {
		return fmt.Errorf("duplicate key value violates unique constraint \"companies_pkey\": %s", company.Code)
	}
	s.db.companies[company.Code] = *company
	return nil
}

func (s *InMemoryCompanyStore) Update(ctx context.Context, company *entity.Company) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailWith != nil {
		return s.db.FailWith
	}

	if _, exists := s.db.companies[company.Code]; !exists {
		return repository.ErrNotFound
	}
	if company.Name == "" {
		return notNull("companies", "name")
	}
	s.db.companies[company.Code] = *company
	return nil
}

func (s *InMemoryCompanyStore) Delete(ctx context.Context, code string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailWith != nil {
		return false, s.db.FailWith
	}

	if _, exists := s.db.companies[code]; !exists {
		return false, nil
	}
	delete(s.db.companies, code)
	for id, inv := range s.db.invoices {
		if inv.CompCode == code {
			delete(s.db.invoices, id)
		}
	}
	return true, nil
}

// InMemoryInvoiceStore implements the invoice repository contract.
type InMemoryInvoiceStore struct {
	db *InMemoryDB
}

func (s *InMemoryInvoiceStore) List(ctx context.Context) ([]entity.Invoice, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if s.db.FailWith != nil {
		return nil, s.db.FailWith
	}

	out := make([]entity.Invoice, 0, len(s.db.invoices))
	for _, inv := range s.db.invoices {
		out = append(out, entity.Invoice{ID: inv.ID, CompCode: inv.CompCode})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryInvoiceStore) ListByCompany(ctx context.Context, code string) ([]entity.Invoice, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if s.db.FailWith != nil {
		return nil, s.db.FailWith
	}

	out := make([]entity.Invoice, 0)
	for _, inv := range s.db.invoices {
		if inv.CompCode == code {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryInvoiceStore) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	if s.db.FailWith != nil {
		return nil, s.db.FailWith
	}

	inv, ok := s.db.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inv, nil
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, invoice *entity.Invoice) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailWith != nil {
		return s.db.FailWith
	}

	if !invoice.Amount.Valid {
		return notNull("invoices", "amt")
	}
	if _, ok := s.db.companies[invoice.CompCode]; !ok {
		return fmt.Errorf("insert or update on table \"invoices\" violates foreign key constraint: %q", invoice.CompCode)
	}
	invoice.ID = s.db.nextID
	s.db.nextID++
	s.db.invoices[invoice.ID] = *invoice
	return nil
}

func (s *InMemoryInvoiceStore) UpdateAmount(ctx context.Context, id int64, amount decimal.NullDecimal) (*entity.Invoice, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailWith != nil {
		return nil, s.db.FailWith
	}

	inv, ok := s.db.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !amount.Valid {
		return nil, notNull("invoices", "amt")
	}
	inv.Amount = amount
	s.db.invoices[id] = inv
	return &inv, nil
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.FailWith != nil {
		return false, s.db.FailWith
	}

	if _, ok := s.db.invoices[id]; !ok {
		return false, nil
	}
	delete(s.db.invoices, id)
	return true, nil
}

func notNull(table, column string) error {
	return fmt.Errorf("null value in column %q of relation %q violates not-null constraint", column, table)
}
