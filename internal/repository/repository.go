// Package repository holds the bun-backed data access for companies and
// invoices. Single-row lookups and updates report a missing row as
// ErrNotFound instead of a nil value.
package repository

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a lookup or update by key matches no row.
var ErrNotFound = errors.New("record not found")

// NotFoundIfNoRows translates sql.ErrNoRows into ErrNotFound.
func NotFoundIfNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
