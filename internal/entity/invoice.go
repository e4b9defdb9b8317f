package entity

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Invoice is an amount billed to a company. ID and AddDate are assigned by
// the store. An invalid Amount is written as NULL, which the schema rejects.
type Invoice struct {
	bun.BaseModel `bun:"table:invoices,alias:i"`

	ID       int64               `bun:"id,pk,autoincrement"`
	CompCode string              `bun:"comp_code,notnull"`
	Amount   decimal.NullDecimal `bun:"amt,type:numeric,notnull"`
	Paid     bool                `bun:"paid,notnull,default:false"`
	AddDate  bun.NullTime        `bun:"add_date,type:date"`
	PaidDate bun.NullTime        `bun:"paid_date,type:date"`
}
