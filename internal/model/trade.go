package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade stores user-entered fields alongside derived P/L fields. Derived
// fields are recomputed by the finance package on every write and on every
// price change of the referenced stock, never edited directly.
type Trade struct {
	ID          int64
	UserID      int64
	StockID     int64
	Quantity    int64
	BuyingPrice decimal.Decimal
	BuyDate     time.Time
	MTP         decimal.Decimal
	MSL         decimal.Decimal
	Comments    string

	ProfitExpected decimal.Decimal
	ProfitPercent  decimal.Decimal
	LossExpected   decimal.Decimal
	LossRecent     decimal.Decimal
	PlRatio        decimal.Decimal
	RateDifference decimal.Decimal
	PlPercent      decimal.Decimal
	MaxProfit      decimal.Decimal
	MinProfitLoss  decimal.Decimal

	CreatedAt time.Time
}
