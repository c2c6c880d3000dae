package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	ID            int64
	Symbol        string
	Name          string
	CurrentPrice  decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Volume        int64
	High          decimal.Decimal
	Low           decimal.Decimal
	TP1           decimal.Decimal
	TP2           decimal.Decimal
	TP3           decimal.Decimal
	SL1           decimal.Decimal
	SL2           decimal.Decimal
	SL3           decimal.Decimal
	LTP1          decimal.Decimal
	LTP2          decimal.Decimal
	LTP3          decimal.Decimal
	RSI           decimal.Decimal
	CreatedAt     time.Time
}

type StocksPage struct {
	Stocks      []Stock
	CurPage     int
	HasNextPage bool
}
