package model

import "github.com/shopspring/decimal"

// Quote is a point-in-time snapshot from the market data API. It is never
// persisted as-is, only selected fields are written onto Stock.
type Quote struct {
	Symbol        string
	Name          string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Volume        int64
	High          decimal.Decimal
	Low           decimal.Decimal
}
