package model

import "github.com/shopspring/decimal"

// RefreshSelector picks the stocks a refresh call operates on. Exactly one
// field is honored, in order: IDs, then Symbols, then All.
type RefreshSelector struct {
	IDs     []int64
	Symbols []string
	All     bool
}

func (s RefreshSelector) IsEmpty() bool {
	return len(s.IDs) == 0 && len(s.Symbols) == 0 && !s.All
}

type StockRefreshSummary struct {
	ID            int64
	Symbol        string
	CurrentPrice  decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Volume        int64
	High          decimal.Decimal
	Low           decimal.Decimal
}

type RefreshError struct {
	Symbol string
	Reason string
}

// BatchRefreshResult reports a refresh batch. Success refers to the batch
// call itself, individual failures land in Errors without affecting it.
type BatchRefreshResult struct {
	Success bool
	Updated int
	Stocks  []StockRefreshSummary
	Errors  []RefreshError
}
