package model

import (
	"github.com/shopspring/decimal"
)

// Holding is a trade joined with its stock for dashboard rendering.
type Holding struct {
	Trade
	Symbol       string
	StockName    string
	CurrentPrice decimal.Decimal
}

type PortfolioSummary struct {
	TotalCost    decimal.Decimal
	TotalValue   decimal.Decimal
	UnrealizedPl decimal.Decimal
	PlPercent    decimal.Decimal
	TradesCount  int
}

// Dashboard holds the whole filtered holding set, totals are computed over
// all of it, not a page.
type Dashboard struct {
	PortfolioSummary
	Holdings []Holding
}

type DashboardQuery struct {
	Symbol string
	Sort   string
}

type TradesPage struct {
	Trades      []Holding
	CurPage     int
	HasNextPage bool
}
