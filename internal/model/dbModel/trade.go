package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trade struct {
	ID          int64           `db:"id"`
	UserID      int64           `db:"user_id"`
	StockID     int64           `db:"stock_id"`
	Quantity    int64           `db:"quantity"`
	BuyingPrice decimal.Decimal `db:"buying_price"`
	BuyDate     time.Time       `db:"buy_date"`
	MTP         decimal.Decimal `db:"mtp"`
	MSL         decimal.Decimal `db:"msl"`
	Comments    string          `db:"comments"`

	ProfitExpected decimal.Decimal `db:"profit_expected"`
	ProfitPercent  decimal.Decimal `db:"profit_percent"`
	LossExpected   decimal.Decimal `db:"loss_expected"`
	LossRecent     decimal.Decimal `db:"loss_recent"`
	PlRatio        decimal.Decimal `db:"pl_ratio"`
	RateDifference decimal.Decimal `db:"rate_difference"`
	PlPercent      decimal.Decimal `db:"pl_percent"`
	MaxProfit      decimal.Decimal `db:"max_profit"`
	MinProfitLoss  decimal.Decimal `db:"min_profit_loss"`

	CreatedAt time.Time `db:"dt_create"`
}

type TradeWithStock struct {
	Trade
	Symbol       string          `db:"symbol"`
	StockName    string          `db:"stock_name"`
	CurrentPrice decimal.Decimal `db:"current_price"`
}
