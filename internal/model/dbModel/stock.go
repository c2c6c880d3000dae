package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	ID            int64           `db:"id"`
	Symbol        string          `db:"symbol"`
	Name          string          `db:"name"`
	CurrentPrice  decimal.Decimal `db:"current_price"`
	Change        decimal.Decimal `db:"change"`
	ChangePercent decimal.Decimal `db:"change_percent"`
	Volume        int64           `db:"volume"`
	High          decimal.Decimal `db:"high"`
	Low           decimal.Decimal `db:"low"`
	TP1           decimal.Decimal `db:"tp1"`
	TP2           decimal.Decimal `db:"tp2"`
	TP3           decimal.Decimal `db:"tp3"`
	SL1           decimal.Decimal `db:"sl1"`
	SL2           decimal.Decimal `db:"sl2"`
	SL3           decimal.Decimal `db:"sl3"`
	LTP1          decimal.Decimal `db:"ltp1"`
	LTP2          decimal.Decimal `db:"ltp2"`
	LTP3          decimal.Decimal `db:"ltp3"`
	RSI           decimal.Decimal `db:"rsi"`
	CreatedAt     time.Time       `db:"dt_create"`
}
