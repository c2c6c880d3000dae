package restConverter

import (
	"time"

	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/shopspring/decimal"
)

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type StockResponse struct {
	ID            int64    `json:"id"`
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	CurrentPrice  *float64 `json:"current_price"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"change_percent"`
	Volume        *int64   `json:"volume"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	TP1           *float64 `json:"tp1"`
	TP2           *float64 `json:"tp2"`
	TP3           *float64 `json:"tp3"`
	SL1           *float64 `json:"sl1"`
	SL2           *float64 `json:"sl2"`
	SL3           *float64 `json:"sl3"`
	LTP1          *float64 `json:"ltp1"`
	LTP2          *float64 `json:"ltp2"`
	LTP3          *float64 `json:"ltp3"`
	RSI           *float64 `json:"rsi"`
}

type StocksPageResponse struct {
	Stocks      []StockResponse `json:"stocks"`
	CurPage     int             `json:"cur_page"`
	HasNextPage bool            `json:"has_next_page"`
}

type TradeResponse struct {
	ID             int64    `json:"id"`
	StockID        int64    `json:"stock_id"`
	Quantity       int64    `json:"quantity"`
	BuyingPrice    float64  `json:"buying_price"`
	BuyDate        string   `json:"buy_date"`
	MTP            *float64 `json:"mtp"`
	MSL            *float64 `json:"msl"`
	Comments       string   `json:"comments"`
	ProfitExpected *float64 `json:"profit_expected"`
	ProfitPercent  *float64 `json:"profit_percent"`
	LossExpected   *float64 `json:"loss_expected"`
	LossRecent     *float64 `json:"loss_recent"`
	PlRatio        *float64 `json:"pl_ratio"`
	RateDifference *float64 `json:"rate_difference"`
	PlPercent      *float64 `json:"pl_percent"`
	MaxProfit      *float64 `json:"max_profit"`
	MinProfitLoss  *float64 `json:"min_profit_loss"`
}

type HoldingResponse struct {
	TradeResponse
	Symbol       string   `json:"symbol"`
	StockName    string   `json:"stock_name"`
	CurrentPrice *float64 `json:"current_price"`
}

type TradesPageResponse struct {
	Trades      []HoldingResponse `json:"trades"`
	CurPage     int               `json:"cur_page"`
	HasNextPage bool              `json:"has_next_page"`
}

type SummaryResponse struct {
	TotalCost    float64 `json:"total_cost"`
	TotalValue   float64 `json:"total_value"`
	UnrealizedPl float64 `json:"unrealized_pl"`
	PlPercent    float64 `json:"pl_percent"`
	TradesCount  int     `json:"trades_count"`
}

type DashboardResponse struct {
	Summary  SummaryResponse   `json:"summary"`
	Holdings []HoldingResponse `json:"holdings"`
}

type QuoteResponse struct {
	Symbol string   `json:"symbol"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Volume *int64   `json:"volume"`
}

type RefreshStockResponse struct {
	ID            int64    `json:"id"`
	Symbol        string   `json:"symbol"`
	CurrentPrice  *float64 `json:"current_price"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"change_percent"`
	Volume        *int64   `json:"volume"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
}

type RefreshErrorResponse struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

type RefreshResponse struct {
	Success bool                   `json:"success"`
	Updated int                    `json:"updated"`
	Stocks  []RefreshStockResponse `json:"stocks"`
	Errors  []RefreshErrorResponse `json:"errors"`
}

func ConvertUser(user model.User) UserResponse {
	return UserResponse{ID: user.ID, Username: user.Username}
}

func ConvertStock(stock model.Stock) StockResponse {
	return StockResponse{
		ID:            stock.ID,
		Symbol:        stock.Symbol,
		Name:          stock.Name,
		CurrentPrice:  floatOrNil(stock.CurrentPrice),
		Change:        floatOrNil(stock.Change),
		ChangePercent: floatOrNil(stock.ChangePercent),
		Volume:        intOrNil(stock.Volume),
		High:          floatOrNil(stock.High),
		Low:           floatOrNil(stock.Low),
		TP1:           floatOrNil(stock.TP1),
		TP2:           floatOrNil(stock.TP2),
		TP3:           floatOrNil(stock.TP3),
		SL1:           floatOrNil(stock.SL1),
		SL2:           floatOrNil(stock.SL2),
		SL3:           floatOrNil(stock.SL3),
		LTP1:          floatOrNil(stock.LTP1),
		LTP2:          floatOrNil(stock.LTP2),
		LTP3:          floatOrNil(stock.LTP3),
		RSI:           floatOrNil(stock.RSI),
	}
}

func ConvertStocksPage(page model.StocksPage) StocksPageResponse {
	stocks := make([]StockResponse, 0, len(page.Stocks))
	for _, stock := range page.Stocks {
		stocks = append(stocks, ConvertStock(stock))
	}
	return StocksPageResponse{Stocks: stocks, CurPage: page.CurPage, HasNextPage: page.HasNextPage}
}

func ConvertTrade(trade model.Trade) TradeResponse {
	return TradeResponse{
		ID:             trade.ID,
		StockID:        trade.StockID,
		Quantity:       trade.Quantity,
		BuyingPrice:    trade.BuyingPrice.InexactFloat64(),
		BuyDate:        trade.BuyDate.Format(time.DateOnly),
		MTP:            floatOrNil(trade.MTP),
		MSL:            floatOrNil(trade.MSL),
		Comments:       trade.Comments,
		ProfitExpected: floatOrNil(trade.ProfitExpected),
		ProfitPercent:  floatOrNil(trade.ProfitPercent),
		LossExpected:   floatOrNil(trade.LossExpected),
		LossRecent:     floatOrNil(trade.LossRecent),
		PlRatio:        floatOrNil(trade.PlRatio),
		RateDifference: floatOrNil(trade.RateDifference),
		PlPercent:      floatOrNil(trade.PlPercent),
		MaxProfit:      floatOrNil(trade.MaxProfit),
		MinProfitLoss:  floatOrNil(trade.MinProfitLoss),
	}
}

func ConvertHolding(holding model.Holding) HoldingResponse {
	return HoldingResponse{
		TradeResponse: ConvertTrade(holding.Trade),
		Symbol:        holding.Symbol,
		StockName:     holding.StockName,
		CurrentPrice:  floatOrNil(holding.CurrentPrice),
	}
}

func ConvertTradesPage(page model.TradesPage) TradesPageResponse {
	trades := make([]HoldingResponse, 0, len(page.Trades))
	for _, holding := range page.Trades {
		trades = append(trades, ConvertHolding(holding))
	}
	return TradesPageResponse{Trades: trades, CurPage: page.CurPage, HasNextPage: page.HasNextPage}
}

func ConvertDashboard(dashboard model.Dashboard) DashboardResponse {
	holdings := make([]HoldingResponse, 0, len(dashboard.Holdings))
	for _, holding := range dashboard.Holdings {
		holdings = append(holdings, ConvertHolding(holding))
	}
	return DashboardResponse{
		Summary: SummaryResponse{
			TotalCost:    dashboard.TotalCost.InexactFloat64(),
			TotalValue:   dashboard.TotalValue.InexactFloat64(),
			UnrealizedPl: dashboard.UnrealizedPl.InexactFloat64(),
			PlPercent:    dashboard.PlPercent.InexactFloat64(),
			TradesCount:  dashboard.TradesCount,
		},
		Holdings: holdings,
	}
}

func ConvertQuote(quote model.Quote) QuoteResponse {
	return QuoteResponse{
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Price:  quote.Price.InexactFloat64(),
		High:   floatOrNil(quote.High),
		Low:    floatOrNil(quote.Low),
		Volume: intOrNil(quote.Volume),
	}
}

func ConvertRefreshResult(result model.BatchRefreshResult) RefreshResponse {
	stocks := make([]RefreshStockResponse, 0, len(result.Stocks))
	for _, stock := range result.Stocks {
		stocks = append(stocks, RefreshStockResponse{
			ID:            stock.ID,
			Symbol:        stock.Symbol,
			CurrentPrice:  floatOrNil(stock.CurrentPrice),
			Change:        floatOrNil(stock.Change),
			ChangePercent: floatOrNil(stock.ChangePercent),
			Volume:        intOrNil(stock.Volume),
			High:          floatOrNil(stock.High),
			Low:           floatOrNil(stock.Low),
		})
	}

	refreshErrors := make([]RefreshErrorResponse, 0, len(result.Errors))
	for _, refreshErr := range result.Errors {
		refreshErrors = append(refreshErrors, RefreshErrorResponse{Symbol: refreshErr.Symbol, Error: refreshErr.Reason})
	}

	return RefreshResponse{
		Success: result.Success,
		Updated: result.Updated,
		Stocks:  stocks,
		Errors:  refreshErrors,
	}
}

// floatOrNil keeps the zero-as-unset convention in JSON, unset fields come
// out as null.
func floatOrNil(d decimal.Decimal) *float64 {
	if d.IsZero() {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func intOrNil(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}
