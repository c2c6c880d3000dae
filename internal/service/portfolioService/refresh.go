package portfolioService

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/KotFed0t/portfolio_tracker_api/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/service"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
)

// noDataReason is the per-item error message clients match on when a symbol
// has no market data.
const noDataReason = "No data available from API"

type stockRefreshOutcome struct {
	symbol  string
	summary model.StockRefreshSummary
	quote   model.Quote
	err     error
}

// RefreshStockPrices refreshes quotes for the selected stocks. Stocks are
// processed independently, a failing stock lands in Errors and never rolls
// back updates already applied to other stocks.
func (s *PortfolioService) RefreshStockPrices(ctx context.Context, selector model.RefreshSelector) (model.BatchRefreshResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RefreshStockPrices"

	slog.Debug("RefreshStockPrices start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("selector", selector))
	defer func() {
		slog.Debug("RefreshStockPrices finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	stocks, err := s.resolveRefreshTargets(ctx, selector)
	if err != nil {
		return model.BatchRefreshResult{}, err
	}

	outcomes := make([]stockRefreshOutcome, len(stocks))

	concurrency := s.cfg.Refresh.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	wg := sync.WaitGroup{}

	for i, stock := range stocks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, stock model.Stock) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = s.refreshStock(ctx, stock)
		}(i, stock)
	}

	wg.Wait()

	result := model.BatchRefreshResult{Success: true}
	quotes := make([]model.Quote, 0, len(outcomes))

	for _, outcome := range outcomes {
		if outcome.err != nil {
			reason := outcome.err.Error()
			if errors.Is(outcome.err, externalApi.ErrNoData) {
				reason = noDataReason
			}
			result.Errors = append(result.Errors, model.RefreshError{Symbol: outcome.symbol, Reason: reason})
			continue
		}
		result.Stocks = append(result.Stocks, outcome.summary)
		quotes = append(quotes, outcome.quote)
	}

	result.Updated = len(result.Stocks)

	if len(quotes) > 0 {
		go s.cache.SetQuotes(context.WithoutCancel(ctx), quotes)
	}

	return result, nil
}

// RefreshAllPrices refreshes every stock, used as a scheduler job.
func (s *PortfolioService) RefreshAllPrices(ctx context.Context) error {
	res, err := s.RefreshStockPrices(ctx, model.RefreshSelector{All: true})
	if err != nil {
		return err
	}

	if len(res.Errors) > 0 {
		slog.Warn("some stocks were not refreshed", slog.Int("updated", res.Updated), slog.Int("failed", len(res.Errors)))
	}

	return nil
}

// refreshStock pulls a fresh quote, persists the price fields and recomputes
// trades when the price moved. Every failure stays local to this stock.
func (s *PortfolioService) refreshStock(ctx context.Context, stock model.Stock) stockRefreshOutcome {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.refreshStock"

	outcome := stockRefreshOutcome{symbol: stock.Symbol}

	quote, err := s.quoteApi.GetQuote(ctx, stock.Symbol)
	if err != nil {
		slog.Warn("can't get quote for stock", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol), slog.String("err", err.Error()))
		outcome.err = err
		return outcome
	}

	err = s.repo.UpdateStockPrices(ctx, stock.ID, quote)
	if err != nil {
		slog.Error("got error from repo.UpdateStockPrices", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol), slog.String("err", err.Error()))
		outcome.err = err
		return outcome
	}

	if !stock.CurrentPrice.Equal(quote.Price) {
		s.recalcTradesForStock(ctx, stock.ID, quote.Price)
	}

	outcome.quote = quote
	outcome.summary = model.StockRefreshSummary{
		ID:            stock.ID,
		Symbol:        stock.Symbol,
		CurrentPrice:  quote.Price,
		Change:        quote.Change,
		ChangePercent: quote.ChangePercent,
		Volume:        quote.Volume,
		High:          quote.High,
		Low:           quote.Low,
	}

	return outcome
}

// resolveRefreshTargets expands the selector into concrete stocks. IDs win
// over Symbols, Symbols win over All. Unknown ids and symbols are dropped
// without an error.
func (s *PortfolioService) resolveRefreshTargets(ctx context.Context, selector model.RefreshSelector) ([]model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.resolveRefreshTargets"

	switch {
	case len(selector.IDs) > 0:
		stocks, err := s.repo.GetStocksByIDs(ctx, selector.IDs)
		if err != nil {
			slog.Error("got error from repo.GetStocksByIDs", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, err
		}
		return orderStocksByID(stocks, selector.IDs), nil
	case len(selector.Symbols) > 0:
		symbols := make([]string, 0, len(selector.Symbols))
		for _, symbol := range selector.Symbols {
			symbols = append(symbols, strings.ToUpper(strings.TrimSpace(symbol)))
		}
		stocks, err := s.repo.GetStocksBySymbols(ctx, symbols)
		if err != nil {
			slog.Error("got error from repo.GetStocksBySymbols", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, err
		}
		return orderStocksBySymbol(stocks, symbols), nil
	case selector.All:
		stocks, err := s.repo.GetAllStocks(ctx)
		if err != nil {
			slog.Error("got error from repo.GetAllStocks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, err
		}
		return stocks, nil
	}

	return nil, service.ErrEmptySelector
}

// orderStocksByID puts stocks into request order and drops duplicates.
func orderStocksByID(stocks []model.Stock, ids []int64) []model.Stock {
	byID := make(map[int64]model.Stock, len(stocks))
	for _, stock := range stocks {
		byID[stock.ID] = stock
	}

	ordered := make([]model.Stock, 0, len(stocks))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if stock, ok := byID[id]; ok {
			ordered = append(ordered, stock)
		}
	}

	return ordered
}

func orderStocksBySymbol(stocks []model.Stock, symbols []string) []model.Stock {
	bySymbol := make(map[string]model.Stock, len(stocks))
	for _, stock := range stocks {
		bySymbol[stock.Symbol] = stock
	}

	ordered := make([]model.Stock, 0, len(stocks))
	seen := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		if stock, ok := bySymbol[symbol]; ok {
			ordered = append(ordered, stock)
		}
	}

	return ordered
}
