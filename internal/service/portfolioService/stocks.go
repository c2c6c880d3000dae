package portfolioService

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/portfolio_tracker_api/data/repository"
	"github.com/KotFed0t/portfolio_tracker_api/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/service"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
)

func (s *PortfolioService) CreateStock(ctx context.Context, stock model.Stock) (model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreateStock"

	stock.Symbol = strings.ToUpper(strings.TrimSpace(stock.Symbol))

	slog.Debug("CreateStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol))
	defer func() {
		slog.Debug("CreateStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol))
	}()

	_, err := s.repo.GetStockBySymbol(ctx, stock.Symbol)
	if err == nil {
		return model.Stock{}, service.ErrStockAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		slog.Error("got error from repo.GetStockBySymbol", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	// Market data is best effort, the stock is created even when the quote
	// lookup fails.
	quote, err := s.GetQuote(ctx, stock.Symbol)
	if err == nil {
		stock.Name = quote.Name
		stock.CurrentPrice = quote.Price
		stock.Change = quote.Change
		stock.ChangePercent = quote.ChangePercent
		stock.Volume = quote.Volume
		stock.High = quote.High
		stock.Low = quote.Low
	} else {
		slog.Warn("can't get quote for new stock", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol), slog.String("err", err.Error()))
	}

	stockID, err := s.repo.InsertStock(ctx, stock)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.Stock{}, service.ErrStockAlreadyExists
		}
		slog.Error("got error from repo.InsertStock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	stock.ID = stockID

	return stock, nil
}

func (s *PortfolioService) GetStock(ctx context.Context, stockID int64) (model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetStock"

	slog.Debug("GetStock start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("stockID", stockID))
	defer func() {
		slog.Debug("GetStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("stockID", stockID))
	}()

	stock, err := s.repo.GetStockByID(ctx, stockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Stock{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetStockByID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	return stock, nil
}

func (s *PortfolioService) GetStocksPage(ctx context.Context, page int) (model.StocksPage, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetStocksPage"

	slog.Debug("GetStocksPage start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("page", page))
	defer func() {
		slog.Debug("GetStocksPage finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int("page", page))
	}()

	if page < 1 {
		page = 1
	}

	limit := s.cfg.StocksPerPage
	offset := (page - 1) * limit

	stocks, hasNextPage, err := s.repo.GetStocksPage(ctx, limit, offset)
	if err != nil {
		slog.Error("got error from repo.GetStocksPage", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.StocksPage{}, err
	}

	return model.StocksPage{Stocks: stocks, CurPage: page, HasNextPage: hasNextPage}, nil
}

func (s *PortfolioService) UpdateStock(ctx context.Context, stock model.Stock) (model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateStock"

	slog.Debug("UpdateStock start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("stockID", stock.ID))
	defer func() {
		slog.Debug("UpdateStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("stockID", stock.ID))
	}()

	current, err := s.repo.GetStockByID(ctx, stock.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Stock{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetStockByID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	err = s.repo.UpdateStock(ctx, stock)
	if err != nil {
		slog.Error("got error from repo.UpdateStock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	if !current.CurrentPrice.Equal(stock.CurrentPrice) {
		s.recalcTradesForStock(ctx, stock.ID, stock.CurrentPrice)
	}

	updated, err := s.repo.GetStockByID(ctx, stock.ID)
	if err != nil {
		slog.Error("got error from repo.GetStockByID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	return updated, nil
}

func (s *PortfolioService) DeleteStock(ctx context.Context, stockID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.DeleteStock"

	slog.Debug("DeleteStock start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("stockID", stockID))
	defer func() {
		slog.Debug("DeleteStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("stockID", stockID))
	}()

	_, err := s.repo.GetStockByID(ctx, stockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		slog.Error("got error from repo.GetStockByID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteTradesByStockID(ctx, stockID); err != nil {
			return err
		}
		return s.repo.DeleteStock(ctx, stockID)
	})
	if err != nil {
		slog.Error("got error deleting stock within transaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (s *PortfolioService) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetQuote"

	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetQuote finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	quote, err := s.cache.GetQuote(ctx, symbol)
	if err == nil {
		return quote, nil
	}

	slog.Warn("can't get quote from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))

	quote, err = s.quoteApi.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, externalApi.ErrNoData) {
			slog.Warn("no data for symbol in quote api", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
			return model.Quote{}, service.ErrNotFound
		}
		slog.Error("can't get quote from quote api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	go s.cache.SetQuote(context.WithoutCancel(ctx), quote)

	return quote, nil
}
