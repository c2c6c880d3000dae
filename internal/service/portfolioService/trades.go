package portfolioService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker_api/data/repository"
	"github.com/KotFed0t/portfolio_tracker_api/internal/finance"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/service"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
	"github.com/shopspring/decimal"
)

func (s *PortfolioService) CreateTrade(ctx context.Context, userID int64, trade model.Trade) (model.Trade, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreateTrade"

	slog.Debug("CreateTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("stockID", trade.StockID))
	defer func() {
		slog.Debug("CreateTrade finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("stockID", trade.StockID))
	}()

	stock, err := s.repo.GetStockByID(ctx, trade.StockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Trade{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetStockByID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Trade{}, err
	}

	trade.UserID = userID
	trade = finance.RecomputeTrade(trade, stock.CurrentPrice)

	tradeID, err := s.repo.InsertTrade(ctx, trade)
	if err != nil {
		slog.Error("got error from repo.InsertTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Trade{}, err
	}

	trade.ID = tradeID

	return trade, nil
}

func (s *PortfolioService) GetTrade(ctx context.Context, userID, tradeID int64) (model.Trade, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetTrade"

	slog.Debug("GetTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("tradeID", tradeID))
	defer func() {
		slog.Debug("GetTrade finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("tradeID", tradeID))
	}()

	trade, err := s.repo.GetTradeByID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Trade{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetTradeByID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Trade{}, err
	}

	if trade.UserID != userID {
		slog.Warn("trade belongs to another user", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("tradeID", tradeID))
		return model.Trade{}, service.ErrForbidden
	}

	return trade, nil
}

func (s *PortfolioService) UpdateTrade(ctx context.Context, userID int64, trade model.Trade) (model.Trade, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateTrade"

	slog.Debug("UpdateTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("tradeID", trade.ID))
	defer func() {
		slog.Debug("UpdateTrade finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("tradeID", trade.ID))
	}()

	existing, err := s.GetTrade(ctx, userID, trade.ID)
	if err != nil {
		return model.Trade{}, err
	}

	stock, err := s.repo.GetStockByID(ctx, trade.StockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Trade{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetStockByID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Trade{}, err
	}

	trade.UserID = existing.UserID
	trade.CreatedAt = existing.CreatedAt
	// Extrema track the whole lifetime of the trade and survive edits.
	trade.MaxProfit = existing.MaxProfit
	trade.MinProfitLoss = existing.MinProfitLoss

	trade = finance.RecomputeTrade(trade, stock.CurrentPrice)

	err = s.repo.UpdateTrade(ctx, trade)
	if err != nil {
		slog.Error("got error from repo.UpdateTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Trade{}, err
	}

	return trade, nil
}

func (s *PortfolioService) DeleteTrade(ctx context.Context, userID, tradeID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.DeleteTrade"

	slog.Debug("DeleteTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("tradeID", tradeID))
	defer func() {
		slog.Debug("DeleteTrade finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int64("tradeID", tradeID))
	}()

	_, err := s.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return err
	}

	err = s.repo.DeleteTrade(ctx, tradeID)
	if err != nil {
		slog.Error("got error from repo.DeleteTrade", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (s *PortfolioService) GetTradesPage(ctx context.Context, userID int64, page int) (model.TradesPage, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetTradesPage"

	slog.Debug("GetTradesPage start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int("page", page))
	defer func() {
		slog.Debug("GetTradesPage finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID), slog.Int("page", page))
	}()

	if page < 1 {
		page = 1
	}

	limit := s.cfg.TradesPerPage
	offset := (page - 1) * limit

	trades, hasNextPage, err := s.repo.GetTradesPage(ctx, userID, limit, offset)
	if err != nil {
		slog.Error("got error from repo.GetTradesPage", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.TradesPage{}, err
	}

	return model.TradesPage{Trades: trades, CurPage: page, HasNextPage: hasNextPage}, nil
}

// recalcTradesForStock recomputes derived fields for every trade referencing
// the stock. Each trade is written on its own, one failing trade does not
// stop the rest.
func (s *PortfolioService) recalcTradesForStock(ctx context.Context, stockID int64, currentPrice decimal.Decimal) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.recalcTradesForStock"

	trades, err := s.repo.GetTradesByStockID(ctx, stockID)
	if err != nil {
		slog.Error("got error from repo.GetTradesByStockID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	for _, trade := range trades {
		recalced := finance.RecomputeTrade(trade, currentPrice)
		err = s.repo.UpdateTradeDerived(ctx, recalced)
		if err != nil {
			slog.Error("got error from repo.UpdateTradeDerived", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("tradeID", trade.ID), slog.String("err", err.Error()))
		}
	}
}
