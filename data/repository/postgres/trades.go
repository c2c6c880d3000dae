package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker_api/data/repository"
	"github.com/KotFed0t/portfolio_tracker_api/internal/converter/dbConverter"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model/dbModel"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
)

func (r *Postgres) InsertTrade(ctx context.Context, trade model.Trade) (tradeID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertTrade"
	params := map[string]any{
		"userID":  trade.UserID,
		"stockID": trade.StockID,
	}
	query := `
		INSERT INTO trades(
			user_id, stock_id, quantity, buying_price, buy_date, mtp, msl, comments,
			profit_expected, profit_percent, loss_expected, loss_recent, pl_ratio,
			rate_difference, pl_percent, max_profit, min_profit_loss
		)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
		`

	slog.Debug("InsertTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("InsertTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(
		ctx,
		query,
		trade.UserID,
		trade.StockID,
		trade.Quantity,
		trade.BuyingPrice,
		trade.BuyDate,
		trade.MTP,
		trade.MSL,
		trade.Comments,
		trade.ProfitExpected,
		trade.ProfitPercent,
		trade.LossExpected,
		trade.LossRecent,
		trade.PlRatio,
		trade.RateDifference,
		trade.PlPercent,
		trade.MaxProfit,
		trade.MinProfitLoss,
	).Scan(&tradeID)
	if err != nil {
		return 0, err
	}

	return tradeID, nil
}

func (r *Postgres) GetTradeByID(ctx context.Context, tradeID int64) (trade model.Trade, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetTradeByID"
	params := map[string]any{
		"tradeID": tradeID,
	}
	query := `
		SELECT id, user_id, stock_id, quantity, buying_price, buy_date, mtp, msl, comments,
			profit_expected, profit_percent, loss_expected, loss_recent, pl_ratio,
			rate_difference, pl_percent, max_profit, min_profit_loss, dt_create
		FROM trades
		WHERE id = $1
		`

	slog.Debug("GetTradeByID start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetTradeByID failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTradeByID completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbTrade := dbModel.Trade{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, tradeID).StructScan(&dbTrade)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Trade{}, repository.ErrNotFound
		}
		return model.Trade{}, err
	}

	return dbConverter.ConvertTrade(dbTrade), nil
}

func (r *Postgres) GetTradesByStockID(ctx context.Context, stockID int64) (trades []model.Trade, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetTradesByStockID"
	params := map[string]any{
		"stockID": stockID,
	}
	query := `
		SELECT id, user_id, stock_id, quantity, buying_price, buy_date, mtp, msl, comments,
			profit_expected, profit_percent, loss_expected, loss_recent, pl_ratio,
			rate_difference, pl_percent, max_profit, min_profit_loss, dt_create
		FROM trades
		WHERE stock_id = $1
		`

	slog.Debug("GetTradesByStockID start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetTradesByStockID failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTradesByStockID completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, stockID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbTrade dbModel.Trade
		err = rows.StructScan(&dbTrade)
		if err != nil {
			return nil, err
		}
		trades = append(trades, dbConverter.ConvertTrade(dbTrade))
	}

	return trades, nil
}

func (r *Postgres) GetTradesPage(ctx context.Context, userID int64, limit, offset int) (trades []model.Holding, hasNextPage bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetTradesPage"
	params := map[string]any{
		"userID": userID,
		"limit":  limit,
		"offset": offset,
	}
	query := `
		SELECT t.id, t.user_id, t.stock_id, t.quantity, t.buying_price, t.buy_date, t.mtp, t.msl, t.comments,
			t.profit_expected, t.profit_percent, t.loss_expected, t.loss_recent, t.pl_ratio,
			t.rate_difference, t.pl_percent, t.max_profit, t.min_profit_loss, t.dt_create,
			s.symbol, s.name AS stock_name, s.current_price
		FROM trades t
		JOIN stocks s ON s.id = t.stock_id
		WHERE t.user_id = $1
		ORDER BY t.dt_create DESC
		LIMIT $2
		OFFSET $3
		`

	slog.Debug("GetTradesPage start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetTradesPage failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTradesPage completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	// fetch one row over the limit to know whether a next page exists
	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, userID, limit+1, offset)
	if err != nil {
		return nil, false, err
	}

	defer rows.Close()

	i := 0
	trades = make([]model.Holding, 0, limit)
	for rows.Next() {
		i++
		var dbTrade dbModel.TradeWithStock
		err = rows.StructScan(&dbTrade)
		if err != nil {
			return nil, false, err
		}

		if i > limit {
			hasNextPage = true
			break
		}
		trades = append(trades, dbConverter.ConvertTradeWithStock(dbTrade))
	}

	return trades, hasNextPage, nil
}

func (r *Postgres) GetHoldings(ctx context.Context, userID int64, symbol, sort string) (holdings []model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetHoldings"
	params := map[string]any{
		"userID": userID,
		"symbol": symbol,
		"sort":   sort,
	}
	query := `
		SELECT t.id, t.user_id, t.stock_id, t.quantity, t.buying_price, t.buy_date, t.mtp, t.msl, t.comments,
			t.profit_expected, t.profit_percent, t.loss_expected, t.loss_recent, t.pl_ratio,
			t.rate_difference, t.pl_percent, t.max_profit, t.min_profit_loss, t.dt_create,
			s.symbol, s.name AS stock_name, s.current_price
		FROM trades t
		JOIN stocks s ON s.id = t.stock_id
		WHERE t.user_id = $1
		`

	args := []any{userID}
	if symbol != "" {
		query += ` AND s.symbol = $2`
		args = append(args, symbol)
	}

	// sort values come from a fixed whitelist, anything else falls back to symbol
	switch sort {
	case "date":
		query += ` ORDER BY t.buy_date DESC`
	case "profit":
		query += ` ORDER BY (t.quantity * s.current_price - t.quantity * t.buying_price) DESC`
	case "loss":
		query += ` ORDER BY (t.quantity * s.current_price - t.quantity * t.buying_price) ASC`
	default:
		query += ` ORDER BY s.symbol`
	}

	slog.Debug("GetHoldings start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetHoldings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHoldings completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbTrade dbModel.TradeWithStock
		err = rows.StructScan(&dbTrade)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, dbConverter.ConvertTradeWithStock(dbTrade))
	}

	return holdings, nil
}

func (r *Postgres) UpdateTrade(ctx context.Context, trade model.Trade) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdateTrade"
	params := map[string]any{
		"tradeID": trade.ID,
	}
	query := `
		UPDATE trades
		SET
			stock_id = $1,
			quantity = $2,
			buying_price = $3,
			buy_date = $4,
			mtp = $5,
			msl = $6,
			comments = $7,
			profit_expected = $8,
			profit_percent = $9,
			loss_expected = $10,
			loss_recent = $11,
			pl_ratio = $12,
			rate_difference = $13,
			pl_percent = $14,
			max_profit = $15,
			min_profit_loss = $16
		WHERE id = $17
		`

	slog.Debug("UpdateTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("UpdateTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(
		ctx,
		query,
		trade.StockID,
		trade.Quantity,
		trade.BuyingPrice,
		trade.BuyDate,
		trade.MTP,
		trade.MSL,
		trade.Comments,
		trade.ProfitExpected,
		trade.ProfitPercent,
		trade.LossExpected,
		trade.LossRecent,
		trade.PlRatio,
		trade.RateDifference,
		trade.PlPercent,
		trade.MaxProfit,
		trade.MinProfitLoss,
		trade.ID,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *Postgres) UpdateTradeDerived(ctx context.Context, trade model.Trade) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdateTradeDerived"
	params := map[string]any{
		"tradeID": trade.ID,
	}
	query := `
		UPDATE trades
		SET
			profit_expected = $1,
			profit_percent = $2,
			loss_expected = $3,
			loss_recent = $4,
			pl_ratio = $5,
			rate_difference = $6,
			pl_percent = $7,
			max_profit = $8,
			min_profit_loss = $9
		WHERE id = $10
		`

	slog.Debug("UpdateTradeDerived start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("UpdateTradeDerived failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateTradeDerived completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(
		ctx,
		query,
		trade.ProfitExpected,
		trade.ProfitPercent,
		trade.LossExpected,
		trade.LossRecent,
		trade.PlRatio,
		trade.RateDifference,
		trade.PlPercent,
		trade.MaxProfit,
		trade.MinProfitLoss,
		trade.ID,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *Postgres) DeleteTrade(ctx context.Context, tradeID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteTrade"
	params := map[string]any{
		"tradeID": tradeID,
	}

	query := `
		DELETE FROM trades
		WHERE id = $1
		`

	slog.Debug("DeleteTrade start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("DeleteTrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteTrade completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, tradeID)
	if err != nil {
		return err
	}

	return nil
}

// DeleteTradesByStockID removes every trade that references the stock. Called
// inside the same transaction that removes the stock itself.
func (r *Postgres) DeleteTradesByStockID(ctx context.Context, stockID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteTradesByStockID"
	params := map[string]any{
		"stockID": stockID,
	}

	query := `
		DELETE FROM trades
		WHERE stock_id = $1
		`

	slog.Debug("DeleteTradesByStockID start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("DeleteTradesByStockID failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteTradesByStockID completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, stockID)
	if err != nil {
		return err
	}

	return nil
}
