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
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *Postgres) InsertStock(ctx context.Context, stock model.Stock) (stockID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertStock"
	query := `
		INSERT INTO stocks(
			symbol, name, current_price, change, change_percent, volume, high, low,
			tp1, tp2, tp3, sl1, sl2, sl3, ltp1, ltp2, ltp3, rsi
		)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
		`

	slog.Debug("InsertStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertStock failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertStock completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(
		ctx,
		query,
		stock.Symbol,
		stock.Name,
		stock.CurrentPrice,
		stock.Change,
		stock.ChangePercent,
		stock.Volume,
		stock.High,
		stock.Low,
		stock.TP1,
		stock.TP2,
		stock.TP3,
		stock.SL1,
		stock.SL2,
		stock.SL3,
		stock.LTP1,
		stock.LTP2,
		stock.LTP3,
		stock.RSI,
	).Scan(&stockID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return 0, repository.ErrAlreadyExists
			}
		}
		return 0, err
	}

	return stockID, nil
}

func (r *Postgres) GetStockByID(ctx context.Context, stockID int64) (stock model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetStockByID"
	params := map[string]any{
		"stockID": stockID,
	}
	query := `
		SELECT id, symbol, name, current_price, change, change_percent, volume, high, low,
			tp1, tp2, tp3, sl1, sl2, sl3, ltp1, ltp2, ltp3, rsi, dt_create
		FROM stocks
		WHERE id = $1
		`

	slog.Debug("GetStockByID start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetStockByID failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStockByID completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbStock := dbModel.Stock{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, stockID).StructScan(&dbStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Stock{}, repository.ErrNotFound
		}
		return model.Stock{}, err
	}

	return dbConverter.ConvertStock(dbStock), nil
}

func (r *Postgres) GetStockBySymbol(ctx context.Context, symbol string) (stock model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetStockBySymbol"
	params := map[string]any{
		"symbol": symbol,
	}
	query := `
		SELECT id, symbol, name, current_price, change, change_percent, volume, high, low,
			tp1, tp2, tp3, sl1, sl2, sl3, ltp1, ltp2, ltp3, rsi, dt_create
		FROM stocks
		WHERE symbol = $1
		`

	slog.Debug("GetStockBySymbol start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetStockBySymbol failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStockBySymbol completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbStock := dbModel.Stock{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, symbol).StructScan(&dbStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Stock{}, repository.ErrNotFound
		}
		return model.Stock{}, err
	}

	return dbConverter.ConvertStock(dbStock), nil
}

func (r *Postgres) GetStocksPage(ctx context.Context, limit, offset int) (stocks []model.Stock, hasNextPage bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetStocksPage"
	params := map[string]any{
		"limit":  limit,
		"offset": offset,
	}
	query := `
		SELECT id, symbol, name, current_price, change, change_percent, volume, high, low,
			tp1, tp2, tp3, sl1, sl2, sl3, ltp1, ltp2, ltp3, rsi, dt_create
		FROM stocks
		ORDER BY symbol
		LIMIT $1
		OFFSET $2
		`

	slog.Debug("GetStocksPage start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetStocksPage failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStocksPage completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	// fetch one row over the limit to know whether a next page exists
	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, limit+1, offset)
	if err != nil {
		return nil, false, err
	}

	defer rows.Close()

	i := 0
	stocks = make([]model.Stock, 0, limit)
	for rows.Next() {
		i++
		var dbStock dbModel.Stock
		err = rows.StructScan(&dbStock)
		if err != nil {
			return nil, false, err
		}

		if i > limit {
			hasNextPage = true
			break
		}
		stocks = append(stocks, dbConverter.ConvertStock(dbStock))
	}

	return stocks, hasNextPage, nil
}

func (r *Postgres) getStocks(ctx context.Context, op, query string, args ...any) (stocks []model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("getStocks start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("getStocks failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("getStocks completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbStock dbModel.Stock
		err = rows.StructScan(&dbStock)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, dbConverter.ConvertStock(dbStock))
	}

	return stocks, nil
}

func (r *Postgres) GetStocksByIDs(ctx context.Context, stockIDs []int64) (stocks []model.Stock, err error) {
	query := `
		SELECT id, symbol, name, current_price, change, change_percent, volume, high, low,
			tp1, tp2, tp3, sl1, sl2, sl3, ltp1, ltp2, ltp3, rsi, dt_create
		FROM stocks
		WHERE id = ANY($1)
		`

	return r.getStocks(ctx, "Postgres.GetStocksByIDs", query, stockIDs)
}

func (r *Postgres) GetStocksBySymbols(ctx context.Context, symbols []string) (stocks []model.Stock, err error) {
	query := `
		SELECT id, symbol, name, current_price, change, change_percent, volume, high, low,
			tp1, tp2, tp3, sl1, sl2, sl3, ltp1, ltp2, ltp3, rsi, dt_create
		FROM stocks
		WHERE symbol = ANY($1)
		`

	return r.getStocks(ctx, "Postgres.GetStocksBySymbols", query, symbols)
}

func (r *Postgres) GetAllStocks(ctx context.Context) (stocks []model.Stock, err error) {
	query := `
		SELECT id, symbol, name, current_price, change, change_percent, volume, high, low,
			tp1, tp2, tp3, sl1, sl2, sl3, ltp1, ltp2, ltp3, rsi, dt_create
		FROM stocks
		ORDER BY symbol
		`

	return r.getStocks(ctx, "Postgres.GetAllStocks", query)
}

func (r *Postgres) UpdateStock(ctx context.Context, stock model.Stock) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdateStock"
	params := map[string]any{
		"stockID": stock.ID,
		"symbol":  stock.Symbol,
	}
	query := `
		UPDATE stocks
		SET
			name = $1,
			current_price = $2,
			change = $3,
			change_percent = $4,
			volume = $5,
			high = $6,
			low = $7,
			tp1 = $8, tp2 = $9, tp3 = $10,
			sl1 = $11, sl2 = $12, sl3 = $13,
			ltp1 = $14, ltp2 = $15, ltp3 = $16,
			rsi = $17
		WHERE id = $18
		`

	slog.Debug("UpdateStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("UpdateStock failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateStock completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(
		ctx,
		query,
		stock.Name,
		stock.CurrentPrice,
		stock.Change,
		stock.ChangePercent,
		stock.Volume,
		stock.High,
		stock.Low,
		stock.TP1,
		stock.TP2,
		stock.TP3,
		stock.SL1,
		stock.SL2,
		stock.SL3,
		stock.LTP1,
		stock.LTP2,
		stock.LTP3,
		stock.RSI,
		stock.ID,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *Postgres) UpdateStockPrices(ctx context.Context, stockID int64, quote model.Quote) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdateStockPrices"
	params := map[string]any{
		"stockID": stockID,
		"quote":   quote,
	}
	query := `
		UPDATE stocks
		SET
			current_price = $1,
			change = $2,
			change_percent = $3,
			volume = $4,
			high = $5,
			low = $6
		WHERE id = $7
		`

	slog.Debug("UpdateStockPrices start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("UpdateStockPrices failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateStockPrices completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(
		ctx,
		query,
		quote.Price,
		quote.Change,
		quote.ChangePercent,
		quote.Volume,
		quote.High,
		quote.Low,
		stockID,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *Postgres) DeleteStock(ctx context.Context, stockID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteStock"
	params := map[string]any{
		"stockID": stockID,
	}

	query := `
		DELETE FROM stocks
		WHERE id = $1
		`

	slog.Debug("DeleteStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("DeleteStock failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteStock completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, stockID)
	if err != nil {
		return err
	}

	return nil
}
