package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/KotFed0t/portfolio_tracker_api/internal/converter/restConverter"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/service"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
	"github.com/shopspring/decimal"
)

type stockRequest struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	TP1           float64 `json:"tp1"`
	TP2           float64 `json:"tp2"`
	TP3           float64 `json:"tp3"`
	SL1           float64 `json:"sl1"`
	SL2           float64 `json:"sl2"`
	SL3           float64 `json:"sl3"`
	LTP1          float64 `json:"ltp1"`
	LTP2          float64 `json:"ltp2"`
	LTP3          float64 `json:"ltp3"`
	RSI           float64 `json:"rsi"`
}

func (req stockRequest) toModel() model.Stock {
	return model.Stock{
		Symbol:        req.Symbol,
		Name:          req.Name,
		CurrentPrice:  decimal.NewFromFloat(req.CurrentPrice),
		Change:        decimal.NewFromFloat(req.Change),
		ChangePercent: decimal.NewFromFloat(req.ChangePercent),
		Volume:        req.Volume,
		High:          decimal.NewFromFloat(req.High),
		Low:           decimal.NewFromFloat(req.Low),
		TP1:           decimal.NewFromFloat(req.TP1),
		TP2:           decimal.NewFromFloat(req.TP2),
		TP3:           decimal.NewFromFloat(req.TP3),
		SL1:           decimal.NewFromFloat(req.SL1),
		SL2:           decimal.NewFromFloat(req.SL2),
		SL3:           decimal.NewFromFloat(req.SL3),
		LTP1:          decimal.NewFromFloat(req.LTP1),
		LTP2:          decimal.NewFromFloat(req.LTP2),
		LTP3:          decimal.NewFromFloat(req.LTP3),
		RSI:           decimal.NewFromFloat(req.RSI),
	}
}

func (ctrl *Controller) CreateStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Symbol) == "" {
		writeError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	stock, err := ctrl.service.CreateStock(ctx, req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrStockAlreadyExists) {
			writeError(w, http.StatusConflict, "Stock with this symbol already exists")
			return
		}
		slog.Error("got error from service.CreateStock", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusCreated, restConverter.ConvertStock(stock))
}

func (ctrl *Controller) GetStocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	page, err := ctrl.service.GetStocksPage(ctx, parsePage(r))
	if err != nil {
		slog.Error("got error from service.GetStocksPage", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertStocksPage(page))
}

func (ctrl *Controller) GetStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	stockID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid stock ID")
		return
	}

	stock, err := ctrl.service.GetStock(ctx, stockID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Stock not found")
			return
		}
		slog.Error("got error from service.GetStock", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertStock(stock))
}

func (ctrl *Controller) UpdateStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	stockID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid stock ID")
		return
	}

	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stock := req.toModel()
	stock.ID = stockID

	updated, err := ctrl.service.UpdateStock(ctx, stock)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Stock not found")
			return
		}
		slog.Error("got error from service.UpdateStock", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertStock(updated))
}

func (ctrl *Controller) DeleteStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	stockID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid stock ID")
		return
	}

	err = ctrl.service.DeleteStock(ctx, stockID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Stock not found")
			return
		}
		slog.Error("got error from service.DeleteStock", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (ctrl *Controller) GetStockQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote, err := ctrl.service.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("No data found for symbol %s", symbol))
			return
		}
		slog.Error("got error from service.GetQuote", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertQuote(quote))
}

func (ctrl *Controller) RefreshStocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	idsParam := strings.TrimSpace(r.URL.Query().Get("ids"))
	symbolsParam := strings.TrimSpace(r.URL.Query().Get("symbols"))

	selector := model.RefreshSelector{
		All: strings.ToLower(r.URL.Query().Get("all")) == "true",
	}

	if idsParam != "" {
		ids, err := parseIDs(idsParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid stock IDs format")
			return
		}
		selector.IDs = ids
	}

	if symbolsParam != "" {
		selector.Symbols = splitSymbols(symbolsParam)
	}

	if selector.IsEmpty() {
		writeError(w, http.StatusBadRequest, "Please provide 'ids', 'symbols', or 'all=true' parameter")
		return
	}

	result, err := ctrl.service.RefreshStockPrices(ctx, selector)
	if err != nil {
		if errors.Is(err, service.ErrEmptySelector) {
			writeError(w, http.StatusBadRequest, "Please provide 'ids', 'symbols', or 'all=true' parameter")
			return
		}
		slog.Error("got error from service.RefreshStockPrices", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertRefreshResult(result))
}

func parseIDs(param string) ([]int64, error) {
	parts := strings.Split(param, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitSymbols(param string) []string {
	parts := strings.Split(param, ",")
	symbols := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		symbols = append(symbols, part)
	}
	return symbols
}
