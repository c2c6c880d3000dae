package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/KotFed0t/portfolio_tracker_api/internal/converter/restConverter"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/service"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
	"github.com/shopspring/decimal"
)

type tradeRequest struct {
	StockID     int64   `json:"stock_id"`
	Quantity    int64   `json:"quantity"`
	BuyingPrice float64 `json:"buying_price"`
	BuyDate     string  `json:"buy_date"`
	MTP         float64 `json:"mtp"`
	MSL         float64 `json:"msl"`
	Comments    string  `json:"comments"`
}

// validate checks the user-entered fields and converts them into a trade with
// empty derived fields, the service computes those.
func (req tradeRequest) validate() (model.Trade, string) {
	if req.StockID <= 0 {
		return model.Trade{}, "Stock is required"
	}
	if req.Quantity <= 0 {
		return model.Trade{}, "Quantity must be a positive number"
	}
	if req.BuyingPrice <= 0 {
		return model.Trade{}, "Buying price must be a positive number"
	}

	buyDate, err := time.Parse(time.DateOnly, req.BuyDate)
	if err != nil {
		return model.Trade{}, "Buy date must be in YYYY-MM-DD format"
	}

	return model.Trade{
		StockID:     req.StockID,
		Quantity:    req.Quantity,
		BuyingPrice: decimal.NewFromFloat(req.BuyingPrice),
		BuyDate:     buyDate,
		MTP:         decimal.NewFromFloat(req.MTP),
		MSL:         decimal.NewFromFloat(req.MSL),
		Comments:    req.Comments,
	}, ""
}

func (ctrl *Controller) CreateTrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	userID, ok := userIDFromCtx(w, r)
	if !ok {
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trade, validationErr := req.validate()
	if validationErr != "" {
		writeError(w, http.StatusBadRequest, validationErr)
		return
	}

	created, err := ctrl.service.CreateTrade(ctx, userID, trade)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Stock not found")
			return
		}
		slog.Error("got error from service.CreateTrade", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusCreated, restConverter.ConvertTrade(created))
}

func (ctrl *Controller) GetTrades(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	userID, ok := userIDFromCtx(w, r)
	if !ok {
		return
	}

	page, err := ctrl.service.GetTradesPage(ctx, userID, parsePage(r))
	if err != nil {
		slog.Error("got error from service.GetTradesPage", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertTradesPage(page))
}

func (ctrl *Controller) GetTrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	userID, ok := userIDFromCtx(w, r)
	if !ok {
		return
	}

	tradeID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid trade ID")
		return
	}

	trade, err := ctrl.service.GetTrade(ctx, userID, tradeID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrForbidden) {
			writeError(w, http.StatusNotFound, "Trade not found")
			return
		}
		slog.Error("got error from service.GetTrade", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertTrade(trade))
}

func (ctrl *Controller) UpdateTrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	userID, ok := userIDFromCtx(w, r)
	if !ok {
		return
	}

	tradeID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid trade ID")
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trade, validationErr := req.validate()
	if validationErr != "" {
		writeError(w, http.StatusBadRequest, validationErr)
		return
	}
	trade.ID = tradeID

	updated, err := ctrl.service.UpdateTrade(ctx, userID, trade)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrForbidden) {
			writeError(w, http.StatusNotFound, "Trade not found")
			return
		}
		slog.Error("got error from service.UpdateTrade", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertTrade(updated))
}

func (ctrl *Controller) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	userID, ok := userIDFromCtx(w, r)
	if !ok {
		return
	}

	tradeID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid trade ID")
		return
	}

	err = ctrl.service.DeleteTrade(ctx, userID, tradeID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrForbidden) {
			writeError(w, http.StatusNotFound, "Trade not found")
			return
		}
		slog.Error("got error from service.DeleteTrade", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
