package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/service"
)

func TestCreateStock(t *testing.T) {
	var gotStock model.Stock
	svc := &fakeService{
		createStockFn: func(ctx context.Context, stock model.Stock) (model.Stock, error) {
			gotStock = stock
			stock.ID = 5
			stock.Symbol = "AIRLINK"
			stock.Name = "Air Link Communication Limited"
			stock.CurrentPrice = decimal.RequireFromString("105.50")
			return stock, nil
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodPost, "/api/stocks", `{"symbol":"airlink","tp1":120}`)
	res := httptest.NewRecorder()
	ctrl.CreateStock(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "airlink", gotStock.Symbol)
	assert.True(t, gotStock.TP1.Equal(decimal.NewFromInt(120)))

	body := decodeBody(t, res)
	assert.Equal(t, float64(5), body["id"])
	assert.Equal(t, "AIRLINK", body["symbol"])
	assert.Equal(t, 105.5, body["current_price"])
	assert.Equal(t, float64(120), body["tp1"])
	// unset numeric fields come out as null
	assert.Nil(t, body["rsi"])
	assert.Nil(t, body["volume"])
}

func TestCreateStockRequiresSymbol(t *testing.T) {
	ctrl, _ := newTestController(&fakeService{})

	req := authedRequest(http.MethodPost, "/api/stocks", `{"symbol":"   "}`)
	res := httptest.NewRecorder()
	ctrl.CreateStock(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Symbol is required", decodeBody(t, res)["error"])
}

func TestCreateStockConflict(t *testing.T) {
	svc := &fakeService{
		createStockFn: func(ctx context.Context, stock model.Stock) (model.Stock, error) {
			return model.Stock{}, service.ErrStockAlreadyExists
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodPost, "/api/stocks", `{"symbol":"AIRLINK"}`)
	res := httptest.NewRecorder()
	ctrl.CreateStock(res, req)

	require.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "Stock with this symbol already exists", decodeBody(t, res)["error"])
}

func TestGetStock(t *testing.T) {
	var gotStockID int64
	svc := &fakeService{
		getStockFn: func(ctx context.Context, stockID int64) (model.Stock, error) {
			gotStockID = stockID
			return model.Stock{ID: stockID, Symbol: "AIRLINK"}, nil
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodGet, "/api/stocks/5", "")
	req.SetPathValue("id", "5")
	res := httptest.NewRecorder()
	ctrl.GetStock(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, int64(5), gotStockID)
	assert.Equal(t, "AIRLINK", decodeBody(t, res)["symbol"])
}

func TestGetStockInvalidID(t *testing.T) {
	ctrl, _ := newTestController(&fakeService{})

	req := authedRequest(http.MethodGet, "/api/stocks/abc", "")
	req.SetPathValue("id", "abc")
	res := httptest.NewRecorder()
	ctrl.GetStock(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Invalid stock ID", decodeBody(t, res)["error"])
}

func TestGetStockNotFound(t *testing.T) {
	svc := &fakeService{
		getStockFn: func(ctx context.Context, stockID int64) (model.Stock, error) {
			return model.Stock{}, service.ErrNotFound
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodGet, "/api/stocks/999", "")
	req.SetPathValue("id", "999")
	res := httptest.NewRecorder()
	ctrl.GetStock(res, req)

	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Stock not found", decodeBody(t, res)["error"])
}

func TestGetStocksPageParam(t *testing.T) {
	var gotPage int
	svc := &fakeService{
		getStocksPageFn: func(ctx context.Context, page int) (model.StocksPage, error) {
			gotPage = page
			return model.StocksPage{CurPage: page}, nil
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodGet, "/api/stocks?page=3", "")
	res := httptest.NewRecorder()
	ctrl.GetStocks(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 3, gotPage)

	// unparseable pages collapse to the first one
	req = authedRequest(http.MethodGet, "/api/stocks?page=abc", "")
	res = httptest.NewRecorder()
	ctrl.GetStocks(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 1, gotPage)
}

func TestUpdateStockSetsIDFromPath(t *testing.T) {
	var gotStock model.Stock
	svc := &fakeService{
		updateStockFn: func(ctx context.Context, stock model.Stock) (model.Stock, error) {
			gotStock = stock
			return stock, nil
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodPut, "/api/stocks/7", `{"symbol":"AIRLINK","current_price":110.5}`)
	req.SetPathValue("id", "7")
	res := httptest.NewRecorder()
	ctrl.UpdateStock(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, int64(7), gotStock.ID)
	assert.True(t, gotStock.CurrentPrice.Equal(decimal.RequireFromString("110.5")))
}

func TestDeleteStock(t *testing.T) {
	svc := &fakeService{
		deleteStockFn: func(ctx context.Context, stockID int64) error { return nil },
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodDelete, "/api/stocks/5", "")
	req.SetPathValue("id", "5")
	res := httptest.NewRecorder()
	ctrl.DeleteStock(res, req)

	require.Equal(t, http.StatusNoContent, res.Code)
}

func TestGetStockQuote(t *testing.T) {
	var gotSymbol string
	svc := &fakeService{
		getQuoteFn: func(ctx context.Context, symbol string) (model.Quote, error) {
			gotSymbol = symbol
			return model.Quote{Symbol: symbol, Name: "Air Link Communication Limited", Price: decimal.RequireFromString("105.50")}, nil
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodGet, "/api/stocks/quote?symbol=airlink", "")
	res := httptest.NewRecorder()
	ctrl.GetStockQuote(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "AIRLINK", gotSymbol)

	body := decodeBody(t, res)
	assert.Equal(t, 105.5, body["price"])
	assert.Nil(t, body["volume"])
}

func TestGetStockQuoteMissingSymbol(t *testing.T) {
	ctrl, _ := newTestController(&fakeService{})

	req := authedRequest(http.MethodGet, "/api/stocks/quote", "")
	res := httptest.NewRecorder()
	ctrl.GetStockQuote(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Symbol is required", decodeBody(t, res)["error"])
}

func TestGetStockQuoteNoData(t *testing.T) {
	svc := &fakeService{
		getQuoteFn: func(ctx context.Context, symbol string) (model.Quote, error) {
			return model.Quote{}, service.ErrNotFound
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodGet, "/api/stocks/quote?symbol=nope", "")
	res := httptest.NewRecorder()
	ctrl.GetStockQuote(res, req)

	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "No data found for symbol NOPE", decodeBody(t, res)["error"])
}

func TestRefreshStocksSelectorParsing(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  model.RefreshSelector
	}{
		{
			name:  "ids",
			query: "ids=1,2",
			want:  model.RefreshSelector{IDs: []int64{1, 2}},
		},
		{
			name:  "ids with spaces and trailing comma",
			query: "ids=1,%202%20,3,",
			want:  model.RefreshSelector{IDs: []int64{1, 2, 3}},
		},
		{
			name:  "symbols folded to upper case",
			query: "symbols=airlink,%20hbl",
			want:  model.RefreshSelector{Symbols: []string{"AIRLINK", "HBL"}},
		},
		{
			name:  "all is case insensitive",
			query: "all=TRUE",
			want:  model.RefreshSelector{All: true},
		},
		{
			name:  "all parameters pass through together",
			query: "ids=2&symbols=hbl&all=true",
			want:  model.RefreshSelector{IDs: []int64{2}, Symbols: []string{"HBL"}, All: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSelector model.RefreshSelector
			svc := &fakeService{
				refreshStockPricesFn: func(ctx context.Context, selector model.RefreshSelector) (model.BatchRefreshResult, error) {
					gotSelector = selector
					return model.BatchRefreshResult{Success: true}, nil
				},
			}
			ctrl, _ := newTestController(svc)

			req := authedRequest(http.MethodGet, "/api/stocks/refresh?"+tt.query, "")
			res := httptest.NewRecorder()
			ctrl.RefreshStocks(res, req)

			require.Equal(t, http.StatusOK, res.Code)
			assert.Equal(t, tt.want, gotSelector)
		})
	}
}

func TestRefreshStocksBadParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{"non numeric ids", "ids=1,abc", "Invalid stock IDs format"},
		{"no parameters", "", "Please provide 'ids', 'symbols', or 'all=true' parameter"},
		{"all false alone", "all=false", "Please provide 'ids', 'symbols', or 'all=true' parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &fakeService{
				refreshStockPricesFn: func(ctx context.Context, selector model.RefreshSelector) (model.BatchRefreshResult, error) {
					called = true
					return model.BatchRefreshResult{}, nil
				},
			}
			ctrl, _ := newTestController(svc)

			target := "/api/stocks/refresh"
			if tt.query != "" {
				target += "?" + tt.query
			}
			req := authedRequest(http.MethodGet, target, "")
			res := httptest.NewRecorder()
			ctrl.RefreshStocks(res, req)

			require.Equal(t, http.StatusBadRequest, res.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, res)["error"])
			assert.False(t, called)
		})
	}
}

func TestRefreshStocksResponseShape(t *testing.T) {
	svc := &fakeService{
		refreshStockPricesFn: func(ctx context.Context, selector model.RefreshSelector) (model.BatchRefreshResult, error) {
			return model.BatchRefreshResult{
				Success: true,
				Updated: 1,
				Stocks: []model.StockRefreshSummary{
					{ID: 1, Symbol: "AIRLINK", CurrentPrice: decimal.RequireFromString("105.50"), Volume: 1200000},
				},
				Errors: []model.RefreshError{
					{Symbol: "DELISTED", Reason: "No data available from API"},
				},
			}, nil
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodGet, "/api/stocks/refresh?all=true", "")
	res := httptest.NewRecorder()
	ctrl.RefreshStocks(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	body := decodeBody(t, res)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["updated"])

	stocks, ok := body["stocks"].([]any)
	require.True(t, ok)
	require.Len(t, stocks, 1)
	stock := stocks[0].(map[string]any)
	assert.Equal(t, "AIRLINK", stock["symbol"])
	assert.Equal(t, 105.5, stock["current_price"])
	assert.Equal(t, float64(1200000), stock["volume"])
	assert.Nil(t, stock["high"])

	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	refreshErr := errs[0].(map[string]any)
	assert.Equal(t, "DELISTED", refreshErr["symbol"])
	assert.Equal(t, "No data available from API", refreshErr["error"])
}

func TestRefreshStocksEmptyResultKeepsArrays(t *testing.T) {
	svc := &fakeService{
		refreshStockPricesFn: func(ctx context.Context, selector model.RefreshSelector) (model.BatchRefreshResult, error) {
			return model.BatchRefreshResult{Success: true}, nil
		},
	}
	ctrl, _ := newTestController(svc)

	req := authedRequest(http.MethodGet, "/api/stocks/refresh?all=true", "")
	res := httptest.NewRecorder()
	ctrl.RefreshStocks(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	raw := res.Body.String()
	assert.True(t, strings.Contains(raw, `"stocks":[]`), "stocks should marshal as an empty array: %s", raw)
	assert.True(t, strings.Contains(raw, `"errors":[]`), "errors should marshal as an empty array: %s", raw)
}
