package psxApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/portfolio_tracker_api/config"
	"github.com/KotFed0t/portfolio_tracker_api/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model/psxModel"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type PsxApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *PsxApi {
	// PSX terminal rejects requests without browser-like headers.
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.PsxApi.Url).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36").
		SetHeader("Accept", "application/json").
		SetHeader("Referer", cfg.API.PsxApi.Url+"/")
	return &PsxApi{client: client}
}

func (a *PsxApi) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := fmt.Sprintf("/api/ticks/REG/%s", symbol)

	slog.Debug("start PsxApi.GetQuote request", slog.String("rqID", rqID), slog.String("symbol", symbol))

	resp, err := a.client.R().Get(url)
	if err != nil {
		slog.Error("error while dialing PsxApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return model.Quote{}, err
	}

	if resp.StatusCode() != http.StatusOK {
		slog.Warn(
			"PsxApi returned unexpected status",
			slog.Int("status", resp.StatusCode()),
			slog.String("symbol", symbol),
			slog.String("rqID", rqID),
		)
		return model.Quote{}, externalApi.ErrNoData
	}

	rawTickResponse := psxModel.RawTickResponse{}
	err = json.Unmarshal(resp.Body(), &rawTickResponse)
	if err != nil {
		slog.Error("can't unmarshall response into psxModel.RawTickResponse", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return model.Quote{}, err
	}

	// Price comes back null when the symbol has no tick data, treat it the
	// same as a failed lookup.
	if !rawTickResponse.Success || rawTickResponse.Data.Price == nil {
		return model.Quote{}, externalApi.ErrNoData
	}

	quote := model.Quote{
		Symbol:        symbol,
		Name:          companyName(symbol),
		Price:         decimal.NewFromFloat(*rawTickResponse.Data.Price),
		Change:        decimal.NewFromFloat(rawTickResponse.Data.Change),
		ChangePercent: decimal.NewFromFloat(rawTickResponse.Data.ChangePercent),
		Volume:        rawTickResponse.Data.Volume,
		High:          decimal.NewFromFloat(rawTickResponse.Data.High),
		Low:           decimal.NewFromFloat(rawTickResponse.Data.Low),
	}

	slog.Debug("PsxApi.GetQuote request complete", slog.String("rqID", rqID), slog.String("symbol", symbol))

	return quote, nil
}
