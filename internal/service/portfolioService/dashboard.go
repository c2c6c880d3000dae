package portfolioService

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KotFed0t/portfolio_tracker_api/internal/finance"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
)

// GetDashboard returns the user's holdings with portfolio totals. Totals are
// computed over the whole filtered set, the dashboard is not paginated.
func (s *PortfolioService) GetDashboard(ctx context.Context, userID int64, query model.DashboardQuery) (model.Dashboard, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetDashboard"

	slog.Debug("GetDashboard start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	defer func() {
		slog.Debug("GetDashboard finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	}()

	symbol := strings.ToUpper(strings.TrimSpace(query.Symbol))

	holdings, err := s.repo.GetHoldings(ctx, userID, symbol, query.Sort)
	if err != nil {
		slog.Error("got error from repo.GetHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Dashboard{}, err
	}

	return model.Dashboard{
		PortfolioSummary: finance.AggregatePortfolio(holdings),
		Holdings:         holdings,
	}, nil
}

func (s *PortfolioService) GenerateReport(ctx context.Context, userID int64, query model.DashboardQuery) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GenerateReport"

	slog.Debug("GenerateReport start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	defer func() {
		slog.Debug("GenerateReport finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("userID", userID))
	}()

	dashboard, err := s.GetDashboard(ctx, userID, query)
	if err != nil {
		return nil, "", err
	}

	fileBytes, fileExtension, err = s.reportGenerator.Generate(ctx, dashboard)
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	return fileBytes, fileExtension, nil
}
