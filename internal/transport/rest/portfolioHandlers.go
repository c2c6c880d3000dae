package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/portfolio_tracker_api/internal/converter/restConverter"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
)

func dashboardQuery(r *http.Request) model.DashboardQuery {
	return model.DashboardQuery{
		Symbol: r.URL.Query().Get("symbol"),
		Sort:   r.URL.Query().Get("sort"),
	}
}

func (ctrl *Controller) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	userID, ok := userIDFromCtx(w, r)
	if !ok {
		return
	}

	dashboard, err := ctrl.service.GetDashboard(ctx, userID, dashboardQuery(r))
	if err != nil {
		slog.Error("got error from service.GetDashboard", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertDashboard(dashboard))
}

func (ctrl *Controller) DownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	userID, ok := userIDFromCtx(w, r)
	if !ok {
		return
	}

	fileBytes, fileExtension, err := ctrl.service.GenerateReport(ctx, userID, dashboardQuery(r))
	if err != nil {
		slog.Error("got error from service.GenerateReport", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=portfolio_report%s", fileExtension))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(fileBytes); err != nil {
		slog.Error("can't write report response", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
}
