package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/KotFed0t/portfolio_tracker_api/config"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/transport/rest/middleware"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
	"github.com/google/uuid"
)

const internalErrMsg = "something went wrong"

type PortfolioService interface {
	RegisterUser(ctx context.Context, username, password string) (userID int64, err error)
	AuthenticateUser(ctx context.Context, username, password string) (model.User, error)

	CreateStock(ctx context.Context, stock model.Stock) (model.Stock, error)
	GetStock(ctx context.Context, stockID int64) (model.Stock, error)
	GetStocksPage(ctx context.Context, page int) (model.StocksPage, error)
	UpdateStock(ctx context.Context, stock model.Stock) (model.Stock, error)
	DeleteStock(ctx context.Context, stockID int64) error
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	RefreshStockPrices(ctx context.Context, selector model.RefreshSelector) (model.BatchRefreshResult, error)

	CreateTrade(ctx context.Context, userID int64, trade model.Trade) (model.Trade, error)
	GetTrade(ctx context.Context, userID, tradeID int64) (model.Trade, error)
	UpdateTrade(ctx context.Context, userID int64, trade model.Trade) (model.Trade, error)
	DeleteTrade(ctx context.Context, userID, tradeID int64) error
	GetTradesPage(ctx context.Context, userID int64, page int) (model.TradesPage, error)

	GetDashboard(ctx context.Context, userID int64, query model.DashboardQuery) (model.Dashboard, error)
	GenerateReport(ctx context.Context, userID int64, query model.DashboardQuery) (fileBytes []byte, fileExtension string, err error)
}

type Session interface {
	SetSession(ctx context.Context, token string, session model.Session) error
	DeleteSession(ctx context.Context, token string) error
}

type Controller struct {
	cfg     *config.Config
	service PortfolioService
	session Session
}

func NewController(cfg *config.Config, service PortfolioService, session Session) *Controller {
	return &Controller{cfg: cfg, service: service, session: session}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("can't encode response", slog.String("err", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// userIDFromCtx reads the user put into the context by the auth middleware.
func userIDFromCtx(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := utils.GetUserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}

func (ctrl *Controller) createSession(ctx context.Context, w http.ResponseWriter, user model.User) error {
	token := uuid.NewString()

	err := ctrl.session.SetSession(ctx, token, model.Session{UserID: user.ID, Username: user.Username, CreatedAt: time.Now()})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ctrl.cfg.SessionExpiration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parsePage falls back to the first page on anything unparseable.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
