package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/portfolio_tracker_api/config"
	"github.com/KotFed0t/portfolio_tracker_api/internal/transport/rest"
	"github.com/KotFed0t/portfolio_tracker_api/internal/transport/rest/middleware"
)

type HTTPServer struct {
	server *http.Server
}

func New(cfg *config.Config, ctrl *rest.Controller, session middleware.Session) *HTTPServer {
	mux := http.NewServeMux()

	auth := middleware.Auth(session)

	mux.Handle("POST /api/auth/register", http.HandlerFunc(ctrl.Register))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(ctrl.Login))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(ctrl.Logout))

	mux.Handle("GET /api/stocks", auth(http.HandlerFunc(ctrl.GetStocks)))
	mux.Handle("POST /api/stocks", auth(http.HandlerFunc(ctrl.CreateStock)))
	mux.Handle("GET /api/stocks/refresh", auth(http.HandlerFunc(ctrl.RefreshStocks)))
	mux.Handle("GET /api/stocks/quote", auth(http.HandlerFunc(ctrl.GetStockQuote)))
	mux.Handle("GET /api/stocks/{id}", auth(http.HandlerFunc(ctrl.GetStock)))
	mux.Handle("PUT /api/stocks/{id}", auth(http.HandlerFunc(ctrl.UpdateStock)))
	mux.Handle("DELETE /api/stocks/{id}", auth(http.HandlerFunc(ctrl.DeleteStock)))

	mux.Handle("GET /api/trades", auth(http.HandlerFunc(ctrl.GetTrades)))
	mux.Handle("POST /api/trades", auth(http.HandlerFunc(ctrl.CreateTrade)))
	mux.Handle("GET /api/trades/{id}", auth(http.HandlerFunc(ctrl.GetTrade)))
	mux.Handle("PUT /api/trades/{id}", auth(http.HandlerFunc(ctrl.UpdateTrade)))
	mux.Handle("DELETE /api/trades/{id}", auth(http.HandlerFunc(ctrl.DeleteTrade)))

	mux.Handle("GET /api/portfolio/dashboard", auth(http.HandlerFunc(ctrl.GetDashboard)))
	mux.Handle("GET /api/portfolio/report", auth(http.HandlerFunc(ctrl.DownloadReport)))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      middleware.Logger(mux),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &HTTPServer{server: server}
}

func (s *HTTPServer) Start() {
	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", slog.String("err", err.Error()))
		}
	}()
	slog.Info("http server started!", slog.String("addr", s.server.Addr))
}

func (s *HTTPServer) Stop(ctx context.Context) {
	slog.Info("start stopping http server")
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
	}
	slog.Info("http server stopped")
}
