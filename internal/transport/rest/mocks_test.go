package rest

import (
	"context"
	"errors"
	"sync"

	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
)

var errNotImplemented = errors.New("not implemented")

// fakeService covers the PortfolioService interface with overridable
// functions, each test wires only the ones it needs.
type fakeService struct {
	registerUserFn       func(ctx context.Context, username, password string) (int64, error)
	authenticateUserFn   func(ctx context.Context, username, password string) (model.User, error)
	createStockFn        func(ctx context.Context, stock model.Stock) (model.Stock, error)
	getStockFn           func(ctx context.Context, stockID int64) (model.Stock, error)
	getStocksPageFn      func(ctx context.Context, page int) (model.StocksPage, error)
	updateStockFn        func(ctx context.Context, stock model.Stock) (model.Stock, error)
	deleteStockFn        func(ctx context.Context, stockID int64) error
	getQuoteFn           func(ctx context.Context, symbol string) (model.Quote, error)
	refreshStockPricesFn func(ctx context.Context, selector model.RefreshSelector) (model.BatchRefreshResult, error)
	createTradeFn        func(ctx context.Context, userID int64, trade model.Trade) (model.Trade, error)
	getTradeFn           func(ctx context.Context, userID, tradeID int64) (model.Trade, error)
	updateTradeFn        func(ctx context.Context, userID int64, trade model.Trade) (model.Trade, error)
	deleteTradeFn        func(ctx context.Context, userID, tradeID int64) error
	getTradesPageFn      func(ctx context.Context, userID int64, page int) (model.TradesPage, error)
	getDashboardFn       func(ctx context.Context, userID int64, query model.DashboardQuery) (model.Dashboard, error)
	generateReportFn     func(ctx context.Context, userID int64, query model.DashboardQuery) ([]byte, string, error)
}

func (s *fakeService) RegisterUser(ctx context.Context, username, password string) (int64, error) {
	if s.registerUserFn != nil {
		return s.registerUserFn(ctx, username, password)
	}
	return 0, errNotImplemented
}

func (s *fakeService) AuthenticateUser(ctx context.Context, username, password string) (model.User, error) {
	if s.authenticateUserFn != nil {
		return s.authenticateUserFn(ctx, username, password)
	}
	return model.User{}, errNotImplemented
}

func (s *fakeService) CreateStock(ctx context.Context, stock model.Stock) (model.Stock, error) {
	if s.createStockFn != nil {
		return s.createStockFn(ctx, stock)
	}
	return model.Stock{}, errNotImplemented
}

func (s *fakeService) GetStock(ctx context.Context, stockID int64) (model.Stock, error) {
	if s.getStockFn != nil {
		return s.getStockFn(ctx, stockID)
	}
	return model.Stock{}, errNotImplemented
}

func (s *fakeService) GetStocksPage(ctx context.Context, page int) (model.StocksPage, error) {
	if s.getStocksPageFn != nil {
		return s.getStocksPageFn(ctx, page)
	}
	return model.StocksPage{}, errNotImplemented
}

func (s *fakeService) UpdateStock(ctx context.Context, stock model.Stock) (model.Stock, error) {
	if s.updateStockFn != nil {
		return s.updateStockFn(ctx, stock)
	}
	return model.Stock{}, errNotImplemented
}

func (s *fakeService) DeleteStock(ctx context.Context, stockID int64) error {
	if s.deleteStockFn != nil {
		return s.deleteStockFn(ctx, stockID)
	}
	return errNotImplemented
}

func (s *fakeService) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	if s.getQuoteFn != nil {
		return s.getQuoteFn(ctx, symbol)
	}
	return model.Quote{}, errNotImplemented
}

func (s *fakeService) RefreshStockPrices(ctx context.Context, selector model.RefreshSelector) (model.BatchRefreshResult, error) {
	if s.refreshStockPricesFn != nil {
		return s.refreshStockPricesFn(ctx, selector)
	}
	return model.BatchRefreshResult{}, errNotImplemented
}

func (s *fakeService) CreateTrade(ctx context.Context, userID int64, trade model.Trade) (model.Trade, error) {
	if s.createTradeFn != nil {
		return s.createTradeFn(ctx, userID, trade)
	}
	return model.Trade{}, errNotImplemented
}

func (s *fakeService) GetTrade(ctx context.Context, userID, tradeID int64) (model.Trade, error) {
	if s.getTradeFn != nil {
		return s.getTradeFn(ctx, userID, tradeID)
	}
	return model.Trade{}, errNotImplemented
}

func (s *fakeService) UpdateTrade(ctx context.Context, userID int64, trade model.Trade) (model.Trade, error) {
	if s.updateTradeFn != nil {
		return s.updateTradeFn(ctx, userID, trade)
	}
	return model.Trade{}, errNotImplemented
}

func (s *fakeService) DeleteTrade(ctx context.Context, userID, tradeID int64) error {
	if s.deleteTradeFn != nil {
		return s.deleteTradeFn(ctx, userID, tradeID)
	}
	return errNotImplemented
}

func (s *fakeService) GetTradesPage(ctx context.Context, userID int64, page int) (model.TradesPage, error) {
	if s.getTradesPageFn != nil {
		return s.getTradesPageFn(ctx, userID, page)
	}
	return model.TradesPage{}, errNotImplemented
}

func (s *fakeService) GetDashboard(ctx context.Context, userID int64, query model.DashboardQuery) (model.Dashboard, error) {
	if s.getDashboardFn != nil {
		return s.getDashboardFn(ctx, userID, query)
	}
	return model.Dashboard{}, errNotImplemented
}

func (s *fakeService) GenerateReport(ctx context.Context, userID int64, query model.DashboardQuery) ([]byte, string, error) {
	if s.generateReportFn != nil {
		return s.generateReportFn(ctx, userID, query)
	}
	return nil, "", errNotImplemented
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	deleted  []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]model.Session)}
}

func (s *fakeSessionStore) SetSession(ctx context.Context, token string, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session
	return nil
}

func (s *fakeSessionStore) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	s.deleted = append(s.deleted, token)
	return nil
}

func (s *fakeSessionStore) session(token string) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	return session, ok
}
