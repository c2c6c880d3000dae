package portfolioService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker_api/config"
	"github.com/KotFed0t/portfolio_tracker_api/data/repository"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/service"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
	"golang.org/x/crypto/bcrypt"
)

type QuoteApi interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
}

type Cache interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	SetQuote(ctx context.Context, quote model.Quote) error
	SetQuotes(ctx context.Context, quotes []model.Quote) error
}

type ReportGenerator interface {
	Generate(ctx context.Context, dashboard model.Dashboard) (fileBytes []byte, fileExtension string, err error)
}

type Repository interface {
	InsertUser(ctx context.Context, username, passwordHash string) (userID int64, err error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)

	InsertStock(ctx context.Context, stock model.Stock) (stockID int64, err error)
	GetStockByID(ctx context.Context, stockID int64) (model.Stock, error)
	GetStockBySymbol(ctx context.Context, symbol string) (model.Stock, error)
	GetStocksPage(ctx context.Context, limit, offset int) (stocks []model.Stock, hasNextPage bool, err error)
	GetStocksByIDs(ctx context.Context, stockIDs []int64) ([]model.Stock, error)
	GetStocksBySymbols(ctx context.Context, symbols []string) ([]model.Stock, error)
	GetAllStocks(ctx context.Context) ([]model.Stock, error)
	UpdateStock(ctx context.Context, stock model.Stock) error
	UpdateStockPrices(ctx context.Context, stockID int64, quote model.Quote) error
	DeleteStock(ctx context.Context, stockID int64) error

	InsertTrade(ctx context.Context, trade model.Trade) (tradeID int64, err error)
	GetTradeByID(ctx context.Context, tradeID int64) (model.Trade, error)
	GetTradesByStockID(ctx context.Context, stockID int64) ([]model.Trade, error)
	GetTradesPage(ctx context.Context, userID int64, limit, offset int) (trades []model.Holding, hasNextPage bool, err error)
	GetHoldings(ctx context.Context, userID int64, symbol, sort string) ([]model.Holding, error)
	UpdateTrade(ctx context.Context, trade model.Trade) error
	UpdateTradeDerived(ctx context.Context, trade model.Trade) error
	DeleteTrade(ctx context.Context, tradeID int64) error
	DeleteTradesByStockID(ctx context.Context, stockID int64) error

	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
}

type PortfolioService struct {
	cfg             *config.Config
	repo            Repository
	cache           Cache
	quoteApi        QuoteApi
	reportGenerator ReportGenerator
}

func New(cfg *config.Config, repo Repository, cache Cache, quoteApi QuoteApi, reportGenerator ReportGenerator) *PortfolioService {
	return &PortfolioService{
		cfg:             cfg,
		repo:            repo,
		cache:           cache,
		quoteApi:        quoteApi,
		reportGenerator: reportGenerator,
	}
}

func (s *PortfolioService) RegisterUser(ctx context.Context, username, password string) (userID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RegisterUser"

	slog.Debug("RegisterUser start", slog.String("rqID", rqID), slog.String("op", op), slog.String("username", username))
	defer func() {
		slog.Debug("RegisterUser finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("username", username))
	}()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("got error from bcrypt.GenerateFromPassword", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	userID, err = s.repo.InsertUser(ctx, username, string(passwordHash))
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return 0, service.ErrUserAlreadyExists
		}
		slog.Error("got error from repo.InsertUser", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	return userID, nil
}

func (s *PortfolioService) AuthenticateUser(ctx context.Context, username, password string) (model.User, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AuthenticateUser"

	slog.Debug("AuthenticateUser start", slog.String("rqID", rqID), slog.String("op", op), slog.String("username", username))
	defer func() {
		slog.Debug("AuthenticateUser finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("username", username))
	}()

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, service.ErrInvalidCredentials
		}
		slog.Error("got error from repo.GetUserByUsername", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.User{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return model.User{}, service.ErrInvalidCredentials
	}

	return user, nil
}
