package portfolioService

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/KotFed0t/portfolio_tracker_api/config"
	"github.com/KotFed0t/portfolio_tracker_api/data/repository"
	"github.com/KotFed0t/portfolio_tracker_api/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
)

// fakeRepo is an in-memory Repository. Refresh writes from multiple
// goroutines, so every method takes the mutex.
type fakeRepo struct {
	mu          sync.Mutex
	users       map[string]model.User
	stocks      map[int64]model.Stock
	trades      map[int64]model.Trade
	nextUserID  int64
	nextStockID int64
	nextTradeID int64

	priceUpdates   []int64
	derivedUpdates []model.Trade
	lastHoldingsQ  struct{ symbol, sort string }

	failPriceUpdate map[int64]error
	getStocksErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:           make(map[string]model.User),
		stocks:          make(map[int64]model.Stock),
		trades:          make(map[int64]model.Trade),
		failPriceUpdate: make(map[int64]error),
	}
}

func (r *fakeRepo) addStock(stock model.Stock) model.Stock {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextStockID++
	stock.ID = r.nextStockID
	r.stocks[stock.ID] = stock
	return stock
}

func (r *fakeRepo) addTrade(trade model.Trade) model.Trade {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTradeID++
	trade.ID = r.nextTradeID
	r.trades[trade.ID] = trade
	return trade
}

func (r *fakeRepo) stock(stockID int64) (model.Stock, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stock, ok := r.stocks[stockID]
	return stock, ok
}

func (r *fakeRepo) trade(tradeID int64) (model.Trade, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trade, ok := r.trades[tradeID]
	return trade, ok
}

func (r *fakeRepo) derivedWrites() []model.Trade {
	r.mu.Lock()
	defer r.mu.Unlock()
	writes := make([]model.Trade, len(r.derivedUpdates))
	copy(writes, r.derivedUpdates)
	return writes
}

func (r *fakeRepo) priceWrites() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	writes := make([]int64, len(r.priceUpdates))
	copy(writes, r.priceUpdates)
	return writes
}

func (r *fakeRepo) InsertUser(ctx context.Context, username, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; ok {
		return 0, repository.ErrAlreadyExists
	}
	r.nextUserID++
	r.users[username] = model.User{ID: r.nextUserID, Username: username, PasswordHash: passwordHash}
	return r.nextUserID, nil
}

func (r *fakeRepo) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeRepo) InsertStock(ctx context.Context, stock model.Stock) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.stocks {
		if existing.Symbol == stock.Symbol {
			return 0, repository.ErrAlreadyExists
		}
	}
	r.nextStockID++
	stock.ID = r.nextStockID
	r.stocks[stock.ID] = stock
	return stock.ID, nil
}

func (r *fakeRepo) GetStockByID(ctx context.Context, stockID int64) (model.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stock, ok := r.stocks[stockID]
	if !ok {
		return model.Stock{}, repository.ErrNotFound
	}
	return stock, nil
}

func (r *fakeRepo) GetStockBySymbol(ctx context.Context, symbol string) (model.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stock := range r.stocks {
		if stock.Symbol == symbol {
			return stock, nil
		}
	}
	return model.Stock{}, repository.ErrNotFound
}

func (r *fakeRepo) GetStocksPage(ctx context.Context, limit, offset int) ([]model.Stock, bool, error) {
	all, err := r.GetAllStocks(ctx)
	if err != nil {
		return nil, false, err
	}
	if offset >= len(all) {
		return nil, false, nil
	}
	end := offset + limit
	if end >= len(all) {
		return all[offset:], false, nil
	}
	return all[offset:end], true, nil
}

func (r *fakeRepo) GetStocksByIDs(ctx context.Context, stockIDs []int64) ([]model.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getStocksErr != nil {
		return nil, r.getStocksErr
	}
	var stocks []model.Stock
	for _, id := range stockIDs {
		if stock, ok := r.stocks[id]; ok {
			stocks = append(stocks, stock)
		}
	}
	return stocks, nil
}

func (r *fakeRepo) GetStocksBySymbols(ctx context.Context, symbols []string) ([]model.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getStocksErr != nil {
		return nil, r.getStocksErr
	}
	var stocks []model.Stock
	for _, symbol := range symbols {
		for _, stock := range r.stocks {
			if stock.Symbol == symbol {
				stocks = append(stocks, stock)
			}
		}
	}
	return stocks, nil
}

func (r *fakeRepo) GetAllStocks(ctx context.Context) ([]model.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getStocksErr != nil {
		return nil, r.getStocksErr
	}
	stocks := make([]model.Stock, 0, len(r.stocks))
	for _, stock := range r.stocks {
		stocks = append(stocks, stock)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol })
	return stocks, nil
}

func (r *fakeRepo) UpdateStock(ctx context.Context, stock model.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.stocks[stock.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stock.Symbol = current.Symbol
	r.stocks[stock.ID] = stock
	return nil
}

func (r *fakeRepo) UpdateStockPrices(ctx context.Context, stockID int64, quote model.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failPriceUpdate[stockID]; ok {
		return err
	}
	stock, ok := r.stocks[stockID]
	if !ok {
		return repository.ErrNotFound
	}
	stock.CurrentPrice = quote.Price
	stock.Change = quote.Change
	stock.ChangePercent = quote.ChangePercent
	stock.Volume = quote.Volume
	stock.High = quote.High
	stock.Low = quote.Low
	r.stocks[stockID] = stock
	r.priceUpdates = append(r.priceUpdates, stockID)
	return nil
}

func (r *fakeRepo) DeleteStock(ctx context.Context, stockID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stocks, stockID)
	return nil
}

func (r *fakeRepo) InsertTrade(ctx context.Context, trade model.Trade) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTradeID++
	trade.ID = r.nextTradeID
	r.trades[trade.ID] = trade
	return trade.ID, nil
}

func (r *fakeRepo) GetTradeByID(ctx context.Context, tradeID int64) (model.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trade, ok := r.trades[tradeID]
	if !ok {
		return model.Trade{}, repository.ErrNotFound
	}
	return trade, nil
}

func (r *fakeRepo) GetTradesByStockID(ctx context.Context, stockID int64) ([]model.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var trades []model.Trade
	for _, trade := range r.trades {
		if trade.StockID == stockID {
			trades = append(trades, trade)
		}
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].ID < trades[j].ID })
	return trades, nil
}

func (r *fakeRepo) GetTradesPage(ctx context.Context, userID int64, limit, offset int) ([]model.Holding, bool, error) {
	holdings, err := r.GetHoldings(ctx, userID, "", "")
	if err != nil {
		return nil, false, err
	}
	if offset >= len(holdings) {
		return nil, false, nil
	}
	end := offset + limit
	if end >= len(holdings) {
		return holdings[offset:], false, nil
	}
	return holdings[offset:end], true, nil
}

func (r *fakeRepo) GetHoldings(ctx context.Context, userID int64, symbol, sortBy string) ([]model.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastHoldingsQ.symbol = symbol
	r.lastHoldingsQ.sort = sortBy

	var holdings []model.Holding
	for _, trade := range r.trades {
		if trade.UserID != userID {
			continue
		}
		stock := r.stocks[trade.StockID]
		if symbol != "" && stock.Symbol != symbol {
			continue
		}
		holdings = append(holdings, model.Holding{
			Trade:        trade,
			Symbol:       stock.Symbol,
			StockName:    stock.Name,
			CurrentPrice: stock.CurrentPrice,
		})
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].ID < holdings[j].ID })
	return holdings, nil
}

func (r *fakeRepo) UpdateTrade(ctx context.Context, trade model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trades[trade.ID]; !ok {
		return repository.ErrNotFound
	}
	r.trades[trade.ID] = trade
	return nil
}

func (r *fakeRepo) UpdateTradeDerived(ctx context.Context, trade model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trades[trade.ID]; !ok {
		return repository.ErrNotFound
	}
	r.trades[trade.ID] = trade
	r.derivedUpdates = append(r.derivedUpdates, trade)
	return nil
}

func (r *fakeRepo) DeleteTrade(ctx context.Context, tradeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trades, tradeID)
	return nil
}

func (r *fakeRepo) DeleteTradesByStockID(ctx context.Context, stockID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, trade := range r.trades {
		if trade.StockID == stockID {
			delete(r.trades, id)
		}
	}
	return nil
}

func (r *fakeRepo) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error {
	return tFunc(ctx)
}

// fakeQuoteApi serves quotes from a static map and records request order.
type fakeQuoteApi struct {
	mu      sync.Mutex
	quotes  map[string]model.Quote
	errs    map[string]error
	getFn   func(ctx context.Context, symbol string) (model.Quote, error)
	symbols []string
}

func newFakeQuoteApi() *fakeQuoteApi {
	return &fakeQuoteApi{
		quotes: make(map[string]model.Quote),
		errs:   make(map[string]error),
	}
}

func (a *fakeQuoteApi) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	a.mu.Lock()
	a.symbols = append(a.symbols, symbol)
	a.mu.Unlock()

	if a.getFn != nil {
		return a.getFn(ctx, symbol)
	}
	if err, ok := a.errs[symbol]; ok {
		return model.Quote{}, err
	}
	if quote, ok := a.quotes[symbol]; ok {
		return quote, nil
	}
	return model.Quote{}, externalApi.ErrNoData
}

func (a *fakeQuoteApi) requested() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	symbols := make([]string, len(a.symbols))
	copy(symbols, a.symbols)
	return symbols
}

// fakeCache misses by default. Async cache writes are recorded but never
// asserted on, the goroutines may outlive the test body.
type fakeCache struct {
	mu     sync.Mutex
	quotes map[string]model.Quote
}

func newFakeCache() *fakeCache {
	return &fakeCache{quotes: make(map[string]model.Quote)}
}

func (c *fakeCache) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	quote, ok := c.quotes[symbol]
	if !ok {
		return model.Quote{}, errors.New("cache miss")
	}
	return quote, nil
}

func (c *fakeCache) SetQuote(ctx context.Context, quote model.Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[strings.ToUpper(quote.Symbol)] = quote
	return nil
}

func (c *fakeCache) SetQuotes(ctx context.Context, quotes []model.Quote) error {
	for _, quote := range quotes {
		_ = c.SetQuote(ctx, quote)
	}
	return nil
}

type fakeReportGenerator struct {
	generateFn func(ctx context.Context, dashboard model.Dashboard) ([]byte, string, error)
}

func (g *fakeReportGenerator) Generate(ctx context.Context, dashboard model.Dashboard) ([]byte, string, error) {
	if g.generateFn != nil {
		return g.generateFn(ctx, dashboard)
	}
	return []byte("report"), ".xlsx", nil
}

func newTestService(repo Repository, cache Cache, quoteApi QuoteApi) *PortfolioService {
	cfg := &config.Config{
		Refresh:       config.Refresh{Concurrency: 4},
		StocksPerPage: 10,
		TradesPerPage: 10,
	}
	return New(cfg, repo, cache, quoteApi, &fakeReportGenerator{})
}
