// Package finance holds the derived field calculations for trades and
// portfolio aggregates. Functions are pure, callers persist the results.
package finance

import (
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RecomputeTrade returns trade with derived fields recalculated from
// quantity, buying price, mtp, msl and the stock's current price.
// Zero values for mtp, msl and currentPrice mean "not set", dependent
// fields stay zero. MaxProfit and MinProfitLoss only move towards their
// extremes and keep stored values when no price is available.
func RecomputeTrade(trade model.Trade, currentPrice decimal.Decimal) model.Trade {
	qty := decimal.NewFromInt(trade.Quantity)

	if !trade.MTP.IsZero() {
		trade.ProfitExpected = trade.MTP.Sub(trade.BuyingPrice).Mul(qty).Round(2)
		if !trade.BuyingPrice.IsZero() {
			trade.ProfitPercent = trade.MTP.Sub(trade.BuyingPrice).Div(trade.BuyingPrice).Mul(hundred).Round(2)
		} else {
			trade.ProfitPercent = decimal.Zero
		}
	} else {
		trade.ProfitExpected = decimal.Zero
		trade.ProfitPercent = decimal.Zero
	}

	if !trade.MSL.IsZero() {
		trade.LossExpected = trade.BuyingPrice.Sub(trade.MSL).Mul(qty).Round(2)
	} else {
		trade.LossExpected = decimal.Zero
	}

	// Ratio is undefined unless the stop loss sits below the buying price,
	// keep zero instead of failing on user data.
	if !trade.MTP.IsZero() && !trade.MSL.IsZero() {
		lossPerShare := trade.BuyingPrice.Sub(trade.MSL)
		if lossPerShare.IsPositive() {
			trade.PlRatio = trade.MTP.Sub(trade.BuyingPrice).Div(lossPerShare).Round(2)
		} else {
			trade.PlRatio = decimal.Zero
		}
	} else {
		trade.PlRatio = decimal.Zero
	}

	if currentPrice.IsZero() {
		trade.RateDifference = decimal.Zero
		trade.LossRecent = decimal.Zero
		trade.PlPercent = decimal.Zero
		return trade
	}

	diff := currentPrice.Sub(trade.BuyingPrice)
	trade.RateDifference = diff.Round(2)

	if currentPrice.LessThan(trade.BuyingPrice) {
		trade.LossRecent = trade.BuyingPrice.Sub(currentPrice).Mul(qty).Round(2)
	} else {
		trade.LossRecent = decimal.Zero
	}

	if !trade.BuyingPrice.IsZero() {
		trade.PlPercent = diff.Div(trade.BuyingPrice).Mul(hundred).Round(2)
	} else {
		trade.PlPercent = decimal.Zero
	}

	unrealized := diff.Mul(qty).Round(2)
	trade.MaxProfit = decimal.Max(trade.MaxProfit, unrealized)
	trade.MinProfitLoss = decimal.Min(trade.MinProfitLoss, unrealized)

	return trade
}

// AggregatePortfolio sums cost and value over holdings. Stocks without a
// known price contribute zero value, an empty portfolio yields zero
// PlPercent rather than a division error.
func AggregatePortfolio(holdings []model.Holding) model.PortfolioSummary {
	summary := model.PortfolioSummary{TradesCount: len(holdings)}

	for _, holding := range holdings {
		qty := decimal.NewFromInt(holding.Quantity)
		summary.TotalCost = summary.TotalCost.Add(holding.BuyingPrice.Mul(qty))
		summary.TotalValue = summary.TotalValue.Add(holding.CurrentPrice.Mul(qty))
	}

	summary.TotalCost = summary.TotalCost.Round(2)
	summary.TotalValue = summary.TotalValue.Round(2)
	summary.UnrealizedPl = summary.TotalValue.Sub(summary.TotalCost).Round(2)

	if !summary.TotalCost.IsZero() {
		summary.PlPercent = summary.UnrealizedPl.Div(summary.TotalCost).Mul(hundred).Round(2)
	}

	return summary
}
