package dbConverter

import (
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model/dbModel"
)

func ConvertUser(dbUser dbModel.User) model.User {
	return model.User{
		ID:           dbUser.ID,
		Username:     dbUser.Username,
		PasswordHash: dbUser.PasswordHash,
		CreatedAt:    dbUser.CreatedAt,
	}
}

func ConvertStock(dbStock dbModel.Stock) model.Stock {
	return model.Stock{
		ID:            dbStock.ID,
		Symbol:        dbStock.Symbol,
		Name:          dbStock.Name,
		CurrentPrice:  dbStock.CurrentPrice,
		Change:        dbStock.Change,
		ChangePercent: dbStock.ChangePercent,
		Volume:        dbStock.Volume,
		High:          dbStock.High,
		Low:           dbStock.Low,
		TP1:           dbStock.TP1,
		TP2:           dbStock.TP2,
		TP3:           dbStock.TP3,
		SL1:           dbStock.SL1,
		SL2:           dbStock.SL2,
		SL3:           dbStock.SL3,
		LTP1:          dbStock.LTP1,
		LTP2:          dbStock.LTP2,
		LTP3:          dbStock.LTP3,
		RSI:           dbStock.RSI,
		CreatedAt:     dbStock.CreatedAt,
	}
}

func ConvertTrade(dbTrade dbModel.Trade) model.Trade {
	return model.Trade{
		ID:             dbTrade.ID,
		UserID:         dbTrade.UserID,
		StockID:        dbTrade.StockID,
		Quantity:       dbTrade.Quantity,
		BuyingPrice:    dbTrade.BuyingPrice,
		BuyDate:        dbTrade.BuyDate,
		MTP:            dbTrade.MTP,
		MSL:            dbTrade.MSL,
		Comments:       dbTrade.Comments,
		ProfitExpected: dbTrade.ProfitExpected,
		ProfitPercent:  dbTrade.ProfitPercent,
		LossExpected:   dbTrade.LossExpected,
		LossRecent:     dbTrade.LossRecent,
		PlRatio:        dbTrade.PlRatio,
		RateDifference: dbTrade.RateDifference,
		PlPercent:      dbTrade.PlPercent,
		MaxProfit:      dbTrade.MaxProfit,
		MinProfitLoss:  dbTrade.MinProfitLoss,
		CreatedAt:      dbTrade.CreatedAt,
	}
}

func ConvertTradeWithStock(dbTrade dbModel.TradeWithStock) model.Holding {
	return model.Holding{
		Trade:        ConvertTrade(dbTrade.Trade),
		Symbol:       dbTrade.Symbol,
		StockName:    dbTrade.StockName,
		CurrentPrice: dbTrade.CurrentPrice,
	}
}
