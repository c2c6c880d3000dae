package portfolioService

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func quote(symbol, price string) model.Quote {
	return model.Quote{Symbol: symbol, Name: symbol, Price: dec(price)}
}
