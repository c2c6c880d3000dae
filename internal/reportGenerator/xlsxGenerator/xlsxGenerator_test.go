package xlsxGenerator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerate(t *testing.T) {
	dec := decimal.RequireFromString

	dashboard := model.Dashboard{
		PortfolioSummary: model.PortfolioSummary{
			TotalCost:    dec("2000"),
			TotalValue:   dec("2050"),
			UnrealizedPl: dec("50"),
			PlPercent:    dec("2.5"),
			TradesCount:  2,
		},
		Holdings: []model.Holding{
			{
				Trade: model.Trade{
					Quantity:       10,
					BuyingPrice:    dec("100"),
					BuyDate:        time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
					MTP:            dec("120"),
					MSL:            dec("90"),
					ProfitExpected: dec("200"),
					LossExpected:   dec("100"),
					RateDifference: dec("10"),
					PlPercent:      dec("10"),
				},
				Symbol:       "AIRLINK",
				StockName:    "Air Link Communication Limited",
				CurrentPrice: dec("110"),
			},
		},
	}

	fileBytes, ext, err := New().Generate(context.Background(), dashboard)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", ext)
	require.NotEmpty(t, fileBytes)

	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		t.Helper()
		v, err := f.GetCellValue(sheetName, ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Holdings", cell("A1"))
	assert.Equal(t, "symbol", cell("A2"))
	assert.Equal(t, "buying price", cell("D2"))
	assert.Equal(t, "p/l percent", cell("L2"))

	assert.Equal(t, "AIRLINK", cell("A3"))
	assert.Equal(t, "Air Link Communication Limited", cell("B3"))
	assert.Equal(t, "10", cell("C3"))
	assert.Equal(t, "100", cell("D3"))
	assert.Equal(t, "110", cell("E3"))
	assert.Equal(t, "2024-05-10", cell("F3"))
	assert.Equal(t, "120", cell("G3"))
	assert.Equal(t, "90", cell("H3"))

	// summary block sits two rows below the holdings
	assert.Equal(t, "Summary", cell("A6"))
	assert.Equal(t, "total cost", cell("A7"))
	assert.Equal(t, "2000", cell("B7"))
	assert.Equal(t, "total value", cell("A8"))
	assert.Equal(t, "2050", cell("B8"))
	assert.Equal(t, "unrealized p/l", cell("A9"))
	assert.Equal(t, "50", cell("B9"))
	assert.Equal(t, "p/l percent", cell("A10"))
	assert.Equal(t, "2.5", cell("B10"))
	assert.Equal(t, "trades", cell("A11"))
	assert.Equal(t, "2", cell("B11"))
}

func TestGenerateEmptyPortfolio(t *testing.T) {
	fileBytes, ext, err := New().Generate(context.Background(), model.Dashboard{})
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", ext)

	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	require.NoError(t, err)
	defer f.Close()

	// default sheet is dropped, only the report sheet remains
	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	got, err := f.GetCellValue(sheetName, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Summary", got)
}
