package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Portfolio"

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, dashboard model.Dashboard) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	err = g.fillSheet(ctx, f, dashboard)
	if err != nil {
		return nil, "", err
	}

	// drop the default sheet
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSheet(ctx context.Context, f *excelize.File, dashboard model.Dashboard) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.fillSheet"

	_, err := f.NewSheet(sheetName)
	if err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	// holdings
	err = f.MergeCell(sheetName, "A1", "L1")
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Holdings")

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"}, // light blue
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "symbol")
	_ = f.SetCellStr(sheetName, "B2", "stock")
	_ = f.SetCellStr(sheetName, "C2", "quantity")
	_ = f.SetCellStr(sheetName, "D2", "buying price")
	_ = f.SetCellStr(sheetName, "E2", "current price")
	_ = f.SetCellStr(sheetName, "F2", "buy date")
	_ = f.SetCellStr(sheetName, "G2", "target price")
	_ = f.SetCellStr(sheetName, "H2", "stop loss")
	_ = f.SetCellStr(sheetName, "I2", "profit expected")
	_ = f.SetCellStr(sheetName, "J2", "loss expected")
	_ = f.SetCellStr(sheetName, "K2", "rate difference")
	_ = f.SetCellStr(sheetName, "L2", "p/l percent")

	for i, holding := range dashboard.Holdings {
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", i+3), holding.Symbol)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", i+3), holding.StockName)
		_ = f.SetCellInt(sheetName, fmt.Sprintf("C%d", i+3), holding.Quantity)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", i+3), holding.BuyingPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", i+3), holding.CurrentPrice.InexactFloat64())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("F%d", i+3), holding.BuyDate.Format(time.DateOnly))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", i+3), holding.MTP.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", i+3), holding.MSL.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", i+3), holding.ProfitExpected.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("J%d", i+3), holding.LossExpected.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("K%d", i+3), holding.RateDifference.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("L%d", i+3), holding.PlPercent.InexactFloat64())
	}

	// summary
	rowNum := len(dashboard.Holdings) + 5

	err = f.MergeCell(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("B%d", rowNum))
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), "Summary")

	styleID, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#d9ead3"}, // light green
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "total cost")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), dashboard.TotalCost.InexactFloat64())

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "total value")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), dashboard.TotalValue.InexactFloat64())

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "unrealized p/l")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), dashboard.UnrealizedPl.InexactFloat64())

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "p/l percent")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), dashboard.PlPercent.InexactFloat64())

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "trades")
	_ = f.SetCellInt(sheetName, fmt.Sprintf("B%d", rowNum), int64(dashboard.TradesCount))

	return nil
}
