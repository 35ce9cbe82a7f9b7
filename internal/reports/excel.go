package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SalesRow is one order in the sales report
type SalesRow struct {
	OrderID       uint
	Date          time.Time
	CustomerName  string
	Status        string
	PaymentMethod string
	Total         decimal.Decimal
}

// ProductRow is one pizza aggregated across the report window
type ProductRow struct {
	PizzaName    string
	CategoryName string
	QuantitySold int
	Revenue      decimal.Decimal
}

// SalesWorkbook builds a spreadsheet with one row per order and a trailing
// totals row computed with a native SUM formula
func SalesWorkbook(rows []SalesRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ventas"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Orden", "Fecha", "Cliente", "Estado", "Método de pago", "Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		rowNum := i + 2
		values := []any{
			row.OrderID,
			row.Date.Format("2006-01-02 15:04"),
			row.CustomerName,
			row.Status,
			row.PaymentMethod,
			row.Total.InexactFloat64(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	totalRow := len(rows) + 2
	if err := f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellFormula(sheet, fmt.Sprintf("F%d", totalRow), fmt.Sprintf("SUM(F2:F%d)", totalRow-1)); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

// ProductsWorkbook builds a spreadsheet with one row per pizza, aggregated by
// quantity sold and revenue, plus a formula-computed totals row
func ProductsWorkbook(rows []ProductRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Productos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Pizza", "Categoría", "Cantidad vendida", "Ingresos"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		rowNum := i + 2
		values := []any{
			row.PizzaName,
			row.CategoryName,
			row.QuantitySold,
			row.Revenue.InexactFloat64(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	totalRow := len(rows) + 2
	if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", totalRow), "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellFormula(sheet, fmt.Sprintf("C%d", totalRow), fmt.Sprintf("SUM(C2:C%d)", totalRow-1)); err != nil {
		return nil, err
	}
	if err := f.SetCellFormula(sheet, fmt.Sprintf("D%d", totalRow), fmt.Sprintf("SUM(D2:D%d)", totalRow-1)); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
