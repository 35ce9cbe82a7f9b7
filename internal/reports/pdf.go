package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// InvoiceLine is one row of the invoice line-item table
type InvoiceLine struct {
	PizzaName string
	SizeName  string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// InvoiceDocument holds everything the PDF layout needs. Total is the stored
// invoice amount, displayed as-is rather than recomputed from subtotal + tax.
type InvoiceDocument struct {
	Number        string
	IssuedAt      time.Time
	OrderID       uint
	OrderDate     time.Time
	PaymentMethod string
	PaymentStatus string

	CustomerName    string
	CustomerEmail   string
	DeliveryAddress string
	ContactPhone    string

	Lines   []InvoiceLine
	TaxRate decimal.Decimal
	Total   decimal.Decimal
}

// Subtotal is the sum of line subtotals
func (d *InvoiceDocument) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range d.Lines {
		sum = sum.Add(line.Subtotal)
	}
	return sum
}

// Tax is the fixed-rate tax computed on the line-item subtotal
func (d *InvoiceDocument) Tax() decimal.Decimal {
	return d.Subtotal().Mul(d.TaxRate).Round(2)
}

// RenderInvoicePDF lays out a print-ready invoice document and returns its bytes
func RenderInvoicePDF(doc *InvoiceDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Factura %s", doc.Number), false)
	pdf.AddPage()

	// Header block
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Pizza Delicia")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Factura: %s", doc.Number))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Emitida: %s", doc.IssuedAt.Format("2006-01-02 15:04")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Orden: #%d (%s)", doc.OrderID, doc.OrderDate.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Pago: %s (%s)", doc.PaymentMethod, doc.PaymentStatus))
	pdf.Ln(10)

	// Customer block
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Cliente")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, doc.CustomerName)
	pdf.Ln(5)
	if doc.CustomerEmail != "" {
		pdf.Cell(0, 5, doc.CustomerEmail)
		pdf.Ln(5)
	}
	if doc.DeliveryAddress != "" {
		pdf.Cell(0, 5, doc.DeliveryAddress)
		pdf.Ln(5)
	}
	if doc.ContactPhone != "" {
		pdf.Cell(0, 5, doc.ContactPhone)
		pdf.Ln(5)
	}
	pdf.Ln(5)

	// Line-item table
	colWidths := []float64{70, 30, 20, 30, 30}
	headers := []string{"Pizza", "Tamaño", "Cant.", "P. Unit.", "Subtotal"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		pdf.CellFormat(colWidths[0], 7, line.PizzaName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, line.SizeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 7, line.Subtotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// Totals: subtotal, fixed-rate tax, then the stored invoice total
	labelWidth := colWidths[0] + colWidths[1] + colWidths[2] + colWidths[3]
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(labelWidth, 7, "Subtotal", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[4], 7, doc.Subtotal().StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(labelWidth, 7, fmt.Sprintf("Impuesto (%s%%)", doc.TaxRate.Mul(decimal.NewFromInt(100)).StringFixed(0)), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[4], 7, doc.Tax().StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelWidth, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[4], 8, doc.Total.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
