package services

import (
	"testing"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	orders := NewOrderService(db, 0.01, testLogger())
	invoices := NewInvoiceService(db, 0.12, "", testLogger())

	order := createTestOrder(t, db, orders, fixture)

	// Order creation already issued the invoice, so the first explicit
	// generate call must find it
	first, existed, err := invoices.Generate(order.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	second, existed, err := invoices.Generate(order.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGenerateForManuallyInsertedOrder(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	invoices := NewInvoiceService(db, 0.12, "", testLogger())

	// An order without an invoice, as left behind by legacy data
	order := models.Order{
		CustomerID:      fixture.customer.ID,
		Status:          models.OrderStatusReceived,
		DeliveryAddress: "Calle Mayor 1",
		PaymentMethod:   "cash",
	}
	require.NoError(t, db.Create(&order).Error)

	invoice, existed, err := invoices.Generate(order.ID)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, order.ID, invoice.OrderID)
	assert.Equal(t, models.PaymentStatusPending, invoice.PaymentStatus)
	assert.Contains(t, invoice.Number, "FAC-")
}

func TestGenerateUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	invoices := NewInvoiceService(db, 0.12, "", testLogger())

	_, _, err := invoices.Generate(999)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestRenderPDFRequiresInvoice(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	invoices := NewInvoiceService(db, 0.12, "", testLogger())

	// Order exists but carries no invoice yet, rendering must not create one
	order := models.Order{
		CustomerID:      fixture.customer.ID,
		Status:          models.OrderStatusReceived,
		DeliveryAddress: "Calle Mayor 1",
		PaymentMethod:   "cash",
	}
	require.NoError(t, db.Create(&order).Error)

	_, err := invoices.RenderPDF(order.ID)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count)
}

func TestRenderPDFProducesDocument(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	orders := NewOrderService(db, 0.01, testLogger())
	invoices := NewInvoiceService(db, 0.12, "", testLogger())

	order := createTestOrder(t, db, orders, fixture)

	pdf, err := invoices.RenderPDF(order.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestBuildDocument(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	orders := NewOrderService(db, 0.01, testLogger())
	invoices := NewInvoiceService(db, 0.12, "", testLogger())

	order := createTestOrder(t, db, orders, fixture)

	doc, err := invoices.BuildDocument(order.ID)
	require.NoError(t, err)
	assert.Equal(t, fixture.customer.Name, doc.CustomerName)
	assert.Equal(t, fixture.customer.Email, doc.CustomerEmail)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "Margherita", doc.Lines[0].PizzaName)
	assert.True(t, doc.Total.Equal(order.Total))
	assert.True(t, doc.Subtotal().Equal(order.Total))

	// 12% of 10.00
	assert.Equal(t, "1.20", doc.Tax().StringFixed(2))
}

func TestSetPaymentStatus(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	orders := NewOrderService(db, 0.01, testLogger())
	invoices := NewInvoiceService(db, 0.12, "", testLogger())

	order := createTestOrder(t, db, orders, fixture)
	invoice, _, err := invoices.Generate(order.ID)
	require.NoError(t, err)

	updated, err := invoices.SetPaymentStatus(invoice.ID, models.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, updated.PaymentStatus)

	_, err = invoices.SetPaymentStatus(invoice.ID, "refunded")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}
