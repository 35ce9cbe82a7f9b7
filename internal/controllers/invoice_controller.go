package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/pizzadelicia/pizzeria-api/internal/notify"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
)

// InvoiceController handles billing records and invoice documents
type InvoiceController struct {
	invoices  services.InvoiceService
	orders    services.OrderService
	customers services.CustomerService
	sender    notify.Sender
}

// NewInvoiceController creates a new instance of InvoiceController
func NewInvoiceController(invoices services.InvoiceService, orders services.OrderService, customers services.CustomerService, sender notify.Sender) *InvoiceController {
	return &InvoiceController{
		invoices:  invoices,
		orders:    orders,
		customers: customers,
		sender:    sender,
	}
}

// Generate creates the invoice for an order. Repeating the call returns the
// existing invoice instead of creating a duplicate.
func (c *InvoiceController) Generate(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx, "orderId")
	if !ok {
		return
	}

	invoice, existed, err := c.invoices.Generate(orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if existed {
		ctx.JSON(http.StatusOK, gin.H{
			"invoice": invoice,
			"message": "La factura ya existe para este pedido",
		})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"invoice": invoice,
		"message": "Factura generada correctamente",
	})
}

func (c *InvoiceController) List(ctx *gin.Context) {
	invoices, err := c.invoices.List()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, invoices)
}

func (c *InvoiceController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	invoice, err := c.invoices.GetByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, invoice)
}

// SetPaymentStatus updates the invoice's payment status (admin action)
func (c *InvoiceController) SetPaymentStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := c.invoices.SetPaymentStatus(id, req.PaymentStatus)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, invoice)
}

// Download streams the invoice PDF for an order. The invoice must exist
// already; rendering never creates billing records.
func (c *InvoiceController) Download(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(ctx, "orderId")
	if !ok {
		return
	}

	order, err := c.orders.GetOrder(orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if role != "admin" && order.CustomerID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only download invoices for your own orders"})
		return
	}

	invoice, err := c.invoices.GetByOrderID(orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	pdf, err := c.invoices.RenderPDF(orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.Number))
	ctx.Data(http.StatusOK, "application/pdf", pdf)
}

// SendEmail delivers the invoice by mail synchronously (admin action).
// Unlike the order confirmation this reports delivery failure to the caller.
func (c *InvoiceController) SendEmail(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx, "orderId")
	if !ok {
		return
	}

	invoice, err := c.invoices.GetByOrderID(orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	order, err := c.orders.GetOrder(orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	customer, err := c.customers.GetCustomerByID(order.CustomerID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	pdf, err := c.invoices.RenderPDF(orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	delivery := notify.InvoiceDelivery{
		To:            customer.Email,
		CustomerName:  customer.Name,
		InvoiceNumber: invoice.Number,
		OrderID:       order.ID,
		Total:         invoice.Total,
		PDF:           pdf,
	}
	if err := c.sender.SendInvoice(delivery); err != nil {
		respondError(ctx, models.NewNotificationError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Factura enviada correctamente",
		"recipient": customer.Email,
	})
}
