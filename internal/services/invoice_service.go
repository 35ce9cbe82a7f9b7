package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/pizzadelicia/pizzeria-api/internal/reports"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InvoiceService manages the billing record associated 1:1 with each order
// and renders the print-ready invoice document
type InvoiceService interface {
	// Generate creates the invoice for an order, or returns the existing one.
	// The second return value reports whether the invoice already existed.
	Generate(orderID uint) (*models.Invoice, bool, error)
	// GetByID retrieves an invoice with its order and customer
	GetByID(id uint) (*models.Invoice, error)
	// GetByOrderID retrieves the invoice for an order
	GetByOrderID(orderID uint) (*models.Invoice, error)
	// List retrieves all invoices, newest first
	List() ([]models.Invoice, error)
	// SetPaymentStatus updates the payment status (admin action)
	SetPaymentStatus(id uint, status string) (*models.Invoice, error)
	// BuildDocument assembles the billing document data for an order
	BuildDocument(orderID uint) (*reports.InvoiceDocument, error)
	// RenderPDF renders the invoice for an order as a PDF byte stream
	RenderPDF(orderID uint) ([]byte, error)
}

type invoiceService struct {
	db          *gorm.DB
	taxRate     decimal.Decimal
	artifactDir string
	log         *logrus.Logger
}

// NewInvoiceService creates a new instance of InvoiceService. artifactDir, when
// non-empty, receives a copy of every rendered PDF.
func NewInvoiceService(db *gorm.DB, taxRate float64, artifactDir string, logger *logrus.Logger) InvoiceService {
	return &invoiceService{
		db:          db,
		taxRate:     decimal.NewFromFloat(taxRate),
		artifactDir: artifactDir,
		log:         logger,
	}
}

func (s *invoiceService) Generate(orderID uint) (*models.Invoice, bool, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, models.NewNotFoundError("order", orderID)
		}
		return nil, false, models.NewPersistenceError("load order", err)
	}

	// One invoice per order: return the existing row instead of duplicating
	var existing models.Invoice
	err := s.db.Where("order_id = ?", orderID).First(&existing).Error
	if err == nil {
		return &existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, models.NewPersistenceError("check existing invoice", err)
	}

	total := decimal.Zero
	for _, line := range order.Items {
		total = total.Add(line.Subtotal)
	}

	invoice := models.Invoice{
		OrderID:       orderID,
		Number:        models.NewInvoiceNumber(time.Now()),
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		Total:         total,
		IssuedAt:      time.Now(),
	}
	if err := s.db.Create(&invoice).Error; err != nil {
		return nil, false, models.NewPersistenceError("create invoice", err)
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"order_id":   orderID,
		"total":      total.String(),
	}).Info("Invoice generated")

	return &invoice, false, nil
}

func (s *invoiceService) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("Order").Preload("Order.Customer").First(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("invoice", id)
		}
		return nil, models.NewPersistenceError("load invoice", err)
	}
	return &invoice, nil
}

func (s *invoiceService) GetByOrderID(orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Where("order_id = ?", orderID).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("invoice for order", orderID)
		}
		return nil, models.NewPersistenceError("load invoice", err)
	}
	return &invoice, nil
}

func (s *invoiceService) List() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.Preload("Order").Preload("Order.Customer").
		Order("issued_at DESC").Find(&invoices).Error
	if err != nil {
		return nil, models.NewPersistenceError("list invoices", err)
	}
	return invoices, nil
}

func (s *invoiceService) SetPaymentStatus(id uint, status string) (*models.Invoice, error) {
	if !models.IsPaymentStatus(status) {
		return nil, models.NewValidationError("payment_status", "unknown payment status")
	}

	var invoice models.Invoice
	if err := s.db.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("invoice", id)
		}
		return nil, models.NewPersistenceError("load invoice", err)
	}

	invoice.PaymentStatus = status
	if err := s.db.Save(&invoice).Error; err != nil {
		return nil, models.NewPersistenceError("update invoice payment status", err)
	}
	return &invoice, nil
}

func (s *invoiceService) BuildDocument(orderID uint) (*reports.InvoiceDocument, error) {
	invoice, err := s.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = s.db.Preload("Customer").Preload("Items").Preload("Items.Pizza").Preload("Items.Size").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("order", orderID)
		}
		return nil, models.NewPersistenceError("load order", err)
	}

	doc := &reports.InvoiceDocument{
		Number:          invoice.Number,
		IssuedAt:        invoice.IssuedAt,
		OrderID:         order.ID,
		OrderDate:       order.CreatedAt,
		PaymentMethod:   invoice.PaymentMethod,
		PaymentStatus:   invoice.PaymentStatus,
		CustomerName:    order.Customer.Name,
		CustomerEmail:   order.Customer.Email,
		DeliveryAddress: order.DeliveryAddress,
		ContactPhone:    order.ContactPhone,
		TaxRate:         s.taxRate,
		Total:           invoice.Total,
	}
	for _, line := range order.Items {
		doc.Lines = append(doc.Lines, reports.InvoiceLine{
			PizzaName: line.Pizza.Name,
			SizeName:  line.Size.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	return doc, nil
}

func (s *invoiceService) RenderPDF(orderID uint) ([]byte, error) {
	doc, err := s.BuildDocument(orderID)
	if err != nil {
		return nil, err
	}

	pdf, err := reports.RenderInvoicePDF(doc)
	if err != nil {
		return nil, err
	}

	// Artifact copy is a convenience, not part of the contract. Failures are
	// logged and the render still succeeds.
	if s.artifactDir != "" {
		path := filepath.Join(s.artifactDir, fmt.Sprintf("%s.pdf", doc.Number))
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			s.log.WithError(err).WithField("path", path).Warn("Failed to persist invoice artifact")
		}
	}

	return pdf, nil
}
