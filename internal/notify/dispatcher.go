package notify

import (
	"context"
	"time"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InvoiceRenderer provides the rendered document for invoice-delivery
// messages. Satisfied by services.InvoiceService.
type InvoiceRenderer interface {
	RenderPDF(orderID uint) ([]byte, error)
	GetByOrderID(orderID uint) (*models.Invoice, error)
}

// Dispatcher delivers pending outbox messages in the background with
// at-least-once semantics. Each failure is recorded on the row; rows that
// exhaust their attempts move to the terminal failed state and stay
// observable through the admin outbox endpoint.
type Dispatcher struct {
	db          *gorm.DB
	sender      Sender
	invoices    InvoiceRenderer
	interval    time.Duration
	maxAttempts int
	batchSize   int
	log         *logrus.Logger
}

// NewDispatcher creates a new outbox dispatcher
func NewDispatcher(db *gorm.DB, sender Sender, invoices InvoiceRenderer, interval time.Duration, maxAttempts int, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		db:          db,
		sender:      sender,
		invoices:    invoices,
		interval:    interval,
		maxAttempts: maxAttempts,
		batchSize:   20,
		log:         logger,
	}
}

// Run polls the outbox until the context is cancelled
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.WithField("interval", d.interval).Info("Outbox dispatcher started")
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info("Outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.ProcessPending()
		}
	}
}

// ProcessPending delivers one batch of pending messages, oldest first
func (d *Dispatcher) ProcessPending() {
	var messages []models.OutboxMessage
	err := d.db.Where("status = ?", models.OutboxStatusPending).
		Order("created_at ASC").Limit(d.batchSize).Find(&messages).Error
	if err != nil {
		d.log.WithError(err).Error("Failed to load pending outbox messages")
		return
	}

	for _, msg := range messages {
		d.dispatch(&msg)
	}
}

func (d *Dispatcher) dispatch(msg *models.OutboxMessage) {
	err := d.deliver(msg)
	msg.Attempts++

	if err == nil {
		now := time.Now()
		msg.Status = models.OutboxStatusSent
		msg.SentAt = &now
		msg.LastError = ""
		if saveErr := d.db.Save(msg).Error; saveErr != nil {
			d.log.WithError(saveErr).WithField("message_id", msg.ID).Error("Failed to mark outbox message sent")
		}
		d.log.WithFields(logrus.Fields{
			"message_id": msg.ID,
			"kind":       msg.Kind,
			"order_id":   msg.OrderID,
		}).Info("Notification delivered")
		return
	}

	// Delivery failure never affects the committed order; the row keeps its
	// attempt count and last error so the failure stays observable.
	msg.LastError = err.Error()
	if msg.Attempts >= d.maxAttempts {
		msg.Status = models.OutboxStatusFailed
		d.log.WithError(err).WithFields(logrus.Fields{
			"message_id": msg.ID,
			"attempts":   msg.Attempts,
		}).Error("Notification failed permanently")
	} else {
		d.log.WithError(err).WithFields(logrus.Fields{
			"message_id": msg.ID,
			"attempts":   msg.Attempts,
		}).Warn("Notification delivery failed, will retry")
	}
	if saveErr := d.db.Save(msg).Error; saveErr != nil {
		d.log.WithError(saveErr).WithField("message_id", msg.ID).Error("Failed to record outbox failure")
	}
}

func (d *Dispatcher) deliver(msg *models.OutboxMessage) error {
	switch msg.Kind {
	case models.OutboxKindOrderConfirmation:
		confirmation, err := d.buildConfirmation(msg)
		if err != nil {
			return err
		}
		return d.sender.SendOrderConfirmation(*confirmation)
	case models.OutboxKindInvoiceDelivery:
		delivery, err := d.buildInvoiceDelivery(msg)
		if err != nil {
			return err
		}
		return d.sender.SendInvoice(*delivery)
	default:
		return models.NewValidationError("kind", "unknown outbox message kind: "+msg.Kind)
	}
}

func (d *Dispatcher) buildConfirmation(msg *models.OutboxMessage) (*OrderConfirmation, error) {
	var order models.Order
	err := d.db.Preload("Customer").Preload("Items").Preload("Items.Pizza").Preload("Items.Size").
		First(&order, msg.OrderID).Error
	if err != nil {
		return nil, err
	}

	confirmation := &OrderConfirmation{
		To:              msg.Recipient,
		CustomerName:    order.Customer.Name,
		OrderID:         order.ID,
		Total:           order.Total,
		DeliveryAddress: order.DeliveryAddress,
	}
	for _, line := range order.Items {
		confirmation.Lines = append(confirmation.Lines, LineSummary{
			PizzaName: line.Pizza.Name,
			SizeName:  line.Size.Name,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal,
		})
	}
	return confirmation, nil
}

func (d *Dispatcher) buildInvoiceDelivery(msg *models.OutboxMessage) (*InvoiceDelivery, error) {
	invoice, err := d.invoices.GetByOrderID(msg.OrderID)
	if err != nil {
		return nil, err
	}
	pdf, err := d.invoices.RenderPDF(msg.OrderID)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := d.db.Preload("Customer").First(&order, msg.OrderID).Error; err != nil {
		return nil, err
	}

	return &InvoiceDelivery{
		To:            msg.Recipient,
		CustomerName:  order.Customer.Name,
		InvoiceNumber: invoice.Number,
		OrderID:       order.ID,
		Total:         invoice.Total,
		PDF:           pdf,
	}, nil
}

// ListMessages returns outbox rows for the admin dispatch-state endpoint,
// optionally filtered by status
func ListMessages(db *gorm.DB, status string) ([]models.OutboxMessage, error) {
	query := db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var messages []models.OutboxMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, models.NewPersistenceError("list outbox messages", err)
	}
	return messages, nil
}
