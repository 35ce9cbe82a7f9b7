package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderLineRequest is one (pizza, size, quantity) entry submitted by the cart.
// UnitPrice is the price the client displayed at cart time; it is never
// trusted for pricing, only logged for verification.
type OrderLineRequest struct {
	PizzaID   uint            `json:"pizza_id" binding:"required"`
	SizeID    uint            `json:"size_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest carries a cart submission. Total is the client-declared
// confirmation value; the authoritative total is recomputed from the catalog.
type CreateOrderRequest struct {
	CustomerID      uint               `json:"customer_id"`
	Items           []OrderLineRequest `json:"items"`
	PaymentMethod   string             `json:"payment_method"`
	DeliveryAddress string             `json:"delivery_address"`
	ContactPhone    string             `json:"contact_phone"`
	Total           decimal.Decimal    `json:"total"`
}

// OrderService creates orders atomically with their line items and invoice,
// and drives the admin status state machine
type OrderService interface {
	// CreateOrder validates the request, prices it from the catalog and commits
	// order + lines + invoice + outbox row in a single transaction
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	// GetOrder retrieves an order with its line items
	GetOrder(id uint) (*models.Order, error)
	// ListOrders retrieves all orders, newest first
	ListOrders() ([]models.Order, error)
	// ListOrdersByCustomer retrieves a customer's orders, newest first
	ListOrdersByCustomer(customerID uint) ([]models.Order, error)
	// UpdateStatus applies an admin-driven status transition
	UpdateStatus(id uint, status string) (*models.Order, error)
}

type orderService struct {
	db        *gorm.DB
	tolerance decimal.Decimal
	log       *logrus.Logger
}

// NewOrderService creates a new instance of OrderService. tolerance bounds the
// accepted gap between the client-declared total and the catalog-priced total.
func NewOrderService(db *gorm.DB, tolerance float64, logger *logrus.Logger) OrderService {
	return &orderService{
		db:        db,
		tolerance: decimal.NewFromFloat(tolerance),
		log:       logger,
	}
}

// pricedLine is a line request after catalog pricing
type pricedLine struct {
	req       OrderLineRequest
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := s.db.First(&customer, req.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("customer", req.CustomerID)
		}
		return nil, models.NewPersistenceError("load customer", err)
	}

	priced, total, err := s.priceLines(req.Items)
	if err != nil {
		return nil, err
	}

	// The declared total is a display-only confirmation value. A mismatch
	// beyond the tolerance means the client priced from a stale catalog.
	if req.Total.Sub(total).Abs().GreaterThan(s.tolerance) {
		s.log.WithFields(logrus.Fields{
			"declared_total": req.Total.String(),
			"computed_total": total.String(),
		}).Warn("Order rejected: declared total does not match catalog pricing")
		return nil, models.NewValidationError("total", "declared total does not match current catalog prices")
	}

	order := &models.Order{
		CustomerID:      req.CustomerID,
		Status:          models.OrderStatusReceived,
		DeliveryAddress: req.DeliveryAddress,
		ContactPhone:    req.ContactPhone,
		PaymentMethod:   req.PaymentMethod,
		Total:           total,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return models.NewPersistenceError("insert order", err)
		}
		if order.ID == 0 {
			return models.NewPersistenceError("insert order", errors.New("no generated id returned"))
		}

		for _, line := range priced {
			orderLine := models.OrderLine{
				OrderID:   order.ID,
				PizzaID:   line.req.PizzaID,
				SizeID:    line.req.SizeID,
				Quantity:  line.req.Quantity,
				UnitPrice: line.unitPrice,
				Subtotal:  line.subtotal,
			}
			if err := tx.Create(&orderLine).Error; err != nil {
				return models.NewPersistenceError("insert order line", err)
			}
			order.Items = append(order.Items, orderLine)
		}

		invoice := models.Invoice{
			OrderID:       order.ID,
			Number:        models.NewInvoiceNumber(time.Now()),
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: models.PaymentStatusPending,
			Total:         total,
			IssuedAt:      time.Now(),
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return models.NewPersistenceError("insert invoice", err)
		}

		// Outbox row rides the same transaction so the confirmation mail is
		// queued if and only if the order committed.
		outbox := models.OutboxMessage{
			ID:        uuid.NewString(),
			Kind:      models.OutboxKindOrderConfirmation,
			OrderID:   order.ID,
			Recipient: customer.Email,
			Status:    models.OutboxStatusPending,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return models.NewPersistenceError("insert outbox message", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"customer": customer.Email,
		"total":    total.String(),
		"lines":    len(order.Items),
	}).Info("Order created")

	return order, nil
}

// validateOrderRequest checks the request shape before any database write
func validateOrderRequest(req CreateOrderRequest) error {
	if req.CustomerID == 0 {
		return models.NewValidationError("customer_id", "customer_id is required")
	}
	if len(req.Items) == 0 {
		return models.NewValidationError("items", "order must contain at least one line item")
	}
	for _, item := range req.Items {
		if item.PizzaID == 0 {
			return models.NewValidationError("items.pizza_id", "pizza_id is required")
		}
		if item.SizeID == 0 {
			return models.NewValidationError("items.size_id", "size_id is required")
		}
		if item.Quantity <= 0 {
			return models.NewValidationError("items.quantity", "quantity must be a positive integer")
		}
	}
	if req.PaymentMethod == "" {
		return models.NewValidationError("payment_method", "payment_method is required")
	}
	if req.DeliveryAddress == "" {
		return models.NewValidationError("delivery_address", "delivery_address is required")
	}
	return nil
}

// priceLines computes the authoritative unit price of each line from the
// current catalog (base price x size factor) and the resulting order total
func (s *orderService) priceLines(items []OrderLineRequest) ([]pricedLine, decimal.Decimal, error) {
	priced := make([]pricedLine, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		var pizza models.Pizza
		if err := s.db.First(&pizza, item.PizzaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, models.NewNotFoundError("pizza", item.PizzaID)
			}
			return nil, decimal.Zero, models.NewPersistenceError("load pizza", err)
		}

		var size models.Size
		if err := s.db.First(&size, item.SizeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, models.NewNotFoundError("size", item.SizeID)
			}
			return nil, decimal.Zero, models.NewPersistenceError("load size", err)
		}

		unitPrice := pizza.PriceFor(size)
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		priced = append(priced, pricedLine{req: item, unitPrice: unitPrice, subtotal: subtotal})
		total = total.Add(subtotal)
	}

	return priced, total, nil
}

func (s *orderService) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Items.Pizza").Preload("Items.Size").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("order", id)
		}
		return nil, models.NewPersistenceError("load order", err)
	}
	return &order, nil
}

func (s *orderService) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Preload("Items.Pizza").Preload("Items.Size").
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, models.NewPersistenceError("list orders", err)
	}
	return orders, nil
}

func (s *orderService) ListOrdersByCustomer(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Preload("Items.Pizza").Preload("Items.Size").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, models.NewPersistenceError("list customer orders", err)
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	if !models.IsOrderStatus(status) {
		return nil, models.NewValidationError("status", "unknown order status")
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("order", id)
		}
		return nil, models.NewPersistenceError("load order", err)
	}

	if !models.CanTransitionOrder(order.Status, status) {
		return nil, models.NewConflictError("order cannot move from " + order.Status + " to " + status)
	}

	order.Status = status
	if err := s.db.Save(&order).Error; err != nil {
		return nil, models.NewPersistenceError("update order status", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   status,
	}).Info("Order status updated")

	return &order, nil
}
