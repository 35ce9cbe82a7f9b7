package services

import (
	"time"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/pizzadelicia/pizzeria-api/internal/reports"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportService builds the bulk tabular exports: one-row-per-order sales
// reports and per-product aggregates, both over an optional date range
type ReportService interface {
	// SalesReport returns one row per order within the optional range
	SalesReport(from, to *time.Time) ([]reports.SalesRow, error)
	// ProductsReport returns one row per pizza, aggregated by quantity sold
	// and revenue within the optional range
	ProductsReport(from, to *time.Time) ([]reports.ProductRow, error)
}

type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new instance of ReportService
func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

func (s *reportService) SalesReport(from, to *time.Time) ([]reports.SalesRow, error) {
	query := s.db.Model(&models.Order{}).Preload("Customer").Order("created_at DESC")
	query = applyDateRange(query, "orders.created_at", from, to)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, models.NewPersistenceError("load orders for sales report", err)
	}

	rows := make([]reports.SalesRow, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, reports.SalesRow{
			OrderID:       order.ID,
			Date:          order.CreatedAt,
			CustomerName:  order.Customer.Name,
			Status:        order.Status,
			PaymentMethod: order.PaymentMethod,
			Total:         order.Total,
		})
	}
	return rows, nil
}

func (s *reportService) ProductsReport(from, to *time.Time) ([]reports.ProductRow, error) {
	type aggregate struct {
		PizzaName    string
		CategoryName string
		QuantitySold int
		Revenue      decimal.Decimal
	}

	query := s.db.Table("order_lines").
		Select("pizzas.name AS pizza_name, categories.name AS category_name, SUM(order_lines.quantity) AS quantity_sold, SUM(order_lines.subtotal) AS revenue").
		Joins("JOIN pizzas ON pizzas.id = order_lines.pizza_id").
		Joins("JOIN categories ON categories.id = pizzas.category_id").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Group("pizzas.name, categories.name").
		Order("quantity_sold DESC")
	query = applyDateRange(query, "orders.created_at", from, to)

	var aggregates []aggregate
	if err := query.Scan(&aggregates).Error; err != nil {
		return nil, models.NewPersistenceError("aggregate product sales", err)
	}

	rows := make([]reports.ProductRow, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, reports.ProductRow{
			PizzaName:    agg.PizzaName,
			CategoryName: agg.CategoryName,
			QuantitySold: agg.QuantitySold,
			Revenue:      agg.Revenue,
		})
	}
	return rows, nil
}

// applyDateRange narrows a query to the optional [from, to] window
func applyDateRange(query *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", *from)
	}
	if to != nil {
		query = query.Where(column+" <= ?", *to)
	}
	return query
}
