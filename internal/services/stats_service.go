package services

import (
	"math"
	"sort"
	"time"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"gorm.io/gorm"
)

// StatPoint is one labelled value in a dashboard chart
type StatPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// SummaryMetric is a dashboard card value with its percent change against
// the previous period
type SummaryMetric struct {
	Value     float64 `json:"value"`
	ChangePct int     `json:"change_pct"`
}

// Summary holds the admin dashboard cards for the last 30 days compared
// against the 30 days before them
type Summary struct {
	Revenue   SummaryMetric `json:"revenue"`
	Orders    SummaryMetric `json:"orders"`
	Customers SummaryMetric `json:"customers"`
	AvgTicket SummaryMetric `json:"avg_ticket"`
}

// StatsService feeds the admin dashboard charts and summary cards
type StatsService interface {
	// RevenueByMonth returns invoiced revenue per month for the last 6 months
	RevenueByMonth() ([]StatPoint, error)
	// OrdersByWeekday returns order counts per weekday for the last 30 days
	OrdersByWeekday() ([]StatPoint, error)
	// SalesByCategory returns line-item counts per category for the last month
	SalesByCategory() ([]StatPoint, error)
	// GetSummary returns the dashboard cards with period-over-period change
	GetSummary() (*Summary, error)
	// RecentOrders returns the five most recent orders
	RecentOrders() ([]models.Order, error)
}

type statsService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStatsService creates a new instance of StatsService
func NewStatsService(db *gorm.DB) StatsService {
	return &statsService{db: db, now: time.Now}
}

// Aggregation happens in Go rather than SQL so the queries stay portable
// across the postgres and sqlite drivers.
func (s *statsService) RevenueByMonth() ([]StatPoint, error) {
	since := s.now().AddDate(0, -6, 0)

	var invoices []models.Invoice
	err := s.db.Preload("Order").
		Joins("JOIN orders ON orders.id = invoices.order_id").
		Where("orders.created_at >= ?", since).
		Find(&invoices).Error
	if err != nil {
		return nil, models.NewPersistenceError("load invoices for revenue stats", err)
	}

	totals := make(map[string]float64)
	var keys []time.Time
	seen := make(map[string]bool)
	for _, invoice := range invoices {
		month := time.Date(invoice.Order.CreatedAt.Year(), invoice.Order.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		key := month.Format("January 2006")
		totals[key] += invoice.Total.InexactFloat64()
		if !seen[key] {
			seen[key] = true
			keys = append(keys, month)
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	points := make([]StatPoint, 0, len(keys))
	for _, month := range keys {
		key := month.Format("January 2006")
		points = append(points, StatPoint{Name: key, Value: round2(totals[key])})
	}
	return points, nil
}

func (s *statsService) OrdersByWeekday() ([]StatPoint, error) {
	since := s.now().AddDate(0, 0, -30)

	var orders []models.Order
	if err := s.db.Where("created_at >= ?", since).Find(&orders).Error; err != nil {
		return nil, models.NewPersistenceError("load orders for weekday stats", err)
	}

	counts := make(map[time.Weekday]int)
	for _, order := range orders {
		counts[order.CreatedAt.Weekday()]++
	}

	points := make([]StatPoint, 0, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		if counts[day] == 0 {
			continue
		}
		points = append(points, StatPoint{Name: day.String(), Value: float64(counts[day])})
	}
	return points, nil
}

func (s *statsService) SalesByCategory() ([]StatPoint, error) {
	since := s.now().AddDate(0, -1, 0)

	type categoryCount struct {
		Name  string
		Count int64
	}
	var counts []categoryCount
	err := s.db.Table("order_lines").
		Select("categories.name AS name, COUNT(*) AS count").
		Joins("JOIN pizzas ON pizzas.id = order_lines.pizza_id").
		Joins("JOIN categories ON categories.id = pizzas.category_id").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.created_at >= ?", since).
		Group("categories.name").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, models.NewPersistenceError("aggregate category sales", err)
	}

	points := make([]StatPoint, 0, len(counts))
	for _, c := range counts {
		points = append(points, StatPoint{Name: c.Name, Value: float64(c.Count)})
	}
	return points, nil
}

func (s *statsService) GetSummary() (*Summary, error) {
	now := s.now()
	currentStart := now.AddDate(0, 0, -30)
	previousStart := now.AddDate(0, 0, -60)

	current, err := s.periodMetrics(currentStart, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.periodMetrics(previousStart, currentStart)
	if err != nil {
		return nil, err
	}

	currentTicket := 0.0
	if current.orders > 0 {
		currentTicket = current.revenue / float64(current.orders)
	}
	previousTicket := 0.0
	if previous.orders > 0 {
		previousTicket = previous.revenue / float64(previous.orders)
	}

	return &Summary{
		Revenue:   SummaryMetric{Value: round2(current.revenue), ChangePct: changePct(current.revenue, previous.revenue)},
		Orders:    SummaryMetric{Value: float64(current.orders), ChangePct: changePct(float64(current.orders), float64(previous.orders))},
		Customers: SummaryMetric{Value: float64(current.customers), ChangePct: changePct(float64(current.customers), float64(previous.customers))},
		AvgTicket: SummaryMetric{Value: round2(currentTicket), ChangePct: changePct(currentTicket, previousTicket)},
	}, nil
}

type periodMetrics struct {
	revenue   float64
	orders    int64
	customers int64
}

func (s *statsService) periodMetrics(from, to time.Time) (periodMetrics, error) {
	var metrics periodMetrics

	var revenue float64
	err := s.db.Table("invoices").
		Select("COALESCE(SUM(invoices.total), 0)").
		Joins("JOIN orders ON orders.id = invoices.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Scan(&revenue).Error
	if err != nil {
		return metrics, models.NewPersistenceError("sum period revenue", err)
	}
	metrics.revenue = revenue

	err = s.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&metrics.orders).Error
	if err != nil {
		return metrics, models.NewPersistenceError("count period orders", err)
	}

	err = s.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Distinct("customer_id").
		Count(&metrics.customers).Error
	if err != nil {
		return metrics, models.NewPersistenceError("count period customers", err)
	}

	return metrics, nil
}

func (s *statsService) RecentOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Customer").Order("created_at DESC").Limit(5).Find(&orders).Error
	if err != nil {
		return nil, models.NewPersistenceError("load recent orders", err)
	}
	return orders, nil
}

func changePct(current, previous float64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
