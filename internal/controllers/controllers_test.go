package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pizzadelicia/pizzeria-api/internal/database"
	"github.com/pizzadelicia/pizzeria-api/internal/middleware"
	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/pizzadelicia/pizzeria-api/internal/notify"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret-key-32-characters"

type fakeSender struct {
	confirmations []notify.OrderConfirmation
	invoices      []notify.InvoiceDelivery
	err           error
}

func (f *fakeSender) SendOrderConfirmation(msg notify.OrderConfirmation) error {
	if f.err != nil {
		return f.err
	}
	f.confirmations = append(f.confirmations, msg)
	return nil
}

func (f *fakeSender) SendInvoice(msg notify.InvoiceDelivery) error {
	if f.err != nil {
		return f.err
	}
	f.invoices = append(f.invoices, msg)
	return nil
}

// testEnv wires real services over an in-memory database behind the same
// route layout the server uses
type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	sender *fakeSender

	admin    models.Customer
	customer models.Customer

	margarita models.Pizza
	category  models.Category
	medium    models.Size
}

func setupEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{db: db, sender: &fakeSender{}}

	env.category = models.Category{Name: "Clásicas"}
	require.NoError(t, db.Create(&env.category).Error)
	env.medium = models.Size{Name: "Mediana", PriceFactor: decimal.NewFromFloat(1.50)}
	require.NoError(t, db.Create(&env.medium).Error)
	env.margarita = models.Pizza{Name: "Margherita", BasePrice: decimal.NewFromFloat(10.00), CategoryID: env.category.ID}
	require.NoError(t, db.Create(&env.margarita).Error)

	env.admin = models.Customer{Name: "Administrador", Email: "admin@pizzadelicia.com", IsAdmin: true}
	require.NoError(t, env.admin.SetPassword("admin123"))
	require.NoError(t, db.Create(&env.admin).Error)

	env.customer = models.Customer{Name: "Ana Pérez", Email: "ana@example.com"}
	require.NoError(t, env.customer.SetPassword("secret123"))
	require.NoError(t, db.Create(&env.customer).Error)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	orderService := services.NewOrderService(db, 0.01, logger)
	catalogService := services.NewCatalogService(db)
	customerService := services.NewCustomerService(db)
	invoiceService := services.NewInvoiceService(db, 0.12, "", logger)
	reportService := services.NewReportService(db)
	statsService := services.NewStatsService(db)

	authController := NewAuthController(customerService, testJWTSecret)
	pizzaController := NewPizzaController(catalogService)
	catalogController := NewCatalogController(catalogService)
	customerController := NewCustomerController(customerService)
	orderController := NewOrderController(orderService)
	invoiceController := NewInvoiceController(invoiceService, orderService, customerService, env.sender)
	reportController := NewReportController(reportService)
	statsController := NewStatsController(statsService)
	notificationController := NewNotificationController(db)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", authController.Register)
		v1.POST("/auth/login", authController.Login)
		v1.GET("/categories", catalogController.GetCategories)
		v1.GET("/sizes", catalogController.GetSizes)
		v1.GET("/pizzas", pizzaController.GetAllPizzas)
		v1.GET("/pizzas/:id", pizzaController.GetPizzaByID)

		authenticated := v1.Group("")
		authenticated.Use(middleware.JWTAuth([]byte(testJWTSecret)))
		{
			authenticated.GET("/auth/me", authController.Me)
			authenticated.POST("/orders", orderController.CreateOrder)
			authenticated.GET("/orders", orderController.ListOrders)
			authenticated.GET("/orders/:id", orderController.GetOrder)
			authenticated.GET("/invoices/download/:orderId", invoiceController.Download)

			admin := authenticated.Group("")
			admin.Use(middleware.RequireRole("admin"))
			{
				admin.POST("/pizzas", pizzaController.CreatePizza)
				admin.PUT("/pizzas/:id", pizzaController.UpdatePizza)
				admin.DELETE("/pizzas/:id", pizzaController.DeletePizza)
				admin.GET("/customers", customerController.ListCustomers)
				admin.PATCH("/orders/:id", orderController.UpdateStatus)
				admin.POST("/invoices/generate/:orderId", invoiceController.Generate)
				admin.GET("/invoices", invoiceController.List)
				admin.PATCH("/invoices/:id", invoiceController.SetPaymentStatus)
				admin.POST("/invoices/send-email/:orderId", invoiceController.SendEmail)
				admin.GET("/reports/sales", reportController.SalesReport)
				admin.GET("/reports/products", reportController.ProductsReport)
				admin.GET("/stats/summary", statsController.Summary)
				admin.GET("/notifications/outbox", notificationController.ListOutbox)
			}
		}
	}

	env.router = router
	return env
}

func tokenFor(t *testing.T, customer models.Customer) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  customer.ID,
		"role": customer.Role(),
		"exp":  now.Add(time.Hour).Unix(),
		"iat":  now.Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func (env *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

var errSMTPDown = errors.New("smtp connection refused")
