package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pizzadelicia/pizzeria-api/internal/config"
	"github.com/pizzadelicia/pizzeria-api/internal/controllers"
	"github.com/pizzadelicia/pizzeria-api/internal/database"
	"github.com/pizzadelicia/pizzeria-api/internal/middleware"
	"github.com/pizzadelicia/pizzeria-api/internal/notify"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	configuration *config.Config

	orderService    services.OrderService
	catalogService  services.CatalogService
	customerService services.CustomerService
	invoiceService  services.InvoiceService
	reportService   services.ReportService
	statsService    services.StatsService

	authController         *controllers.AuthController
	pizzaController        controllers.PizzaController
	catalogController      *controllers.CatalogController
	customerController     *controllers.CustomerController
	orderController        *controllers.OrderController
	invoiceController      *controllers.InvoiceController
	reportController       *controllers.ReportController
	statsController        *controllers.StatsController
	notificationController *controllers.NotificationController
)

func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services and controllers
	mailer := setupServices(configuration)

	// Start the outbox dispatcher alongside the HTTP server
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := notify.NewDispatcher(db, mailer, invoiceService,
		configuration.OutboxPollInterval, configuration.OutboxMaxAttempts, log.StandardLogger())
	go dispatcher.Run(ctx)

	// Initialize Gin router
	router := setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	if err := router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)); err != nil {
		log.WithError(err).Fatal("Server terminated")
	}
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection, runs migrations and
// seeds reference data on an empty schema
func setupDatabase(conf *config.Config) {
	var err error
	db, err = database.InitDatabase(database.FromAppConfig(conf))
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
	checkPanicErr(database.SeedIfEmpty(db))
}

// setupServices wires the service layer and returns the SMTP mailer used by
// both the dispatcher and the synchronous invoice mail endpoint
func setupServices(conf *config.Config) *notify.SMTPMailer {
	logger := log.StandardLogger()

	orderService = services.NewOrderService(db, conf.TotalTolerance, logger)
	catalogService = services.NewCatalogService(db)
	customerService = services.NewCustomerService(db)
	invoiceService = services.NewInvoiceService(db, conf.TaxRate, conf.InvoiceDir, logger)
	reportService = services.NewReportService(db)
	statsService = services.NewStatsService(db)

	mailer := notify.NewSMTPMailer(conf.SMTPHost, conf.SMTPPort, conf.SMTPUser, conf.SMTPPassword, conf.SMTPFrom)

	authController = controllers.NewAuthController(customerService, conf.JWTSecret)
	pizzaController = controllers.NewPizzaController(catalogService)
	catalogController = controllers.NewCatalogController(catalogService)
	customerController = controllers.NewCustomerController(customerService)
	orderController = controllers.NewOrderController(orderService)
	invoiceController = controllers.NewInvoiceController(invoiceService, orderService, customerService, mailer)
	reportController = controllers.NewReportController(reportService)
	statsController = controllers.NewStatsController(statsService)
	notificationController = controllers.NewNotificationController(db)

	return mailer
}

// setupRouter initializes the Gin router and sets up the routes
func setupRouter() *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	setupRoutes(router)
	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	jwtSecret := []byte(configuration.JWTSecret)

	v1 := router.Group("/api/v1")
	{
		// Public storefront routes
		v1.POST("/auth/register", authController.Register)
		v1.POST("/auth/login", authController.Login)
		v1.GET("/categories", catalogController.GetCategories)
		v1.GET("/sizes", catalogController.GetSizes)
		v1.GET("/pizzas", pizzaController.GetAllPizzas)
		v1.GET("/pizzas/:id", pizzaController.GetPizzaByID)

		// Authenticated customer routes
		authenticated := v1.Group("")
		authenticated.Use(middleware.JWTAuth(jwtSecret))
		{
			authenticated.GET("/auth/me", authController.Me)
			authenticated.POST("/orders", orderController.CreateOrder)
			authenticated.GET("/orders", orderController.ListOrders)
			authenticated.GET("/orders/:id", orderController.GetOrder)
			authenticated.GET("/invoices/download/:orderId", invoiceController.Download)

			// Back-office routes
			admin := authenticated.Group("")
			admin.Use(middleware.RequireRole("admin"))
			{
				admin.POST("/pizzas", pizzaController.CreatePizza)
				admin.PUT("/pizzas/:id", pizzaController.UpdatePizza)
				admin.DELETE("/pizzas/:id", pizzaController.DeletePizza)

				admin.GET("/customers", customerController.ListCustomers)
				admin.GET("/customers/:id", customerController.GetCustomer)
				admin.POST("/customers", customerController.CreateCustomer)
				admin.PUT("/customers/:id", customerController.UpdateCustomer)
				admin.DELETE("/customers/:id", customerController.DeleteCustomer)

				admin.PATCH("/orders/:id", orderController.UpdateStatus)

				admin.POST("/invoices/generate/:orderId", invoiceController.Generate)
				admin.GET("/invoices", invoiceController.List)
				admin.GET("/invoices/:id", invoiceController.GetByID)
				admin.PATCH("/invoices/:id", invoiceController.SetPaymentStatus)
				admin.POST("/invoices/send-email/:orderId", invoiceController.SendEmail)

				admin.GET("/reports/sales", reportController.SalesReport)
				admin.GET("/reports/products", reportController.ProductsReport)

				admin.GET("/stats/revenue-by-month", statsController.RevenueByMonth)
				admin.GET("/stats/orders-by-weekday", statsController.OrdersByWeekday)
				admin.GET("/stats/sales-by-category", statsController.SalesByCategory)
				admin.GET("/stats/summary", statsController.Summary)
				admin.GET("/stats/recent-orders", statsController.RecentOrders)

				admin.GET("/notifications/outbox", notificationController.ListOutbox)
			}
		}
	}
}

// healthCheckHandler handles the health check endpoint
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pizzeria-api",
	})
}
