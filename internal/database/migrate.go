package database

import (
	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Migrate runs the schema migrations for all entities
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Size{},
		&models.Pizza{},
		&models.Customer{},
		&models.Order{},
		&models.OrderLine{},
		&models.Invoice{},
		&models.OutboxMessage{},
	)
}

// SeedIfEmpty loads reference data (categories, sizes) and a starter menu
// when the catalog is empty. Safe to call on every startup.
func SeedIfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Pizza{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Database already seeded with initial data")
		return nil
	}

	log.Info("Database is empty, seeding initial data")

	categories := []models.Category{
		{Name: "Clásicas"},
		{Name: "Especiales"},
		{Name: "Vegetarianas"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	sizes := []models.Size{
		{Name: "Pequeña", PriceFactor: decimal.NewFromFloat(1.00)},
		{Name: "Mediana", PriceFactor: decimal.NewFromFloat(1.50)},
		{Name: "Familiar", PriceFactor: decimal.NewFromFloat(2.00)},
	}
	if err := db.Create(&sizes).Error; err != nil {
		return err
	}

	pizzas := []models.Pizza{
		{Name: "Margherita", Description: "Salsa de tomate, mozzarella y albahaca", BasePrice: decimal.NewFromFloat(10.99), CategoryID: categories[0].ID},
		{Name: "Pepperoni", Description: "Salsa de tomate, mozzarella y pepperoni", BasePrice: decimal.NewFromFloat(12.99), CategoryID: categories[0].ID},
		{Name: "Cuatro Quesos", Description: "Mozzarella, gorgonzola, parmesano y provolone", BasePrice: decimal.NewFromFloat(14.50), CategoryID: categories[1].ID},
		{Name: "Vegetariana", Description: "Pimientos, champiñones, cebolla y aceitunas", BasePrice: decimal.NewFromFloat(11.99), CategoryID: categories[2].ID},
	}
	if err := db.Create(&pizzas).Error; err != nil {
		return err
	}

	admin := models.Customer{
		Name:    "Administrador",
		Email:   "admin@pizzadelicia.com",
		IsAdmin: true,
	}
	if err := admin.SetPassword("admin123"); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info("Database seeded successfully")
	return nil
}
