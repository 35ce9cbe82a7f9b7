package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Creates or reports the back-office admin account against the local
// sqlite database. Intended for development setups only.
func main() {
	email := flag.String("email", "admin@pizzadelicia.com", "Admin email")
	password := flag.String("password", "admin123", "Admin password")
	name := flag.String("name", "Administrador", "Admin display name")
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "pizzeria.sqlite"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&models.Customer{}); err != nil {
		log.Fatal("Failed to migrate customers table:", err)
	}

	var existing models.Customer
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		fmt.Printf("Admin account already exists!\n")
		fmt.Printf("Email: %s (ID: %d)\n", existing.Email, existing.ID)
		return
	}

	admin := models.Customer{
		Name:    *name,
		Email:   *email,
		IsAdmin: true,
	}
	if err := admin.SetPassword(*password); err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin account:", err)
	}

	fmt.Printf("✓ Admin account created!\n")
	fmt.Printf("Email: %s\n", *email)
	fmt.Printf("Password: %s\n", *password)
	fmt.Println("\nLog in with:")
	fmt.Printf("curl -X POST http://localhost:8080/api/v1/auth/login \\\n")
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", *email, *password)
}
