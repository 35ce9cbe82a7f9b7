package services

import (
	"errors"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"gorm.io/gorm"
)

// CustomerService manages registered customers
type CustomerService interface {
	// CreateCustomer registers a new customer with a unique email
	CreateCustomer(customer *models.Customer) error
	// GetCustomerByEmail retrieves a customer by email
	GetCustomerByEmail(email string) (*models.Customer, error)
	// GetCustomerByID retrieves a customer by ID
	GetCustomerByID(id uint) (*models.Customer, error)
	// ListCustomers retrieves all customers ordered by name
	ListCustomers() ([]models.Customer, error)
	// UpdateCustomer updates profile fields, keeping the email unique
	UpdateCustomer(customer *models.Customer) error
	// DeleteCustomer deletes a customer unless they have existing orders
	DeleteCustomer(id uint) error
}

type customerService struct {
	db *gorm.DB
}

// NewCustomerService creates a new instance of CustomerService
func NewCustomerService(db *gorm.DB) CustomerService {
	return &customerService{db: db}
}

func (s *customerService) CreateCustomer(customer *models.Customer) error {
	if customer.Name == "" {
		return models.NewValidationError("name", "name is required")
	}
	if customer.Email == "" {
		return models.NewValidationError("email", "email is required")
	}
	if customer.PasswordHash == "" {
		return models.NewValidationError("password", "password is required")
	}

	var existing models.Customer
	if err := s.db.Where("email = ?", customer.Email).First(&existing).Error; err == nil {
		return models.NewConflictError("a customer with that email already exists")
	}

	if err := s.db.Create(customer).Error; err != nil {
		return models.NewPersistenceError("create customer", err)
	}
	return nil
}

func (s *customerService) GetCustomerByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("customer", email)
		}
		return nil, models.NewPersistenceError("load customer", err)
	}
	return &customer, nil
}

func (s *customerService) GetCustomerByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("customer", id)
		}
		return nil, models.NewPersistenceError("load customer", err)
	}
	return &customer, nil
}

func (s *customerService) ListCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, models.NewPersistenceError("list customers", err)
	}
	return customers, nil
}

func (s *customerService) UpdateCustomer(customer *models.Customer) error {
	if customer.Name == "" || customer.Email == "" {
		return models.NewValidationError("name", "name and email are required")
	}

	var existing models.Customer
	if err := s.db.First(&existing, customer.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("customer", customer.ID)
		}
		return models.NewPersistenceError("load customer", err)
	}

	// Email must stay unique across other customers
	var count int64
	if err := s.db.Model(&models.Customer{}).
		Where("email = ? AND id != ?", customer.Email, customer.ID).
		Count(&count).Error; err != nil {
		return models.NewPersistenceError("check email uniqueness", err)
	}
	if count > 0 {
		return models.NewConflictError("another customer already uses that email")
	}

	if err := s.db.Save(customer).Error; err != nil {
		return models.NewPersistenceError("update customer", err)
	}
	return nil
}

func (s *customerService) DeleteCustomer(id uint) error {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("customer", id)
		}
		return models.NewPersistenceError("load customer", err)
	}

	var orders int64
	if err := s.db.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
		return models.NewPersistenceError("count customer orders", err)
	}
	if orders > 0 {
		return models.NewConflictError("customer has existing orders and cannot be deleted")
	}

	if err := s.db.Delete(&models.Customer{}, id).Error; err != nil {
		return models.NewPersistenceError("delete customer", err)
	}
	return nil
}
