package services

import (
	"errors"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService provides read/write access to pizzas and the reference data
// (categories and size multipliers) used for pricing
type CatalogService interface {
	// GetCategories retrieves all categories
	GetCategories() ([]models.Category, error)
	// GetSizes retrieves all size multipliers
	GetSizes() ([]models.Size, error)
	// GetAllPizzas retrieves all pizzas with their categories
	GetAllPizzas() ([]models.Pizza, error)
	// GetPizzaByID retrieves a pizza by its ID
	GetPizzaByID(id uint) (*models.Pizza, error)
	// CreatePizza creates a new pizza in the catalog
	CreatePizza(pizza *models.Pizza) error
	// UpdatePizza updates an existing pizza
	UpdatePizza(pizza *models.Pizza) error
	// DeletePizza deletes a pizza unless it is referenced by any order line
	DeletePizza(id uint) error
}

type catalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

func (s *catalogService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, models.NewPersistenceError("list categories", err)
	}
	return categories, nil
}

func (s *catalogService) GetSizes() ([]models.Size, error) {
	var sizes []models.Size
	if err := s.db.Find(&sizes).Error; err != nil {
		return nil, models.NewPersistenceError("list sizes", err)
	}
	return sizes, nil
}

func (s *catalogService) GetAllPizzas() ([]models.Pizza, error) {
	var pizzas []models.Pizza
	if err := s.db.Preload("Category").Find(&pizzas).Error; err != nil {
		return nil, models.NewPersistenceError("list pizzas", err)
	}
	return pizzas, nil
}

func (s *catalogService) GetPizzaByID(id uint) (*models.Pizza, error) {
	var pizza models.Pizza
	if err := s.db.Preload("Category").First(&pizza, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("pizza", id)
		}
		return nil, models.NewPersistenceError("load pizza", err)
	}
	return &pizza, nil
}

func (s *catalogService) CreatePizza(pizza *models.Pizza) error {
	if err := validatePizza(pizza); err != nil {
		return err
	}
	var category models.Category
	if err := s.db.First(&category, pizza.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("category", pizza.CategoryID)
		}
		return models.NewPersistenceError("load category", err)
	}
	if err := s.db.Create(pizza).Error; err != nil {
		return models.NewPersistenceError("create pizza", err)
	}
	return nil
}

func (s *catalogService) UpdatePizza(pizza *models.Pizza) error {
	if err := validatePizza(pizza); err != nil {
		return err
	}
	var existing models.Pizza
	if err := s.db.First(&existing, pizza.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("pizza", pizza.ID)
		}
		return models.NewPersistenceError("load pizza", err)
	}
	if err := s.db.Save(pizza).Error; err != nil {
		return models.NewPersistenceError("update pizza", err)
	}
	return nil
}

func (s *catalogService) DeletePizza(id uint) error {
	var pizza models.Pizza
	if err := s.db.First(&pizza, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("pizza", id)
		}
		return models.NewPersistenceError("load pizza", err)
	}

	// Deletion is blocked while any order line references the pizza
	var references int64
	if err := s.db.Model(&models.OrderLine{}).Where("pizza_id = ?", id).Count(&references).Error; err != nil {
		return models.NewPersistenceError("count pizza references", err)
	}
	if references > 0 {
		return models.NewConflictError("pizza is referenced by existing orders and cannot be deleted")
	}

	if err := s.db.Delete(&models.Pizza{}, id).Error; err != nil {
		return models.NewPersistenceError("delete pizza", err)
	}
	return nil
}

func validatePizza(pizza *models.Pizza) error {
	if pizza.Name == "" {
		return models.NewValidationError("name", "name is required")
	}
	if pizza.BasePrice.LessThanOrEqual(decimal.Zero) {
		return models.NewValidationError("base_price", "base_price must be positive")
	}
	if pizza.CategoryID == 0 {
		return models.NewValidationError("category_id", "category_id is required")
	}
	return nil
}
