package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
	"github.com/shopspring/decimal"
)

// PizzaController handles HTTP requests related to the pizza catalog
type PizzaController interface {
	// GetAllPizzas retrieves all pizzas
	GetAllPizzas(c *gin.Context)
	// GetPizzaByID retrieves a pizza by its ID
	GetPizzaByID(c *gin.Context)
	// CreatePizza creates a new pizza
	CreatePizza(c *gin.Context)
	// UpdatePizza updates an existing pizza
	UpdatePizza(c *gin.Context)
	// DeletePizza deletes a pizza by its ID
	DeletePizza(c *gin.Context)
}

type pizzaController struct {
	service services.CatalogService
}

// NewPizzaController creates a new instance of PizzaController
func NewPizzaController(service services.CatalogService) *pizzaController {
	return &pizzaController{service: service}
}

// pizzaRequest is the write payload. Older clients submit the image under
// "imagen"; both names are accepted and collapsed here so the rest of the
// system only ever sees ImageURL.
type pizzaRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	CategoryID  uint            `json:"category_id"`
	ImageURL    string          `json:"image_url"`
	Imagen      string          `json:"imagen"`
}

func (r *pizzaRequest) toModel() models.Pizza {
	image := r.ImageURL
	if image == "" {
		image = r.Imagen
	}
	return models.Pizza{
		Name:        r.Name,
		Description: r.Description,
		BasePrice:   r.BasePrice,
		CategoryID:  r.CategoryID,
		ImageURL:    image,
	}
}

func (c *pizzaController) GetAllPizzas(ctx *gin.Context) {
	pizzas, err := c.service.GetAllPizzas()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pizzas)
}

func (c *pizzaController) GetPizzaByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	pizza, err := c.service.GetPizzaByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pizza)
}

func (c *pizzaController) CreatePizza(ctx *gin.Context) {
	var req pizzaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	pizza := req.toModel()
	if err := c.service.CreatePizza(&pizza); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, pizza)
}

func (c *pizzaController) UpdatePizza(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req pizzaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	pizza := req.toModel()
	// The path parameter wins over any ID in the body
	pizza.ID = id

	if err := c.service.UpdatePizza(&pizza); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pizza)
}

func (c *pizzaController) DeletePizza(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.DeletePizza(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
