package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
)

// CatalogController serves the reference data the storefront needs to price
// a cart: categories and size multipliers
type CatalogController struct {
	service services.CatalogService
}

// NewCatalogController creates a new instance of CatalogController
func NewCatalogController(service services.CatalogService) *CatalogController {
	return &CatalogController{service: service}
}

func (c *CatalogController) GetCategories(ctx *gin.Context) {
	categories, err := c.service.GetCategories()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

func (c *CatalogController) GetSizes(ctx *gin.Context) {
	sizes, err := c.service.GetSizes()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sizes)
}
