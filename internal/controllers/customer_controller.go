package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
)

// CustomerController handles admin management of customer records
type CustomerController struct {
	service services.CustomerService
}

// NewCustomerController creates a new instance of CustomerController
func NewCustomerController(service services.CustomerService) *CustomerController {
	return &CustomerController{service: service}
}

type customerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (c *CustomerController) ListCustomers(ctx *gin.Context) {
	customers, err := c.service.ListCustomers()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, customers)
}

func (c *CustomerController) GetCustomer(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	customer, err := c.service.GetCustomerByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, customer)
}

func (c *CustomerController) CreateCustomer(ctx *gin.Context) {
	var req customerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	customer := models.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if req.Password != "" {
		if err := customer.SetPassword(req.Password); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "password_hashing_failed"})
			return
		}
	}

	if err := c.service.CreateCustomer(&customer); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, customer)
}

func (c *CustomerController) UpdateCustomer(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	existing, err := c.service.GetCustomerByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	var req customerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Address = req.Address
	existing.Phone = req.Phone
	if req.Password != "" {
		if err := existing.SetPassword(req.Password); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "password_hashing_failed"})
			return
		}
	}

	if err := c.service.UpdateCustomer(existing); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, existing)
}

func (c *CustomerController) DeleteCustomer(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.DeleteCustomer(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
