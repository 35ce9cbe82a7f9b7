package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
)

// AuthController handles customer registration, login and profile lookup
type AuthController struct {
	customerService services.CustomerService
	jwtSecret       []byte
}

// NewAuthController creates a new instance of AuthController
func NewAuthController(customerService services.CustomerService, jwtSecret string) *AuthController {
	return &AuthController{
		customerService: customerService,
		jwtSecret:       []byte(jwtSecret),
	}
}

// Register creates a customer account and returns its public profile
func (ac *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := &models.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if err := customer.SetPassword(req.Password); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "password_hashing_failed"})
		return
	}

	if err := ac.customerService.CreateCustomer(customer); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "customer_created",
		"customer": gin.H{
			"id":    customer.ID,
			"name":  customer.Name,
			"email": customer.Email,
		},
	})
}

// Login verifies credentials and issues a signed access token
func (ac *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := ac.customerService.GetCustomerByEmail(req.Email)
	if err != nil || !customer.CheckPassword(req.Password) {
		// Same answer for unknown email and wrong password
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  customer.ID,
		"role": customer.Role(),
		"exp":  now.Add(24 * time.Hour).Unix(),
		"iat":  now.Unix(),
	})

	tokenString, err := token.SignedString(ac.jwtSecret)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "token_generation_failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": tokenString,
		"token_type":   "Bearer",
		"expires_in":   86400,
		"user": gin.H{
			"id":    customer.ID,
			"email": customer.Email,
			"name":  customer.Name,
			"role":  customer.Role(),
		},
	})
}

// Me returns the authenticated customer's profile
func (ac *AuthController) Me(ctx *gin.Context) {
	userID, _, ok := currentUser(ctx)
	if !ok {
		return
	}

	customer, err := ac.customerService.GetCustomerByID(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, customer)
}
