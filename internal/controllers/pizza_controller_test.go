package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPizzasArePublic(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, "GET", "/api/v1/pizzas", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pizzas []models.Pizza
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pizzas))
	require.Len(t, pizzas, 1)
	assert.Equal(t, "Margherita", pizzas[0].Name)
	assert.Equal(t, "Clásicas", pizzas[0].Category.Name)
}

func TestCreatePizzaRequiresAdmin(t *testing.T) {
	env := setupEnv(t)
	userToken := tokenFor(t, env.customer)

	payload := map[string]any{
		"name":        "Pepperoni",
		"base_price":  "12.50",
		"category_id": env.category.ID,
	}

	w := env.request(t, "POST", "/api/v1/pizzas", userToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, "POST", "/api/v1/pizzas", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePizzaAsAdmin(t *testing.T) {
	env := setupEnv(t)
	adminToken := tokenFor(t, env.admin)

	w := env.request(t, "POST", "/api/v1/pizzas", adminToken, map[string]any{
		"name":        "Pepperoni",
		"description": "Salsa de tomate, mozzarella y pepperoni",
		"base_price":  "12.50",
		"category_id": env.category.ID,
		"image_url":   "https://cdn.example.com/pepperoni.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var pizza models.Pizza
	require.NoError(t, env.db.Where("name = ?", "Pepperoni").First(&pizza).Error)
	assert.Equal(t, "https://cdn.example.com/pepperoni.jpg", pizza.ImageURL)
}

func TestCreatePizzaLegacyImageField(t *testing.T) {
	env := setupEnv(t)
	adminToken := tokenFor(t, env.admin)

	// Older clients submit the image under "imagen"
	w := env.request(t, "POST", "/api/v1/pizzas", adminToken, map[string]any{
		"name":        "Cuatro Quesos",
		"base_price":  "14.50",
		"category_id": env.category.ID,
		"imagen":      "https://cdn.example.com/cuatro-quesos.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var pizza models.Pizza
	require.NoError(t, env.db.Where("name = ?", "Cuatro Quesos").First(&pizza).Error)
	assert.Equal(t, "https://cdn.example.com/cuatro-quesos.jpg", pizza.ImageURL)

	// Both fields present: the canonical name wins
	w = env.request(t, "POST", "/api/v1/pizzas", adminToken, map[string]any{
		"name":        "Vegetariana",
		"base_price":  "11.99",
		"category_id": env.category.ID,
		"image_url":   "https://cdn.example.com/canonical.jpg",
		"imagen":      "https://cdn.example.com/legacy.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, env.db.Where("name = ?", "Vegetariana").First(&pizza).Error)
	assert.Equal(t, "https://cdn.example.com/canonical.jpg", pizza.ImageURL)
}

func TestCreatePizzaInvalidPrice(t *testing.T) {
	env := setupEnv(t)
	adminToken := tokenFor(t, env.admin)

	w := env.request(t, "POST", "/api/v1/pizzas", adminToken, map[string]any{
		"name":        "Gratis",
		"base_price":  "0",
		"category_id": env.category.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletePizzaConflict(t *testing.T) {
	env := setupEnv(t)
	userToken := tokenFor(t, env.customer)
	adminToken := tokenFor(t, env.admin)

	createOrderViaAPI(t, env, userToken)

	w := env.request(t, "DELETE", fmt.Sprintf("/api/v1/pizzas/%d", env.margarita.ID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdatePizzaEndpoint(t *testing.T) {
	env := setupEnv(t)
	adminToken := tokenFor(t, env.admin)

	w := env.request(t, "PUT", fmt.Sprintf("/api/v1/pizzas/%d", env.margarita.ID), adminToken, map[string]any{
		"name":        "Margherita Especial",
		"base_price":  "11.50",
		"category_id": env.category.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var pizza models.Pizza
	require.NoError(t, env.db.First(&pizza, env.margarita.ID).Error)
	assert.Equal(t, "Margherita Especial", pizza.Name)
	assert.Equal(t, "11.5", pizza.BasePrice.String())
}

func TestGetPizzaByIDNotFound(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, "GET", "/api/v1/pizzas/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
