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

func orderPayload(env *testEnv) map[string]any {
	// 2x Margherita Mediana at 15.00 each
	return map[string]any{
		"items": []map[string]any{
			{"pizza_id": env.margarita.ID, "size_id": env.medium.ID, "quantity": 2, "unit_price": "15.00"},
		},
		"payment_method":   "cash",
		"delivery_address": "Calle Mayor 1",
		"contact_phone":    "600123456",
		"total":            "30.00",
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := setupEnv(t)
	token := tokenFor(t, env.customer)

	w := env.request(t, "POST", "/api/v1/orders", token, orderPayload(env))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payload := decodeJSON(t, w)
	assert.NotZero(t, payload["order_id"])
	assert.Equal(t, models.OrderStatusReceived, payload["status"])

	var order models.Order
	require.NoError(t, env.db.Preload("Items").First(&order).Error)
	assert.Equal(t, env.customer.ID, order.CustomerID)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "30", order.Total.String())

	// Confirmation is queued, not sent inline
	var outbox int64
	env.db.Model(&models.OutboxMessage{}).Count(&outbox)
	assert.Equal(t, int64(1), outbox)
	assert.Empty(t, env.sender.confirmations)
}

func TestCreateOrderEndpointIgnoresForeignCustomerID(t *testing.T) {
	env := setupEnv(t)
	token := tokenFor(t, env.customer)

	payload := orderPayload(env)
	// A tampering client cannot order on behalf of someone else
	payload["customer_id"] = env.admin.ID

	w := env.request(t, "POST", "/api/v1/orders", token, payload)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, env.db.First(&order).Error)
	assert.Equal(t, env.customer.ID, order.CustomerID)
}

func TestCreateOrderEndpointStaleTotal(t *testing.T) {
	env := setupEnv(t)
	token := tokenFor(t, env.customer)

	payload := orderPayload(env)
	payload["total"] = "28.00"

	w := env.request(t, "POST", "/api/v1/orders", token, payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateOrderEndpointRequiresAuth(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, "POST", "/api/v1/orders", "", orderPayload(env))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListOrdersScopedToCustomer(t *testing.T) {
	env := setupEnv(t)
	userToken := tokenFor(t, env.customer)
	adminToken := tokenFor(t, env.admin)

	require.Equal(t, http.StatusCreated, env.request(t, "POST", "/api/v1/orders", userToken, orderPayload(env)).Code)
	require.Equal(t, http.StatusCreated, env.request(t, "POST", "/api/v1/orders", adminToken, orderPayload(env)).Code)

	w := env.request(t, "GET", "/api/v1/orders", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, env.customer.ID, mine[0].CustomerID)

	w = env.request(t, "GET", "/api/v1/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 2)
}

func TestGetOrderForbiddenForOtherCustomer(t *testing.T) {
	env := setupEnv(t)
	adminToken := tokenFor(t, env.admin)
	userToken := tokenFor(t, env.customer)

	created := env.request(t, "POST", "/api/v1/orders", adminToken, orderPayload(env))
	require.Equal(t, http.StatusCreated, created.Code)
	orderID := decodeJSON(t, created)["order_id"]

	w := env.request(t, "GET", fmt.Sprintf("/api/v1/orders/%v", orderID), userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, "GET", fmt.Sprintf("/api/v1/orders/%v", orderID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	env := setupEnv(t)
	userToken := tokenFor(t, env.customer)
	adminToken := tokenFor(t, env.admin)

	created := env.request(t, "POST", "/api/v1/orders", userToken, orderPayload(env))
	require.Equal(t, http.StatusCreated, created.Code)
	orderID := decodeJSON(t, created)["order_id"]
	path := fmt.Sprintf("/api/v1/orders/%v", orderID)

	// Status changes are an admin concern
	w := env.request(t, "PATCH", path, userToken, map[string]any{"status": "preparing"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, "PATCH", path, adminToken, map[string]any{"status": "preparing"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Unknown status
	w = env.request(t, "PATCH", path, adminToken, map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Skipping en_route is an illegal transition
	w = env.request(t, "PATCH", path, adminToken, map[string]any{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The rejected transitions left the order untouched
	var order models.Order
	require.NoError(t, env.db.First(&order).Error)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
}
