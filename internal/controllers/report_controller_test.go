package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSalesReportEndpoint(t *testing.T) {
	env := setupEnv(t)
	userToken := tokenFor(t, env.customer)
	adminToken := tokenFor(t, env.admin)

	createOrderViaAPI(t, env, userToken)

	w := env.request(t, "GET", "/api/v1/reports/sales", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ventas-")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	customer, err := f.GetCellValue("Ventas", "C2")
	require.NoError(t, err)
	assert.Equal(t, env.customer.Name, customer)
}

func TestSalesReportEndpointInvalidDate(t *testing.T) {
	env := setupEnv(t)
	adminToken := tokenFor(t, env.admin)

	w := env.request(t, "GET", "/api/v1/reports/sales?date_from=ayer", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductsReportEndpoint(t *testing.T) {
	env := setupEnv(t)
	userToken := tokenFor(t, env.customer)
	adminToken := tokenFor(t, env.admin)

	createOrderViaAPI(t, env, userToken)

	w := env.request(t, "GET", "/api/v1/reports/products", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Productos", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Margherita", name)
}

func TestReportsRequireAdmin(t *testing.T) {
	env := setupEnv(t)
	userToken := tokenFor(t, env.customer)

	w := env.request(t, "GET", "/api/v1/reports/sales", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStatsSummaryEndpoint(t *testing.T) {
	env := setupEnv(t)
	userToken := tokenFor(t, env.customer)
	adminToken := tokenFor(t, env.admin)

	createOrderViaAPI(t, env, userToken)

	w := env.request(t, "GET", "/api/v1/stats/summary", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	payload := decodeJSON(t, w)
	revenue := payload["revenue"].(map[string]any)
	assert.Equal(t, 30.0, revenue["value"])
}

func TestOutboxEndpoint(t *testing.T) {
	env := setupEnv(t)
	userToken := tokenFor(t, env.customer)
	adminToken := tokenFor(t, env.admin)

	createOrderViaAPI(t, env, userToken)

	w := env.request(t, "GET", "/api/v1/notifications/outbox", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var messages []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "order_confirmation", messages[0]["kind"])
	assert.Equal(t, "pending", messages[0]["status"])

	w = env.request(t, "GET", "/api/v1/notifications/outbox?status=sent", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	assert.Empty(t, messages)
}
