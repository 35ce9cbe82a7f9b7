package services

import (
	"testing"

	"github.com/pizzadelicia/pizzeria-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	service := NewCustomerService(db)

	duplicate := models.Customer{Name: "Otra Ana", Email: fixture.customer.Email}
	require.NoError(t, duplicate.SetPassword("secret123"))

	err := service.CreateCustomer(&duplicate)
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestCreateCustomerValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewCustomerService(db)

	err := service.CreateCustomer(&models.Customer{Email: "nobody@example.com", PasswordHash: "x"})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	err = service.CreateCustomer(&models.Customer{Name: "Sin Correo", PasswordHash: "x"})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	err = service.CreateCustomer(&models.Customer{Name: "Sin Clave", Email: "clave@example.com"})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestDeleteCustomerBlockedByOrders(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	service := NewCustomerService(db)
	orders := NewOrderService(db, 0.01, testLogger())

	createTestOrder(t, db, orders, fixture)

	err := service.DeleteCustomer(fixture.customer.ID)
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestDeleteCustomerWithoutOrders(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	service := NewCustomerService(db)

	require.NoError(t, service.DeleteCustomer(fixture.customer.ID))

	_, err := service.GetCustomerByID(fixture.customer.ID)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestUpdateCustomerEmailCollision(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedCatalog(t, db)
	service := NewCustomerService(db)

	other := models.Customer{Name: "Luis Gómez", Email: "luis@example.com"}
	require.NoError(t, other.SetPassword("secret123"))
	require.NoError(t, service.CreateCustomer(&other))

	other.Email = fixture.customer.Email
	err := service.UpdateCustomer(&other)
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestCustomerPasswordRoundTrip(t *testing.T) {
	customer := models.Customer{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, customer.SetPassword("s3creta"))

	assert.True(t, customer.CheckPassword("s3creta"))
	assert.False(t, customer.CheckPassword("incorrecta"))
	assert.NotEqual(t, "s3creta", customer.PasswordHash)
}

func TestCustomerRole(t *testing.T) {
	admin := models.Customer{IsAdmin: true}
	regular := models.Customer{}

	assert.Equal(t, "admin", admin.Role())
	assert.Equal(t, "user", regular.Role())
}
