// internal/services/order_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/shoplane-backend/internal/models"
)

func testShipping() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:   "Alice Example",
		Line1:      "1 Test Street",
		City:       "Testville",
		PostalCode: "12345",
		Country:    "US",
	}
}

func TestCreateOrderSnapshotsAndDecrementsStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPaymentService(testConfig()))

	user := createTestUser(t, db, "buyer@example.com")
	shirt := createTestProduct(t, db, "Blue Shirt", 19.99, 10)
	mug := createTestProduct(t, db, "Coffee Mug", 7.50, 3)

	order, err := svc.CreateOrder(user.ID, &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: shirt.ID, Quantity: 2},
			{ProductID: mug.ID, Quantity: 1},
		},
		Shipping: testShipping(),
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusNotProcessed, order.Status)
	assert.InDelta(t, 2*19.99+7.50, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Blue Shirt", order.Items[0].Name)
	assert.InDelta(t, 19.99, order.Items[0].UnitPrice, 0.001)

	// Payment intent stub is recorded with the order.
	assert.True(t, strings.HasPrefix(order.Payment.PaymentID, "pi_"))
	assert.InDelta(t, order.TotalAmount, order.Payment.Amount, 0.001)

	var updated models.Product
	require.NoError(t, db.First(&updated, shirt.ID).Error)
	assert.Equal(t, 8, updated.Stock)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPaymentService(testConfig()))

	user := createTestUser(t, db, "buyer@example.com")
	mug := createTestProduct(t, db, "Coffee Mug", 7.50, 2)

	_, err := svc.CreateOrder(user.ID, &CreateOrderRequest{
		Items:    []OrderItemRequest{{ProductID: mug.ID, Quantity: 5}},
		Shipping: testShipping(),
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The transaction rolled back: stock untouched, no order rows.
	var updated models.Product
	require.NoError(t, db.First(&updated, mug.ID).Error)
	assert.Equal(t, 2, updated.Stock)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPaymentService(testConfig()))

	user := createTestUser(t, db, "buyer@example.com")

	_, err := svc.CreateOrder(user.ID, &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: createTestProduct(t, db, "Real", 1, 1).ID, Quantity: 1},
		},
		Shipping: testShipping(),
	})
	require.NoError(t, err)

	ghost := models.Product{}
	ghost.ID = user.ID // a UUID that is not a product
	_, err = svc.CreateOrder(user.ID, &CreateOrderRequest{
		Items:    []OrderItemRequest{{ProductID: ghost.ID, Quantity: 1}},
		Shipping: testShipping(),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateOrderStatusTerminalGuard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPaymentService(testConfig()))

	user := createTestUser(t, db, "buyer@example.com")
	mug := createTestProduct(t, db, "Coffee Mug", 7.50, 5)

	order, err := svc.CreateOrder(user.ID, &CreateOrderRequest{
		Items:    []OrderItemRequest{{ProductID: mug.ID, Quantity: 1}},
		Shipping: testShipping(),
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusProcessing})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusCompleted})
	require.NoError(t, err)

	// Completed is terminal: no further status changes, no deletion.
	_, err = svc.UpdateOrderStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusProcessing})
	assert.ErrorIs(t, err, ErrOrderFinalized)

	assert.ErrorIs(t, svc.DeleteOrder(order.ID), ErrOrderFinalized)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusCompleted, stored.Status)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPaymentService(testConfig()))

	user := createTestUser(t, db, "buyer@example.com")
	mug := createTestProduct(t, db, "Coffee Mug", 7.50, 5)

	order, err := svc.CreateOrder(user.ID, &CreateOrderRequest{
		Items:    []OrderItemRequest{{ProductID: mug.ID, Quantity: 1}},
		Shipping: testShipping(),
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(order.ID, &UpdateOrderStatusRequest{Status: "Teleported"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteOrderBeforeCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPaymentService(testConfig()))

	user := createTestUser(t, db, "buyer@example.com")
	mug := createTestProduct(t, db, "Coffee Mug", 7.50, 5)

	order, err := svc.CreateOrder(user.ID, &CreateOrderRequest{
		Items:    []OrderItemRequest{{ProductID: mug.ID, Quantity: 1}},
		Shipping: testShipping(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(order.ID))

	_, err = svc.GetOrder(order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCreateOrderNeverOverdrawsStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, NewPaymentService(testConfig()))

	user := createTestUser(t, db, "buyer@example.com")
	scarf := createTestProduct(t, db, "Wool Scarf", 12.00, 2)

	_, err := svc.CreateOrder(user.ID, &CreateOrderRequest{
		Items:    []OrderItemRequest{{ProductID: scarf.ID, Quantity: 2}},
		Shipping: testShipping(),
	})
	require.NoError(t, err)

	// The guarded decrement refuses the overdraw; stock stays at zero.
	_, err = svc.CreateOrder(user.ID, &CreateOrderRequest{
		Items:    []OrderItemRequest{{ProductID: scarf.ID, Quantity: 1}},
		Shipping: testShipping(),
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var updated models.Product
	require.NoError(t, db.First(&updated, scarf.ID).Error)
	assert.Equal(t, 0, updated.Stock)
}
