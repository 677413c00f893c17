package services_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tokobuku/internal/apperror"
	"tokobuku/internal/models"
	"tokobuku/internal/services"
)

func sampleOrderRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		OrderItems: []models.OrderItem{
			{Name: "Dune", Qty: 2, Image: "/img/dune.jpg", Price: 9.5, ItemID: "item-1"},
		},
		ShippingAddress: models.ShippingAddress{Address: "Jl. Asia Afrika 8", City: "Bandung", PostalCode: "40111", Country: "ID"},
		PaymentMethod:   "PayPal",
		ItemsPrice:      19,
		TaxPrice:        2.85,
		ShippingPrice:   0,
		TotalPrice:      21.85,
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, new(MockUserRepository), publisher, nil)

	req := sampleOrderRequest()
	orderRepo.On("Create", ctx, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Order).ID = "order-1" }).
		Return(nil).Once()
	publisher.On("Publish", ctx, models.EventOrderCreated, mock.MatchedBy(func(body []byte) bool {
		var event models.OrderEvent
		return json.Unmarshal(body, &event) == nil &&
			event.OrderID == "order-1" && event.UserID == "u1" && event.TotalPrice == 21.85
	})).Return(nil).Once()

	order, err := service.CreateOrder(ctx, "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, req.OrderItems, order.OrderItems)
	assert.Equal(t, req.ShippingAddress, order.ShippingAddress)
	assert.Equal(t, 21.85, order.TotalPrice)
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.PaidAt)
	assert.Nil(t, order.DeliveredAt)
	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrder_NoItems(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, new(MockUserRepository), nil, nil)

	req := sampleOrderRequest()
	req.OrderItems = []models.OrderItem{}
	_, err := service.CreateOrder(ctx, "u1", req)
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
	assert.EqualError(t, err, services.MsgNoOrderItems)

	// An absent orderItems field decodes to nil and is rejected the same way.
	req.OrderItems = nil
	_, err = service.CreateOrder(ctx, "u1", req)
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_PublishFailureIsIgnored(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, new(MockUserRepository), publisher, nil)

	orderRepo.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	publisher.On("Publish", ctx, models.EventOrderCreated, mock.Anything).Return(errors.New("broker down")).Once()

	order, err := service.CreateOrder(ctx, "u1", sampleOrderRequest())
	assert.NoError(t, err)
	assert.NotNil(t, order)
	publisher.AssertExpectations(t)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	service := services.NewOrderService(orderRepo, userRepo, nil, nil)

	orderRepo.On("GetByID", ctx, "order-1").Return(&models.Order{ID: "order-1", UserID: "u1"}, nil).Once()
	userRepo.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}, nil).Once()

	detail, err := service.GetOrderByID(ctx, "order-1")
	require.NoError(t, err)
	require.NotNil(t, detail.User)
	assert.Equal(t, "alice", detail.User.Username)
	assert.Equal(t, "alice@example.com", detail.User.Email)

	raw, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"user":{"_id":"u1","username":"alice","email":"alice@example.com"}`)

	orderRepo.On("GetByID", ctx, "missing").Return(nil, notFound("order missing")).Once()
	_, err = service.GetOrderByID(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
	assert.Contains(t, err.Error(), services.MsgOrderNotFound)

	orderRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestOrderService_GetOrderByID_DeletedOwner(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	service := services.NewOrderService(orderRepo, userRepo, nil, nil)

	orderRepo.On("GetByID", ctx, "order-1").Return(&models.Order{ID: "order-1", UserID: "gone"}, nil).Once()
	userRepo.On("GetByID", ctx, "gone").Return(nil, notFound("user gone")).Once()

	detail, err := service.GetOrderByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Nil(t, detail.User)

	raw, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"user":null`)
}

func TestOrderService_UpdateOrderToPaid(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, new(MockUserRepository), publisher, nil)

	order := &models.Order{ID: "order-1", UserID: "u1"}
	orderRepo.On("GetByID", ctx, "order-1").Return(order, nil).Once()
	orderRepo.On("Update", ctx, order).Return(nil).Once()
	publisher.On("Publish", ctx, models.EventOrderPaid, mock.Anything).Return(nil).Once()

	paid, err := service.UpdateOrderToPaid(ctx, "order-1", models.PaymentConfirmation{
		ID:     "PAY-123",
		Status: "COMPLETED",
		Time:   "2026-10-19T10:00:00Z",
		Payer:  models.Payer{EmailAddress: "buyer@example.com"},
	})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.False(t, paid.IsDelivered)
	assert.Equal(t, &models.PaymentResult{
		ID:           "PAY-123",
		Status:       "COMPLETED",
		UpdateTime:   "2026-10-19T10:00:00Z",
		EmailAddress: "buyer@example.com",
	}, paid.PaymentResult)
	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)

	orderRepo.On("GetByID", ctx, "missing").Return(nil, notFound("order missing")).Once()
	_, err = service.UpdateOrderToPaid(ctx, "missing", models.PaymentConfirmation{})
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
}

func TestOrderService_UpdateOrderToDelivered(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, new(MockUserRepository), nil, nil)

	// Delivery is allowed before payment.
	order := &models.Order{ID: "order-1", UserID: "u1"}
	orderRepo.On("GetByID", ctx, "order-1").Return(order, nil).Once()
	orderRepo.On("Update", ctx, order).Return(nil).Once()

	delivered, err := service.UpdateOrderToDelivered(ctx, "order-1")
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)
	assert.False(t, delivered.IsPaid)
	orderRepo.AssertExpectations(t)

	orderRepo.On("GetByID", ctx, "missing").Return(nil, notFound("order missing")).Once()
	_, err = service.UpdateOrderToDelivered(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
}

func TestOrderService_GetMyOrders(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, new(MockUserRepository), nil, nil)

	mine := []models.Order{{ID: "o1", UserID: "u1"}, {ID: "o2", UserID: "u1"}}
	orderRepo.On("GetByUser", ctx, "u1").Return(mine, nil).Once()

	orders, err := service.GetMyOrders(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, mine, orders)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_GetAllOrders(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	service := services.NewOrderService(orderRepo, userRepo, nil, nil)

	orderRepo.On("GetAll", ctx).Return([]models.Order{
		{ID: "o1", UserID: "u1"},
		{ID: "o2", UserID: "u2"},
		{ID: "o3", UserID: "u1"},
	}, nil).Once()
	// Each owner is resolved once.
	userRepo.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}, nil).Once()
	userRepo.On("GetByID", ctx, "u2").Return(&models.User{ID: "u2", Username: "bob", Email: "bob@example.com"}, nil).Once()

	orders, err := service.GetAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "alice", orders[0].User.Username)
	assert.Empty(t, orders[0].User.Email, "list view joins id and username only")
	assert.Equal(t, "bob", orders[1].User.Username)
	assert.Equal(t, "alice", orders[2].User.Username)
	orderRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestOrderService_GetAllOrders_StoreFailure(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	service := services.NewOrderService(orderRepo, userRepo, nil, nil)

	orderRepo.On("GetAll", ctx).Return([]models.Order{{ID: "o1", UserID: "u1"}}, nil).Once()
	userRepo.On("GetByID", ctx, "u1").Return(nil, errors.New("connection reset")).Once()

	_, err := service.GetAllOrders(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
