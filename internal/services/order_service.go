package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"tokobuku/internal/apperror"
	"tokobuku/internal/models"
	"tokobuku/internal/repositories"
)

// EventPublisher delivers order events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	publisher EventPublisher // optional
	lg        *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no events are emitted.
func NewOrderService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, publisher EventPublisher, lg *zap.Logger) *OrderService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		publisher: publisher,
		lg:        lg,
		now:       time.Now,
	}
}

// CreateOrder places a new order for userID. Prices are stored as supplied.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req models.CreateOrderRequest) (*models.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, apperror.Validation(MsgNoOrderItems)
	}

	order := &models.Order{
		UserID:          userID,
		OrderItems:      req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventOrderCreated, order)
	return order, nil
}

// GetOrderByID retrieves an order with its owner's username and email.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, MsgOrderNotFound)
	}
	owner, err := s.owner(ctx, order.UserID, true)
	if err != nil {
		return nil, err
	}
	return &models.OrderDetail{Order: *order, User: owner}, nil
}

// UpdateOrderToPaid marks the order as paid and records the payment result.
// Paying twice overwrites the timestamp and result.
func (s *OrderService) UpdateOrderToPaid(ctx context.Context, id string, payment models.PaymentConfirmation) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, MsgOrderNotFound)
	}

	paidAt := s.now()
	order.IsPaid = true
	order.PaidAt = &paidAt
	order.PaymentResult = payment.Result()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, notFoundAs(err, MsgOrderNotFound)
	}

	s.publish(ctx, models.EventOrderPaid, order)
	return order, nil
}

// UpdateOrderToDelivered marks the order as delivered. Delivery does not
// require payment.
func (s *OrderService) UpdateOrderToDelivered(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, MsgOrderNotFound)
	}

	deliveredAt := s.now()
	order.IsDelivered = true
	order.DeliveredAt = &deliveredAt

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, notFoundAs(err, MsgOrderNotFound)
	}

	s.publish(ctx, models.EventOrderDelivered, order)
	return order, nil
}

// GetMyOrders retrieves the orders owned by userID.
func (s *OrderService) GetMyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(ctx, userID)
}

// GetAllOrders retrieves every order with its owner's id and username.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.OrderDetail, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]*models.UserSummary)
	details := make([]models.OrderDetail, 0, len(orders))
	for _, order := range orders {
		owner, seen := owners[order.UserID]
		if !seen {
			owner, err = s.owner(ctx, order.UserID, false)
			if err != nil {
				return nil, err
			}
			owners[order.UserID] = owner
		}
		details = append(details, models.OrderDetail{Order: order, User: owner})
	}
	return details, nil
}

// owner resolves the order's user. A user that no longer exists joins as nil.
func (s *OrderService) owner(ctx context.Context, userID string, withEmail bool) (*models.UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "resolve order owner")
	}
	summary := &models.UserSummary{ID: user.ID, Username: user.Username}
	if withEmail {
		summary.Email = user.Email
	}
	return summary, nil
}

// publish emits an order event. Failures are logged and never fail the
// request that triggered them.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(models.NewOrderEvent(eventType, order, s.now()))
	if err != nil {
		s.lg.Warn("Failed to marshal order event", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, eventType, body); err != nil {
		s.lg.Warn("Failed to publish order event",
			zap.String("type", eventType),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return
	}
	s.lg.Debug("Published order event", zap.String("type", eventType), zap.String("order_id", order.ID))
}
