package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tokobuku/internal/middleware"
	"tokobuku/internal/models"
	"tokobuku/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// Routes lists the order endpoints. Pay and deliver answer GET, as existing
// clients call them, and PUT.
func (h *OrderHandler) Routes() []Route {
	return []Route{
		{fiber.MethodPost, "/orders", Authenticated, h.HandleCreateOrder},
		{fiber.MethodGet, "/orders", Admin, h.HandleGetOrders},
		{fiber.MethodGet, "/orders/my-orders", Authenticated, h.HandleGetMyOrders},
		{fiber.MethodGet, "/orders/:id", Authenticated, h.HandleGetOrderByID},
		{fiber.MethodGet, "/orders/:id/pay", Authenticated, h.HandleUpdateOrderToPaid},
		{fiber.MethodPut, "/orders/:id/pay", Authenticated, h.HandleUpdateOrderToPaid},
		{fiber.MethodGet, "/orders/:id/deliver", Authenticated, h.HandleUpdateOrderToDelivered},
		{fiber.MethodPut, "/orders/:id/deliver", Authenticated, h.HandleUpdateOrderToDelivered},
	}
}

// HandleCreateOrder places an order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrderByID returns an order with its owner joined.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// HandleUpdateOrderToPaid records a payment confirmation.
func (h *OrderHandler) HandleUpdateOrderToPaid(c *fiber.Ctx) error {
	var payment models.PaymentConfirmation
	if err := parseBody(c, &payment); err != nil {
		return err
	}
	order, err := h.service.UpdateOrderToPaid(c.UserContext(), c.Params("id"), payment)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// HandleUpdateOrderToDelivered marks an order as delivered.
func (h *OrderHandler) HandleUpdateOrderToDelivered(c *fiber.Ctx) error {
	order, err := h.service.UpdateOrderToDelivered(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// HandleGetMyOrders returns the caller's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetMyOrders(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// HandleGetOrders returns every order with owners joined.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(orders)
}
