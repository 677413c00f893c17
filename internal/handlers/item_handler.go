package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tokobuku/internal/middleware"
	"tokobuku/internal/models"
	"tokobuku/internal/services"
)

// ItemHandler handles HTTP requests for catalog items.
type ItemHandler struct {
	service *services.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *services.ItemService) *ItemHandler {
	return &ItemHandler{
		service: service,
	}
}

// Routes lists the item endpoints.
func (h *ItemHandler) Routes() []Route {
	return []Route{
		{fiber.MethodGet, "/items", Public, h.HandleGetItems},
		{fiber.MethodGet, "/items/:id", Public, h.HandleGetItemByID},
		{fiber.MethodPost, "/items", Admin, h.HandleCreateItem},
		{fiber.MethodPut, "/items/:id", Admin, h.HandleUpdateItem},
		{fiber.MethodDelete, "/items/:id", Admin, h.HandleDeleteItem},
		{fiber.MethodPost, "/items/:id/reviews", Authenticated, h.HandleCreateReview},
	}
}

// HandleGetItems returns the whole catalog.
func (h *ItemHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.service.GetAllItems(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// HandleGetItemByID returns a single item.
func (h *ItemHandler) HandleGetItemByID(c *fiber.Ctx) error {
	item, err := h.service.GetItemByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(item)
}

// HandleCreateItem creates a placeholder item owned by the caller. The
// request body is ignored.
func (h *ItemHandler) HandleCreateItem(c *fiber.Ctx) error {
	item, err := h.service.CreateItem(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem replaces the editable fields of an item.
func (h *ItemHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var update models.ItemUpdate
	if err := parseBody(c, &update); err != nil {
		return err
	}
	item, err := h.service.UpdateItem(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

// HandleDeleteItem removes an item.
func (h *ItemHandler) HandleDeleteItem(c *fiber.Ctx) error {
	if err := h.service.DeleteItem(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(message("Item removed"))
}

// HandleCreateReview adds the caller's review to an item.
func (h *ItemHandler) HandleCreateReview(c *fiber.Ctx) error {
	var review models.ReviewInput
	if err := parseBody(c, &review); err != nil {
		return err
	}
	if err := validateStruct(review); err != nil {
		return err
	}
	if err := h.service.AddReview(c.UserContext(), c.Params("id"), middleware.CurrentUser(c), review); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(message("Review added"))
}
