package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_AppliesGuards(t *testing.T) {
	var calls []string
	mark := func(name string) fiber.Handler {
		return func(c *fiber.Ctx) error {
			calls = append(calls, name)
			return c.Next()
		}
	}
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }

	app := fiber.New()
	Register(app, Guards{Protect: mark("protect"), Admin: mark("admin")}, []Route{
		{fiber.MethodGet, "/public", Public, ok},
		{fiber.MethodGet, "/private", Authenticated, ok},
		{fiber.MethodGet, "/admin", Admin, ok},
	})

	tests := []struct {
		path string
		want []string
	}{
		{"/public", nil},
		{"/private", []string{"protect"}},
		{"/admin", []string{"protect", "admin"}},
	}
	for _, tt := range tests {
		calls = nil
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, tt.path)
		assert.Equal(t, tt.want, calls, tt.path)
	}
}

func TestRegister_LiteralBeforeParam(t *testing.T) {
	h := &OrderHandler{}
	var myOrders, byID int
	for i, r := range h.Routes() {
		switch {
		case r.Method == fiber.MethodGet && r.Path == "/orders/my-orders":
			myOrders = i
		case r.Method == fiber.MethodGet && r.Path == "/orders/:id":
			byID = i
		}
	}
	assert.Less(t, myOrders, byID)
}
