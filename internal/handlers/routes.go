package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Access is the authorization level a route requires.
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

// Route is one entry of the static route table.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler fiber.Handler
}

// Guards holds the middleware that enforces each access level.
type Guards struct {
	Protect fiber.Handler // attaches the caller, rejects anonymous requests
	Admin   fiber.Handler // rejects non-admin callers, runs after Protect
}

func (g Guards) chain(a Access) []fiber.Handler {
	switch a {
	case Authenticated:
		return []fiber.Handler{g.Protect}
	case Admin:
		return []fiber.Handler{g.Protect, g.Admin}
	default:
		return nil
	}
}

// Register mounts every route of the given tables on router, in order.
// Order matters: literal segments such as /orders/my-orders must precede
// /orders/:id.
func Register(router fiber.Router, guards Guards, tables ...[]Route) {
	for _, table := range tables {
		for _, r := range table {
			chain := append(guards.chain(r.Access), r.Handler)
			router.Add(r.Method, r.Path, chain...)
		}
	}
}
