package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/playforge/updatedist/internal/pkg/auth"
)

// RequireCapability returns fiber middleware that introspects the
// request's bearer token for the given capability (§6's Auth column),
// the adaptation of the teacher's plain route handlers to a capability
// gate backed by an external introspection service.
func RequireCapability(introspector auth.TokenIntrospector, capability auth.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if err := introspector.Introspect(c.Context(), token, capability); err != nil {
			return HandleError(c, err)
		}
		return c.Next()
	}
}
