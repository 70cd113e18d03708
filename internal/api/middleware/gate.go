package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/streamgate/webshare-addon/internal/core/ports"
)

// Context keys populated by Gate for downstream handlers.
const (
	CtxToken      = "gate_token"
	CtxCredential = "gate_credential"
)

// Gate authorizes addon routes mounted at /:token/:device. The access gate's
// failures propagate as domain errors; the central error handler maps them to
// 400 (malformed device), 401 (unknown grant) and 403 (expired account).
// On success the grant's session credential is injected into the context —
// it may be empty, which downstream treats as "no streams", not an error.
func Gate(gate ports.AccessGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Param("token")
			device := c.Param("device")

			credential, err := gate.Authorize(c.Request().Context(), token, device)
			if err != nil {
				return err
			}

			c.Set(CtxToken, token)
			c.Set(CtxCredential, credential)
			return next(c)
		}
	}
}
