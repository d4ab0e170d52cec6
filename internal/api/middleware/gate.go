package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CodeOrigin25/Mandi-Link/internal/api/metrics"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/service"
)

// gateResponse carries the deny verdict to the presentation layer so it can
// navigate. From preserves the originally requested location for the
// post-login return when the redirect target is the login page.
type gateResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
	From     string `json:"from,omitempty"`
}

// Gate enforces role-restricted access from live session state. While the
// initial restore is still running it answers 503 with Retry-After rather
// than deciding, so a cold start never bounces an authenticated user to
// login.
func Gate(gate *service.AccessGate, required ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := gate.Decide(required...)

			switch {
			case decision.Pending:
				metrics.GateDecisionsTotal.WithLabelValues("pending").Inc()
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, gateResponse{
					Error: "session restore in progress",
				})
			case !decision.Allow && decision.Redirect == service.LoginPath:
				metrics.GateDecisionsTotal.WithLabelValues("deny").Inc()
				return c.JSON(http.StatusUnauthorized, gateResponse{
					Error:    "authentication required",
					Redirect: decision.Redirect,
					From:     c.Request().URL.Path,
				})
			case !decision.Allow:
				// Authenticated but misrouted: send the user to their own
				// dashboard, never back to login.
				metrics.GateDecisionsTotal.WithLabelValues("deny").Inc()
				return c.JSON(http.StatusForbidden, gateResponse{
					Error:    "role not allowed",
					Redirect: decision.Redirect,
				})
			}

			metrics.GateDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}
