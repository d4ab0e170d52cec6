package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/ports"
)

// DashboardHandler serves the role-gated dashboard endpoints. The dashboards
// themselves are rendered client-side; this endpoint only confirms the gate
// verdict and hands back the session the view is scoped to.
type DashboardHandler struct {
	sessions ports.SessionManager
}

func NewDashboardHandler(sessions ports.SessionManager) *DashboardHandler {
	return &DashboardHandler{sessions: sessions}
}

type dashboardResponse struct {
	Role    domain.Role     `json:"role"`
	Session *domain.Session `json:"session"`
}

// View answers a gated dashboard request for the given role.
func (h *DashboardHandler) View(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, dashboardResponse{
			Role:    role,
			Session: h.sessions.CurrentSession(),
		})
	}
}
