package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/ports"
)

type PresenceHandler struct {
	registry ports.PresenceRegistry
}

func NewPresenceHandler(registry ports.PresenceRegistry) *PresenceHandler {
	return &PresenceHandler{registry: registry}
}

type presenceResponse struct {
	Role  string                 `json:"role"`
	Count int                    `json:"count"`
	Users []domain.PresenceEntry `json:"users"`
}

// ListByRole returns the currently-active users registered under a role.
//
// @Summary      List active users for a role
// @Tags         presence
// @Produce      json
// @Param        role  path      string  true  "trader | producer | consumer"
// @Success      200   {object}  presenceResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /presence/{role} [get]
func (h *PresenceHandler) ListByRole(c echo.Context) error {
	if _, err := ctxRole(c); err != nil {
		return err
	}

	role, err := domain.ParseRole(c.Param("role"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown role"})
	}

	entries, err := h.registry.ListByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, presenceResponse{
		Role:  string(role),
		Count: len(entries),
		Users: entries,
	})
}
