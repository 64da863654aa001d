package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/velotaller/repair-service/internal/api/dto"
	"github.com/velotaller/repair-service/internal/service"
)

// AlertsHandler serves the transient notices feeding the banner.
type AlertsHandler struct {
	alerts *service.AlertService
}

// NewAlertsHandler constructs handler.
func NewAlertsHandler(alerts *service.AlertService) *AlertsHandler {
	return &AlertsHandler{alerts: alerts}
}

// ListAlerts GET /alerts. Only notices still within their display window are
// returned.
func (h *AlertsHandler) ListAlerts(c *fiber.Ctx) error {
	active := h.alerts.Active()
	items := make([]dto.AlertResponse, 0, len(active))
	for _, alert := range active {
		items = append(items, dto.AlertResponse{Message: alert.Message, CreatedAt: alert.CreatedAt})
	}
	return c.JSON(fiber.Map{"data": items})
}
