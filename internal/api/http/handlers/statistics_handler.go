package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/velotaller/repair-service/internal/stats"
	"github.com/velotaller/repair-service/internal/store"
)

// StatisticsHandler serves the aggregate dashboard numbers.
type StatisticsHandler struct {
	store *store.TicketStore
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(ticketStore *store.TicketStore) *StatisticsHandler {
	return &StatisticsHandler{store: ticketStore}
}

// GetStatistics GET /statistics. Recomputed from the current snapshot on
// every call.
func (h *StatisticsHandler) GetStatistics(c *fiber.Ctx) error {
	agg := stats.Compute(h.store.Snapshot(), time.Now())
	return c.JSON(fiber.Map{"data": agg})
}
