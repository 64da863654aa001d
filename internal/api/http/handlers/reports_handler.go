package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/velotaller/repair-service/internal/service"
)

// ReportsHandler serves downloadable chart exports.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// ExportReport GET /reports/:kind.
func (h *ReportsHandler) ExportReport(c *fiber.Ctx) error {
	filename, doc, err := h.reports.Export(service.ReportKind(c.Params("kind")))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
