package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/velotaller/repair-service/internal/api/dto"
	"github.com/velotaller/repair-service/internal/domain"
	"github.com/velotaller/repair-service/internal/events"
	"github.com/velotaller/repair-service/internal/repository"
	"github.com/velotaller/repair-service/internal/service"
	"github.com/velotaller/repair-service/internal/store"
	apperrors "github.com/velotaller/repair-service/pkg/util"
)

// RepairsHandler manages repair ticket endpoints.
type RepairsHandler struct {
	repo       repository.TicketRepository
	dispatcher events.Dispatcher
	store      *store.TicketStore
	repairs    *service.RepairService
}

// NewRepairsHandler constructs handler.
func NewRepairsHandler(repo repository.TicketRepository, dispatcher events.Dispatcher, ticketStore *store.TicketStore, repairs *service.RepairService) *RepairsHandler {
	return &RepairsHandler{repo: repo, dispatcher: dispatcher, store: ticketStore, repairs: repairs}
}

// ListRepairs GET /repairs.
func (h *RepairsHandler) ListRepairs(c *fiber.Ctx) error {
	tickets := h.store.Snapshot()
	items := make([]dto.RepairResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, repairResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{
		"data":    items,
		"loading": h.store.Loading(),
	})
}

// CreateRepair POST /repairs.
func (h *RepairsHandler) CreateRepair(c *fiber.Ctx) error {
	var req dto.SaveRepairRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	form := service.NewFormController(h.repo, h.dispatcher)
	applyRequest(form, req)

	ticket, err := form.Submit(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": repairResponse(ticket)})
}

// UpdateRepair PUT /repairs/:id.
func (h *RepairsHandler) UpdateRepair(c *fiber.Ctx) error {
	existing, ok := h.store.Get(c.Params("id"))
	if !ok {
		return apperrors.NewNotFound("repair ticket", nil)
	}
	var req dto.SaveRepairRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	form := service.NewEditController(h.repo, h.dispatcher, existing)
	applyRequest(form, req)

	ticket, err := form.Submit(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": repairResponse(ticket)})
}

// AdvanceStatus POST /repairs/:id/advance.
func (h *RepairsHandler) AdvanceStatus(c *fiber.Ctx) error {
	ticket, ok := h.store.Get(c.Params("id"))
	if !ok {
		return apperrors.NewNotFound("repair ticket", nil)
	}
	next, err := h.repairs.AdvanceStatus(c.UserContext(), ticket)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdvanceStatusResponse{ID: ticket.ID, Status: next}})
}

// DeleteRepair DELETE /repairs/:id.
func (h *RepairsHandler) DeleteRepair(c *fiber.Ctx) error {
	if err := h.repairs.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecentRepairs GET /repairs/recent.
func (h *RepairsHandler) RecentRepairs(c *fiber.Ctx) error {
	tickets := h.store.Recent(time.Now(), store.DefaultRecentWindow)
	items := make([]dto.RepairResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, repairResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListBrands GET /repairs/brands.
func (h *RepairsHandler) ListBrands(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": domain.KnownBrands})
}

func applyRequest(form *service.FormController, req dto.SaveRepairRequest) {
	form.SetClientName(req.Client.Name)
	form.SetClientContact(req.Client.Contact)
	form.SetBikeBrand(req.Bike.Brand)
	form.SetBikeModel(req.Bike.Model)
	form.SetBikeType(req.Bike.Type)
	if req.Bike.ImageRef != "" {
		form.SetBikeImageRef(req.Bike.ImageRef)
	}
	form.SetProblemDescription(req.RepairDetails.ProblemDescription)
	form.SetServiceType(req.RepairDetails.ServiceType)
	if req.OrderManagement.Status != "" {
		form.SetStatus(req.OrderManagement.Status)
	}
	form.SetEstimatedDelivery(req.OrderManagement.EstimatedDelivery)
	form.SetReceivedDate(req.Scheduling.ReceivedDate)
	form.SetReceivedTime(req.Scheduling.ReceivedTime)
	form.SetDeliveryDate(req.Scheduling.DeliveryDate)
	form.SetDeliveryTime(req.Scheduling.DeliveryTime)
}

func repairResponse(t *domain.Ticket) dto.RepairResponse {
	return dto.RepairResponse{
		ID:              t.ID,
		Client:          t.Client,
		Bike:            t.Bike,
		RepairDetails:   t.RepairDetails,
		OrderManagement: t.OrderManagement,
		Scheduling:      t.Scheduling,
		Timestamp:       t.Timestamp,
	}
}
