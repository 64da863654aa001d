package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/velotaller/repair-service/internal/domain"
	"github.com/velotaller/repair-service/internal/events"
	"github.com/velotaller/repair-service/internal/repository"
	apperrors "github.com/velotaller/repair-service/pkg/util"
)

// Draft is the in-progress ticket held by a form controller. Sections are
// held by pointer and shared between successive drafts: setters clone only
// the section they touch, so a shallow comparison on an untouched sibling
// still sees the same pointer.
type Draft struct {
	ID              string
	Client          *domain.Client
	Bike            *domain.Bike
	RepairDetails   *domain.RepairDetails
	OrderManagement *domain.OrderManagement
	Scheduling      *domain.Scheduling
	Timestamp       string
}

// FormController owns one draft through intake or edit and performs the
// create-or-update submission. The mode is fixed at construction and never
// changes, not even across submissions.
type FormController struct {
	repo       repository.TicketRepository
	dispatcher events.Dispatcher
	clock      func() time.Time
	editing    bool
	draft      Draft
}

// NewFormController starts a blank intake draft.
func NewFormController(repo repository.TicketRepository, dispatcher events.Dispatcher) *FormController {
	return &FormController{
		repo:       repo,
		dispatcher: dispatcher,
		clock:      time.Now,
		draft:      emptyDraft(),
	}
}

// NewEditController starts a draft pre-loaded from an existing ticket.
func NewEditController(repo repository.TicketRepository, dispatcher events.Dispatcher, ticket domain.Ticket) *FormController {
	c := &FormController{
		repo:       repo,
		dispatcher: dispatcher,
		clock:      time.Now,
		editing:    true,
	}
	c.draft = draftFromTicket(ticket)
	return c
}

func emptyDraft() Draft {
	return Draft{
		Client:          &domain.Client{},
		Bike:            &domain.Bike{},
		RepairDetails:   &domain.RepairDetails{},
		OrderManagement: &domain.OrderManagement{Status: domain.StatusPending},
		Scheduling:      &domain.Scheduling{},
	}
}

func draftFromTicket(t domain.Ticket) Draft {
	client := t.Client
	bike := t.Bike
	details := t.RepairDetails
	order := t.OrderManagement
	scheduling := t.Scheduling
	return Draft{
		ID:              t.ID,
		Client:          &client,
		Bike:            &bike,
		RepairDetails:   &details,
		OrderManagement: &order,
		Scheduling:      &scheduling,
		Timestamp:       t.Timestamp,
	}
}

// Draft returns the current draft. Sections are shared, not copied; callers
// must treat them as read-only.
func (c *FormController) Draft() Draft {
	return c.draft
}

// Editing reports whether the controller updates an existing ticket.
func (c *FormController) Editing() bool {
	return c.editing
}

var nameFilter = regexp.MustCompile(`[^a-zA-ZáéíóúÁÉÍÓÚñÑ\s]`)
var nonDigits = regexp.MustCompile(`[^0-9]`)

// SetClientName stores the name with non-letter characters stripped, the
// same soft filter the intake keyboard applies.
func (c *FormController) SetClientName(name string) {
	client := *c.draft.Client
	client.Name = nameFilter.ReplaceAllString(name, "")
	c.draft.Client = &client
}

// SetClientContact stores the contact. Purely numeric input gets the phone
// display mask (NNNN-NNNN, capped at 8 digits); anything else, such as an
// email, is kept as typed.
func (c *FormController) SetClientContact(contact string) {
	client := *c.draft.Client
	client.Contact = maskPhone(contact)
	c.draft.Client = &client
}

func maskPhone(s string) string {
	digits := nonDigits.ReplaceAllString(s, "")
	if digits == "" || digits != strings.ReplaceAll(s, "-", "") {
		return s
	}
	if len(digits) > 8 {
		digits = digits[:8]
	}
	if len(digits) > 4 {
		return digits[:4] + "-" + digits[4:]
	}
	return digits
}

// SetBikeBrand replaces the bike section with an updated copy.
func (c *FormController) SetBikeBrand(brand string) {
	bike := *c.draft.Bike
	bike.Brand = brand
	c.draft.Bike = &bike
}

// SetBikeModel replaces the bike section with an updated copy.
func (c *FormController) SetBikeModel(model string) {
	bike := *c.draft.Bike
	bike.Model = model
	c.draft.Bike = &bike
}

// SetBikeType replaces the bike section with an updated copy.
func (c *FormController) SetBikeType(bikeType domain.BikeType) {
	bike := *c.draft.Bike
	bike.Type = bikeType
	c.draft.Bike = &bike
}

// SetBikeImageRef attaches a stored asset reference to the bike.
func (c *FormController) SetBikeImageRef(ref string) {
	bike := *c.draft.Bike
	bike.ImageRef = ref
	c.draft.Bike = &bike
}

// SetProblemDescription replaces the repair details section.
func (c *FormController) SetProblemDescription(description string) {
	details := *c.draft.RepairDetails
	details.ProblemDescription = description
	c.draft.RepairDetails = &details
}

// SetServiceType replaces the repair details section.
func (c *FormController) SetServiceType(serviceType domain.ServiceType) {
	details := *c.draft.RepairDetails
	details.ServiceType = serviceType
	c.draft.RepairDetails = &details
}

// SetStatus replaces the order management section. Direct edits may set any
// status; the cycle constraint applies only to the one-tap advance.
func (c *FormController) SetStatus(status domain.Status) {
	order := *c.draft.OrderManagement
	order.Status = status
	c.draft.OrderManagement = &order
}

// SetEstimatedDelivery replaces the order management section.
func (c *FormController) SetEstimatedDelivery(date string) {
	order := *c.draft.OrderManagement
	order.EstimatedDelivery = date
	c.draft.OrderManagement = &order
}

// SetReceivedDate replaces the scheduling section.
func (c *FormController) SetReceivedDate(date string) {
	scheduling := *c.draft.Scheduling
	scheduling.ReceivedDate = date
	c.draft.Scheduling = &scheduling
}

// SetReceivedTime replaces the scheduling section.
func (c *FormController) SetReceivedTime(clock string) {
	scheduling := *c.draft.Scheduling
	scheduling.ReceivedTime = clock
	c.draft.Scheduling = &scheduling
}

// SetDeliveryDate replaces the scheduling section.
func (c *FormController) SetDeliveryDate(date string) {
	scheduling := *c.draft.Scheduling
	scheduling.DeliveryDate = date
	c.draft.Scheduling = &scheduling
}

// SetDeliveryTime replaces the scheduling section.
func (c *FormController) SetDeliveryTime(clock string) {
	scheduling := *c.draft.Scheduling
	scheduling.DeliveryTime = clock
	c.draft.Scheduling = &scheduling
}

func (c *FormController) ticket() domain.Ticket {
	return domain.Ticket{
		ID:              c.draft.ID,
		Client:          *c.draft.Client,
		Bike:            *c.draft.Bike,
		RepairDetails:   *c.draft.RepairDetails,
		OrderManagement: *c.draft.OrderManagement,
		Scheduling:      *c.draft.Scheduling,
		Timestamp:       c.draft.Timestamp,
	}
}

// Validate runs the intake checks against the draft and returns every
// violation in order.
func (c *FormController) Validate() []domain.FieldError {
	ticket := c.ticket()
	return ticket.Validate()
}

// Submit validates and persists the draft, stamping the mutation time. On
// success the draft resets to the blank template; on repository failure the
// draft is kept so the user can retry. Validation failures never reach the
// repository.
func (c *FormController) Submit(ctx context.Context) (*domain.Ticket, error) {
	if fieldErrs := c.Validate(); len(fieldErrs) > 0 {
		return nil, apperrors.NewValidationError("repair ticket failed validation", map[string]any{
			"fields": fieldErrs,
		})
	}

	ticket := c.ticket()
	ticket.Timestamp = c.clock().Format(time.RFC3339)

	var err error
	if c.editing && ticket.ID != "" {
		err = c.repo.Update(ctx, &ticket)
	} else {
		ticket.ID, err = c.repo.Create(ctx, &ticket)
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	c.publish(ctx, ticket)
	c.draft = emptyDraft()
	return &ticket, nil
}

func (c *FormController) publish(ctx context.Context, ticket domain.Ticket) {
	if c.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		Timestamp: c.clock(),
	}
	if c.editing {
		event.Type = events.EventRepairUpdated
		event.Payload = events.RepairUpdatedPayload{ClientName: ticket.Client.Name}
	} else {
		event.Type = events.EventRepairCreated
		event.Payload = events.RepairCreatedPayload{
			ClientName:  ticket.Client.Name,
			Brand:       ticket.Bike.Brand,
			Model:       ticket.Bike.Model,
			ServiceType: ticket.RepairDetails.ServiceType,
		}
	}
	_ = c.dispatcher.Publish(ctx, event)
}
