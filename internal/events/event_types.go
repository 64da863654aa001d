package events

import (
	"time"

	"github.com/velotaller/repair-service/internal/domain"
)

// EventType enumerates repair lifecycle event identifiers.
type EventType string

const (
	EventRepairCreated       EventType = "repair_created"
	EventRepairUpdated       EventType = "repair_updated"
	EventRepairStatusChanged EventType = "repair_status_changed"
	EventRepairDeleted       EventType = "repair_deleted"
)

// Event represents a repair lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RepairCreatedPayload payload.
type RepairCreatedPayload struct {
	ClientName  string             `json:"client_name"`
	Brand       string             `json:"brand"`
	Model       string             `json:"model"`
	ServiceType domain.ServiceType `json:"service_type"`
}

// RepairUpdatedPayload payload.
type RepairUpdatedPayload struct {
	ClientName string `json:"client_name"`
}

// RepairStatusChangedPayload payload.
type RepairStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}
