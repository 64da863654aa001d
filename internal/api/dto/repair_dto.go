package dto

import (
	"time"

	"github.com/velotaller/repair-service/internal/domain"
)

// SaveRepairRequest carries the full ticket document for create and update.
type SaveRepairRequest struct {
	Client          domain.Client          `json:"client"`
	Bike            domain.Bike            `json:"bike"`
	RepairDetails   domain.RepairDetails   `json:"repairDetails"`
	OrderManagement domain.OrderManagement `json:"orderManagement"`
	Scheduling      domain.Scheduling      `json:"scheduling"`
}

// RepairResponse mirrors the stored ticket document.
type RepairResponse struct {
	ID              string                 `json:"id"`
	Client          domain.Client          `json:"client"`
	Bike            domain.Bike            `json:"bike"`
	RepairDetails   domain.RepairDetails   `json:"repairDetails"`
	OrderManagement domain.OrderManagement `json:"orderManagement"`
	Scheduling      domain.Scheduling      `json:"scheduling"`
	Timestamp       string                 `json:"timestamp,omitempty"`
}

// AdvanceStatusResponse reports the status after a one-tap advance.
type AdvanceStatusResponse struct {
	ID     string        `json:"id"`
	Status domain.Status `json:"status"`
}

// AssetResponse returns the stored reference for an uploaded image.
type AssetResponse struct {
	Ref string `json:"ref"`
}

// AlertResponse is a transient notice still within its display window.
type AlertResponse struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
