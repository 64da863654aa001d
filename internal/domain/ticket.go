package domain

import "time"

// Status enumerates lifecycle states for repair tickets.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// ServiceType enumerates the services the workshop offers.
type ServiceType string

const (
	ServiceRepair        ServiceType = "REPAIR"
	ServiceMaintenance   ServiceType = "MAINTENANCE"
	ServiceInspection    ServiceType = "INSPECTION"
	ServiceCustomization ServiceType = "CUSTOMIZATION"
)

// BikeType enumerates supported bicycle categories.
type BikeType string

const (
	BikeRoad     BikeType = "ROAD"
	BikeMountain BikeType = "MOUNTAIN"
	BikeHybrid   BikeType = "HYBRID"
	BikeUrban    BikeType = "URBAN"
	BikeBMX      BikeType = "BMX"
)

// KnownBrands feeds the intake brand picker. Free-text brands are accepted
// as well.
var KnownBrands = []string{
	"Giant",
	"Trek",
	"Specialized",
	"Cannondale",
	"Scott",
	"Bianchi",
	"Merida",
	"Fuji",
}

// Wire formats for scheduling date and time strings.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Client identifies who dropped off the bicycle.
type Client struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Bike describes the bicycle under repair. ImageRef is an opaque asset store
// reference.
type Bike struct {
	Brand    string   `json:"brand"`
	Model    string   `json:"model"`
	Type     BikeType `json:"type"`
	ImageRef string   `json:"imageRef,omitempty"`
}

// RepairDetails captures the reported problem and requested service.
type RepairDetails struct {
	ProblemDescription string      `json:"problemDescription"`
	ServiceType        ServiceType `json:"serviceType"`
}

// OrderManagement tracks workflow state of the order.
type OrderManagement struct {
	Status            Status `json:"status"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// Scheduling holds receipt and delivery date/time strings. No ordering is
// enforced between the two pairs.
type Scheduling struct {
	ReceivedDate string `json:"receivedDate"`
	ReceivedTime string `json:"receivedTime"`
	DeliveryDate string `json:"deliveryDate"`
	DeliveryTime string `json:"deliveryTime"`
}

// Ticket is the repair order aggregate, stored as one document per ticket in
// the repairs collection. ID is assigned by the repository on creation and
// empty until then.
type Ticket struct {
	ID              string          `json:"id,omitempty"`
	Client          Client          `json:"client"`
	Bike            Bike            `json:"bike"`
	RepairDetails   RepairDetails   `json:"repairDetails"`
	OrderManagement OrderManagement `json:"orderManagement"`
	Scheduling      Scheduling      `json:"scheduling"`
	Timestamp       string          `json:"timestamp"`
}

// statusCycle drives the one-tap advance action:
// Pending -> InProgress -> Completed -> Pending.
var statusCycle = map[Status]Status{
	StatusPending:    StatusInProgress,
	StatusInProgress: StatusCompleted,
	StatusCompleted:  StatusPending,
}

// NextStatus returns the successor in the status cycle. Unknown states reset
// to Pending.
func NextStatus(current Status) Status {
	if next, ok := statusCycle[current]; ok {
		return next
	}
	return StatusPending
}

// combineInstant parses a date and time pair as a local instant. ok is false
// when either string is malformed; such tickets carry no usable instant and
// callers skip them instead of failing.
func combineInstant(date, clock string) (time.Time, bool) {
	parsed, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, date+"T"+clock, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ReceivedAt combines the scheduling receipt fields into an instant.
func (t *Ticket) ReceivedAt() (time.Time, bool) {
	return combineInstant(t.Scheduling.ReceivedDate, t.Scheduling.ReceivedTime)
}

// DeliveredAt combines the scheduling delivery fields into an instant.
func (t *Ticket) DeliveredAt() (time.Time, bool) {
	return combineInstant(t.Scheduling.DeliveryDate, t.Scheduling.DeliveryTime)
}
