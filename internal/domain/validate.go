package domain

import (
	"regexp"
	"strings"
)

// FieldError describes a single validation violation, scoped to the dotted
// wire path of the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the shape of an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s is an eight digit phone number. The display
// mask's single dash (7845-4646) is tolerated; the stored value is not
// canonicalized.
func ValidPhone(s string) bool {
	digits := strings.Replace(s, "-", "", 1)
	if len(digits) != 8 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Validate runs the intake checks in a fixed order and returns every
// violation found; an empty result means the ticket may be persisted.
// Presence checks come first, then the contact format check. Delivery
// scheduled before receipt is deliberately accepted.
func (t *Ticket) Validate() []FieldError {
	var errs []FieldError

	required := []struct {
		field   string
		message string
		value   string
	}{
		{"client.name", "client name is required", t.Client.Name},
		{"client.contact", "client contact is required", t.Client.Contact},
		{"bike.brand", "bike brand is required", t.Bike.Brand},
		{"bike.model", "bike model is required", t.Bike.Model},
		{"bike.type", "bike type is required", string(t.Bike.Type)},
		{"repairDetails.problemDescription", "problem description is required", t.RepairDetails.ProblemDescription},
		{"repairDetails.serviceType", "service type is required", string(t.RepairDetails.ServiceType)},
		{"orderManagement.estimatedDelivery", "estimated delivery is required", t.OrderManagement.EstimatedDelivery},
		{"scheduling.receivedDate", "received date is required", t.Scheduling.ReceivedDate},
		{"scheduling.deliveryDate", "delivery date is required", t.Scheduling.DeliveryDate},
		{"scheduling.receivedTime", "received time is required", t.Scheduling.ReceivedTime},
		{"scheduling.deliveryTime", "delivery time is required", t.Scheduling.DeliveryTime},
	}
	for _, check := range required {
		if strings.TrimSpace(check.value) == "" {
			errs = append(errs, FieldError{Field: check.field, Message: check.message})
		}
	}

	if contact := strings.TrimSpace(t.Client.Contact); contact != "" && !ValidPhone(contact) && !ValidEmail(contact) {
		errs = append(errs, FieldError{
			Field:   "client.contact",
			Message: "contact must be an 8 digit phone (7845-4646) or a valid email",
		})
	}

	return errs
}
