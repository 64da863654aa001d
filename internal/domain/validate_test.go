package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTicket() Ticket {
	return Ticket{
		Client: Client{Name: "Maria Lopez", Contact: "7845-4646"},
		Bike:   Bike{Brand: "Giant", Model: "Escape 3", Type: BikeUrban},
		RepairDetails: RepairDetails{
			ProblemDescription: "Rear brake drags",
			ServiceType:        ServiceRepair,
		},
		OrderManagement: OrderManagement{
			Status:            StatusPending,
			EstimatedDelivery: "2026-03-20",
		},
		Scheduling: Scheduling{
			ReceivedDate: "2026-03-14",
			ReceivedTime: "09:30",
			DeliveryDate: "2026-03-20",
			DeliveryTime: "17:00",
		},
	}
}

func TestValidate_CompleteTicketPasses(t *testing.T) {
	ticket := validTicket()
	assert.Empty(t, ticket.Validate())
}

func TestValidate_ReportsEveryMissingField(t *testing.T) {
	var ticket Ticket
	errs := ticket.Validate()
	require.Len(t, errs, 12)
	assert.Equal(t, "client.name", errs[0].Field)
	assert.Equal(t, "scheduling.deliveryTime", errs[11].Field)
}

func TestValidate_ContactFormatCheckComesLast(t *testing.T) {
	ticket := validTicket()
	ticket.Client.Name = ""
	ticket.Client.Contact = "not-a-contact"
	errs := ticket.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, "client.name", errs[0].Field)
	assert.Equal(t, "client.contact", errs[1].Field)
}

func TestValidate_DeliveryBeforeReceiptAccepted(t *testing.T) {
	ticket := validTicket()
	ticket.Scheduling.DeliveryDate = "2026-03-01"
	assert.Empty(t, ticket.Validate())
}

func TestValidPhone(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"7845-4646", true},
		{"78454646", true},
		{"784-4646", false},
		{"7845-464", false},
		{"7845-46467", false},
		{"78a5-4646", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, ValidPhone(tc.in), "input %q", tc.in)
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("taller@gmail.com"))
	assert.True(t, ValidEmail("a@b.co"))
	assert.False(t, ValidEmail("taller@gmail"))
	assert.False(t, ValidEmail("taller gmail.com"))
	assert.False(t, ValidEmail("@gmail.com"))
}

func TestValidate_EmailContactAccepted(t *testing.T) {
	ticket := validTicket()
	ticket.Client.Contact = "maria@correo.com"
	assert.Empty(t, ticket.Validate())
}
