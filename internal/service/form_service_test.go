package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velotaller/repair-service/internal/domain"
	"github.com/velotaller/repair-service/internal/repository"
	apperrors "github.com/velotaller/repair-service/pkg/util"
)

// recordingRepo captures repository calls from the services under test.
type recordingRepo struct {
	created       []domain.Ticket
	updated       []domain.Ticket
	statusUpdates map[string]domain.Status
	deleted       []string
	failWith      error
}

func (r *recordingRepo) Create(_ context.Context, t *domain.Ticket) (string, error) {
	if r.failWith != nil {
		return "", r.failWith
	}
	r.created = append(r.created, *t)
	return "generated-id", nil
}

func (r *recordingRepo) Update(_ context.Context, t *domain.Ticket) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.updated = append(r.updated, *t)
	return nil
}

func (r *recordingRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	if r.failWith != nil {
		return r.failWith
	}
	if r.statusUpdates == nil {
		r.statusUpdates = make(map[string]domain.Status)
	}
	r.statusUpdates[id] = status
	return nil
}

func (r *recordingRepo) Delete(_ context.Context, id string) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *recordingRepo) List(context.Context) ([]domain.Ticket, error) { return nil, nil }

func (r *recordingRepo) Subscribe(context.Context, repository.SnapshotFunc, repository.ErrorFunc) (repository.CancelFunc, error) {
	return func() {}, nil
}

func fillValidDraft(form *FormController) {
	form.SetClientName("Maria Lopez")
	form.SetClientContact("78454646")
	form.SetBikeBrand("Giant")
	form.SetBikeModel("Escape 3")
	form.SetBikeType(domain.BikeUrban)
	form.SetProblemDescription("Rear brake drags")
	form.SetServiceType(domain.ServiceRepair)
	form.SetEstimatedDelivery("2026-03-20")
	form.SetReceivedDate("2026-03-14")
	form.SetReceivedTime("09:30")
	form.SetDeliveryDate("2026-03-20")
	form.SetDeliveryTime("17:00")
}

func TestFormController_SettersCloneOnlyTheirSection(t *testing.T) {
	form := NewFormController(&recordingRepo{}, nil)

	before := form.Draft()
	form.SetBikeBrand("Giant")
	after := form.Draft()

	// The untouched sections keep their identity; only the bike section was
	// replaced.
	assert.Same(t, before.Client, after.Client)
	assert.Same(t, before.RepairDetails, after.RepairDetails)
	assert.Same(t, before.OrderManagement, after.OrderManagement)
	assert.Same(t, before.Scheduling, after.Scheduling)
	assert.NotSame(t, before.Bike, after.Bike)
	assert.Equal(t, "Giant", after.Bike.Brand)
	assert.Empty(t, before.Bike.Brand)
}

func TestFormController_SetClientNameStripsNonLetters(t *testing.T) {
	form := NewFormController(&recordingRepo{}, nil)
	form.SetClientName("María1 Ñandú2!")
	assert.Equal(t, "María Ñandú", form.Draft().Client.Name)
}

func TestFormController_PhoneMask(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"78454646", "7845-4646"},
		{"7845", "7845"},
		{"78454", "7845-4"},
		{"784546467890", "7845-4646"},
		{"7845-4646", "7845-4646"},
		{"maria@correo.com", "maria@correo.com"},
		{"", ""},
	}
	for _, tc := range cases {
		form := NewFormController(&recordingRepo{}, nil)
		form.SetClientContact(tc.in)
		assert.Equal(t, tc.want, form.Draft().Client.Contact, "input %q", tc.in)
	}
}

func TestFormController_DefaultStatusPending(t *testing.T) {
	form := NewFormController(&recordingRepo{}, nil)
	assert.Equal(t, domain.StatusPending, form.Draft().OrderManagement.Status)
}

func TestFormController_SubmitValidationFailureSkipsRepository(t *testing.T) {
	repo := &recordingRepo{}
	form := NewFormController(repo, nil)
	form.SetClientName("Maria")

	_, err := form.Submit(context.Background())
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Empty(t, repo.created)
	// Draft survives for correction.
	assert.Equal(t, "Maria", form.Draft().Client.Name)
}

func TestFormController_SubmitCreatesAndResets(t *testing.T) {
	repo := &recordingRepo{}
	form := NewFormController(repo, nil)
	fillValidDraft(form)

	start := time.Now()
	ticket, err := form.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "generated-id", ticket.ID)
	assert.Equal(t, "Maria Lopez", ticket.Client.Name)

	stamped, parseErr := time.Parse(time.RFC3339, ticket.Timestamp)
	require.NoError(t, parseErr)
	assert.False(t, stamped.Before(start.Truncate(time.Second)))

	// Draft resets to the blank template.
	reset := form.Draft()
	assert.Empty(t, reset.Client.Name)
	assert.Equal(t, domain.StatusPending, reset.OrderManagement.Status)
	assert.False(t, form.Editing())
}

func TestFormController_SubmitPersistenceFailureKeepsDraft(t *testing.T) {
	repo := &recordingRepo{failWith: errors.New("write denied")}
	form := NewFormController(repo, nil)
	fillValidDraft(form)

	_, err := form.Submit(context.Background())
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PERSISTENCE_FAILED", domainErr.Code)
	assert.Equal(t, "Maria Lopez", form.Draft().Client.Name)
}

func TestEditController_SubmitUpdatesInPlace(t *testing.T) {
	repo := &recordingRepo{}
	existing := domain.Ticket{
		ID:              "existing-id",
		Client:          domain.Client{Name: "Maria Lopez", Contact: "7845-4646"},
		Bike:            domain.Bike{Brand: "Giant", Model: "Escape 3", Type: domain.BikeUrban},
		RepairDetails:   domain.RepairDetails{ProblemDescription: "Rear brake drags", ServiceType: domain.ServiceRepair},
		OrderManagement: domain.OrderManagement{Status: domain.StatusInProgress, EstimatedDelivery: "2026-03-20"},
		Scheduling: domain.Scheduling{
			ReceivedDate: "2026-03-14", ReceivedTime: "09:30",
			DeliveryDate: "2026-03-20", DeliveryTime: "17:00",
		},
	}

	form := NewEditController(repo, nil, existing)
	require.True(t, form.Editing())
	form.SetProblemDescription("Rear brake drags and shifter skips")

	ticket, err := form.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.updated, 1)
	assert.Empty(t, repo.created)
	assert.Equal(t, "existing-id", ticket.ID)
	assert.Equal(t, domain.StatusInProgress, ticket.OrderManagement.Status)

	// Mode stays fixed after submission.
	assert.True(t, form.Editing())
}
