package service

import (
	"strings"
	"time"

	"github.com/velotaller/repair-service/internal/report"
	"github.com/velotaller/repair-service/internal/stats"
	"github.com/velotaller/repair-service/internal/store"
	apperrors "github.com/velotaller/repair-service/pkg/util"
)

// ReportKind selects which aggregate series a report covers.
type ReportKind string

const (
	ReportDaily     ReportKind = "daily"
	ReportServices  ReportKind = "services"
	ReportStatus    ReportKind = "status"
	ReportBikes     ReportKind = "bikes"
	ReportBikeTypes ReportKind = "biketypes"
)

// ReportService turns the live snapshot into shareable documents, one per
// chart.
type ReportService struct {
	store    *store.TicketStore
	renderer report.Renderer
	clock    func() time.Time
}

// NewReportService constructs the service.
func NewReportService(ticketStore *store.TicketStore, renderer report.Renderer) *ReportService {
	return &ReportService{store: ticketStore, renderer: renderer, clock: time.Now}
}

// Export recomputes the current statistics and renders the requested series.
// It returns the suggested file name and the document bytes.
func (s *ReportService) Export(kind ReportKind) (string, []byte, error) {
	agg := stats.Compute(s.store.Snapshot(), s.clock())

	var title string
	var series stats.Series
	switch kind {
	case ReportDaily:
		title, series = "Completed Repairs Last 7 Days", agg.Daily
	case ReportServices:
		title, series = "Repairs By Service Type", agg.ServiceTypes
	case ReportStatus:
		title, series = "Repairs By Status", agg.Statuses
	case ReportBikes:
		title, series = "Most Common Bikes", agg.TopBikes
	case ReportBikeTypes:
		title, series = "Repairs By Bike Type", agg.BikeTypes
	default:
		return "", nil, apperrors.NewValidationError("unknown report kind", map[string]any{
			"kind": string(kind),
		})
	}

	doc, err := s.renderer.Render(title, series.Labels, series.Values)
	if err != nil {
		return "", nil, apperrors.NewInternalError(err)
	}

	filename := strings.ToLower(strings.ReplaceAll(title, " ", "_")) + ".xlsx"
	return filename, doc, nil
}
