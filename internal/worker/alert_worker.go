package worker

import (
	"github.com/velotaller/repair-service/internal/service"
)

// StartAlertWorker registers the alert recorder on the event dispatcher.
func StartAlertWorker(alertService *service.AlertService) {
	if alertService == nil {
		return
	}
	alertService.RegisterHandlers()
}
