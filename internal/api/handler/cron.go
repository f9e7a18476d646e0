package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/edelweiss-digital/churn-analytics-api/internal/scheduler"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/apiErrors"
)

const (
	CronJobTypeDatasetRefresh = "dataset-refresh"
)

// CronJobServices holds the scheduled services that can be triggered by hand.
type CronJobServices struct {
	DatasetRefreshService *scheduler.DatasetRefreshService
}

// RunCronJob triggers one scheduled job outside of its regular schedule.
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "cron job type not specified", nil)
			return
		}

		switch cronType {
		case CronJobTypeDatasetRefresh:
			if services.DatasetRefreshService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "dataset refresh service not available", nil)
				return
			}
			services.DatasetRefreshService.TriggerManualSync()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid cron job type, accepted values: dataset-refresh", nil)
			return
		}

		logrus.WithField("type", cronType).Info("cron job triggered manually")

		w.Header().Set("Content-Type", "application/json")
		response := map[string]any{
			"status":  "started",
			"message": "cron job started in background",
			"type":    cronType,
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Error("error encoding cron trigger response")
		}
	}
}

// GetCronStatus reports the execution state of the scheduled jobs.
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.DatasetRefreshService != nil {
			status[CronJobTypeDatasetRefresh] = services.DatasetRefreshService.Status()
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logrus.WithError(err).Error("error encoding cron status response")
		}
	}
}
