package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/edelweiss-digital/churn-analytics-api/infrastructure/dataset"
	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/reporting"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxUploadBytes bounds the multipart form kept in memory while parsing a
// workbook upload.
const maxUploadBytes = 32 << 20

// AnalysisConfig carries the configured analysis defaults and the clamping
// bounds applied to the caller-supplied grace period.
type AnalysisConfig struct {
	GracePeriodDays    int
	GracePeriodMinDays int
	GracePeriodMaxDays int
	StartYear          int
	MinActiveCustomers int
	Resellers          domain.ResellerSet
	Salespeople        []string
}

// RunAnalysis accepts a workbook upload and executes a full analysis run.
// The grace period comes from the "grace_period" form field and is clamped
// into the configured bounds; an optional "salespeople" field restricts the
// sales tables to a comma-separated subset.
func RunAnalysis(runner reporting.Runner, loader reporting.DatasetLoader, cfg AnalysisConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "request is not a valid multipart form", nil)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "dataset file is required in the \"file\" field", nil)
			return
		}
		defer file.Close()

		gracePeriod := cfg.GracePeriodDays
		if raw := r.FormValue("grace_period"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "grace_period must be an integer number of days", nil)
				return
			}
			gracePeriod = clamp(parsed, cfg.GracePeriodMinDays, cfg.GracePeriodMaxDays)
		}

		salespeople := cfg.Salespeople
		if raw := strings.TrimSpace(r.FormValue("salespeople")); raw != "" {
			salespeople = splitList(raw)
		}

		records, err := loader.Load(file)
		if err != nil {
			var missing *dataset.MissingColumnsError
			if errors.As(err, &missing) {
				apiErrors.WriteError(w, apiErrors.ErrMissingColumns, missing.Error(), missing.Columns)
				return
			}
			logrus.WithError(err).Warn("uploaded workbook could not be read")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "uploaded file is not a readable workbook", nil)
			return
		}

		result, err := runner.Run(records, reporting.Options{
			GracePeriodDays:    gracePeriod,
			StartYear:          cfg.StartYear,
			Resellers:          cfg.Resellers,
			Salespeople:        salespeople,
			MinActiveCustomers: cfg.MinActiveCustomers,
		})
		if err != nil {
			logrus.WithError(err).Error("analysis run failed")
			apiErrors.WriteError(w, apiErrors.ErrAnalysisFailed, "analysis run failed", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.WithError(err).Error("error encoding analysis response")
		}
	}
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
