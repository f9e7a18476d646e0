package handler

import (
	"net/http"

	"github.com/edelweiss-digital/churn-analytics-api/internal/api/handler/router"
	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/reporting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Analysis(runner reporting.Runner, loader reporting.DatasetLoader, cfg AnalysisConfig) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/analysis",
			Method:  http.MethodPost,
			Handler: RunAnalysis(runner, loader, cfg),
		},
		{
			Path:    "/v1/analysis/latest",
			Method:  http.MethodGet,
			Handler: GetLatestAnalysis(runner),
		},
		{
			Path:    "/v1/analysis/latest/export",
			Method:  http.MethodGet,
			Handler: ExportAnalysisTable(runner),
		},
	}
}

func Resellers(resellers domain.ResellerSet) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/analysis/resellers",
			Method:  http.MethodGet,
			Handler: ListResellers(resellers),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
