package handler

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/reporting"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/reporting/mocks"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/apiErrors"
)

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		GracePeriodDays: 90,
		CurrentYearChurn: []domain.CurrentYearChurnRow{
			{Group: domain.GroupWebsite, ActiveCustomers: 10, Churned: 2, ChurnRate: 20.0},
		},
		MonthlyPivot: &domain.MonthlyPivot{
			Months: []string{"2024-01", "2024-02"},
			Groups: []domain.ProductGroup{domain.GroupWebsite},
			Rates: map[string]map[domain.ProductGroup]float64{
				"2024-01": {domain.GroupWebsite: 5.5},
				"2024-02": {domain.GroupWebsite: 0},
			},
		},
		ChurnEvents: []domain.ChurnEvent{
			{
				CustomerID: 1000010,
				Group:      domain.GroupWebsite,
				ChurnDate:  time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
				Reason:     domain.ChurnReasonNoFollowOn,
			},
		},
		ReactivationEvents: []domain.ReactivationEvent{
			{
				CustomerID: 1000020,
				Group:      domain.GroupSEO,
				End:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
				NextStart:  time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
				GapDays:    32,
			},
		},
	}
}

func TestGetLatestAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Latest().Return(sampleResult())

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/latest", nil)
	rec := httptest.NewRecorder()

	GetLatestAnalysis(runner)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var decoded domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, 90, decoded.GracePeriodDays)
}

func TestGetLatestAnalysisNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Latest().Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/latest", nil)
	rec := httptest.NewRecorder()

	GetLatestAnalysis(runner)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	apiErr := decodeAPIError(t, rec)
	assert.Equal(t, apiErrors.ErrResultNotFound, apiErr.Code)
	assert.Equal(t, reporting.ErrNoResult.Error(), apiErr.Message)
}

func TestExportAnalysisTableCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Latest().Return(sampleResult())

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/latest/export?table=current_year_churn", nil)
	rec := httptest.NewRecorder()

	ExportAnalysisTable(runner)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "current_year_churn.csv")

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"group", "active_customers", "churned", "churn_rate"}, rows[0])
	assert.Equal(t, []string{"Website", "10", "2", "20"}, rows[1])
}

func TestExportAnalysisTableMonthlyPivot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Latest().Return(sampleResult())

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/latest/export?table=monthly_pivot", nil)
	rec := httptest.NewRecorder()

	ExportAnalysisTable(runner)(rec, req)

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"month", "Website"}, rows[0])
	assert.Equal(t, []string{"2024-01", "5.5"}, rows[1])
	assert.Equal(t, []string{"2024-02", "0"}, rows[2])
}

func TestExportAnalysisTableChurnEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Latest().Return(sampleResult())

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/latest/export?table=churn_events", nil)
	rec := httptest.NewRecorder()

	ExportAnalysisTable(runner)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "churn_events.csv")

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"customer_id", "group", "churn_date", "reason"}, rows[0])
	assert.Equal(t, []string{"1000010", "Website", "2024-03-31", "no-follow-on"}, rows[1])
}

func TestExportAnalysisTableReactivationEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Latest().Return(sampleResult())

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/latest/export?table=reactivation_events", nil)
	rec := httptest.NewRecorder()

	ExportAnalysisTable(runner)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "reactivation_events.csv")

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"customer_id", "group", "end", "next_start", "gap_days"}, rows[0])
	assert.Equal(t, []string{"1000020", "SEO", "2024-01-31", "2024-03-03", "32"}, rows[1])
}

func TestExportAnalysisTableUnknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Latest().Return(sampleResult())

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/latest/export?table=unbekannt", nil)
	rec := httptest.NewRecorder()

	ExportAnalysisTable(runner)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrUnknownTable, decodeAPIError(t, rec).Code)
}

func TestExportAnalysisTableMissingParameter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/latest/export", nil)
	rec := httptest.NewRecorder()

	ExportAnalysisTable(runner)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrMissingRequiredData, decodeAPIError(t, rec).Code)
}

func TestExportAnalysisTableNoResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Latest().Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/latest/export?table=waterfall", nil)
	rec := httptest.NewRecorder()

	ExportAnalysisTable(runner)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	apiErr := decodeAPIError(t, rec)
	assert.Equal(t, apiErrors.ErrResultNotFound, apiErr.Code)
	assert.Equal(t, reporting.ErrNoResult.Error(), apiErr.Message)
}

func TestListResellers(t *testing.T) {
	resellers := domain.NewResellerSet(map[int]string{
		1902101: "Onco",
		1903121: "Russmedia Digital",
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/resellers", nil)
	rec := httptest.NewRecorder()

	ListResellers(resellers)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var decoded []domain.Reseller
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, domain.Reseller{CustomerID: 1902101, Name: "Onco"}, decoded[0])
	assert.Equal(t, domain.Reseller{CustomerID: 1903121, Name: "Russmedia Digital"}, decoded[1])
}
