package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/reporting"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/apiErrors"
)

// Exportable result tables, addressed by the "table" query parameter.
const (
	TableCurrentYearChurn    = "current_year_churn"
	TableYearlyChurn         = "yearly_churn"
	TableMonthlyPivot        = "monthly_pivot"
	TableWaterfall           = "waterfall"
	TableReactivationSummary = "reactivation_summary"
	TableChurnEvents         = "churn_events"
	TableReactivationEvents  = "reactivation_events"
	TableSalesPerformance    = "sales_performance"
	TableSalesSummary        = "sales_summary"
	TableSalesKPIs           = "sales_kpis"
	TableSalesRanking        = "sales_ranking"
)

const exportDateLayout = "2006-01-02"

// GetLatestAnalysis returns the most recent analysis result.
func GetLatestAnalysis(runner reporting.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := runner.Latest()
		if result == nil {
			apiErrors.WriteError(w, apiErrors.ErrResultNotFound, reporting.ErrNoResult.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.WithError(err).Error("error encoding latest analysis response")
		}
	}
}

// ExportAnalysisTable streams one table of the latest result as CSV.
func ExportAnalysisTable(runner reporting.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := r.URL.Query().Get("table")
		if table == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "the \"table\" query parameter is required", nil)
			return
		}

		result := runner.Latest()
		if result == nil {
			apiErrors.WriteError(w, apiErrors.ErrResultNotFound, reporting.ErrNoResult.Error(), nil)
			return
		}

		rows, ok := tableRows(result, table)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrUnknownTable, fmt.Sprintf("unknown result table %q", table), nil)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", table))

		writer := csv.NewWriter(w)
		if err := writer.WriteAll(rows); err != nil {
			logrus.WithError(err).Error("error writing CSV export")
		}
	}
}

// ListResellers returns the configured reseller customers.
func ListResellers(resellers domain.ResellerSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resellers.List()); err != nil {
			logrus.WithError(err).Error("error encoding reseller list response")
		}
	}
}

// tableRows flattens one result table into CSV rows, header first.
func tableRows(result *domain.AnalysisResult, table string) ([][]string, bool) {
	switch table {
	case TableCurrentYearChurn:
		rows := [][]string{{"group", "active_customers", "churned", "churn_rate"}}
		for _, r := range result.CurrentYearChurn {
			rows = append(rows, []string{
				string(r.Group),
				strconv.Itoa(r.ActiveCustomers),
				strconv.Itoa(r.Churned),
				formatRate(r.ChurnRate),
			})
		}
		return rows, true

	case TableYearlyChurn:
		rows := [][]string{{
			"year", "group", "active_customers", "active_resellers", "total_active",
			"churned_customers", "churned_resellers", "total_churned", "churn_rate",
		}}
		for _, r := range result.YearlyChurn {
			rows = append(rows, []string{
				strconv.Itoa(r.Year),
				string(r.Group),
				strconv.Itoa(r.ActiveCustomers),
				strconv.Itoa(r.ActiveResellers),
				strconv.Itoa(r.TotalActive),
				strconv.Itoa(r.ChurnedCustomers),
				strconv.Itoa(r.ChurnedResellers),
				strconv.Itoa(r.TotalChurned),
				formatRate(r.ChurnRate),
			})
		}
		return rows, true

	case TableMonthlyPivot:
		pivot := result.MonthlyPivot
		if pivot == nil {
			return [][]string{{"month"}}, true
		}
		header := []string{"month"}
		for _, g := range pivot.Groups {
			header = append(header, string(g))
		}
		rows := [][]string{header}
		for _, month := range pivot.Months {
			row := []string{month}
			for _, g := range pivot.Groups {
				row = append(row, formatRate(pivot.Rate(month, g)))
			}
			rows = append(rows, row)
		}
		return rows, true

	case TableWaterfall:
		rows := [][]string{{"group", "start_customers", "new_customers", "churned", "end_customers"}}
		for _, r := range result.Waterfall {
			rows = append(rows, []string{
				string(r.Group),
				strconv.Itoa(r.StartCustomers),
				strconv.Itoa(r.NewCustomers),
				strconv.Itoa(r.Churned),
				strconv.Itoa(r.EndCustomers),
			})
		}
		return rows, true

	case TableReactivationSummary:
		rows := [][]string{{"group", "count", "avg_gap_days"}}
		for _, r := range result.ReactivationSummary {
			rows = append(rows, []string{
				string(r.Group),
				strconv.Itoa(r.Count),
				formatRate(r.AvgGapDays),
			})
		}
		return rows, true

	case TableChurnEvents:
		rows := [][]string{{"customer_id", "group", "churn_date", "reason"}}
		for _, e := range result.ChurnEvents {
			rows = append(rows, []string{
				strconv.Itoa(e.CustomerID),
				string(e.Group),
				e.ChurnDate.Format(exportDateLayout),
				string(e.Reason),
			})
		}
		return rows, true

	case TableReactivationEvents:
		rows := [][]string{{"customer_id", "group", "end", "next_start", "gap_days"}}
		for _, e := range result.ReactivationEvents {
			rows = append(rows, []string{
				strconv.Itoa(e.CustomerID),
				string(e.Group),
				e.End.Format(exportDateLayout),
				e.NextStart.Format(exportDateLayout),
				strconv.Itoa(e.GapDays),
			})
		}
		return rows, true

	case TableSalesPerformance:
		rows := [][]string{{"salesperson", "group", "active_customers", "new_customers", "lost_customers", "churn_rate"}}
		for _, r := range result.SalesPerformance {
			rows = append(rows, []string{
				r.Salesperson,
				string(r.Group),
				strconv.Itoa(r.ActiveCustomers),
				strconv.Itoa(r.NewCustomers),
				strconv.Itoa(r.LostCustomers),
				formatRate(r.ChurnRate),
			})
		}
		return rows, true

	case TableSalesSummary:
		rows := [][]string{{"salesperson", "active_customers", "new_customers", "lost_customers", "churn_rate", "net_growth"}}
		for _, r := range result.SalesSummary {
			rows = append(rows, []string{
				r.Salesperson,
				strconv.Itoa(r.ActiveCustomers),
				strconv.Itoa(r.NewCustomers),
				strconv.Itoa(r.LostCustomers),
				formatRate(r.ChurnRate),
				strconv.Itoa(r.NetGrowth),
			})
		}
		return rows, true

	case TableSalesKPIs:
		rows := [][]string{{
			"salesperson", "active_customers", "new_customers", "lost_customers", "churn_rate",
			"avg_tenure_months", "reactivation_rate", "upselling_rate", "avg_products_per_customer",
			"premium_rate", "net_growth", "performance_score", "rank",
		}}
		for _, r := range result.SalesKPIs {
			rows = append(rows, []string{
				r.Salesperson,
				strconv.Itoa(r.ActiveCustomers),
				strconv.Itoa(r.NewCustomers),
				strconv.Itoa(r.LostCustomers),
				formatRate(r.ChurnRate),
				formatRate(r.AvgTenureMonths),
				formatRate(r.ReactivationRate),
				formatRate(r.UpsellingRate),
				formatRate(r.AvgProductsPerCust),
				formatRate(r.PremiumRate),
				strconv.Itoa(r.NetGrowth),
				formatRate(r.PerformanceScore),
				strconv.Itoa(r.Rank),
			})
		}
		return rows, true

	case TableSalesRanking:
		rows := [][]string{{"rank", "salesperson", "active_customers", "churn_rate", "avg_tenure_months", "performance_score"}}
		for _, r := range result.SalesRanking {
			rows = append(rows, []string{
				strconv.Itoa(r.Rank),
				r.Salesperson,
				strconv.Itoa(r.ActiveCustomers),
				formatRate(r.ChurnRate),
				formatRate(r.AvgTenureMonths),
				formatRate(r.PerformanceScore),
			})
		}
		return rows, true
	}

	return nil, false
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
