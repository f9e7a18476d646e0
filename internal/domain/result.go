package domain

import "time"

// CurrentYearChurnRow is the headline churn metric for one product group,
// window [Jan 1 of the current year, today]. Regular and reseller counts are
// already combined.
type CurrentYearChurnRow struct {
	Group           ProductGroup `json:"group"`
	ActiveCustomers int          `json:"active_customers"`
	Churned         int          `json:"churned"`
	ChurnRate       float64      `json:"churn_rate"`
}

// YearlyChurnRow is the calendar-year churn rate for one (year, group) pair,
// split into regular customers (journey-based) and resellers (contract-level).
type YearlyChurnRow struct {
	Year             int          `json:"year"`
	Group            ProductGroup `json:"group"`
	ActiveCustomers  int          `json:"active_customers"`
	ActiveResellers  int          `json:"active_resellers"`
	TotalActive      int          `json:"total_active"`
	ChurnedCustomers int          `json:"churned_customers"`
	ChurnedResellers int          `json:"churned_resellers"`
	TotalChurned     int          `json:"total_churned"`
	ChurnRate        float64      `json:"churn_rate"`
}

// MonthlyPivot is the trailing-12-full-months contract-level churn baseline:
// one row per month ("2006-01"), one column per product group present in the
// dataset. This is the uncorrected rate, kept for comparison with the
// journey-based figures.
type MonthlyPivot struct {
	Months []string                            `json:"months"`
	Groups []ProductGroup                      `json:"groups"`
	Rates  map[string]map[ProductGroup]float64 `json:"rates"`
}

// Rate returns the churn rate for a month/group cell, 0 when absent.
func (p *MonthlyPivot) Rate(month string, group ProductGroup) float64 {
	if byGroup, ok := p.Rates[month]; ok {
		return byGroup[group]
	}
	return 0
}

// WaterfallRow reconciles customer movement for one product group over a
// year: End = Start + New - Churned, exactly.
type WaterfallRow struct {
	Group          ProductGroup `json:"group"`
	StartCustomers int          `json:"start_customers"`
	NewCustomers   int          `json:"new_customers"`
	Churned        int          `json:"churned"`
	EndCustomers   int          `json:"end_customers"`
}

// ReactivationSummaryRow aggregates reactivation events per product group.
type ReactivationSummaryRow struct {
	Group      ProductGroup `json:"group"`
	Count      int          `json:"count"`
	AvgGapDays float64      `json:"avg_gap_days"`
}

// SalesPerformanceRow is the basic churn slice for one salesperson and
// product group, current year window.
type SalesPerformanceRow struct {
	Salesperson     string       `json:"salesperson"`
	Group           ProductGroup `json:"group"`
	ActiveCustomers int          `json:"active_customers"`
	NewCustomers    int          `json:"new_customers"`
	LostCustomers   int          `json:"lost_customers"`
	ChurnRate       float64      `json:"churn_rate"`
}

// SalesSummaryRow rolls the basic performance up to one row per salesperson.
type SalesSummaryRow struct {
	Salesperson     string  `json:"salesperson"`
	ActiveCustomers int     `json:"active_customers"`
	NewCustomers    int     `json:"new_customers"`
	LostCustomers   int     `json:"lost_customers"`
	ChurnRate       float64 `json:"churn_rate"`
	NetGrowth       int     `json:"net_growth"`
}

// SalesKPIRow carries the extended per-salesperson KPIs, the weighted
// performance score and the dense rank. Only salespeople above the minimum
// active-customer threshold appear here.
type SalesKPIRow struct {
	Salesperson        string  `json:"salesperson"`
	ActiveCustomers    int     `json:"active_customers"`
	NewCustomers       int     `json:"new_customers"`
	LostCustomers      int     `json:"lost_customers"`
	ChurnRate          float64 `json:"churn_rate"`
	AvgTenureMonths    float64 `json:"avg_tenure_months"`
	ReactivationRate   float64 `json:"reactivation_rate"`
	UpsellingRate      float64 `json:"upselling_rate"`
	AvgProductsPerCust float64 `json:"avg_products_per_customer"`
	PremiumRate        float64 `json:"premium_rate"`
	NetGrowth          int     `json:"net_growth"`
	PerformanceScore   float64 `json:"performance_score"`
	Rank               int     `json:"rank"`
}

// SalesRankingRow is the condensed ranking view of a SalesKPIRow.
type SalesRankingRow struct {
	Rank             int     `json:"rank"`
	Salesperson      string  `json:"salesperson"`
	ActiveCustomers  int     `json:"active_customers"`
	ChurnRate        float64 `json:"churn_rate"`
	AvgTenureMonths  float64 `json:"avg_tenure_months"`
	PerformanceScore float64 `json:"performance_score"`
}

// PerformerInsight names the single metric contributing most to a
// salesperson's strength or weakness.
type PerformerInsight struct {
	Salesperson string  `json:"salesperson"`
	Score       float64 `json:"score"`
	Metric      string  `json:"metric"`
}

// SalesInsights buckets salespeople into top and bottom quintile by
// performance score and adds team-level observations.
type SalesInsights struct {
	TopPerformers []PerformerInsight `json:"top_performers"`
	NeedAttention []PerformerInsight `json:"need_attention"`
	Strengths     []string           `json:"strengths"`
	Opportunities []string           `json:"opportunities"`
}

// DatasetStats are run-level counts shown alongside the result tables.
type DatasetStats struct {
	TotalCustomers   int `json:"total_customers"`
	RegularCustomers int `json:"regular_customers"`
	Resellers        int `json:"resellers"`
}

// AnalysisResult is the complete output of one analysis run. All tables are
// derived, read-only projections of the run's input; they are never merged
// across runs.
type AnalysisResult struct {
	GeneratedAt     time.Time `json:"generated_at"`
	GracePeriodDays int       `json:"grace_period_days"`

	CurrentYearChurn    []CurrentYearChurnRow    `json:"current_year_churn"`
	YearlyChurn         []YearlyChurnRow         `json:"yearly_churn"`
	MonthlyPivot        *MonthlyPivot            `json:"monthly_pivot"`
	Waterfall           []WaterfallRow           `json:"waterfall"`
	ReactivationSummary []ReactivationSummaryRow `json:"reactivation_summary"`
	ChurnEvents         []ChurnEvent             `json:"churn_events"`
	ReactivationEvents  []ReactivationEvent      `json:"reactivation_events"`
	SalesPerformance    []SalesPerformanceRow    `json:"sales_performance"`
	SalesSummary        []SalesSummaryRow        `json:"sales_summary"`
	SalesKPIs           []SalesKPIRow            `json:"sales_kpis"`
	SalesRanking        []SalesRankingRow        `json:"sales_ranking"`
	SalesInsights       *SalesInsights           `json:"sales_insights,omitempty"`
	Stats               DatasetStats             `json:"stats"`
}
