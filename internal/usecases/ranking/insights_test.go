package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 4.2, quantile(values, 0.8), 1e-9)
	assert.InDelta(t, 1.8, quantile(values, 0.2), 1e-9)
	assert.Equal(t, 5.0, quantile(values, 1.0))
}

func TestQuantileSingleValue(t *testing.T) {
	assert.Equal(t, 42.0, quantile([]float64{42}, 0.8))
	assert.Equal(t, 42.0, quantile([]float64{42}, 0.2))
}

func TestQuantileDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	quantile(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestGenerateInsightsQuintileBuckets(t *testing.T) {
	rows := []domain.SalesKPIRow{
		{Salesperson: "Top", PerformanceScore: 90, ChurnRate: 5, AvgTenureMonths: 30, ReactivationRate: 10, UpsellingRate: 20},
		{Salesperson: "Mid", PerformanceScore: 50, ChurnRate: 15, AvgTenureMonths: 20, ReactivationRate: 10, UpsellingRate: 20},
		{Salesperson: "Low", PerformanceScore: 10, ChurnRate: 40, AvgTenureMonths: 5, ReactivationRate: 0, UpsellingRate: 0},
	}

	insights := generateInsights(rows)

	require.NotNil(t, insights)
	require.Len(t, insights.TopPerformers, 1)
	assert.Equal(t, "Top", insights.TopPerformers[0].Salesperson)
	assert.Equal(t, "low churn", insights.TopPerformers[0].Metric)

	require.Len(t, insights.NeedAttention, 1)
	assert.Equal(t, "Low", insights.NeedAttention[0].Salesperson)
	assert.Equal(t, "short retention", insights.NeedAttention[0].Metric)
}

func TestGenerateInsightsTeamObservations(t *testing.T) {
	// Averages: tenure 30, upselling 40, reactivation 25, churn 10.
	rows := []domain.SalesKPIRow{
		{Salesperson: "A", PerformanceScore: 80, ChurnRate: 10, AvgTenureMonths: 30, ReactivationRate: 25, UpsellingRate: 40},
		{Salesperson: "B", PerformanceScore: 70, ChurnRate: 10, AvgTenureMonths: 30, ReactivationRate: 25, UpsellingRate: 40},
	}

	insights := generateInsights(rows)

	assert.Contains(t, insights.Strengths, "Strong customer retention across the team (avg > 2 years)")
	assert.Contains(t, insights.Strengths, "Good cross-selling across the team")
	assert.Contains(t, insights.Strengths, "Successful customer win-back")
	assert.Empty(t, insights.Opportunities)
}

func TestGenerateInsightsOpportunities(t *testing.T) {
	// Averages: churn 30, upselling 10.
	rows := []domain.SalesKPIRow{
		{Salesperson: "A", PerformanceScore: 40, ChurnRate: 30, AvgTenureMonths: 10, ReactivationRate: 5, UpsellingRate: 10},
		{Salesperson: "B", PerformanceScore: 30, ChurnRate: 30, AvgTenureMonths: 10, ReactivationRate: 5, UpsellingRate: 10},
	}

	insights := generateInsights(rows)

	assert.Contains(t, insights.Opportunities, "High average churn rate - strengthen customer retention")
	assert.Contains(t, insights.Opportunities, "Low upselling rate - cross-selling training recommended")
	assert.Empty(t, insights.Strengths)
}

func TestPickMaxTieResolvesToFirst(t *testing.T) {
	name := pickMax([]metricCandidate{
		{"first", 10},
		{"second", 10},
	})
	assert.Equal(t, "first", name)
}
