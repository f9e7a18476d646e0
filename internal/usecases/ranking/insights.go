package ranking

import (
	"sort"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
)

// Quintile thresholds and the fixed heuristics below mirror the historical
// reporting: the buckets are score quantiles, and the named metric is the
// one a simple competing-values comparison picks, not a statistical
// attribution.
const (
	topQuantile    = 0.8
	bottomQuantile = 0.2
)

func generateInsights(rows []domain.SalesKPIRow) *domain.SalesInsights {
	insights := &domain.SalesInsights{}

	scores := make([]float64, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, row.PerformanceScore)
	}
	topThreshold := quantile(scores, topQuantile)
	bottomThreshold := quantile(scores, bottomQuantile)

	for _, row := range rows {
		if row.PerformanceScore >= topThreshold {
			insights.TopPerformers = append(insights.TopPerformers, domain.PerformerInsight{
				Salesperson: row.Salesperson,
				Score:       row.PerformanceScore,
				Metric:      bestMetric(row),
			})
		}
		if row.PerformanceScore <= bottomThreshold {
			insights.NeedAttention = append(insights.NeedAttention, domain.PerformerInsight{
				Salesperson: row.Salesperson,
				Score:       row.PerformanceScore,
				Metric:      weakMetric(row),
			})
		}
	}

	var churnSum, tenureSum, reactSum, upsellSum float64
	for _, row := range rows {
		churnSum += row.ChurnRate
		tenureSum += row.AvgTenureMonths
		reactSum += row.ReactivationRate
		upsellSum += row.UpsellingRate
	}
	n := float64(len(rows))

	if tenureSum/n > 24 {
		insights.Strengths = append(insights.Strengths, "Strong customer retention across the team (avg > 2 years)")
	}
	if upsellSum/n > 30 {
		insights.Strengths = append(insights.Strengths, "Good cross-selling across the team")
	}
	if reactSum/n > 20 {
		insights.Strengths = append(insights.Strengths, "Successful customer win-back")
	}

	if churnSum/n > 20 {
		insights.Opportunities = append(insights.Opportunities, "High average churn rate - strengthen customer retention")
	}
	if upsellSum/n < 20 {
		insights.Opportunities = append(insights.Opportunities, "Low upselling rate - cross-selling training recommended")
	}

	return insights
}

type metricCandidate struct {
	name  string
	value float64
}

// bestMetric names the strongest contribution of a top performer.
func bestMetric(row domain.SalesKPIRow) string {
	return pickMax([]metricCandidate{
		{"low churn", 100 - row.ChurnRate},
		{"long retention", row.AvgTenureMonths},
		{"high reactivation", row.ReactivationRate},
		{"strong upselling", row.UpsellingRate},
	})
}

// weakMetric names the dominant weakness of a bottom performer. Retention,
// reactivation and upselling are inverted against fixed baselines so all
// candidates compete on "bigger is worse".
func weakMetric(row domain.SalesKPIRow) string {
	return pickMax([]metricCandidate{
		{"high churn", row.ChurnRate},
		{"short retention", 60 - row.AvgTenureMonths},
		{"low reactivation", 50 - row.ReactivationRate},
		{"weak upselling", 50 - row.UpsellingRate},
	})
}

// pickMax returns the first candidate holding the maximum value, so ties
// resolve in the fixed declaration order.
func pickMax(candidates []metricCandidate) string {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.value > best.value {
			best = c
		}
	}
	return best.name
}

// quantile computes the q-quantile with linear interpolation between the
// closest ranks of the sorted values.
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)

	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
