package aggregating

import (
	"sort"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/utils"
)

// ReactivationSummary aggregates reactivation events per product group:
// how many customers paused and came back, and how long the pauses lasted
// on average.
func ReactivationSummary(events []domain.ReactivationEvent) []domain.ReactivationSummaryRow {
	type groupAgg struct {
		count   int
		gapDays int
	}

	byGroup := make(map[domain.ProductGroup]*groupAgg)
	for _, e := range events {
		agg, ok := byGroup[e.Group]
		if !ok {
			agg = &groupAgg{}
			byGroup[e.Group] = agg
		}
		agg.count++
		agg.gapDays += e.GapDays
	}

	groups := make([]domain.ProductGroup, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })

	rows := make([]domain.ReactivationSummaryRow, 0, len(groups))
	for _, g := range groups {
		agg := byGroup[g]
		rows = append(rows, domain.ReactivationSummaryRow{
			Group:      g,
			Count:      agg.count,
			AvgGapDays: utils.RoundWithOneDecimalPlace(float64(agg.gapDays) / float64(agg.count)),
		})
	}

	return rows
}
