// Package ranking slices churn and activity by assigned salesperson and
// layers the extended KPIs, the weighted performance score and the dense
// ranking on top.
package ranking

import (
	"sort"
	"time"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/utils"
)

// Unassigned is the bucket for contracts without an assigned salesperson.
const Unassigned = "Nicht zugewiesen"

func salespersonOf(c domain.Contract) string {
	if c.Salesperson == "" {
		return Unassigned
	}
	return c.Salesperson
}

// bySalesperson partitions contracts per (normalized) salesperson, applying
// the optional selection filter, and returns the names alphabetically.
func bySalesperson(contracts []domain.Contract, selected []string) (map[string][]domain.Contract, []string) {
	allowed := make(map[string]struct{}, len(selected))
	for _, name := range selected {
		allowed[name] = struct{}{}
	}

	partitions := make(map[string][]domain.Contract)
	for _, c := range contracts {
		name := salespersonOf(c)
		if len(allowed) > 0 {
			if _, ok := allowed[name]; !ok {
				continue
			}
		}
		partitions[name] = append(partitions[name], c)
	}

	names := make([]string, 0, len(partitions))
	for name := range partitions {
		names = append(names, name)
	}
	sort.Strings(names)

	return partitions, names
}

// currentYearCounts applies the simple salesperson counting rules for the
// window starting Jan 1 of the current year: distinct customers active at the
// year start, distinct customers with any contract end since, and distinct
// customers acquired since.
func currentYearCounts(contracts []domain.Contract, yearStart time.Time) (active, lost, acquired int) {
	activeSet := make(map[int]struct{})
	lostSet := make(map[int]struct{})
	newSet := make(map[int]struct{})
	for _, c := range contracts {
		if c.ActiveAt(yearStart) {
			activeSet[c.CustomerID] = struct{}{}
		}
		if c.End != nil && !c.End.Before(yearStart) {
			lostSet[c.CustomerID] = struct{}{}
		}
		if !c.Start.Before(yearStart) {
			newSet[c.CustomerID] = struct{}{}
		}
	}
	return len(activeSet), len(lostSet), len(newSet)
}

// Performance computes the basic churn slice per salesperson and product
// group for the current year, plus the per-salesperson summary ordered by
// churn rate ascending. The lost-customer count here is deliberately the
// plain contract-level view, not the journey-corrected one: it mirrors how
// the sales numbers were historically reported.
func Performance(
	contracts []domain.Contract,
	selected []string,
	now time.Time,
) ([]domain.SalesPerformanceRow, []domain.SalesSummaryRow) {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	partitions, names := bySalesperson(contracts, selected)

	var detail []domain.SalesPerformanceRow
	var summary []domain.SalesSummaryRow

	for _, name := range names {
		byGroup := make(map[domain.ProductGroup][]domain.Contract)
		for _, c := range partitions[name] {
			byGroup[c.Group] = append(byGroup[c.Group], c)
		}

		var totalActive, totalLost, totalNew int
		for _, group := range domain.RelevantGroups() {
			groupContracts := byGroup[group]
			if len(groupContracts) == 0 {
				continue
			}

			active, lost, acquired := currentYearCounts(groupContracts, yearStart)
			totalActive += active
			totalLost += lost
			totalNew += acquired

			detail = append(detail, domain.SalesPerformanceRow{
				Salesperson:     name,
				Group:           group,
				ActiveCustomers: active,
				NewCustomers:    acquired,
				LostCustomers:   lost,
				ChurnRate:       churnRate(lost, active),
			})
		}

		summary = append(summary, domain.SalesSummaryRow{
			Salesperson:     name,
			ActiveCustomers: totalActive,
			NewCustomers:    totalNew,
			LostCustomers:   totalLost,
			ChurnRate:       churnRate(totalLost, totalActive),
			NetGrowth:       totalNew - totalLost,
		})
	}

	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].ChurnRate < summary[j].ChurnRate
	})

	return detail, summary
}

func churnRate(lost, active int) float64 {
	if active == 0 {
		return 0.0
	}
	return utils.RoundWithOneDecimalPlace(float64(lost) / float64(active) * 100)
}
