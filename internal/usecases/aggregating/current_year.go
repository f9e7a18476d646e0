package aggregating

import (
	"time"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/utils"
)

// CurrentYearChurn is the headline metric: churn per product group for the
// window [Jan 1 of the current year, today]. Unlike the yearly table, every
// relevant group gets a row, zeroed when it has no data. Churn is counted
// from the year start with no upper bound; events cannot postdate the run.
func CurrentYearChurn(
	contracts []domain.Contract,
	churnEvents []domain.ChurnEvent,
	resellers domain.ResellerSet,
	now time.Time,
) []domain.CurrentYearChurnRow {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	byGroup := contractsByGroup(contracts)

	rows := make([]domain.CurrentYearChurnRow, 0, len(domain.RelevantGroups()))
	for _, group := range domain.RelevantGroups() {
		groupContracts := byGroup[group]
		if len(groupContracts) == 0 {
			rows = append(rows, domain.CurrentYearChurnRow{Group: group})
			continue
		}

		regular, reseller := splitResellers(groupContracts, resellers)

		totalActive := activeCustomerCount(regular, yearStart) + activeContractCount(reseller, yearStart)

		churnedCustomers := make(map[int]struct{})
		for _, e := range churnEvents {
			if e.Group == group && !e.ChurnDate.Before(yearStart) {
				churnedCustomers[e.CustomerID] = struct{}{}
			}
		}
		churnedResellers := 0
		for _, c := range reseller {
			if c.End != nil && !c.End.Before(yearStart) {
				churnedResellers++
			}
		}
		totalChurned := len(churnedCustomers) + churnedResellers

		rows = append(rows, domain.CurrentYearChurnRow{
			Group:           group,
			ActiveCustomers: totalActive,
			Churned:         totalChurned,
			ChurnRate:       utils.RoundWithOneDecimalPlace(rate(totalChurned, totalActive)),
		})
	}

	return rows
}
