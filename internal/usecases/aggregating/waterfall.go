package aggregating

import (
	"time"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
)

// Waterfall decomposes customer movement per product group over one year:
// customers active at year start, new customers acquired in the window,
// total churned (journey events for regulars, contract-level for resellers)
// and the derived end count. Start + New - Churned == End holds exactly.
func Waterfall(
	contracts []domain.Contract,
	churnEvents []domain.ChurnEvent,
	resellers domain.ResellerSet,
	year int,
	now time.Time,
) []domain.WaterfallRow {
	window := YearWindow(year, now)
	byGroup := contractsByGroup(contracts)

	var rows []domain.WaterfallRow
	for _, group := range domain.RelevantGroups() {
		groupContracts := byGroup[group]
		if len(groupContracts) == 0 {
			continue
		}

		startCustomers := activeCustomerCount(groupContracts, window.Start)

		newCustomers := make(map[int]struct{})
		for _, c := range groupContracts {
			if window.Contains(c.Start) {
				newCustomers[c.CustomerID] = struct{}{}
			}
		}

		churned := churnedCustomersInWindow(churnEvents, group, window)
		_, reseller := splitResellers(groupContracts, resellers)
		churned += endedContractsInWindow(reseller, window)

		rows = append(rows, domain.WaterfallRow{
			Group:          group,
			StartCustomers: startCustomers,
			NewCustomers:   len(newCustomers),
			Churned:        churned,
			EndCustomers:   startCustomers + len(newCustomers) - churned,
		})
	}

	return rows
}
