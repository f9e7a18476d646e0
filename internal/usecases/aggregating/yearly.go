package aggregating

import (
	"time"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/utils"
)

// YearlyChurn computes calendar-year churn rates per product group from the
// configured start year through the current year (truncated to today).
// Regular customers use the journey-based churn events with the
// customer-level active test; resellers use plain contract-level counting.
// Groups without any contracts are skipped.
func YearlyChurn(
	contracts []domain.Contract,
	churnEvents []domain.ChurnEvent,
	resellers domain.ResellerSet,
	startYear int,
	now time.Time,
) []domain.YearlyChurnRow {
	byGroup := contractsByGroup(contracts)

	var rows []domain.YearlyChurnRow
	for year := startYear; year <= now.Year(); year++ {
		window := YearWindow(year, now)

		for _, group := range domain.RelevantGroups() {
			groupContracts := byGroup[group]
			if len(groupContracts) == 0 {
				continue
			}

			regular, reseller := splitResellers(groupContracts, resellers)

			activeCustomers := activeCustomerCount(regular, window.Start)
			activeResellers := activeContractCount(reseller, window.Start)
			churnedCustomers := churnedCustomersInWindow(churnEvents, group, window)
			churnedResellers := endedContractsInWindow(reseller, window)

			totalActive := activeCustomers + activeResellers
			totalChurned := churnedCustomers + churnedResellers

			rows = append(rows, domain.YearlyChurnRow{
				Year:             year,
				Group:            group,
				ActiveCustomers:  activeCustomers,
				ActiveResellers:  activeResellers,
				TotalActive:      totalActive,
				ChurnedCustomers: churnedCustomers,
				ChurnedResellers: churnedResellers,
				TotalChurned:     totalChurned,
				ChurnRate:        utils.RoundWithOneDecimalPlace(rate(totalChurned, totalActive)),
			})
		}
	}

	return rows
}
