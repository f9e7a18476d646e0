package aggregating

import (
	"time"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/utils"
)

const monthKeyLayout = "2006-01"

// MonthlyChurn computes the contract-level churn rate per product group for
// the trailing twelve full calendar months. This is the uncorrected baseline:
// every contract end counts as churn regardless of reactivation, and reseller
// contracts are included like any other row.
func MonthlyChurn(contracts []domain.Contract, now time.Time) *domain.MonthlyPivot {
	months := LastTwelveFullMonths(Day(now))
	groups := presentGroups(contracts)
	byGroup := contractsByGroup(contracts)

	pivot := &domain.MonthlyPivot{
		Months: make([]string, 0, len(months)),
		Groups: groups,
		Rates:  make(map[string]map[domain.ProductGroup]float64, len(months)),
	}

	for _, w := range months {
		key := w.Start.Format(monthKeyLayout)
		pivot.Months = append(pivot.Months, key)
		pivot.Rates[key] = make(map[domain.ProductGroup]float64, len(groups))

		for _, group := range groups {
			groupContracts := byGroup[group]
			active := activeContractCount(groupContracts, w.Start)
			churned := endedContractsInWindow(groupContracts, w)
			pivot.Rates[key][group] = utils.RoundWithOneDecimalPlace(rate(churned, active))
		}
	}

	return pivot
}
