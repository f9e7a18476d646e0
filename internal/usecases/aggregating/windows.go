// Package aggregating derives the time-bucketed churn tables from the
// prepared contract set and the journey events. Every aggregator is a pure
// function of its inputs and a reference time.
package aggregating

import (
	"sort"
	"time"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
)

// Window is an inclusive [Start, End] date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

// Day truncates a timestamp to midnight UTC. All window arithmetic runs on
// normalized days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LastTwelveFullMonths returns the twelve complete calendar months before the
// reference date, oldest first. The month containing the reference date is
// never included.
func LastTwelveFullMonths(ref time.Time) []Window {
	firstOfCurrent := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)

	months := make([]Window, 0, 12)
	for i := 12; i >= 1; i-- {
		start := firstOfCurrent.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)
		months = append(months, Window{Start: start, End: end})
	}
	return months
}

// YearWindow returns the calendar-year window, truncated to the reference
// date for the current (or a future) year.
func YearWindow(year int, now time.Time) Window {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if year >= now.Year() {
		end = Day(now)
	}
	return Window{Start: start, End: end}
}

// contractsByGroup partitions contracts per product group.
func contractsByGroup(contracts []domain.Contract) map[domain.ProductGroup][]domain.Contract {
	byGroup := make(map[domain.ProductGroup][]domain.Contract)
	for _, c := range contracts {
		byGroup[c.Group] = append(byGroup[c.Group], c)
	}
	return byGroup
}

// presentGroups returns the groups appearing in the data, alphabetically.
func presentGroups(contracts []domain.Contract) []domain.ProductGroup {
	seen := make(map[domain.ProductGroup]struct{})
	for _, c := range contracts {
		seen[c.Group] = struct{}{}
	}
	groups := make([]domain.ProductGroup, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups
}

// splitResellers separates a contract slice into regular and reseller rows.
func splitResellers(contracts []domain.Contract, resellers domain.ResellerSet) (regular, reseller []domain.Contract) {
	for _, c := range contracts {
		if resellers.Contains(c.CustomerID) {
			reseller = append(reseller, c)
		} else {
			regular = append(regular, c)
		}
	}
	return regular, reseller
}

// activeCustomerCount applies the active test at the customer level: a
// customer counts once when at least one of their contracts is active.
func activeCustomerCount(contracts []domain.Contract, at time.Time) int {
	active := make(map[int]struct{})
	for _, c := range contracts {
		if c.ActiveAt(at) {
			active[c.CustomerID] = struct{}{}
		}
	}
	return len(active)
}

// activeContractCount applies the active test at the contract level. Used
// for resellers, whose contracts are deliberately not deduplicated.
func activeContractCount(contracts []domain.Contract, at time.Time) int {
	count := 0
	for _, c := range contracts {
		if c.ActiveAt(at) {
			count++
		}
	}
	return count
}

// distinctCustomers counts unique customer ids in the slice.
func distinctCustomers(contracts []domain.Contract) int {
	seen := make(map[int]struct{})
	for _, c := range contracts {
		seen[c.CustomerID] = struct{}{}
	}
	return len(seen)
}

// churnedCustomersInWindow counts distinct customers with a churn event for
// the group inside the window.
func churnedCustomersInWindow(events []domain.ChurnEvent, group domain.ProductGroup, w Window) int {
	churned := make(map[int]struct{})
	for _, e := range events {
		if e.Group == group && w.Contains(e.ChurnDate) {
			churned[e.CustomerID] = struct{}{}
		}
	}
	return len(churned)
}

// endedContractsInWindow counts contracts whose end date falls in the window.
func endedContractsInWindow(contracts []domain.Contract, w Window) int {
	count := 0
	for _, c := range contracts {
		if c.End != nil && w.Contains(*c.End) {
			count++
		}
	}
	return count
}

// rate returns churned/active as a percentage, 0.0 when nothing is active.
func rate(churned, active int) float64 {
	if active == 0 {
		return 0.0
	}
	return float64(churned) / float64(active) * 100
}
