package ranking

import (
	"sort"
	"time"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/utils"
)

// MinActiveCustomersDefault is the minimum active-customer count below which
// a salesperson is excluded from the extended ranking.
const MinActiveCustomersDefault = 50

// avgDaysPerMonth converts contract durations in days to months.
const avgDaysPerMonth = 30.44

// Performance score weights. Low churn dominates; growth is a small bonus.
const (
	weightChurn        = 0.3
	weightTenure       = 0.2
	weightReactivation = 0.2
	weightUpselling    = 0.2
	weightGrowth       = 0.1
)

// ExtendedPerformance computes the full KPI set per salesperson, the weighted
// performance score, the dense rank and the quintile insights. Salespeople
// with fewer active customers than minActive are excluded entirely so
// low-volume assignees do not distort the ranking.
func ExtendedPerformance(
	contracts []domain.Contract,
	reactivations []domain.ReactivationEvent,
	selected []string,
	minActive int,
	now time.Time,
) ([]domain.SalesKPIRow, []domain.SalesRankingRow, *domain.SalesInsights) {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	partitions, names := bySalesperson(contracts, selected)

	reactivated := make(map[int]struct{}, len(reactivations))
	for _, e := range reactivations {
		reactivated[e.CustomerID] = struct{}{}
	}

	var rows []domain.SalesKPIRow
	for _, name := range names {
		sellerContracts := partitions[name]

		active, lost, acquired := currentYearCounts(sellerContracts, yearStart)
		if active < minActive {
			continue
		}

		churn := churnRate(lost, active)
		tenure := avgTenureMonths(sellerContracts, now)
		reactivation := reactivationQuote(sellerContracts, reactivated)
		upselling, avgProducts, premium := productMetrics(sellerContracts)
		netGrowth := acquired - lost

		score := weightChurn*(100-churn) +
			weightTenure*tenure +
			weightReactivation*reactivation +
			weightUpselling*upselling +
			weightGrowth*(float64(netGrowth)/float64(active)*100)

		rows = append(rows, domain.SalesKPIRow{
			Salesperson:        name,
			ActiveCustomers:    active,
			NewCustomers:       acquired,
			LostCustomers:      lost,
			ChurnRate:          churn,
			AvgTenureMonths:    tenure,
			ReactivationRate:   reactivation,
			UpsellingRate:      upselling,
			AvgProductsPerCust: avgProducts,
			PremiumRate:        premium,
			NetGrowth:          netGrowth,
			PerformanceScore:   utils.RoundWithOneDecimalPlace(score),
		})
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	assignDenseRanks(rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })

	ranking := make([]domain.SalesRankingRow, 0, len(rows))
	for _, row := range rows {
		ranking = append(ranking, domain.SalesRankingRow{
			Rank:             row.Rank,
			Salesperson:      row.Salesperson,
			ActiveCustomers:  row.ActiveCustomers,
			ChurnRate:        row.ChurnRate,
			AvgTenureMonths:  row.AvgTenureMonths,
			PerformanceScore: row.PerformanceScore,
		})
	}

	return rows, ranking, generateInsights(rows)
}

// assignDenseRanks ranks by performance score descending: tied scores share
// a rank and the next distinct score gets the following rank, without gaps.
func assignDenseRanks(rows []domain.SalesKPIRow) {
	distinct := make(map[float64]struct{}, len(rows))
	for _, row := range rows {
		distinct[row.PerformanceScore] = struct{}{}
	}

	scores := make([]float64, 0, len(distinct))
	for score := range distinct {
		scores = append(scores, score)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	rankOf := make(map[float64]int, len(scores))
	for i, score := range scores {
		rankOf[score] = i + 1
	}

	for i := range rows {
		rows[i].Rank = rankOf[rows[i].PerformanceScore]
	}
}

// avgTenureMonths is the mean, across the salesperson's customers, of each
// customer's mean contract duration. Ended contracts use their actual span,
// running ones their span to date.
func avgTenureMonths(contracts []domain.Contract, now time.Time) float64 {
	type customerAgg struct {
		days  int
		count int
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	byCustomer := make(map[int]*customerAgg)
	for _, c := range contracts {
		until := today
		if c.End != nil {
			until = *c.End
		}
		agg, ok := byCustomer[c.CustomerID]
		if !ok {
			agg = &customerAgg{}
			byCustomer[c.CustomerID] = agg
		}
		agg.days += utils.DaysBetween(c.Start, until)
		agg.count++
	}

	if len(byCustomer) == 0 {
		return 0
	}

	var sumOfMeans float64
	for _, agg := range byCustomer {
		sumOfMeans += float64(agg.days) / float64(agg.count)
	}
	avgDays := sumOfMeans / float64(len(byCustomer))

	return utils.RoundWithOneDecimalPlace(avgDays / avgDaysPerMonth)
}

// reactivationQuote relates the salesperson's reactivated customers to their
// customers with at least one ended contract.
func reactivationQuote(contracts []domain.Contract, reactivated map[int]struct{}) float64 {
	customersReactivated := make(map[int]struct{})
	customersChurned := make(map[int]struct{})
	for _, c := range contracts {
		if _, ok := reactivated[c.CustomerID]; ok {
			customersReactivated[c.CustomerID] = struct{}{}
		}
		if c.End != nil {
			customersChurned[c.CustomerID] = struct{}{}
		}
	}

	if len(customersChurned) == 0 {
		return 0.0
	}

	return utils.RoundWithOneDecimalPlace(float64(len(customersReactivated)) / float64(len(customersChurned)) * 100)
}

// productMetrics derives the cross-sell figures: the share of customers with
// more than one distinct product group, the mean group count per customer,
// and the share subscribed to the premium Superkombis group.
func productMetrics(contracts []domain.Contract) (upselling, avgProducts, premium float64) {
	groupsPerCustomer := make(map[int]map[domain.ProductGroup]struct{})
	premiumCustomers := make(map[int]struct{})
	for _, c := range contracts {
		groups, ok := groupsPerCustomer[c.CustomerID]
		if !ok {
			groups = make(map[domain.ProductGroup]struct{})
			groupsPerCustomer[c.CustomerID] = groups
		}
		groups[c.Group] = struct{}{}
		if c.Group == domain.GroupSuperkombis {
			premiumCustomers[c.CustomerID] = struct{}{}
		}
	}

	total := len(groupsPerCustomer)
	if total == 0 {
		return 0, 0, 0
	}

	multiProduct := 0
	groupCount := 0
	for _, groups := range groupsPerCustomer {
		groupCount += len(groups)
		if len(groups) > 1 {
			multiProduct++
		}
	}

	upselling = utils.RoundWithOneDecimalPlace(float64(multiProduct) / float64(total) * 100)
	avgProducts = utils.RoundWithTwoDecimalPlace(float64(groupCount) / float64(total))
	if len(premiumCustomers) > 0 {
		premium = utils.RoundWithOneDecimalPlace(float64(len(premiumCustomers)) / float64(total) * 100)
	}

	return upselling, avgProducts, premium
}
