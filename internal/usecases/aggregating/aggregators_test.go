package aggregating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endDate(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func websiteContract(customerID int, start time.Time, end *time.Time) domain.Contract {
	return domain.Contract{
		CustomerID: customerID,
		Group:      domain.GroupWebsite,
		Start:      start,
		End:        end,
	}
}

var noResellers = domain.NewResellerSet(nil)

func TestMonthlyChurnPivot(t *testing.T) {
	now := day(2024, 3, 10)
	contracts := []domain.Contract{
		websiteContract(1, day(2023, 1, 1), endDate(2023, 6, 15)),
		websiteContract(2, day(2023, 8, 20), nil),
	}

	pivot := MonthlyChurn(contracts, now)

	require.Len(t, pivot.Months, 12)
	assert.Equal(t, "2023-03", pivot.Months[0])
	assert.Equal(t, "2024-02", pivot.Months[11])
	assert.Equal(t, []domain.ProductGroup{domain.GroupWebsite}, pivot.Groups)

	// June: one active contract at month start, it ends inside the month.
	assert.Equal(t, 100.0, pivot.Rate("2023-06", domain.GroupWebsite))
	// July: nothing active, rate stays zero rather than dividing by zero.
	assert.Equal(t, 0.0, pivot.Rate("2023-07", domain.GroupWebsite))
	// September: the open contract is active, nothing ends.
	assert.Equal(t, 0.0, pivot.Rate("2023-09", domain.GroupWebsite))
}

func TestMonthlyChurnCountsResellerContracts(t *testing.T) {
	now := day(2024, 3, 10)
	resellerContract := websiteContract(1902101, day(2023, 1, 1), endDate(2023, 6, 15))

	pivot := MonthlyChurn([]domain.Contract{resellerContract}, now)

	// The monthly baseline makes no reseller distinction.
	assert.Equal(t, 100.0, pivot.Rate("2023-06", domain.GroupWebsite))
}

func TestYearlyChurn(t *testing.T) {
	now := day(2024, 6, 15)
	resellers := domain.NewResellerSet(map[int]string{1902101: "Onco"})

	contracts := []domain.Contract{
		websiteContract(1, day(2022, 1, 1), endDate(2023, 6, 30)),
		websiteContract(2, day(2022, 5, 1), nil),
		websiteContract(1902101, day(2022, 1, 1), endDate(2023, 3, 1)),
	}
	churnEvents := []domain.ChurnEvent{
		{CustomerID: 1, Group: domain.GroupWebsite, ChurnDate: day(2023, 6, 30), Reason: domain.ChurnReasonLongGap},
	}

	rows := YearlyChurn(contracts, churnEvents, resellers, 2023, now)

	// Only Website has data, so only Website rows appear, one per year.
	require.Len(t, rows, 2)

	assert.Equal(t, 2023, rows[0].Year)
	assert.Equal(t, domain.GroupWebsite, rows[0].Group)
	assert.Equal(t, 2, rows[0].ActiveCustomers)
	assert.Equal(t, 1, rows[0].ActiveResellers)
	assert.Equal(t, 3, rows[0].TotalActive)
	assert.Equal(t, 1, rows[0].ChurnedCustomers)
	assert.Equal(t, 1, rows[0].ChurnedResellers)
	assert.Equal(t, 2, rows[0].TotalChurned)
	assert.Equal(t, 66.7, rows[0].ChurnRate)

	assert.Equal(t, 2024, rows[1].Year)
	assert.Equal(t, 1, rows[1].TotalActive)
	assert.Equal(t, 0, rows[1].TotalChurned)
	assert.Equal(t, 0.0, rows[1].ChurnRate)
}

func TestYearlyChurnZeroActiveYieldsZeroRate(t *testing.T) {
	now := day(2024, 6, 15)
	contracts := []domain.Contract{
		// Starts mid-2024, so nothing is active at either year start.
		websiteContract(1, day(2024, 3, 1), nil),
	}

	rows := YearlyChurn(contracts, nil, noResellers, 2023, now)

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 0.0, row.ChurnRate)
	}
}

func TestCurrentYearChurnEmitsZeroRowsForEmptyGroups(t *testing.T) {
	now := day(2024, 6, 15)
	contracts := []domain.Contract{
		websiteContract(1, day(2023, 1, 1), nil),
	}

	rows := CurrentYearChurn(contracts, nil, noResellers, now)

	require.Len(t, rows, len(domain.RelevantGroups()))
	for _, row := range rows {
		if row.Group == domain.GroupWebsite {
			assert.Equal(t, 1, row.ActiveCustomers)
			continue
		}
		assert.Equal(t, 0, row.ActiveCustomers)
		assert.Equal(t, 0, row.Churned)
		assert.Equal(t, 0.0, row.ChurnRate)
	}
}

func TestCurrentYearChurnHasNoUpperBound(t *testing.T) {
	now := day(2024, 6, 15)
	contracts := []domain.Contract{
		websiteContract(1, day(2023, 1, 1), nil),
		websiteContract(2, day(2023, 1, 1), endDate(2024, 12, 31)),
	}
	churnEvents := []domain.ChurnEvent{
		// A churn dated after today still counts for the current year.
		{CustomerID: 2, Group: domain.GroupWebsite, ChurnDate: day(2024, 12, 31), Reason: domain.ChurnReasonNoFollowOn},
	}

	rows := CurrentYearChurn(contracts, churnEvents, noResellers, now)

	var website domain.CurrentYearChurnRow
	for _, row := range rows {
		if row.Group == domain.GroupWebsite {
			website = row
		}
	}
	assert.Equal(t, 2, website.ActiveCustomers)
	assert.Equal(t, 1, website.Churned)
	assert.Equal(t, 50.0, website.ChurnRate)
}

func TestCurrentYearChurnIgnoresPriorYearEvents(t *testing.T) {
	now := day(2024, 6, 15)
	contracts := []domain.Contract{
		websiteContract(1, day(2022, 1, 1), nil),
	}
	churnEvents := []domain.ChurnEvent{
		{CustomerID: 9, Group: domain.GroupWebsite, ChurnDate: day(2023, 12, 31), Reason: domain.ChurnReasonNoFollowOn},
	}

	rows := CurrentYearChurn(contracts, churnEvents, noResellers, now)

	for _, row := range rows {
		if row.Group == domain.GroupWebsite {
			assert.Equal(t, 0, row.Churned)
		}
	}
}

func TestWaterfallIdentity(t *testing.T) {
	now := day(2024, 6, 15)
	resellers := domain.NewResellerSet(map[int]string{1902101: "Onco"})

	contracts := []domain.Contract{
		websiteContract(1, day(2023, 1, 1), endDate(2024, 2, 1)),
		websiteContract(2, day(2023, 5, 1), nil),
		websiteContract(3, day(2024, 3, 1), nil),
		websiteContract(1902101, day(2023, 1, 1), endDate(2024, 4, 1)),
		{CustomerID: 4, Group: domain.GroupSEO, Start: day(2024, 2, 1)},
	}
	churnEvents := []domain.ChurnEvent{
		{CustomerID: 1, Group: domain.GroupWebsite, ChurnDate: day(2024, 2, 1), Reason: domain.ChurnReasonNoFollowOn},
	}

	rows := Waterfall(contracts, churnEvents, resellers, 2024, now)

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, row.EndCustomers, row.StartCustomers+row.NewCustomers-row.Churned,
			"waterfall identity must hold for %s", row.Group)
	}

	website := rows[0]
	assert.Equal(t, domain.GroupWebsite, website.Group)
	assert.Equal(t, 3, website.StartCustomers) // customers 1, 2 and the reseller
	assert.Equal(t, 1, website.NewCustomers)   // customer 3
	assert.Equal(t, 2, website.Churned)        // journey churn + reseller contract end
	assert.Equal(t, 2, website.EndCustomers)
}

func TestReactivationSummary(t *testing.T) {
	events := []domain.ReactivationEvent{
		{CustomerID: 1, Group: domain.GroupWebsite, GapDays: 10},
		{CustomerID: 2, Group: domain.GroupWebsite, GapDays: 21},
		{CustomerID: 3, Group: domain.GroupSEO, GapDays: 30},
	}

	rows := ReactivationSummary(events)

	require.Len(t, rows, 2)
	assert.Equal(t, domain.GroupSEO, rows[0].Group)
	assert.Equal(t, 1, rows[0].Count)
	assert.Equal(t, 30.0, rows[0].AvgGapDays)
	assert.Equal(t, domain.GroupWebsite, rows[1].Group)
	assert.Equal(t, 2, rows[1].Count)
	assert.Equal(t, 15.5, rows[1].AvgGapDays)
}

func TestReactivationSummaryEmpty(t *testing.T) {
	assert.Empty(t, ReactivationSummary(nil))
}
