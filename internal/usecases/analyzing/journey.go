package analyzing

import (
	"sort"
	"time"

	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/utils"
)

type journeyKey struct {
	customerID int
	group      domain.ProductGroup
}

// AnalyzeCustomerJourney walks every (customer, product group) contract
// history and classifies each contract end as either a reactivation (a later
// contract starts within the grace period) or a true churn. Resellers never
// enter this analysis; still-running contracts produce no event.
//
// Within a partition contracts are ordered by start date, ties broken by the
// original spreadsheet row, and the follow-on search only looks at contracts
// later in that order. The tie-break keeps same-day starts deterministic.
func AnalyzeCustomerJourney(
	contracts []domain.Contract,
	resellers domain.ResellerSet,
	gracePeriodDays int,
) ([]domain.ChurnEvent, []domain.ReactivationEvent) {
	partitions := make(map[journeyKey][]domain.Contract)
	for _, c := range contracts {
		if resellers.Contains(c.CustomerID) {
			continue
		}
		key := journeyKey{customerID: c.CustomerID, group: c.Group}
		partitions[key] = append(partitions[key], c)
	}

	keys := make([]journeyKey, 0, len(partitions))
	for key := range partitions {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].customerID != keys[j].customerID {
			return keys[i].customerID < keys[j].customerID
		}
		return keys[i].group < keys[j].group
	})

	var churnEvents []domain.ChurnEvent
	var reactivations []domain.ReactivationEvent

	for _, key := range keys {
		history := partitions[key]
		sort.SliceStable(history, func(i, j int) bool {
			if !history[i].Start.Equal(history[j].Start) {
				return history[i].Start.Before(history[j].Start)
			}
			return history[i].Row < history[j].Row
		})

		for i, contract := range history {
			if contract.End == nil {
				continue
			}
			end := *contract.End

			// Earliest qualifying follow-on, searched by sort position so an
			// already-passed contract is never re-matched.
			var nextStart *time.Time
			for j := i + 1; j < len(history); j++ {
				start := history[j].Start
				if !start.After(end) {
					continue
				}
				if nextStart == nil || start.Before(*nextStart) {
					s := start
					nextStart = &s
				}
			}

			if nextStart == nil {
				churnEvents = append(churnEvents, domain.ChurnEvent{
					CustomerID: key.customerID,
					Group:      key.group,
					ChurnDate:  end,
					Reason:     domain.ChurnReasonNoFollowOn,
				})
				continue
			}

			gapDays := utils.DaysBetween(end, *nextStart)
			if gapDays <= gracePeriodDays {
				reactivations = append(reactivations, domain.ReactivationEvent{
					CustomerID: key.customerID,
					Group:      key.group,
					End:        end,
					NextStart:  *nextStart,
					GapDays:    gapDays,
				})
			} else {
				churnEvents = append(churnEvents, domain.ChurnEvent{
					CustomerID: key.customerID,
					Group:      key.group,
					ChurnDate:  end,
					Reason:     domain.ChurnReasonLongGap,
				})
			}
		}
	}

	return churnEvents, reactivations
}
