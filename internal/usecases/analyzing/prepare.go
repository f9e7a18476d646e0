package analyzing

import (
	"strconv"
	"strings"

	"github.com/edelweiss-digital/churn-analytics-api/infrastructure/dataset"
	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/utils"
)

// subscriptionValues are the flag spellings that mark a row as a subscription.
var subscriptionValues = map[string]struct{}{
	"ja":   {},
	"yes":  {},
	"true": {},
	"1":    {},
}

// PrepareStats counts rows excluded during preparation. Exclusions are
// silent; the counts keep data-quality problems visible in the logs.
type PrepareStats struct {
	TotalRows       int `json:"total_rows"`
	NonSubscription int `json:"non_subscription"`
	UnknownGroup    int `json:"unknown_group"`
	InvalidStart    int `json:"invalid_start"`
	Retained        int `json:"retained"`
}

// Prepare turns raw spreadsheet records into typed contracts: subscription
// filter first, then group mapping and the relevant-group filter, and only
// then date parsing and customer id coercion. Rows with an unparseable start
// date are excluded; an unparseable end date counts as still running; an
// unparseable customer id is coerced to 0, never an error.
func Prepare(records []dataset.Record) ([]domain.Contract, PrepareStats) {
	stats := PrepareStats{TotalRows: len(records)}
	contracts := make([]domain.Contract, 0, len(records))

	for _, rec := range records {
		if !isSubscription(rec.Subscription) {
			stats.NonSubscription++
			continue
		}

		group := MapGroup(rec.Category, rec.Product)
		if !group.IsRelevant() {
			stats.UnknownGroup++
			continue
		}

		start, err := utils.ParseDate(rec.Start)
		if err != nil || start == nil {
			stats.InvalidStart++
			continue
		}

		// A broken end cell means we cannot tell the contract ended; treat
		// it as still running rather than failing the row.
		end, err := utils.ParseDate(rec.End)
		if err != nil {
			end = nil
		}

		customerID, err := strconv.Atoi(rec.CustomerID)
		if err != nil {
			customerID = 0
		}

		contracts = append(contracts, domain.Contract{
			CustomerID:  customerID,
			Category:    rec.Category,
			Product:     rec.Product,
			Group:       group,
			Start:       *start,
			End:         end,
			Salesperson: strings.TrimSpace(rec.Salesperson),
			Row:         rec.Row,
		})
	}

	stats.Retained = len(contracts)
	return contracts, stats
}

func isSubscription(flag string) bool {
	_, ok := subscriptionValues[strings.ToLower(strings.TrimSpace(flag))]
	return ok
}
