package reporting

import (
	"sync"
	"time"

	"github.com/edelweiss-digital/churn-analytics-api/infrastructure/dataset"
	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/aggregating"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/analyzing"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/ranking"
	"github.com/edelweiss-digital/churn-analytics-api/pkg/log"
)

// DefaultGracePeriodDays is the grace period applied when the caller does
// not choose one.
const DefaultGracePeriodDays = 90

// DefaultStartYear is the first calendar year of the yearly churn table.
const DefaultStartYear = 2020

// Options parameterize one analysis run. The zero value of StartYear,
// MinActiveCustomers and Now falls back to the defaults; GracePeriodDays is
// taken as-is so an explicit zero-day grace period stays possible.
type Options struct {
	GracePeriodDays    int
	StartYear          int
	Resellers          domain.ResellerSet
	Salespeople        []string
	MinActiveCustomers int
	Now                time.Time
}

// Service runs the full analysis pipeline and holds the latest result for
// the read and export endpoints and the scheduled refresh. Results never
// outlive the process.
type Service struct {
	mu     sync.RWMutex
	latest *domain.AnalysisResult
}

func NewService() *Service {
	return &Service{}
}

// Run executes one analysis over the given records: preparation, customer
// journey classification, the aggregators, and the sales performance tables.
// The computation is deterministic for a given (records, opts) pair.
func (s *Service) Run(records []dataset.Record, opts Options) (*domain.AnalysisResult, error) {
	if opts.GracePeriodDays < 0 {
		return nil, ErrNegativeGracePeriod
	}
	if opts.StartYear == 0 {
		opts.StartYear = DefaultStartYear
	}
	if opts.MinActiveCustomers == 0 {
		opts.MinActiveCustomers = ranking.MinActiveCustomersDefault
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}

	contracts, stats := analyzing.Prepare(records)
	log.L.WithFields(log.Fields{
		"total_rows":       stats.TotalRows,
		"non_subscription": stats.NonSubscription,
		"unknown_group":    stats.UnknownGroup,
		"invalid_start":    stats.InvalidStart,
		"retained":         stats.Retained,
	}).Info("analysis: dataset prepared")

	churnEvents, reactivations := analyzing.AnalyzeCustomerJourney(contracts, opts.Resellers, opts.GracePeriodDays)

	result := &domain.AnalysisResult{
		GeneratedAt:     opts.Now,
		GracePeriodDays: opts.GracePeriodDays,

		CurrentYearChurn:    aggregating.CurrentYearChurn(contracts, churnEvents, opts.Resellers, opts.Now),
		YearlyChurn:         aggregating.YearlyChurn(contracts, churnEvents, opts.Resellers, opts.StartYear, opts.Now),
		MonthlyPivot:        aggregating.MonthlyChurn(contracts, opts.Now),
		Waterfall:           aggregating.Waterfall(contracts, churnEvents, opts.Resellers, opts.Now.Year(), opts.Now),
		ReactivationSummary: aggregating.ReactivationSummary(reactivations),
		ChurnEvents:         churnEvents,
		ReactivationEvents:  reactivations,
		Stats:               datasetStats(contracts, opts.Resellers),
	}

	if hasSalespersonData(contracts) {
		result.SalesPerformance, result.SalesSummary = ranking.Performance(contracts, opts.Salespeople, opts.Now)
		result.SalesKPIs, result.SalesRanking, result.SalesInsights = ranking.ExtendedPerformance(
			contracts,
			reactivations,
			opts.Salespeople,
			opts.MinActiveCustomers,
			opts.Now,
		)
	}

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	log.L.WithFields(log.Fields{
		"churn_events":  len(churnEvents),
		"reactivations": len(reactivations),
		"customers":     result.Stats.TotalCustomers,
	}).Info("analysis: run completed")

	return result, nil
}

// Latest returns the most recent result, or nil when no run has completed.
func (s *Service) Latest() *domain.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// hasSalespersonData reports whether any contract carries an assignee. A
// dataset without the column produces no sales tables rather than an error.
func hasSalespersonData(contracts []domain.Contract) bool {
	for _, c := range contracts {
		if c.Salesperson != "" {
			return true
		}
	}
	return false
}

func datasetStats(contracts []domain.Contract, resellers domain.ResellerSet) domain.DatasetStats {
	customers := make(map[int]struct{})
	resellerCustomers := make(map[int]struct{})
	for _, c := range contracts {
		customers[c.CustomerID] = struct{}{}
		if resellers.Contains(c.CustomerID) {
			resellerCustomers[c.CustomerID] = struct{}{}
		}
	}

	return domain.DatasetStats{
		TotalCustomers:   len(customers),
		RegularCustomers: len(customers) - len(resellerCustomers),
		Resellers:        len(resellerCustomers),
	}
}
