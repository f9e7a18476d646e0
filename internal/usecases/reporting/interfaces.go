package reporting

import (
	"io"

	"github.com/edelweiss-digital/churn-analytics-api/infrastructure/dataset"
	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/reporting_mock.go -package=mocks

// Runner executes analysis runs and keeps the most recent result.
type Runner interface {
	Run(records []dataset.Record, opts Options) (*domain.AnalysisResult, error)
	Latest() *domain.AnalysisResult
}

// DatasetLoader reads raw dataset records from an uploaded workbook stream.
type DatasetLoader interface {
	Load(r io.Reader) ([]dataset.Record, error)
}

// FileDatasetLoader reads raw dataset records from a workbook on disk.
type FileDatasetLoader interface {
	LoadFile(path string) ([]dataset.Record, error)
}
