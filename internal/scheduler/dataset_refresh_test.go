package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/edelweiss-digital/churn-analytics-api/infrastructure/dataset"
	"github.com/edelweiss-digital/churn-analytics-api/internal/config"
	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/reporting"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/reporting/mocks"
)

func testConfig(enabled bool) *config.Config {
	return &config.Config{
		DatasetRefresh: config.DatasetRefresh{
			CronSchedule: "0 5 * * *",
			DatasetPath:  "/data/dataset.xlsx",
			Enabled:      enabled,
		},
	}
}

func TestRefreshDataset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	loader := mocks.NewMockFileDatasetLoader(ctrl)

	records := []dataset.Record{{Row: 0, Subscription: "ja"}}
	opts := reporting.Options{GracePeriodDays: 90}

	loader.EXPECT().LoadFile("/data/dataset.xlsx").Return(records, nil)
	runner.EXPECT().Run(records, opts).Return(&domain.AnalysisResult{}, nil)

	service := NewDatasetRefreshService(runner, loader, opts, testConfig(true))

	require.NoError(t, service.RefreshDataset())

	status := service.Status()
	assert.False(t, status.Running)
	assert.NotNil(t, status.LastStartedAt)
	assert.NotNil(t, status.LastCompletedAt)
	assert.Empty(t, status.LastError)
}

func TestRefreshDatasetLoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	loader := mocks.NewMockFileDatasetLoader(ctrl)

	loader.EXPECT().LoadFile(gomock.Any()).Return(nil, errors.New("file corrupted"))

	service := NewDatasetRefreshService(runner, loader, reporting.Options{}, testConfig(true))

	err := service.RefreshDataset()

	require.Error(t, err)
	assert.Contains(t, service.Status().LastError, "file corrupted")
}

func TestRefreshDatasetRunError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	loader := mocks.NewMockFileDatasetLoader(ctrl)

	loader.EXPECT().LoadFile(gomock.Any()).Return(nil, nil)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, errors.New("negative grace period"))

	service := NewDatasetRefreshService(runner, loader, reporting.Options{}, testConfig(true))

	require.Error(t, service.RefreshDataset())
}

func TestStartDisabledDoesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	loader := mocks.NewMockFileDatasetLoader(ctrl)

	service := NewDatasetRefreshService(runner, loader, reporting.Options{}, testConfig(false))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, service.Start(ctx))
	assert.False(t, service.Status().Enabled)
}

func TestStartWithoutDatasetPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	loader := mocks.NewMockFileDatasetLoader(ctrl)

	cfg := testConfig(true)
	cfg.DatasetRefresh.DatasetPath = ""
	service := NewDatasetRefreshService(runner, loader, reporting.Options{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, service.Start(ctx))
}

func TestStatusInitialState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewDatasetRefreshService(
		mocks.NewMockRunner(ctrl),
		mocks.NewMockFileDatasetLoader(ctrl),
		reporting.Options{},
		testConfig(true),
	)

	status := service.Status()
	assert.True(t, status.Enabled)
	assert.False(t, status.Running)
	assert.Equal(t, "0 5 * * *", status.CronSchedule)
	assert.Nil(t, status.LastStartedAt)
	assert.Nil(t, status.LastCompletedAt)
}

func TestTriggerManualSyncEventuallyRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	loader := mocks.NewMockFileDatasetLoader(ctrl)

	done := make(chan struct{})
	loader.EXPECT().LoadFile(gomock.Any()).Return(nil, nil)
	runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func([]dataset.Record, reporting.Options) (*domain.AnalysisResult, error) {
			close(done)
			return &domain.AnalysisResult{}, nil
		})

	service := NewDatasetRefreshService(runner, loader, reporting.Options{}, testConfig(true))
	service.TriggerManualSync()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("manual sync did not run")
	}
}
