// Package scheduler contains the cron services that refresh analysis data.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/edelweiss-digital/churn-analytics-api/internal/config"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/reporting"
)

// DatasetRefreshConfig parameterizes the scheduled re-analysis of a dataset
// file dropped on disk by the CRM export.
type DatasetRefreshConfig struct {
	CronSchedule string
	DatasetPath  string
	Enabled      bool
}

// DatasetRefreshService re-runs the analysis on a schedule so the latest
// result tracks the exported dataset without manual uploads.
type DatasetRefreshService struct {
	scheduler           *gocron.Scheduler
	runner              reporting.Runner
	loader              reporting.FileDatasetLoader
	options             reporting.Options
	config              DatasetRefreshConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func NewDatasetRefreshService(
	runner reporting.Runner,
	loader reporting.FileDatasetLoader,
	options reporting.Options,
	cfg *config.Config,
) *DatasetRefreshService {
	refreshConfig := DatasetRefreshConfig{
		CronSchedule: cfg.DatasetRefresh.CronSchedule,
		DatasetPath:  cfg.DatasetRefresh.DatasetPath,
		Enabled:      cfg.DatasetRefresh.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": refreshConfig.CronSchedule,
		"dataset_path":  refreshConfig.DatasetPath,
	}).Info("dataset refresh scheduler configuration loaded")

	return &DatasetRefreshService{
		scheduler: scheduler,
		runner:    runner,
		loader:    loader,
		options:   options,
		config:    refreshConfig,
	}
}

func (s *DatasetRefreshService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("dataset refresh cron disabled by configuration")
		return nil
	}
	if s.config.DatasetPath == "" {
		logrus.Warn("dataset refresh cron enabled but no dataset path configured, skipping")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("starting dataset refresh cron")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RefreshDataset(); err != nil {
			logrus.WithError(err).Error("scheduled dataset refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling dataset refresh: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("stopping dataset refresh cron")
		s.scheduler.Stop()
	}()

	return nil
}

// RefreshDataset loads the configured dataset file and runs a fresh
// analysis. Concurrent invocations are collapsed into one.
func (s *DatasetRefreshService) RefreshDataset() error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("dataset refresh already running")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	var refreshErr error
	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.lastSyncError = ""
		if refreshErr != nil {
			s.lastSyncError = refreshErr.Error()
		}
		s.syncMutex.Unlock()
	}()

	logrus.WithField("dataset_path", s.config.DatasetPath).Info("starting dataset refresh")

	records, err := s.loader.LoadFile(s.config.DatasetPath)
	if err != nil {
		refreshErr = fmt.Errorf("error loading dataset file: %w", err)
		return refreshErr
	}

	result, err := s.runner.Run(records, s.options)
	if err != nil {
		refreshErr = fmt.Errorf("error running analysis: %w", err)
		return refreshErr
	}

	logrus.WithFields(logrus.Fields{
		"customers":    result.Stats.TotalCustomers,
		"churn_events": len(result.ChurnEvents),
	}).Info("dataset refresh completed")

	return nil
}

// TriggerManualSync runs the refresh in the background, outside the
// schedule.
func (s *DatasetRefreshService) TriggerManualSync() {
	go func() {
		if err := s.RefreshDataset(); err != nil {
			logrus.WithError(err).Error("manual dataset refresh failed")
		}
	}()
}

// SyncStatus is the state snapshot exposed on the cron status endpoint.
type SyncStatus struct {
	Enabled         bool       `json:"enabled"`
	Running         bool       `json:"running"`
	CronSchedule    string     `json:"cron_schedule"`
	LastStartedAt   *time.Time `json:"last_started_at,omitempty"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
}

func (s *DatasetRefreshService) Status() SyncStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := SyncStatus{
		Enabled:      s.config.Enabled,
		Running:      s.syncRunning,
		CronSchedule: s.config.CronSchedule,
		LastError:    s.lastSyncError,
	}
	if !s.lastSyncStartedAt.IsZero() {
		started := s.lastSyncStartedAt
		status.LastStartedAt = &started
	}
	if !s.lastSyncCompletedAt.IsZero() {
		completed := s.lastSyncCompletedAt
		status.LastCompletedAt = &completed
	}
	return status
}
