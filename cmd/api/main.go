package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edelweiss-digital/churn-analytics-api/infrastructure/dataset"
	"github.com/edelweiss-digital/churn-analytics-api/internal/api"
	"github.com/edelweiss-digital/churn-analytics-api/internal/config"
	"github.com/edelweiss-digital/churn-analytics-api/internal/domain"
	"github.com/edelweiss-digital/churn-analytics-api/internal/scheduler"
	"github.com/edelweiss-digital/churn-analytics-api/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level: %s, falling back to 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resellerNames, err := config.ParseResellerList(cfg.Analysis.ResellerCustomers)
	if err != nil {
		logrus.WithError(err).Fatal("invalid RESELLER_CUSTOMERS configuration")
	}
	resellers := domain.NewResellerSet(resellerNames)

	var salespeople []string
	if cfg.Analysis.SalespeopleFile != "" {
		salespeople, err = dataset.LoadSalespeopleFile(cfg.Analysis.SalespeopleFile)
		if err != nil {
			logrus.WithError(err).Fatal("error loading salespeople file")
		}
		logrus.WithField("count", len(salespeople)).Info("salespeople list loaded")
	}

	loader := dataset.NewExcelLoader()
	analysisService := reporting.NewService()

	refreshOptions := reporting.Options{
		GracePeriodDays:    cfg.Analysis.GracePeriodDays,
		StartYear:          cfg.Analysis.StartYear,
		Resellers:          resellers,
		Salespeople:        salespeople,
		MinActiveCustomers: cfg.Analysis.MinActiveCustomers,
	}

	datasetRefreshService := scheduler.NewDatasetRefreshService(
		analysisService,
		loader,
		refreshOptions,
		cfg,
	)

	if err := datasetRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("error starting the dataset refresh scheduler")
	} else {
		logrus.Info("dataset refresh scheduler started")
	}

	server, err := api.New(
		cfg,
		analysisService,
		loader,
		resellers,
		salespeople,
		datasetRefreshService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
