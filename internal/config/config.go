package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Analysis       Analysis       `mapstructure:",squash"`
	DatasetRefresh DatasetRefresh `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Analysis carries the knobs of the churn computation. ResellerCustomers is
// a "number:name" comma-separated list; it is parsed once at startup into
// the immutable reseller set handed to every run.
type Analysis struct {
	GracePeriodDays    int    `mapstructure:"grace_period_days"`
	GracePeriodMinDays int    `mapstructure:"grace_period_min_days"`
	GracePeriodMaxDays int    `mapstructure:"grace_period_max_days"`
	StartYear          int    `mapstructure:"start_year"`
	MinActiveCustomers int    `mapstructure:"min_active_customers"`
	ResellerCustomers  string `mapstructure:"reseller_customers"`
	SalespeopleFile    string `mapstructure:"salespeople_file"`
}

// DatasetRefresh configures the scheduled re-analysis of a dataset file.
type DatasetRefresh struct {
	CronSchedule string `mapstructure:"dataset_refresh_cron"`
	DatasetPath  string `mapstructure:"dataset_refresh_path"`
	Enabled      bool   `mapstructure:"dataset_refresh_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("GRACE_PERIOD_DAYS", 90)
	viper.SetDefault("GRACE_PERIOD_MIN_DAYS", 30)
	viper.SetDefault("GRACE_PERIOD_MAX_DAYS", 180)
	viper.SetDefault("START_YEAR", 2020)
	viper.SetDefault("MIN_ACTIVE_CUSTOMERS", 50)

	// The five reseller accounts that follow the contract-level accounting.
	viper.SetDefault("RESELLER_CUSTOMERS",
		"1902101:Onco,1909143:Russmedia Verlag,1903121:Russmedia Digital,1905146:Northlight,1911102:Sam Solution")
	viper.SetDefault("SALESPEOPLE_FILE", "")

	viper.SetDefault("DATASET_REFRESH_CRON", "0 5 * * *") // daily at 5am
	viper.SetDefault("DATASET_REFRESH_PATH", "")
	viper.SetDefault("DATASET_REFRESH_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("using variables loaded from the environment (viper could not read .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	return config, nil
}

// ParseResellerList parses the "number:name,number:name" reseller setting.
func ParseResellerList(s string) (map[int]string, error) {
	resellers := make(map[int]string)
	if strings.TrimSpace(s) == "" {
		return resellers, nil
	}

	for _, entry := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid reseller entry %q, expected number:name", entry)
		}
		id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid reseller customer number %q: %w", parts[0], err)
		}
		resellers[id] = strings.TrimSpace(parts[1])
	}

	return resellers, nil
}

func loadEnvFile() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on the environment")
	}
}
