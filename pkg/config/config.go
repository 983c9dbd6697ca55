package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full pipeline configuration. Defaults follow the
// reference deployment (hourly cycle, file-backed stores).
type Config struct {
	Environment string `yaml:"environment" default:"production" validate:"required"`

	Location struct {
		Name string  `yaml:"name" default:"Kings Cross"`
		Lat  float64 `yaml:"lat" default:"51.5308"`
		Lon  float64 `yaml:"lon" default:"-0.1238"`
	} `yaml:"location"`

	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Data struct {
		Dir           string `yaml:"dir" default:"data" validate:"required"`
		WeatherFile   string `yaml:"weather_file" default:"kingscross_weather.json"`
		TransitFile   string `yaml:"transit_file" default:"kingscross_tfl.json"`
		EventsFile    string `yaml:"events_file" default:"events.json"`
		VenuesFile    string `yaml:"venues_file" default:"venues.json"`
		HistoryFile   string `yaml:"history_file" default:"history/kingscross_history.json"`
		AnomalyFile   string `yaml:"anomaly_file" default:"anomalies.json"`
		ModelFile     string `yaml:"model_file" default:"models/busyness_model.json"`
		ForecastFile  string `yaml:"forecast_file" default:"forecast.json"`
		DashboardFile string `yaml:"dashboard_file" default:"kingscross_dashboard.json"`
		SummaryFile   string `yaml:"summary_file" default:"anomaly_summary.json"`
	} `yaml:"data"`

	Pipeline struct {
		// History capacity trades long-range seasonality recall against
		// forecaster and baseline cost. 336 = 14 days of hourly cycles.
		HistoryLimit    int           `yaml:"history_limit" default:"336" validate:"gte=300,lte=600"`
		AnomalyLogLimit int           `yaml:"anomaly_log_limit" default:"400" validate:"gte=24"`
		Timeout         time.Duration `yaml:"timeout" default:"60s"`
	} `yaml:"pipeline"`

	Backend struct {
		Type string `yaml:"type" default:"file" validate:"oneof=file clickhouse"`
	} `yaml:"backend"`

	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"hospitality"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`

	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"hospitality.anomalies"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"kafka"`

	Cache struct {
		Enabled  bool          `yaml:"enabled"`
		Type     string        `yaml:"type" default:"redis" validate:"oneof=redis memory"`
		Host     string        `yaml:"host" default:"localhost"`
		Port     int           `yaml:"port" default:"6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Prefix   string        `yaml:"prefix" default:"kingscross"`
		TTL      time.Duration `yaml:"ttl" default:"2h"`
	} `yaml:"cache"`

	Metrics struct {
		Enabled        bool   `yaml:"enabled"`
		PushGatewayURL string `yaml:"pushgateway_url"`
		Job            string `yaml:"job" default:"busyness-pipeline"`
	} `yaml:"metrics"`
}

// Load reads and parses a YAML configuration file, applying struct
// defaults first so a sparse file is enough.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("PUSHGATEWAY_URL"); v != "" {
		c.Metrics.PushGatewayURL = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks structural constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Backend.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse backend")
	}
	return nil
}
