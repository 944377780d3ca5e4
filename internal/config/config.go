package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// GroupByEndpoint and GroupByCluster are the supported grouping strategies
// for the report summary.
const (
	GroupByEndpoint = "endpoint"
	GroupByCluster  = "cluster"
)

type Config struct {
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	Report    ReportConfig    `mapstructure:"report"`
	Server    ServerConfig    `mapstructure:"server"`
}

type EndpointsConfig struct {
	// Targets lists the management endpoints to query, as bare hosts or
	// full URLs.
	Targets            []string      `mapstructure:"targets"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	Port               int           `mapstructure:"port"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	MaxConcurrent      int           `mapstructure:"max_concurrent"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
}

type ReportConfig struct {
	// OutputDir is the reports root; each run writes one timestamped
	// directory under it and the history index lives beside them.
	OutputDir string `mapstructure:"output_dir"`
	DirPrefix string `mapstructure:"dir_prefix"`
	GroupBy   string `mapstructure:"group_by"`
	WriteCSV  bool   `mapstructure:"write_csv"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("endpoints.port", 9440)
	v.SetDefault("endpoints.request_timeout", "30s")
	v.SetDefault("endpoints.max_concurrent", 4)
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.dir_prefix", "alert_report")
	v.SetDefault("report.group_by", GroupByEndpoint)
	v.SetDefault("report.write_csv", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.poll_interval", "6h")

	// Read from environment variables
	v.AutomaticEnv()

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Override with environment variable if set
	if password := os.Getenv("ALERT_REPORT_PASSWORD"); password != "" {
		config.Endpoints.Password = password
	}

	return &config, nil
}

// Validate rejects configurations that cannot produce a report, before any
// endpoint is contacted.
func (c *Config) Validate() error {
	if len(c.Endpoints.Targets) == 0 {
		return fmt.Errorf("no endpoint targets configured")
	}
	for i, target := range c.Endpoints.Targets {
		if target == "" {
			return fmt.Errorf("endpoint target %d is empty", i+1)
		}
	}
	if c.Endpoints.Username == "" {
		return fmt.Errorf("endpoints.username is required")
	}
	if c.Endpoints.Password == "" {
		return fmt.Errorf("endpoints.password is required (or set ALERT_REPORT_PASSWORD)")
	}
	if c.Endpoints.Port <= 0 || c.Endpoints.Port > 65535 {
		return fmt.Errorf("endpoints.port %d is out of range", c.Endpoints.Port)
	}
	if c.Endpoints.MaxConcurrent < 1 {
		return fmt.Errorf("endpoints.max_concurrent must be at least 1")
	}
	if c.Endpoints.RequestTimeout <= 0 {
		return fmt.Errorf("endpoints.request_timeout must be positive")
	}
	if c.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir is required")
	}
	if c.Report.DirPrefix == "" {
		return fmt.Errorf("report.dir_prefix is required")
	}
	if c.Report.GroupBy != GroupByEndpoint && c.Report.GroupBy != GroupByCluster {
		return fmt.Errorf("report.group_by must be %q or %q, got %q", GroupByEndpoint, GroupByCluster, c.Report.GroupBy)
	}
	return nil
}
