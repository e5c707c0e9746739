package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Circuit   CircuitConfig   `yaml:"circuit" mapstructure:"circuit"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Reference ReferenceConfig `yaml:"reference" mapstructure:"reference"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// APIConfig points at the scoring service.
type APIConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// Timeout is the per-call deadline.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// CircuitConfig configures the breaker in front of the scoring service.
// A zero failure threshold disables it.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// CacheConfig configures the reference data cache.
type CacheConfig struct {
	// StatsTTLSecs of 0 keeps entries for the life of the process.
	StatsTTLSecs int  `yaml:"stats_ttl_secs" mapstructure:"stats_ttl_secs"`
	Warm         bool `yaml:"warm" mapstructure:"warm"`
}

// TTL is the cache entry lifetime; zero means forever.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.StatsTTLSecs) * time.Second
}

// ReferenceConfig locates the local reference dataset and bins its incomes.
type ReferenceConfig struct {
	Source      string  `yaml:"source" mapstructure:"source"`
	Sheet       string  `yaml:"sheet" mapstructure:"sheet"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	IncomeMin   float64 `yaml:"income_min" mapstructure:"income_min"`
	IncomeMax   float64 `yaml:"income_max" mapstructure:"income_max"`
	Bins        int     `yaml:"bins" mapstructure:"bins"`
}

// ServerConfig configures the web server.
type ServerConfig struct {
	Port             int      `yaml:"port" mapstructure:"port"`
	ReadTimeoutSecs  int      `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs int      `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	CORSOrigins      []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RISKDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("api.base_url", "http://fastapi:8008")
	v.SetDefault("api.timeout_secs", 10)
	v.SetDefault("api.user_agent", "risk-dashboard/1.0")
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("cache.stats_ttl_secs", 0)
	v.SetDefault("cache.warm", true)
	v.SetDefault("reference.source", "datasets/df_current_clients_reduced.csv")
	v.SetDefault("reference.sheet", "")
	v.SetDefault("reference.timeout_secs", 60)
	v.SetDefault("reference.max_retries", 3)
	v.SetDefault("reference.income_min", 25000.0)
	v.SetDefault("reference.income_max", 300000.0)
	v.SetDefault("reference.bins", 40)
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("server.write_timeout_secs", 120)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate rejects settings the dashboard cannot run with. Every problem
// found is reported.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.API.BaseURL) == "" {
		problems = append(problems, "api.base_url is required")
	}
	if c.API.TimeoutSecs <= 0 {
		problems = append(problems, "api.timeout_secs must be > 0")
	}
	if c.Circuit.FailureThreshold < 0 {
		problems = append(problems, "circuit.failure_threshold must be >= 0")
	}
	if c.Cache.StatsTTLSecs < 0 {
		problems = append(problems, "cache.stats_ttl_secs must be >= 0")
	}
	if c.Reference.IncomeMin >= c.Reference.IncomeMax {
		problems = append(problems, "reference.income_min must be < reference.income_max")
	}
	if c.Reference.Bins <= 0 {
		problems = append(problems, "reference.bins must be > 0")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port must be > 0 and <= 65535")
	}
	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
