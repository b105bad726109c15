package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Chart    ChartConfig    `yaml:"chart" mapstructure:"chart"`
	Baseline BaselineConfig `yaml:"baseline" mapstructure:"baseline"`
	Branding BrandingConfig `yaml:"branding" mapstructure:"branding"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
}

// ServerConfig configures the dashboard server.
type ServerConfig struct {
	Port             int      `yaml:"port" mapstructure:"port"`
	ReadTimeoutSecs  int      `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs int      `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	CORSOrigins      []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	ChartRate        float64  `yaml:"chart_rate" mapstructure:"chart_rate"`   // renders per second
	ChartBurst       int      `yaml:"chart_burst" mapstructure:"chart_burst"` // bucket size
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ChartConfig configures chart export. Sizes are in inches.
type ChartConfig struct {
	DPI             int     `yaml:"dpi" mapstructure:"dpi"`
	Width           float64 `yaml:"width" mapstructure:"width"`
	Height          float64 `yaml:"height" mapstructure:"height"`
	CompositeWidth  float64 `yaml:"composite_width" mapstructure:"composite_width"`
	CompositeHeight float64 `yaml:"composite_height" mapstructure:"composite_height"`
	CacheSize       int     `yaml:"cache_size" mapstructure:"cache_size"`
}

// BaselineConfig holds the reference values projections are compared to.
type BaselineConfig struct {
	GHG      float64 `yaml:"ghg" mapstructure:"ghg"`
	Material float64 `yaml:"material" mapstructure:"material"`
	Revenue  float64 `yaml:"revenue" mapstructure:"revenue"`
}

// BrandingConfig configures the logos shown in the dashboard footer.
type BrandingConfig struct {
	Logos            map[string]string `yaml:"logos" mapstructure:"logos"` // name -> URL
	TimeoutSecs      int               `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RetryAttempts    int               `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	WarmIntervalSecs int               `yaml:"warm_interval_secs" mapstructure:"warm_interval_secs"`
}

// ReportConfig configures the XLSX export.
type ReportConfig struct {
	Title string `yaml:"title" mapstructure:"title"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ZEROE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("server.write_timeout_secs", 60)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.chart_rate", 5.0)
	v.SetDefault("server.chart_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("chart.dpi", 300)
	v.SetDefault("chart.width", 8.0)
	v.SetDefault("chart.height", 6.0)
	v.SetDefault("chart.composite_width", 20.0)
	v.SetDefault("chart.composite_height", 7.0)
	v.SetDefault("chart.cache_size", 64)
	v.SetDefault("baseline.ghg", 500.0)
	v.SetDefault("baseline.material", 13.0)
	v.SetDefault("baseline.revenue", 26_000_000.0)
	v.SetDefault("branding.logos", map[string]string{
		"sustrend":     "https://drive.google.com/uc?id=1vx_znPU2VfdkzeDtl91dlpw_p9mmu4dd",
		"ttgreenfoods": "https://drive.google.com/uc?id=1uIQZQywjuQJz6Eokkj6dNSpBroJ8tQf8",
	})
	v.SetDefault("branding.timeout_secs", 10)
	v.SetDefault("branding.retry_attempts", 2)
	v.SetDefault("branding.warm_interval_secs", 900)
	v.SetDefault("report.title", "Zero-E impact projection")

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

// Validate checks the settings a command depends on. mode is one of
// "serve", "render" or "compute".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.ChartRate <= 0 {
			errs = append(errs, "server.chart_rate must be > 0")
		}
		if c.Server.ChartBurst < 1 {
			errs = append(errs, "server.chart_burst must be >= 1")
		}
		errs = append(errs, c.chartErrors()...)
	case "render":
		errs = append(errs, c.chartErrors()...)
	case "compute":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Baseline.GHG <= 0 || c.Baseline.Material <= 0 || c.Baseline.Revenue <= 0 {
		errs = append(errs, "baseline values must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) chartErrors() []string {
	var errs []string
	if c.Chart.DPI < 36 || c.Chart.DPI > 600 {
		errs = append(errs, "chart.dpi must be between 36 and 600")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		errs = append(errs, "chart.width and chart.height must be > 0")
	}
	if c.Chart.CompositeWidth <= 0 || c.Chart.CompositeHeight <= 0 {
		errs = append(errs, "chart.composite_width and chart.composite_height must be > 0")
	}
	return errs
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
