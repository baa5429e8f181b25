package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ShopMate/internal/catalog"
	"ShopMate/internal/language"
	"ShopMate/internal/negotiation"
)

const (
	ModeREPL  = "repl"
	ModeServe = "serve"
)

// Config holds application configuration
type Config struct {
	Mode   string `mapstructure:"mode"`
	Debug  bool   `mapstructure:"debug"`
	LogDir string `mapstructure:"log_dir"`

	// Widget server
	Listen         string   `mapstructure:"listen"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	Catalog     Catalog            `mapstructure:"catalog"`
	Negotiation negotiation.Policy `mapstructure:"negotiation"`

	// Pacing: the bot "types" for TypingDelay before its reply appears, and
	// navigation waits NavigationDelay so the reply renders first
	TypingDelay     time.Duration `mapstructure:"typing_delay"`
	NavigationDelay time.Duration `mapstructure:"navigation_delay"`

	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	DefaultLocale string        `mapstructure:"default_locale"`
}

// Catalog selects the product database
type Catalog struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Seed   bool   `mapstructure:"seed"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Mode:           ModeREPL,
		LogDir:         "logs",
		Listen:         ":8080",
		AllowedOrigins: []string{"*"},
		Catalog: Catalog{
			Driver: catalog.DriverSQLite,
			DSN:    "shopmate.db",
			Seed:   true,
		},
		Negotiation:     negotiation.DefaultPolicy(),
		TypingDelay:     500 * time.Millisecond,
		NavigationDelay: time.Second,
		CacheTTL:        10 * time.Minute,
		DefaultLocale:   string(language.English),
	}
}

// Load layers an optional YAML file and SHOPMATE_* environment variables
// over the defaults. An empty path skips the file.
func Load(path string) (Config, error) {
	def := Default()
	v := viper.New()

	v.SetDefault("mode", def.Mode)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("log_dir", def.LogDir)
	v.SetDefault("listen", def.Listen)
	v.SetDefault("allowed_origins", def.AllowedOrigins)
	v.SetDefault("catalog.driver", def.Catalog.Driver)
	v.SetDefault("catalog.dsn", def.Catalog.DSN)
	v.SetDefault("catalog.seed", def.Catalog.Seed)
	v.SetDefault("negotiation.base_percent", def.Negotiation.BasePercent)
	v.SetDefault("negotiation.increment_percent", def.Negotiation.IncrementPercent)
	v.SetDefault("negotiation.max_discount_percent", def.Negotiation.MaxDiscountPercent)
	v.SetDefault("typing_delay", def.TypingDelay)
	v.SetDefault("navigation_delay", def.NavigationDelay)
	v.SetDefault("cache_ttl", def.CacheTTL)
	v.SetDefault("default_locale", def.DefaultLocale)

	v.SetEnvPrefix("shopmate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration before anything is started
func (c Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeREPL, ModeServe:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q (repl|serve)", c.Mode))
	}

	switch c.Catalog.Driver {
	case catalog.DriverSQLite, catalog.DriverPostgres, catalog.DriverMySQL:
	default:
		errs = append(errs, fmt.Errorf("unknown catalog driver %q (sqlite3|postgres|mysql)", c.Catalog.Driver))
	}
	if c.Catalog.DSN == "" {
		errs = append(errs, errors.New("catalog dsn is empty"))
	}

	if err := c.Negotiation.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.TypingDelay < 0 || c.NavigationDelay < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}

	if _, ok := language.Parse(c.DefaultLocale); !ok {
		errs = append(errs, fmt.Errorf("unsupported default locale %q (en|hi|kn)", c.DefaultLocale))
	}

	return errors.Join(errs...)
}
