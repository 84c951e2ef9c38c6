package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "shelf"

// Storage drivers accepted in storage.driver
var storageDrivers = []string{"bolt", "sqlite", "memory"}

// Config holds all application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Loans   LoansConfig   `mapstructure:"loans"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig selects the durable store
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "bolt", "sqlite" or "memory"
	Dir    string `mapstructure:"dir"`    // Database directory
}

// AdminConfig holds the admin credential pair
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LoansConfig holds lending policy
type LoansConfig struct {
	PeriodDays int `mapstructure:"period_days"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultSort string `mapstructure:"default_sort"` // title, author, year, availability
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "bolt",
			Dir:    defaultDataPath(),
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "123",
		},
		Loans: LoansConfig{
			PeriodDays: 14,
		},
		UI: UIConfig{
			DefaultSort: "title",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// LoanPeriod returns the configured loan length
func (c *Config) LoanPeriod() time.Duration {
	return time.Duration(c.Loans.PeriodDays) * 24 * time.Hour
}

// Validate rejects settings the application cannot start with
func (c *Config) Validate() error {
	var errs []error
	driver := strings.ToLower(c.Storage.Driver)
	known := false
	for _, d := range storageDrivers {
		if driver == d {
			known = true
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	if driver != "memory" && c.Storage.Dir == "" {
		errs = append(errs, errors.New("storage.dir: required"))
	}
	if c.Loans.PeriodDays <= 0 {
		errs = append(errs, fmt.Errorf("loans.period_days: must be positive, got %d", c.Loans.PeriodDays))
	}
	if c.Admin.Username == "" {
		errs = append(errs, errors.New("admin.username: required"))
	}
	return errors.Join(errs...)
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// defaultDataPath returns the default database directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "data")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// DefaultConfigFile returns where SaveConfig writes when given no path
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// LoadConfig loads configuration from file and environment. An empty file
// searches the default config directory and the working directory.
// SHELF_* variables override file values, e.g. SHELF_STORAGE_DRIVER.
func LoadConfig(file string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range configValues(cfg) {
		v.SetDefault(key, value)
	}
}

func configValues(cfg *Config) map[string]any {
	return map[string]any{
		"storage.driver":    cfg.Storage.Driver,
		"storage.dir":       cfg.Storage.Dir,
		"admin.username":    cfg.Admin.Username,
		"admin.password":    cfg.Admin.Password,
		"loans.period_days": cfg.Loans.PeriodDays,
		"ui.default_sort":   cfg.UI.DefaultSort,
		"logging.file":      cfg.Logging.File,
		"logging.level":     cfg.Logging.Level,
	}
}

// SaveConfig writes cfg as YAML. An empty file writes DefaultConfigFile.
func SaveConfig(cfg *Config, file string) error {
	if file == "" {
		file = DefaultConfigFile()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v := viper.New()
	for key, value := range configValues(cfg) {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
