package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/locale"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverYAML   = "yaml"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Calendar CalendarConfig    `yaml:"calendar"`
	Store    StoreConfig       `yaml:"store"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// CalendarConfig holds the presentation settings of the calendar.
type CalendarConfig struct {
	FirstDayOfWeek      string        `yaml:"first_day_of_week"`
	Locale              string        `yaml:"locale"`
	DoubleClickInterval time.Duration `yaml:"double_click_interval"`
	// InitialDate overrides today as the starting cursor (YYYY-MM-DD).
	InitialDate string `yaml:"initial_date"`
}

var errUnknownLocale = errors.New("unsupported locale")

// Validate validates the calendar configuration.
func (c *CalendarConfig) Validate() error {
	c.FirstDayOfWeek = strings.ToLower(c.FirstDayOfWeek)
	return validation.ValidateStruct(c,
		validation.Field(&c.FirstDayOfWeek, validation.Required, validation.By(func(v any) error {
			if _, ok := weekdays[v.(string)]; !ok {
				return fmt.Errorf("must be a weekday name")
			}
			return nil
		})),
		validation.Field(&c.Locale, validation.Required, validation.By(func(v any) error {
			if !locale.Supported(v.(string)) {
				return errUnknownLocale
			}
			return nil
		})),
		validation.Field(&c.DoubleClickInterval, validation.Min(50*time.Millisecond), validation.Max(2*time.Second)),
		validation.Field(&c.InitialDate, validation.Date(caldate.Layout)),
	)
}

// Weekday returns the configured first day of week.
func (c *CalendarConfig) Weekday() time.Weekday {
	return weekdays[c.FirstDayOfWeek]
}

// Initial returns the configured starting date, or the zero Date for today.
func (c *CalendarConfig) Initial() caldate.Date {
	d, _ := caldate.Parse(c.InitialDate)
	return d
}

// StoreConfig selects where day infos are kept.
//
// Driver controls the repository:
//   - "sqlite" (default): SQLite database at SQLite.Path; DaysDir, when set, is
//     imported at start and by the sync command.
//   - "yaml": one YAML file per month in DaysDir, watched for external edits
//     when Watch is true.
type StoreConfig struct {
	Driver  string       `yaml:"driver"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
	DaysDir string       `yaml:"days_dir"`
	Watch   bool         `yaml:"watch"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverYAML)),
		validation.Field(&c.DaysDir, validation.When(c.Driver == DriverYAML, validation.Required)),
	); err != nil {
		return err
	}
	if c.Driver == DriverSQLite {
		return c.SQLite.Validate()
	}
	return nil
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Calendar: CalendarConfig{
			FirstDayOfWeek:      "monday",
			Locale:              string(locale.Default),
			DoubleClickInterval: 400 * time.Millisecond,
		},
		Store: StoreConfig{
			Driver:  DriverSQLite,
			SQLite:  SQLiteConfig{Path: "./daycal.db"},
			DaysDir: "./days",
			Watch:   true,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
