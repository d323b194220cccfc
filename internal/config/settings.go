// Package config loads and validates the service settings file.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/debatelab/argdown-feedback-sub001/internal/dispatch"
	"github.com/debatelab/argdown-feedback-sub001/internal/logger"
)

// Settings is the full service configuration. Every field has a usable
// default, so a missing or partial settings file is fine.
type Settings struct {
	// Host is the listen interface.
	Host string `yaml:"host" validate:"required"`
	// Port is the listen port.
	Port int `yaml:"port" validate:"gte=1,lte=65535"`
	// LogLevel sets the minimum level of emitted log entries.
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	// LogHumanReadable switches from JSON logs to the console format.
	LogHumanReadable bool `yaml:"log_human_readable"`
	// MaxWorkers is the number of verification pool workers.
	MaxWorkers int `yaml:"max_workers" validate:"gte=1"`
	// QueueSize bounds the pending verification queue. Zero means unbounded.
	QueueSize int `yaml:"queue_size" validate:"gte=0"`
	// TimeoutSeconds is the per-request verification deadline.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=1"`
}

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		Host:           "0.0.0.0",
		Port:           8000,
		LogLevel:       "info",
		MaxWorkers:     dispatch.DefaultMaxWorkers,
		TimeoutSeconds: int(dispatch.DefaultTimeout / time.Second),
	}
}

// Load reads a YAML settings file over the defaults and validates the result.
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parsing settings file %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// settingsValidator returns the shared validator instance of the package.
func settingsValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Validate checks the field constraints.
func (s Settings) Validate() error {
	if err := settingsValidator().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DispatchOptions maps the settings onto the dispatcher configuration.
func (s Settings) DispatchOptions() dispatch.Options {
	return dispatch.Options{
		MaxWorkers: s.MaxWorkers,
		QueueSize:  s.QueueSize,
		Timeout:    time.Duration(s.TimeoutSeconds) * time.Second,
	}
}

// LoggerOptions maps the settings onto the logger configuration.
func (s Settings) LoggerOptions() logger.Options {
	return logger.Options{
		Level:         s.LogLevel,
		HumanReadable: s.LogHumanReadable,
	}
}
