// Package config defines the data structures related to configuration and
// includes functions for loading, watching and validating the proposal config.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/iwvelando/shelter-proposal/pkg/constants"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DateLayout is the format expected for timeline dates.
const DateLayout = constants.DateLayout

//go:embed default.yaml
var defaultConfig []byte

// Configuration holds all configuration for shelter-proposal.
type Configuration struct {
	AllocationPolicy string          `yaml:"allocationPolicy,omitempty" mapstructure:"allocationPolicy"`
	Budget           BudgetConfig    `yaml:"budget" mapstructure:"budget"`
	Donation         DonationConfig  `yaml:"donation" mapstructure:"donation"`
	Revenue          RevenueConfig   `yaml:"revenue" mapstructure:"revenue"`
	Allocation       GroupConfig     `yaml:"allocation" mapstructure:"allocation"`
	Timeline         []TimelineTask  `yaml:"timeline,omitempty" mapstructure:"timeline"`
	Logging          LoggingConfig   `yaml:"logging,omitempty" mapstructure:"logging"`
	Output           OutputConfig    `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// Widget declares the range of one adjustable input.
type Widget struct {
	Min     float64  `yaml:"min" mapstructure:"min"`
	Max     *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Step    float64  `yaml:"step,omitempty" mapstructure:"step"`
	Default *float64 `yaml:"default,omitempty" mapstructure:"default"`
}

// DefaultValue returns the declared default, or the minimum when none is set.
func (w Widget) DefaultValue() float64 {
	if w.Default != nil {
		return *w.Default
	}
	return w.Min
}

// CategoryConfig is one freely adjustable category of a group.
type CategoryConfig struct {
	Name   string `yaml:"name" mapstructure:"name"`
	Widget Widget `yaml:"widget" mapstructure:"widget"`
}

// GroupConfig describes a fixed total split across categories plus a remainder.
type GroupConfig struct {
	Name       string           `yaml:"name,omitempty" mapstructure:"name"`
	Total      float64          `yaml:"total" mapstructure:"total"`
	Floor      float64          `yaml:"floor,omitempty" mapstructure:"floor"`
	Remainder  string           `yaml:"remainder" mapstructure:"remainder"`
	Categories []CategoryConfig `yaml:"categories" mapstructure:"categories"`
}

// BudgetConfig is the grant budget group plus the population it is sized against.
type BudgetConfig struct {
	GroupConfig `yaml:",inline" mapstructure:",squash"`
	Currency    string  `yaml:"currency,omitempty" mapstructure:"currency"`
	Population  float64 `yaml:"population" mapstructure:"population"`
}

// DonationConfig declares the two additional-donation inputs. A slider without a
// default follows the number input.
type DonationConfig struct {
	Input  Widget `yaml:"input" mapstructure:"input"`
	Slider Widget `yaml:"slider" mapstructure:"slider"`
}

// RevenueConfig lists the revenue streams of the sustainability plan.
type RevenueConfig struct {
	Currency string         `yaml:"currency,omitempty" mapstructure:"currency"`
	Streams  []StreamConfig `yaml:"streams" mapstructure:"streams"`
}

// StreamConfig is one revenue stream. A flat stream has no price; its units
// widget holds the monthly amount.
type StreamConfig struct {
	Name  string  `yaml:"name" mapstructure:"name"`
	Flat  bool    `yaml:"flat,omitempty" mapstructure:"flat"`
	Price *Widget `yaml:"price,omitempty" mapstructure:"price"`
	Units Widget  `yaml:"units" mapstructure:"units"`
}

// TimelineTask is one phase of the implementation plan.
type TimelineTask struct {
	Task   string `yaml:"task" mapstructure:"task"`
	Start  string `yaml:"start" mapstructure:"start"`
	Finish string `yaml:"finish" mapstructure:"finish"`
}

// Loader reads a configuration file through its own viper instance. An empty
// path loads the embedded default proposal.
type Loader struct {
	v    *viper.Viper
	path string
	mu   sync.Mutex
}

// NewLoader creates a loader for the given path.
func NewLoader(path string) *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SHELTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	}
	return &Loader{v: v, path: path}
}

// Path returns the file the loader reads, or "" for the embedded default.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and decodes the configuration.
func (l *Loader) Load() (*Configuration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	if l.path == "" {
		err = l.v.ReadConfig(bytes.NewReader(defaultConfig))
	} else {
		err = l.v.ReadInConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return l.decode()
}

func (l *Loader) decode() (*Configuration, error) {
	var configuration Configuration
	if err := l.v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Watch reloads the file whenever it changes and passes every configuration
// that loads and validates to onChange. Invalid edits are logged and skipped.
func (l *Loader) Watch(logger *zap.Logger, onChange func(*Configuration)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if l.path == "" {
		return errors.New("cannot watch the embedded default configuration")
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.mu.Lock()
		conf, err := l.decode()
		l.mu.Unlock()
		if err != nil {
			logger.Warn("ignoring invalid configuration change",
				zap.String("op", "config.Watch"),
				zap.String("file", e.Name),
				zap.Error(err),
			)
			return
		}
		logger.Info("configuration reloaded",
			zap.String("op", "config.Watch"),
			zap.String("file", e.Name),
			zap.String("event", e.Op.String()),
		)
		onChange(conf)
	})
	l.v.WatchConfig()
	return nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path loads the embedded default.
func LoadConfiguration(configPath string) (*Configuration, error) {
	return NewLoader(configPath).Load()
}

// LoadConfigurationFromReader loads YAML configuration from a reader.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	l := NewLoader("")
	if err := l.v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return l.decode()
}

// Default returns the embedded default proposal configuration.
func Default() *Configuration {
	conf, err := LoadConfiguration("")
	if err != nil {
		panic(fmt.Sprintf("embedded default configuration is invalid: %v", err))
	}
	return conf
}
