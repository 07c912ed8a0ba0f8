package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// STEUERKLAR_TAXPAYER_NAME.
const EnvPrefix = "STEUERKLAR"

// Config is the steuerklar configuration schema.
type Config struct {
	Taxpayer     TaxpayerConfig     `json:"taxpayer" yaml:"taxpayer" mapstructure:"taxpayer"`
	Years        []int              `json:"years" yaml:"years" mapstructure:"years"`
	Workspace    WorkspaceConfig    `json:"workspace" yaml:"workspace" mapstructure:"workspace"`
	Defaults     DefaultsConfig     `json:"defaults" yaml:"defaults" mapstructure:"defaults"`
	Facts        FactsConfig        `json:"facts" yaml:"facts" mapstructure:"facts"`
	Appointments AppointmentsConfig `json:"appointments" yaml:"appointments" mapstructure:"appointments"`
	Messages     MessagesConfig     `json:"messages" yaml:"messages" mapstructure:"messages"`
	Log          LogConfig          `json:"log" yaml:"log" mapstructure:"log"`
}

// TaxpayerConfig identifies the person the filing is for.
type TaxpayerConfig struct {
	ID    string `json:"id" yaml:"id" mapstructure:"id"`
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Email string `json:"email" yaml:"email" mapstructure:"email"`
}

// WorkspaceConfig holds local storage locations.
type WorkspaceConfig struct {
	Documents string `json:"documents" yaml:"documents" mapstructure:"documents"`
}

// DefaultsConfig seeds every new wizard session.
type DefaultsConfig struct {
	Completed  []string            `json:"completed" yaml:"completed" mapstructure:"completed"`
	Selections map[string][]string `json:"selections" yaml:"selections" mapstructure:"selections"`
}

// FactsConfig carries the taxpayer facts the rule engine checks against.
type FactsConfig struct {
	CommuteDistanceKm int               `json:"commuteDistanceKm" yaml:"commuteDistanceKm" mapstructure:"commuteDistanceKm"`
	Relocation        RelocationConfig  `json:"relocation" yaml:"relocation" mapstructure:"relocation"`
	Amounts           map[string]string `json:"amounts" yaml:"amounts" mapstructure:"amounts"`
}

// RelocationConfig mirrors filing.Relocation with plain strings.
type RelocationConfig struct {
	Date        string `json:"date" yaml:"date" mapstructure:"date"`
	Address     string `json:"address" yaml:"address" mapstructure:"address"`
	Street      string `json:"street" yaml:"street" mapstructure:"street"`
	HouseNumber string `json:"houseNumber" yaml:"houseNumber" mapstructure:"houseNumber"`
	Costs       string `json:"costs" yaml:"costs" mapstructure:"costs"`
}

// AppointmentsConfig points at the appointment database. An empty URL means
// example data is shown.
type AppointmentsConfig struct {
	DatabaseURL string `json:"databaseURL" yaml:"databaseURL" mapstructure:"databaseURL"`
	TimeoutSec  int    `json:"timeoutSec" yaml:"timeoutSec" mapstructure:"timeoutSec"`
}

// MessagesConfig selects where advisor messages are delivered.
type MessagesConfig struct {
	Sink     string `json:"sink" yaml:"sink" mapstructure:"sink"` // "file" or "redis"
	Path     string `json:"path" yaml:"path" mapstructure:"path"`
	RedisURL string `json:"redisURL" yaml:"redisURL" mapstructure:"redisURL"`
	Stream   string `json:"stream" yaml:"stream" mapstructure:"stream"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	File  string `json:"file" yaml:"file" mapstructure:"file"`
}

// singleton holds the global loaded config and the directory it came from.
var (
	globalCfg  *Config
	globalRoot string
	mu         sync.RWMutex
)

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("taxpayer.name", "")
	v.SetDefault("years", []int{2024, 2023, 2022})
	v.SetDefault("workspace.documents", "documents")
	v.SetDefault("defaults.completed", []string{"wage-statements"})
	v.SetDefault("defaults.selections", map[string][]string{
		"general-expenses": {"insurance", "utilities"},
	})
	v.SetDefault("facts.commuteDistanceKm", 0)
	v.SetDefault("appointments.databaseURL", "")
	v.SetDefault("appointments.timeoutSec", 5)
	v.SetDefault("messages.sink", "file")
	v.SetDefault("messages.path", "messages.jsonl")
	v.SetDefault("messages.redisURL", "redis://localhost:6379/0")
	v.SetDefault("messages.stream", "steuerklar:messages")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "steuerklar.log")
}

// New returns a viper instance with defaults, env binding and the search
// path set up. cfgFile, when non-empty, overrides the search.
func New(cfgFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".steuerklar"))
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration through v and caches the result so that
// subsequent calls to Get return immediately. A missing config file is not
// an error; defaults apply.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	root := "."
	if used := v.ConfigFileUsed(); used != "" {
		root = filepath.Dir(used)
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	mu.Lock()
	globalCfg = &cfg
	globalRoot = root
	mu.Unlock()

	return &cfg, nil
}

// Defaults returns a Config populated only from the built-in defaults.
func Defaults() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing defaults: %w", err)
	}
	return &cfg, nil
}

// Get returns the cached global config. It panics if Load has not been called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()

	if globalCfg == nil {
		panic("config.Get() called before config.Load()")
	}
	return globalCfg
}

// Root returns the directory of the loaded config file, or the working
// directory when none was found.
func Root() string {
	mu.RLock()
	defer mu.RUnlock()
	return globalRoot
}

// Resolve makes p absolute relative to Root.
func Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(Root(), p)
}
