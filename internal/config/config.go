package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Data   DataConfig  `mapstructure:"data" json:"data"`
	Model  ModelConfig `mapstructure:"model" json:"model"`
	Inputs InputConfig `mapstructure:"inputs" json:"inputs"`
	Log    LogConfig   `mapstructure:"log" json:"log"`
}

// DataConfig controls where the reference table is discovered
type DataConfig struct {
	Dir          string `mapstructure:"dir" json:"dir"`
	Dataset      string `mapstructure:"dataset" json:"dataset,omitempty"` // explicit file, wins over discovery
	ExpandedFile string `mapstructure:"expanded_file" json:"expanded_file"`
	BaseFile     string `mapstructure:"base_file" json:"base_file"`
}

// ModelConfig holds the regressor hyperparameters and the store location
type ModelConfig struct {
	Path            string `mapstructure:"path" json:"path"`
	Trees           int    `mapstructure:"trees" json:"trees"`
	Seed            int64  `mapstructure:"seed" json:"seed"`
	MaxDepth        int    `mapstructure:"max_depth" json:"max_depth"` // 0 = unlimited
	MinSamplesSplit int    `mapstructure:"min_samples_split" json:"min_samples_split"`
	MinSamplesLeaf  int    `mapstructure:"min_samples_leaf" json:"min_samples_leaf"`
}

// InputConfig holds the defaults and accepted ranges for user input
type InputConfig struct {
	DefaultWeight   float64 `mapstructure:"default_weight" json:"default_weight"`     // lb
	DefaultDuration float64 `mapstructure:"default_duration" json:"default_duration"` // minutes
	MinWeight       float64 `mapstructure:"min_weight" json:"min_weight"`
	MaxWeight       float64 `mapstructure:"max_weight" json:"max_weight"`
	MinDuration     float64 `mapstructure:"min_duration" json:"min_duration"`
	MaxDuration     float64 `mapstructure:"max_duration" json:"max_duration"`
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
	Mode  string `mapstructure:"mode" json:"mode"` // "production" or "development"
	File  string `mapstructure:"file" json:"file,omitempty"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Dir:          "data",
			ExpandedFile: "engineered_exercise_dataset_expanded.csv",
			BaseFile:     "exercise_dataset.csv",
		},
		Model: ModelConfig{
			Path:            filepath.Join("models", "calories_model.db"),
			Trees:           100,
			Seed:            42,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
		},
		Inputs: InputConfig{
			DefaultWeight:   155,
			DefaultDuration: 30,
			MinWeight:       80,
			MaxWeight:       400,
			MinDuration:     5,
			MaxDuration:     300,
		},
		Log: LogConfig{
			Level: "info",
			Mode:  "production",
		},
	}
}

// Load reads the configuration from path, or ~/.metriburn/config.json when
// path is empty. METRIBURN_* environment variables override file values
// (e.g. METRIBURN_MODEL_TREES=200). A missing file yields the defaults
// together with ErrNoConfig so callers can offer to create one.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = getConfigPath()
		if err != nil {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("json")
	v.SetEnvPrefix("METRIBURN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var missing bool
	if _, err := os.Stat(path); os.IsNotExist(err) {
		missing = true
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if missing {
		return &cfg, ErrNoConfig
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("data.dir", d.Data.Dir)
	v.SetDefault("data.dataset", d.Data.Dataset)
	v.SetDefault("data.expanded_file", d.Data.ExpandedFile)
	v.SetDefault("data.base_file", d.Data.BaseFile)

	v.SetDefault("model.path", d.Model.Path)
	v.SetDefault("model.trees", d.Model.Trees)
	v.SetDefault("model.seed", d.Model.Seed)
	v.SetDefault("model.max_depth", d.Model.MaxDepth)
	v.SetDefault("model.min_samples_split", d.Model.MinSamplesSplit)
	v.SetDefault("model.min_samples_leaf", d.Model.MinSamplesLeaf)

	v.SetDefault("inputs.default_weight", d.Inputs.DefaultWeight)
	v.SetDefault("inputs.default_duration", d.Inputs.DefaultDuration)
	v.SetDefault("inputs.min_weight", d.Inputs.MinWeight)
	v.SetDefault("inputs.max_weight", d.Inputs.MaxWeight)
	v.SetDefault("inputs.min_duration", d.Inputs.MinDuration)
	v.SetDefault("inputs.max_duration", d.Inputs.MaxDuration)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.mode", d.Log.Mode)
	v.SetDefault("log.file", d.Log.File)
}

// Save writes the configuration to path, or ~/.metriburn/config.json when
// path is empty
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = getConfigPath()
		if err != nil {
			return err
		}
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample writes the default config to path if no file exists there
func CreateExample(path string) error {
	if path == "" {
		var err error
		path, err = getConfigPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	return Save(&example, path)
}

// Validate checks that the config values are usable
func (c *Config) Validate() error {
	if c.Data.Dir == "" && c.Data.Dataset == "" {
		return errors.New("data.dir or data.dataset is required")
	}
	if c.Model.Path == "" {
		return errors.New("model.path is required")
	}
	if c.Model.Trees <= 0 {
		return fmt.Errorf("model.trees must be positive, got %d", c.Model.Trees)
	}
	if c.Model.MaxDepth < 0 {
		return fmt.Errorf("model.max_depth must not be negative, got %d", c.Model.MaxDepth)
	}
	if c.Model.MinSamplesLeaf < 1 {
		return fmt.Errorf("model.min_samples_leaf must be at least 1, got %d", c.Model.MinSamplesLeaf)
	}
	if c.Model.MinSamplesSplit < 2 {
		return fmt.Errorf("model.min_samples_split must be at least 2, got %d", c.Model.MinSamplesSplit)
	}

	// Validate input ranges
	if c.Inputs.MinWeight <= 0 || c.Inputs.MinWeight >= c.Inputs.MaxWeight {
		return fmt.Errorf("inputs.min_weight (%v) must be positive and less than inputs.max_weight (%v)", c.Inputs.MinWeight, c.Inputs.MaxWeight)
	}
	if c.Inputs.MinDuration <= 0 || c.Inputs.MinDuration >= c.Inputs.MaxDuration {
		return fmt.Errorf("inputs.min_duration (%v) must be positive and less than inputs.max_duration (%v)", c.Inputs.MinDuration, c.Inputs.MaxDuration)
	}
	if c.Inputs.DefaultWeight < c.Inputs.MinWeight || c.Inputs.DefaultWeight > c.Inputs.MaxWeight {
		return fmt.Errorf("inputs.default_weight (%v) is outside [%v, %v]", c.Inputs.DefaultWeight, c.Inputs.MinWeight, c.Inputs.MaxWeight)
	}
	if c.Inputs.DefaultDuration < c.Inputs.MinDuration || c.Inputs.DefaultDuration > c.Inputs.MaxDuration {
		return fmt.Errorf("inputs.default_duration (%v) is outside [%v, %v]", c.Inputs.DefaultDuration, c.Inputs.MinDuration, c.Inputs.MaxDuration)
	}

	if c.Log.Mode != "" && c.Log.Mode != "production" && c.Log.Mode != "development" {
		return fmt.Errorf("log.mode must be \"production\" or \"development\", got %q", c.Log.Mode)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".metriburn"), nil
}
