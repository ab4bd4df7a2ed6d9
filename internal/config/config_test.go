package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Model defaults match the reference regressor
	if cfg.Model.Trees != 100 {
		t.Errorf("Model.Trees = %v, want 100", cfg.Model.Trees)
	}
	if cfg.Model.Seed != 42 {
		t.Errorf("Model.Seed = %v, want 42", cfg.Model.Seed)
	}

	// Input bounds
	if cfg.Inputs.MinWeight != 80 || cfg.Inputs.MaxWeight != 400 {
		t.Errorf("weight bounds = [%v, %v], want [80, 400]", cfg.Inputs.MinWeight, cfg.Inputs.MaxWeight)
	}
	if cfg.Inputs.MinDuration != 5 || cfg.Inputs.MaxDuration != 300 {
		t.Errorf("duration bounds = [%v, %v], want [5, 300]", cfg.Inputs.MinDuration, cfg.Inputs.MaxDuration)
	}

	// Discovery prefers the expanded file, so both names must be set
	if cfg.Data.ExpandedFile == "" || cfg.Data.BaseFile == "" {
		t.Error("dataset file names should have defaults")
	}
	if cfg.Data.Dataset != "" {
		t.Errorf("Data.Dataset should be empty by default, got %q", cfg.Data.Dataset)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errContains string
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:        "no dataset location",
			mutate:      func(c *Config) { c.Data.Dir = ""; c.Data.Dataset = "" },
			expectError: true,
			errContains: "data.dir",
		},
		{
			name:   "explicit dataset without dir",
			mutate: func(c *Config) { c.Data.Dir = ""; c.Data.Dataset = "my.csv" },
		},
		{
			name:        "empty model path",
			mutate:      func(c *Config) { c.Model.Path = "" },
			expectError: true,
			errContains: "model.path",
		},
		{
			name:        "zero trees",
			mutate:      func(c *Config) { c.Model.Trees = 0 },
			expectError: true,
			errContains: "model.trees",
		},
		{
			name:        "leaf size below one",
			mutate:      func(c *Config) { c.Model.MinSamplesLeaf = 0 },
			expectError: true,
			errContains: "min_samples_leaf",
		},
		{
			name:        "inverted weight range",
			mutate:      func(c *Config) { c.Inputs.MinWeight = 500 },
			expectError: true,
			errContains: "min_weight",
		},
		{
			name:        "default duration out of range",
			mutate:      func(c *Config) { c.Inputs.DefaultDuration = 1000 },
			expectError: true,
			errContains: "default_duration",
		},
		{
			name:        "unknown log mode",
			mutate:      func(c *Config) { c.Log.Mode = "verbose" },
			expectError: true,
			errContains: "log.mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("Load() error = %v, want ErrNoConfig", err)
	}
	if cfg == nil {
		t.Fatal("Load() should still return defaults when the file is missing")
	}
	if cfg.Model.Trees != 100 {
		t.Errorf("Model.Trees = %v, want 100", cfg.Model.Trees)
	}
}

func TestLoadAppliesDefaultsAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"data": {"dir": "/srv/metriburn"}, "inputs": {"default_weight": 180}}`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("METRIBURN_MODEL_TREES", "250")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Data.Dir != "/srv/metriburn" {
		t.Errorf("Data.Dir = %q, want /srv/metriburn", cfg.Data.Dir)
	}
	if cfg.Inputs.DefaultWeight != 180 {
		t.Errorf("Inputs.DefaultWeight = %v, want 180", cfg.Inputs.DefaultWeight)
	}
	// Untouched keys keep their defaults
	if cfg.Inputs.DefaultDuration != 30 {
		t.Errorf("Inputs.DefaultDuration = %v, want 30", cfg.Inputs.DefaultDuration)
	}
	if cfg.Data.BaseFile != "exercise_dataset.csv" {
		t.Errorf("Data.BaseFile = %q, want exercise_dataset.csv", cfg.Data.BaseFile)
	}
	// Environment wins over file and defaults
	if cfg.Model.Trees != 250 {
		t.Errorf("Model.Trees = %v, want 250", cfg.Model.Trees)
	}
}

func TestCreateExampleDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	if err := CreateExample(path); err != nil {
		t.Fatalf("CreateExample() error = %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.Seed != 42 {
		t.Errorf("Model.Seed = %v, want 42", cfg.Model.Seed)
	}

	if err := os.WriteFile(path, []byte(`{"model": {"seed": 7}}`), 0600); err != nil {
		t.Fatal(err)
	}
	if err := CreateExample(path); err != nil {
		t.Fatalf("CreateExample() error = %v", err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.Seed != 7 {
		t.Errorf("existing config was overwritten: Model.Seed = %v, want 7", cfg.Model.Seed)
	}
}
