package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FileName is the configuration file looked up in the working and home directories.
const FileName = ".git2sqlite.json"

// Config is the root configuration structure.
type Config struct {
	Source SourceConfig `json:"source"`
	Store  StoreConfig  `json:"store"`
	Refs   RefsConfig   `json:"refs"`
}

// SourceConfig selects how the repository is read.
type SourceConfig struct {
	Backend string `json:"backend"` // "gogit" or "gitcli"
	Order   string `json:"order"`   // Walk order, see git.ParseWalkOrder
}

// StoreConfig holds database options.
type StoreConfig struct {
	Path         string `json:"path"`         // Default: git_info_llama.db
	BatchSize    int    `json:"batchSize"`    // Default: 50
	TxMode       string `json:"txMode"`       // "commit" or "window"
	StrictSchema bool   `json:"strictSchema"` // Abort when the schema cannot be created
}

// RefsConfig controls the optional ref_details step.
type RefsConfig struct {
	Enabled bool     `json:"enabled"`
	Include []string `json:"include"` // Glob patterns on full ref names
	Exclude []string `json:"exclude"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Backend: "gogit",
			Order:   "default",
		},
		Store: StoreConfig{
			Path:      "git_info_llama.db",
			BatchSize: 50,
			TxMode:    "commit",
		},
		Refs: RefsConfig{
			Include: []string{},
			Exclude: []string{},
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
