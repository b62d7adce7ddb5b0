package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MegaGrindStone/travel-web-ui/internal/services"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort     = "8080"
	defaultLogLevel = "info"
	defaultAPIURL   = "http://localhost:8000"

	defaultHealthPath         = "/health"
	defaultAdditionalInfoPath = "/additional-info"
	defaultFinalResponsePath  = "/final-response"
)

type config struct {
	Port      string    `yaml:"port"`
	LogLevel  string    `yaml:"logLevel"`
	StorePath string    `yaml:"storePath"`
	API       apiConfig `yaml:"api"`
}

type apiConfig struct {
	BaseURL            string `yaml:"baseURL"`
	HealthPath         string `yaml:"healthPath"`
	AdditionalInfoPath string `yaml:"additionalInfoPath"`
	FinalResponsePath  string `yaml:"finalResponsePath"`
}

// loadConfig reads the YAML config at path. A missing file is not an error: the defaults, adjusted
// by the PORT and TRAVEL_API_URL environment variables, are used instead.
func loadConfig(path, dataDir string) (config, error) {
	cfg := config{}

	cfgFile, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return config{}, fmt.Errorf("error opening config file: %w", err)
	default:
		defer cfgFile.Close()
		if err := yaml.NewDecoder(cfgFile).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return config{}, fmt.Errorf("error decoding config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults(dataDir)

	if _, err := cfg.logLevel(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c *config) applyEnv() {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		c.Port = port
	}
	if apiURL := strings.TrimSpace(os.Getenv("TRAVEL_API_URL")); apiURL != "" {
		c.API.BaseURL = apiURL
	}
}

func (c *config) applyDefaults(dataDir string) {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.StorePath == "" {
		c.StorePath = filepath.Join(dataDir, "store.db")
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIURL
	}
	if c.API.HealthPath == "" {
		c.API.HealthPath = defaultHealthPath
	}
	if c.API.AdditionalInfoPath == "" {
		c.API.AdditionalInfoPath = defaultAdditionalInfoPath
	}
	if c.API.FinalResponsePath == "" {
		c.API.FinalResponsePath = defaultFinalResponsePath
	}
}

func (c config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// addr returns the listen address. The port may be given bare ("8080") or as a full address
// (":8080", "127.0.0.1:8080").
func (c config) addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (a apiConfig) newBackend(logger *slog.Logger) (services.Backend, error) {
	return services.NewBackend(a.BaseURL, services.BackendPaths{
		Health:         a.HealthPath,
		AdditionalInfo: a.AdditionalInfoPath,
		FinalResponse:  a.FinalResponsePath,
	}, nil, logger)
}
