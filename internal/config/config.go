package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the wendaml service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Database  DatabaseConfig  `yaml:"database"`
	Regions   RegionsConfig   `yaml:"regions"`
	Training  TrainingConfig  `yaml:"training"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ArtifactsConfig holds artifact store settings.
type ArtifactsConfig struct {
	Backend   string   `yaml:"backend"` // fs, redis (default: fs)
	Dir       string   `yaml:"dir"`     // fs backend: artifact directory
	KeyPrefix string   `yaml:"key_prefix"`
	Addrs     []string `yaml:"addrs"` // redis backend: node addresses
	Password  string   `yaml:"password"`
	CacheSize int      `yaml:"cache_size"` // max deserialized models held in memory
}

// DatabaseConfig holds Postgres connection settings for the historical
// statistics provider, the destination catalog, and the model registry.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RegionsConfig holds the supported region list.
// Regions not listed here are rejected before prediction runs.
type RegionsConfig struct {
	Supported []string `yaml:"supported"`
	// BaseVisitors overrides entries in the built-in per-region baseline
	// visitor table.
	BaseVisitors map[string]float64 `yaml:"base_visitors"`
}

// TrainingConfig holds offline training job settings.
type TrainingConfig struct {
	Seed            int64  `yaml:"seed"`
	SyntheticSample int    `yaml:"synthetic_samples"`
	Clusters        int    `yaml:"clusters"`
	Estimators      int    `yaml:"estimators"`
	VocabularySize  int    `yaml:"vocabulary_size"`
	DataDir         string `yaml:"data_dir"` // parquet exports, when not reading Postgres
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// DefaultRegions are the regions served when the config lists none.
var DefaultRegions = []string{"Luanda", "Benguela", "Huila", "Namibe", "Cunene", "Malanje"}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Artifacts.Backend == "" {
		c.Artifacts.Backend = "fs"
	}
	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = "models"
	}
	if c.Artifacts.KeyPrefix == "" {
		c.Artifacts.KeyPrefix = "wendaml:"
	}
	if c.Artifacts.CacheSize <= 0 {
		c.Artifacts.CacheSize = 64
	}
	if len(c.Regions.Supported) == 0 {
		c.Regions.Supported = DefaultRegions
	}
	if c.Training.Seed == 0 {
		c.Training.Seed = 42
	}
	if c.Training.SyntheticSample <= 0 {
		c.Training.SyntheticSample = 500
	}
	if c.Training.Clusters <= 0 {
		c.Training.Clusters = 5
	}
	if c.Training.Estimators <= 0 {
		c.Training.Estimators = 100
	}
	if c.Training.VocabularySize <= 0 {
		c.Training.VocabularySize = 50
	}
	if c.Training.DataDir == "" {
		c.Training.DataDir = "data"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Artifacts.Backend {
	case "fs", "redis":
		// ok
	default:
		return fmt.Errorf("artifacts.backend must be \"fs\" or \"redis\", got %q", c.Artifacts.Backend)
	}
	if c.Artifacts.Backend == "redis" && len(c.Artifacts.Addrs) == 0 {
		return fmt.Errorf("artifacts.addrs is required for the redis backend")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
