package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/auditfix/domain"
)

// DefaultRegistry is the registry audited against when none is configured.
const DefaultRegistry = "https://registry.npmjs.org"

// Config is the top-level configuration for auditfix.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Audit    AuditConfig    `yaml:"audit"`
	Fix      FixConfig      `yaml:"fix"`
}

// RegistryConfig describes the package registry the audit talks to.
type RegistryConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// AuditConfig holds report settings.
type AuditConfig struct {
	Level      string `yaml:"level"`      // Minimum severity that fails the report
	Production bool   `yaml:"production"` // Leave development dependencies out
}

// FixConfig holds fix-run settings.
type FixConfig struct {
	Commit    bool `yaml:"commit"`
	Changelog bool `yaml:"changelog"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{URL: DefaultRegistry},
		Audit:    AuditConfig{Level: domain.SeverityLow.String()},
		Fix:      FixConfig{Changelog: true},
	}
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file on top of the defaults,
// expanding environment variables and resolving token file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.Registry.Token = ResolveToken(cfg.Registry.Token)

	if validateErr := Validate(cfg); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// Resolve returns the effective configuration: an explicitly given file must
// load, a discovered file is used when present, and the defaults apply
// otherwise.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	found, err := FindConfigFile()
	if err != nil {
		logger.Debug("No config file found, using defaults")
		return Default(), nil
	}

	logger.Debugf("Using config file %q", found)
	return Load(found)
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".auditfix.yaml",
		".auditfix.yml",
		"auditfix.yaml",
		"auditfix.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// Validate checks for required configuration values.
func Validate(cfg *Config) error {
	if cfg.Registry.URL == "" {
		return errors.New("registry.url must not be empty")
	}

	if _, err := domain.ParseSeverity(cfg.Audit.Level); err != nil {
		return fmt.Errorf("audit.level: %w", err)
	}

	return nil
}
