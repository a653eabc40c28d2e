// internal/config/config.go
//
// This package handles configuration and the .keysign directory structure.
// A project is the Flutter application root, the directory that holds
// android/ and key/.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// KeysignDir is the name of the directory we create in each project
	KeysignDir = ".keysign"

	// DefaultPropertiesPath is where key.properties lives relative to the project root.
	DefaultPropertiesPath = "key/key.properties"

	defaultVariant = "release"
)

const defaultProjectConfigYAML = `# keysign project configuration
version: 1

# Application namespace, used only for display.
namespace: ""

signing:
  # Path to the signing properties file. Relative paths resolve against the project root.
  properties: key/key.properties
  # Build variant the resolved config is applied to. Only release is supported.
  variant: release
`

// SigningSettings locates the properties file and the variant it signs.
type SigningSettings struct {
	Properties string `yaml:"properties"`
	Variant    string `yaml:"variant"`
}

// ProjectConfig models .keysign/config.yaml.
type ProjectConfig struct {
	Version   int             `yaml:"version"`
	Namespace string          `yaml:"namespace,omitempty"`
	Signing   SigningSettings `yaml:"signing"`
}

// Config holds the runtime configuration for keysign.
type Config struct {
	// ProjectDir is the project root, absolute
	ProjectDir string

	// KeysignProjectDir is ProjectDir/.keysign
	KeysignProjectDir string

	Project ProjectConfig
}

// InitKeysignDir creates the .keysign directory structure in the given
// project directory.
//
// Structure created:
// .keysign/
// ├── config.yaml
// └── logs/       <- build log written by every resolution
func InitKeysignDir(projectDir string) error {
	keysignDir := filepath.Join(projectDir, KeysignDir)
	if err := os.MkdirAll(filepath.Join(keysignDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(keysignDir, "config.yaml"))
}

// NewConfig creates a Config for projectDir, reading .keysign/config.yaml when
// it exists and falling back to defaults otherwise.
func NewConfig(projectDir string) (*Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve project dir: %w", err)
	}
	cfg := &Config{
		ProjectDir:        abs,
		KeysignProjectDir: filepath.Join(abs, KeysignDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.KeysignProjectDir, "logs")
}

// LogPath returns the build log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "keysign.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.KeysignProjectDir, "config.yaml")
}

// PropertiesPath returns the absolute path of the signing properties file.
func (c *Config) PropertiesPath() string {
	return c.Project.Signing.Properties
}

// Variant returns the build variant signed with the resolved config.
func (c *Config) Variant() string {
	return c.Project.Signing.Variant
}

// SetPropertiesPath updates the properties location and persists it back to
// .keysign/config.yaml.
func (c *Config) SetPropertiesPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("config: properties path is required")
	}
	c.Project.Signing.Properties = path
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.ProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Signing: SigningSettings{
			Properties: DefaultPropertiesPath,
			Variant:    defaultVariant,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Signing.Properties) == "" {
		pc.Signing.Properties = DefaultPropertiesPath
	}
	if strings.TrimSpace(pc.Signing.Variant) == "" {
		pc.Signing.Variant = defaultVariant
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Namespace = strings.TrimSpace(pc.Namespace)
	pc.Signing.Properties = resolvePath(base, pc.Signing.Properties)
	pc.Signing.Variant = strings.ToLower(strings.TrimSpace(pc.Signing.Variant))
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Signing.Properties == "" {
		return fmt.Errorf("signing.properties is required")
	}
	if pc.Signing.Variant != defaultVariant {
		return fmt.Errorf("signing.variant must be %q, got %q", defaultVariant, pc.Signing.Variant)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.KeysignProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure keysign dir: %w", err)
	}
	// Persist project-relative paths so the file survives a checkout move.
	out := c.Project
	if rel, err := filepath.Rel(c.ProjectDir, out.Signing.Properties); err == nil && !strings.HasPrefix(rel, "..") {
		out.Signing.Properties = filepath.ToSlash(rel)
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
