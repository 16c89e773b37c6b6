package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SourceDir   string `toml:"source_dir"`
	OutputDir   string `toml:"output_dir"`
	LogDir      string `toml:"log_dir"`
	CatalogPath string `toml:"catalog_path"`
}

// Matcher contains fuzzy-match tuning.
type Matcher struct {
	// FuzzyThreshold is the minimum 0-100 similarity score that binds a
	// sidecar during tier 2.
	FuzzyThreshold int `toml:"fuzzy_threshold"`
	FuzzyWorkers   int `toml:"fuzzy_workers"`
}

// Dedup contains content-hashing tuning.
type Dedup struct {
	BatchSize  int `toml:"batch_size"`
	HashBuffer int `toml:"hash_buffer"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	FileCommand     string `toml:"file_command"`
	ExiftoolCommand string `toml:"exiftool_command"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for takesort.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Matcher Matcher `toml:"matcher"`
	Dedup   Dedup   `toml:"dedup"`
	Tools   Tools   `toml:"tools"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogPath: "~/.local/share/takesort/catalog.db",
		},
		Matcher: Matcher{
			FuzzyThreshold: 90,
			FuzzyWorkers:   8,
		},
		Dedup: Dedup{
			BatchSize:  1024,
			HashBuffer: 1024,
		},
		Tools: Tools{
			FileCommand:     "file",
			ExiftoolCommand: "exiftool",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/takesort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("takesort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.SourceDir,
		&c.Paths.OutputDir,
		&c.Paths.LogDir,
		&c.Paths.CatalogPath,
	} {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Tools.FileCommand = strings.TrimSpace(c.Tools.FileCommand)
	c.Tools.ExiftoolCommand = strings.TrimSpace(c.Tools.ExiftoolCommand)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// Validate checks value ranges; directory presence is checked at run time
// because source/output may arrive as CLI arguments.
func (c *Config) Validate() error {
	if c.Matcher.FuzzyThreshold < 1 || c.Matcher.FuzzyThreshold > 100 {
		return fmt.Errorf("matcher.fuzzy_threshold must be within 1-100, got %d", c.Matcher.FuzzyThreshold)
	}
	if c.Matcher.FuzzyWorkers < 1 {
		return fmt.Errorf("matcher.fuzzy_workers must be positive, got %d", c.Matcher.FuzzyWorkers)
	}
	if c.Dedup.BatchSize < 1 {
		return fmt.Errorf("dedup.batch_size must be positive, got %d", c.Dedup.BatchSize)
	}
	if c.Dedup.HashBuffer < 1 {
		return fmt.Errorf("dedup.hash_buffer must be positive, got %d", c.Dedup.HashBuffer)
	}
	if c.Tools.FileCommand == "" {
		return errors.New("tools.file_command must not be empty")
	}
	if c.Tools.ExiftoolCommand == "" {
		return errors.New("tools.exiftool_command must not be empty")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// EnsureDirectories creates the directories a run writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Paths.CatalogPath != "" {
		if err := os.MkdirAll(filepath.Dir(c.Paths.CatalogPath), 0o755); err != nil {
			return fmt.Errorf("create catalog directory: %w", err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
