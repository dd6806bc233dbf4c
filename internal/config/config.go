package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"icsagenda/internal/model"
)

// SourceConfig describes one calendar source: a single .ics/.ical file, a
// directory of calendar files, or a directory scanned recursively.
type SourceConfig struct {
	// Name is the display name; when empty, the calendar's own
	// X-WR-CALNAME is used instead.
	Name string `yaml:"name"`
	// Path is a file or directory holding .ics/.ical files.
	Path string `yaml:"path"`
	// Color is the display color for records from this source
	// (a named terminal color or a #rrggbb value).
	Color string `yaml:"color"`
	// Recursive scans the directory at all depths instead of direct
	// children only.
	Recursive bool `yaml:"recursive"`
}

// Config is the top-level application configuration.
type Config struct {
	// RangeDays is the default agenda window length in days.
	RangeDays int `yaml:"range_days"`

	// ShowCompleted includes completed todos in task listings.
	ShowCompleted bool `yaml:"show_completed"`

	// Refresh is a cron-style schedule (e.g. "*/15 * * * *") used by the
	// watch command to re-read sources and reprint the agenda.
	Refresh string `yaml:"refresh"`

	// Color toggles styled terminal output.
	Color bool `yaml:"color"`

	// Sources is the list of calendar sources to aggregate.
	Sources []SourceConfig `yaml:"sources"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		RangeDays:     7,
		ShowCompleted: false,
		Refresh:       "*/15 * * * *",
		Color:         true,
		Sources:       []SourceConfig{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.RangeDays <= 0 {
		c.RangeDays = 7
	}
	if c.Refresh == "" {
		c.Refresh = "*/15 * * * *"
	}
	if c.Sources == nil {
		c.Sources = []SourceConfig{}
	}
}

// ModelSources converts the configured sources into pipeline inputs.
func (c *Config) ModelSources() []model.Source {
	out := make([]model.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, model.Source{
			Name:      s.Name,
			Path:      s.Path,
			Color:     s.Color,
			Recursive: s.Recursive,
		})
	}
	return out
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there
//     (creating the parent directory) and returned.
//   - If the file exists, it is unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// The parent directory is created if needed and the write is atomic via a
// temp file + rename, with 0600 permissions on the result.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".icsagenda-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up the temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
