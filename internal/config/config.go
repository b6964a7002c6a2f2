package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jimezsa/learncli/internal/models"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "learncli"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	LogFileName     = "learncli.log"

	DefaultBaseURL       = "https://learn.microsoft.com/api"
	DefaultLocale        = models.DefaultLocale
	DefaultContributorID = models.DefaultContributorID
	DefaultDebounceMS    = 300
)

// DefaultFeatured are the topics offered under "Try searching for".
var DefaultFeatured = []string{"Azure", "Power BI", "Microsoft 365", "Dynamics 365", "Visual Studio Code"}

// Config contains search defaults.
type Config struct {
	Locale        string   `json:"locale"`
	BaseURL       string   `json:"base_url"`
	ContributorID string   `json:"contributor_id"`
	DebounceMS    int      `json:"debounce_ms"`
	Featured      []string `json:"featured"`
}

func DefaultConfig() Config {
	return Config{
		Locale:        envString("LEARNCLI_LOCALE", DefaultLocale),
		BaseURL:       envString("LEARNCLI_BASE_URL", DefaultBaseURL),
		ContributorID: envString("LEARNCLI_CONTRIBUTOR_ID", DefaultContributorID),
		DebounceMS:    envInt("LEARNCLI_DEBOUNCE_MS", DefaultDebounceMS),
		Featured:      append([]string{}, DefaultFeatured...),
	}
}

// Debounce returns the suggestion quiet period.
func (c Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func ConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("LEARNCLI_CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	return pathInConfigDir(ConfigFileName)
}

func ProxiesPath() (string, error) {
	return pathInConfigDir(ProxiesFileName)
}

func LogPath() (string, error) {
	return pathInConfigDir(LogFileName)
}

func pathInConfigDir(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return normalize(cfg), nil
}

// normalize restores defaults for fields a config file blanked out.
func normalize(cfg Config) Config {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.Locale) == "" {
		cfg.Locale = defaults.Locale
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if strings.TrimSpace(cfg.ContributorID) == "" {
		cfg.ContributorID = defaults.ContributorID
	}
	if cfg.DebounceMS <= 0 {
		cfg.DebounceMS = defaults.DebounceMS
	}
	if cfg.Featured == nil {
		cfg.Featured = defaults.Featured
	}
	return cfg
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("LEARNCLI_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
