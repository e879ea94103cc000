// Package config loads classifier options and the default settings snapshot
// from the environment, an optional .env file and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/elum-utils/cleen/adapters/ai"
	"github.com/elum-utils/cleen/core"
	"github.com/elum-utils/cleen/interfaces"
	"github.com/elum-utils/cleen/models"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultRetryDelay = time.Second
)

// Remote classifier providers selectable with CLEEN_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderChat   = "chat"
)

// Config holds runtime configuration.
type Config struct {
	// Provider selects the remote classifier: ProviderGemini (default) or ProviderChat.
	Provider string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// Chat* configure an OpenAI-compatible chat completions backend.
	ChatAPIKey  string
	ChatModel   string
	ChatBaseURL string

	Timeout    time.Duration
	RetryCount uint64
	RetryDelay time.Duration

	// Settings is the snapshot used when the caller has none of its own.
	Settings models.Settings
}

// Load reads .env (if present) then environment variables and returns Config.
func Load() (*Config, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	cfg := &Config{
		Provider:      strings.ToLower(strings.TrimSpace(os.Getenv("CLEEN_PROVIDER"))),
		GeminiAPIKey:  strings.TrimSpace(os.Getenv("CLEEN_GEMINI_API_KEY")),
		GeminiModel:   strings.TrimSpace(os.Getenv("CLEEN_GEMINI_MODEL")),
		GeminiBaseURL: strings.TrimSpace(os.Getenv("CLEEN_GEMINI_BASE_URL")),
		ChatAPIKey:    strings.TrimSpace(os.Getenv("CLEEN_CHAT_API_KEY")),
		ChatModel:     strings.TrimSpace(os.Getenv("CLEEN_CHAT_MODEL")),
		ChatBaseURL:   strings.TrimSpace(os.Getenv("CLEEN_CHAT_BASE_URL")),
		Timeout:       DefaultTimeout,
		RetryDelay:    DefaultRetryDelay,
		Settings:      models.DefaultSettings(),
	}
	switch cfg.Provider {
	case "":
		cfg.Provider = ProviderGemini
	case ProviderGemini, ProviderChat:
	default:
		return nil, fmt.Errorf("config: unknown CLEEN_PROVIDER %q", cfg.Provider)
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = ai.DefaultChatModel
	}
	if cfg.ChatBaseURL == "" {
		cfg.ChatBaseURL = ai.DefaultChatBaseURL
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = ai.DefaultGeminiModel
	}
	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = ai.DefaultGeminiBaseURL
	}

	var err error
	if cfg.Timeout, err = durationEnv("CLEEN_TIMEOUT", DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = durationEnv("CLEEN_RETRY_DELAY", DefaultRetryDelay); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(os.Getenv("CLEEN_RETRY_COUNT")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("config: invalid CLEEN_RETRY_COUNT %q: %w", raw, err)
		}
		cfg.RetryCount = n
	}
	if path := strings.TrimSpace(os.Getenv("CLEEN_SETTINGS_FILE")); path != "" {
		if cfg.Settings, err = LoadSettingsFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// durationEnv accepts Go durations ("1.5s") or plain milliseconds ("10000").
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("config: %s must be positive, got %q", key, raw)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %q", key, raw)
	}
	return d, nil
}

// LoadSettingsFile decodes a YAML settings snapshot. Missing fields take the defaults;
// an explicit empty keyword list is kept and disables analysis.
func LoadSettingsFile(path string) (models.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Settings{}, fmt.Errorf("config: read settings file %q: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes YAML settings and applies defaults.
func ParseSettings(data []byte) (models.Settings, error) {
	var s models.Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return models.Settings{}, fmt.Errorf("config: parse settings: %w", err)
	}
	def := models.DefaultSettings()
	if s.Keywords == nil {
		s.Keywords = def.Keywords
	}
	if s.SensitivityLevel == 0 {
		s.SensitivityLevel = def.SensitivityLevel
	}
	if !s.SensitivityLevel.Valid() {
		return models.Settings{}, fmt.Errorf("config: sensitivity_level must be 1..4, got %d", s.SensitivityLevel)
	}
	if s.Mode == "" {
		s.Mode = def.Mode
	}
	mode, err := models.ParseMode(string(s.Mode))
	if err != nil {
		return models.Settings{}, fmt.Errorf("config: %w", err)
	}
	s.Mode = mode
	return s, nil
}

// Classifier builds the configured remote classifier. It returns a nil classifier and
// models.ErrNotConfigured when the selected provider has no key.
func (c *Config) Classifier() (interfaces.Classifier, error) {
	switch c.Provider {
	case ProviderChat:
		a, err := ai.NewChatAdapter(ai.ChatOptions{
			APIKey:  c.ChatAPIKey,
			BaseURL: c.ChatBaseURL,
			Model:   c.ChatModel,
			Timeout: c.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	case "", ProviderGemini:
		g, err := ai.NewGeminiAdapter(ai.GeminiOptions{
			APIKey:  c.GeminiAPIKey,
			BaseURL: c.GeminiBaseURL,
			Model:   c.GeminiModel,
			Timeout: c.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("config: unknown provider %q", c.Provider)
	}
}

// CoreOptions returns service options. Without an API key the options carry no
// classifier and the service runs the heuristic matcher only.
func (c *Config) CoreOptions(logger interfaces.Logger) core.Options {
	opt := core.Options{
		Logger:     logger,
		Timeout:    c.Timeout,
		Retries:    c.RetryCount,
		RetryDelay: c.RetryDelay,
	}
	classifier, err := c.Classifier()
	if err != nil {
		if logger != nil {
			logger.Info("remote classifier disabled", map[string]any{"error": err.Error()})
		}
		return opt
	}
	opt.Classifier = classifier
	return opt
}
