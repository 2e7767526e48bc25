package config

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/arko-chat/webuicall/internal/credentials"
)

const (
	appName    = "webuicall"
	configFile = "config.json"
	tokenKey   = "token_key"
)

type Config struct {
	ListenAddr      string `json:"listen_addr"`
	Title           string `json:"title"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	PollIntervalMS  int    `json:"poll_interval_ms"`
	CallTimeoutMS   int    `json:"call_timeout_ms"`
	TokenTTLSeconds int    `json:"token_ttl_seconds"`
	LogLevel        string `json:"log_level"`
	LogFormat       string `json:"log_format"`
	DevURL          string `json:"dev_url,omitempty"`
	TokenKey        string `json:"-"`
}

func Default() Config {
	return Config{
		ListenAddr:      "127.0.0.1:0",
		Title:           "Simple Calculator",
		Width:           480,
		Height:          360,
		PollIntervalMS:  200,
		CallTimeoutMS:   10000,
		TokenTTLSeconds: 3600,
		LogLevel:        "debug",
		LogFormat:       "text",
	}
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutMS) * time.Millisecond
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

// Dir is where the config file lives unless a path is given explicitly.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// LoadClient reads the settings a client of a running host needs. Unlike
// Load it never writes the file or touches the keyring; a missing file
// means defaults.
func LoadClient(path string) (*Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)
	return &cfg, nil
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file is created with defaults.
func Load(path string) (*Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, err
		}
		out, _ := json.MarshalIndent(cfg, "", "  ")
		_ = os.WriteFile(path, out, 0600)
		log.Printf("Generated new config at: %s", path)
	}

	cfg.TokenKey, err = credentials.LoadAppSecret(tokenKey)
	if err != nil {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		cfg.TokenKey = base64.StdEncoding.EncodeToString(key)
		if err := credentials.StoreAppSecret(tokenKey, cfg.TokenKey); err != nil {
			log.Printf("Keyring unavailable, call tokens will not survive a restart: %v", err)
		}
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)
	return &cfg, nil
}

// TokenKeyBytes decodes TokenKey. Keys that are not base64 are used as
// raw bytes.
func (c *Config) TokenKeyBytes() []byte {
	if b, err := base64.StdEncoding.DecodeString(c.TokenKey); err == nil && len(b) > 0 {
		return b
	}
	return []byte(c.TokenKey)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEBUI_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("WEBUI_TOKEN_KEY"); v != "" {
		cfg.TokenKey = v
	}
	if v := os.Getenv("WEBUI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WEBUI_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("WEBUI_DEV_URL"); v != "" {
		cfg.DevURL = v
	}
	if v, err := strconv.Atoi(os.Getenv("WEBUI_POLL_INTERVAL_MS")); err == nil {
		cfg.PollIntervalMS = v
	}
	if v, err := strconv.Atoi(os.Getenv("WEBUI_CALL_TIMEOUT_MS")); err == nil {
		cfg.CallTimeoutMS = v
	}
}

func normalize(cfg *Config) {
	d := Default()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = d.ListenAddr
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = d.PollIntervalMS
	}
	if cfg.CallTimeoutMS <= 0 {
		cfg.CallTimeoutMS = d.CallTimeoutMS
	}
	if cfg.TokenTTLSeconds <= 0 {
		cfg.TokenTTLSeconds = d.TokenTTLSeconds
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = d.Width, d.Height
	}
}
