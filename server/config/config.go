package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix  = "POKEIDLE_"
	configFile = envPrefix + "CONFIG"
)

type Google struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

type Config struct {
	HTTPAddr      string
	DataDir       string
	DBDriver      string
	DBDSN         string
	LogLevel      zapcore.Level
	LogDev        bool
	GamedataDir   string
	GamedataWatch bool
	TickInterval  time.Duration
	FlushInterval time.Duration
	ClientURL     string
	Google        Google
	JWTTTL        time.Duration
}

// source resolves a key: the environment first, then the YAML file.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) (string, bool) {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v, true
	}
	v, ok := s.file[strings.ToLower(key)]
	return v, ok && v != ""
}

func (s source) envOr(key, fallback string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return fallback
}

func (s source) durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := s.lookup(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s %q: %w", envPrefix, key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s%s %q: must be positive", envPrefix, key, v)
	}
	return d, nil
}

func (s source) boolOr(key string, fallback bool) (bool, error) {
	v, ok := s.lookup(key)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s%s %q: %w", envPrefix, key, v, err)
	}
	return b, nil
}

// readFile loads the flat key/value YAML named by POKEIDLE_CONFIG.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[strings.ToLower(k)] = fmt.Sprint(v)
	}
	return out, nil
}

func Load() (Config, error) {
	var src source
	if path := os.Getenv(configFile); path != "" {
		m, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		src.file = m
	}

	c := Config{
		HTTPAddr:    src.envOr("HTTP_ADDR", ":8080"),
		DataDir:     src.envOr("DATA_DIR", "data"),
		DBDriver:    src.envOr("DB_DRIVER", "sqlite"),
		GamedataDir: src.envOr("GAMEDATA_DIR", ""),
		ClientURL:   strings.TrimRight(src.envOr("CLIENT_URL", "http://localhost:3000"), "/"),
		Google: Google{
			ClientID:     src.envOr("GOOGLE_CLIENT_ID", ""),
			ClientSecret: src.envOr("GOOGLE_CLIENT_SECRET", ""),
			CallbackURL:  src.envOr("GOOGLE_CALLBACK_URL", "http://localhost:8080/auth/google/callback"),
		},
	}
	c.DBDSN = src.envOr("DB_DSN", filepath.Join(c.DataDir, "pokeidle.db"))

	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid %sDB_DRIVER %q", envPrefix, c.DBDriver)
	}

	level, err := zapcore.ParseLevel(src.envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %sLOG_LEVEL: %w", envPrefix, err)
	}
	c.LogLevel = level

	if c.LogDev, err = src.boolOr("LOG_DEV", false); err != nil {
		return Config{}, err
	}
	if c.GamedataWatch, err = src.boolOr("GAMEDATA_WATCH", false); err != nil {
		return Config{}, err
	}
	if c.TickInterval, err = src.durationOr("TICK_INTERVAL", time.Second); err != nil {
		return Config{}, err
	}
	if c.FlushInterval, err = src.durationOr("FLUSH_INTERVAL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if c.JWTTTL, err = src.durationOr("JWT_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	return c, nil
}
