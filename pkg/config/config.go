// Package config loads Kiosk settings from a YAML file and KIOSK_* environment variables.
//
// Sources are layered: built-in defaults, then the file, then the environment.
// The merged map is decoded with mapstructure, so "30s" becomes a time.Duration
// and "6379"-style strings become numbers.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	IDsUUID     = "uuid"
	IDsSequence = "sequence"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Board   BoardConfig   `mapstructure:"board"`
	Log     LogConfig     `mapstructure:"log"`
}

// CatalogConfig selects the template source.
// Path wins over Items; with neither, the built-in catalog is used.
type CatalogConfig struct {
	Path  string               `mapstructure:"path"`
	Items []domain.CatalogItem `mapstructure:"items"`
}

type StoreConfig struct {
	Backend       string        `mapstructure:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
	LockTTL       time.Duration `mapstructure:"lock_ttl"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

type BoardConfig struct {
	InitialLists int    `mapstructure:"initial_lists"`
	IDs          string `mapstructure:"ids"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envKeys maps environment variables to dotted config keys.
var envKeys = map[string]string{
	"KIOSK_CATALOG":        "catalog.path",
	"KIOSK_STORE_BACKEND":  "store.backend",
	"KIOSK_REDIS_ADDR":     "store.redis_addr",
	"KIOSK_REDIS_PASSWORD": "store.redis_password",
	"KIOSK_REDIS_DB":       "store.redis_db",
	"KIOSK_STORE_PREFIX":   "store.prefix",
	"KIOSK_STORE_TTL":      "store.ttl",
	"KIOSK_LOCK_TTL":       "store.lock_ttl",
	"KIOSK_HTTP_PORT":      "http.port",
	"KIOSK_INITIAL_LISTS":  "board.initial_lists",
	"KIOSK_IDS":            "board.ids",
	"KIOSK_LOG_LEVEL":      "log.level",
	"KIOSK_LOG_FORMAT":     "log.format",
}

func defaults() map[string]any {
	return map[string]any{
		"catalog": map[string]any{},
		"store": map[string]any{
			"backend":    BackendMemory,
			"redis_addr": "localhost:6379",
			"redis_db":   0,
			"prefix":     "kiosk:",
			"ttl":        "24h",
			"lock_ttl":   "30s",
		},
		"http": map[string]any{
			"port": 8080,
		},
		"board": map[string]any{
			"initial_lists": domain.DefaultInitialLists,
			"ids":           IDsUUID,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
}

// Default returns the configuration used when no file or environment is given.
func Default() *Config {
	cfg, err := decode(defaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the YAML file at path (optional when empty) and applies the environment.
func Load(path string) (*Config, error) {
	raw := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		mergeMaps(raw, file)
	}

	for env, key := range envKeys {
		if v, ok := os.LookupEnv(env); ok {
			setPath(raw, key, v)
		}
	}

	cfg, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(raw map[string]any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		problems = append(problems, fmt.Sprintf("store.backend %q (want memory or redis)", c.Store.Backend))
	}
	if c.Store.TTL < 0 || c.Store.LockTTL < 0 {
		problems = append(problems, "store ttl values must not be negative")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		problems = append(problems, fmt.Sprintf("http.port %d out of range", c.HTTP.Port))
	}
	if c.Board.InitialLists < 0 {
		problems = append(problems, "board.initial_lists must not be negative")
	}
	switch c.Board.IDs {
	case IDsUUID, IDsSequence:
	default:
		problems = append(problems, fmt.Sprintf("board.ids %q (want uuid or sequence)", c.Board.IDs))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q (want text or json)", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func mergeMaps(dest, src map[string]any) {
	for key, srcVal := range src {
		if srcMap, ok := srcVal.(map[string]any); ok {
			if destMap, ok := dest[key].(map[string]any); ok {
				mergeMaps(destMap, srcMap)
				continue
			}
		}
		dest[key] = srcVal
	}
}

func setPath(m map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}
