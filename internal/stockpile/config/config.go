package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Server is the Stockpile server address in host:port format.
	Server string `koanf:"server" validate:"required,server_addr"`

	// DialTimeout bounds the initial connection attempt, in seconds.
	DialTimeout uint `koanf:"dial_timeout" validate:"required,gte=1,lte=300"`

	// BlacklistDB is the path of the bolt file holding the last known blacklist.
	BlacklistDB string `koanf:"blacklist_db" validate:"required"`

	// BlacklistCacheSize is the number of cached admission decisions. 0 disables the cache.
	BlacklistCacheSize int `koanf:"blacklist_cache_size" validate:"gte=0"`

	// BlacklistFPRate is the target false positive rate of the digest prefilter.
	BlacklistFPRate float64 `koanf:"blacklist_fp_rate" validate:"gt=0,lt=1"`

	// Check lists hostnames or IP addresses evaluated against the blacklist at startup.
	Check []string `koanf:"check" validate:"dive,required"`
}

// DefaultPort is the port a Stockpile server listens on unless configured otherwise.
const DefaultPort = 36623

// DEFAULT_APP_CONFIG defines the defaults applied before environment overrides.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:                "prod",
	LogLevel:           "info",
	Server:             fmt.Sprintf("localhost:%d", DefaultPort),
	DialTimeout:        5,
	BlacklistDB:        "/var/lib/stockpile/blacklist.db",
	BlacklistCacheSize: 1000,
	BlacklistFPRate:    0.01,
}

// validServerAddr accepts host:port where host is a hostname or IP literal and
// port is non-zero.
func validServerAddr(fl validator.FieldLevel) bool {
	host, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil || host == "" || port == "" {
		return false
	}
	n, err := strconv.ParseUint(port, 10, 16)
	return err == nil && n > 0
}

// envLoader loads environment variables with the prefix "STOCKPILE_".
// Keys are lowercased with the prefix removed; values containing spaces or
// commas are split into lists.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "STOCKPILE_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "STOCKPILE_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "server_addr" tag.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("server_addr", validServerAddr)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
