package config

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "localhost:36623", cfg.Server)
	assert.Equal(t, uint(5), cfg.DialTimeout)
	assert.Equal(t, "/var/lib/stockpile/blacklist.db", cfg.BlacklistDB)
	assert.Equal(t, 1000, cfg.BlacklistCacheSize)
	assert.InDelta(t, 0.01, cfg.BlacklistFPRate, 1e-12)
	assert.Empty(t, cfg.Check)
}

func TestLoad_ValidOverrides(t *testing.T) {
	t.Setenv("STOCKPILE_ENV", "dev")
	t.Setenv("STOCKPILE_LOG_LEVEL", "debug")
	t.Setenv("STOCKPILE_SERVER", "cache.example.org:9000")
	t.Setenv("STOCKPILE_DIAL_TIMEOUT", "12")
	t.Setenv("STOCKPILE_BLACKLIST_DB", "/tmp/bl.db")
	t.Setenv("STOCKPILE_BLACKLIST_CACHE_SIZE", "0")
	t.Setenv("STOCKPILE_BLACKLIST_FP_RATE", "0.001")
	t.Setenv("STOCKPILE_CHECK", "play.example.org, 10.100.200.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "cache.example.org:9000", cfg.Server)
	assert.Equal(t, uint(12), cfg.DialTimeout)
	assert.Equal(t, "/tmp/bl.db", cfg.BlacklistDB)
	assert.Equal(t, 0, cfg.BlacklistCacheSize)
	assert.InDelta(t, 0.001, cfg.BlacklistFPRate, 1e-12)
	assert.Equal(t, []string{"play.example.org", "10.100.200.1"}, cfg.Check)
}

func TestLoad_SingleCheckAddress(t *testing.T) {
	t.Setenv("STOCKPILE_CHECK", "play.example.org")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"play.example.org"}, cfg.Check)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"STOCKPILE_ENV":               "staging",
		"STOCKPILE_LOG_LEVEL":         "verbose",
		"STOCKPILE_SERVER":            "no-port",
		"STOCKPILE_DIAL_TIMEOUT":      "0",
		"STOCKPILE_BLACKLIST_FP_RATE": "1.5",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestLoad_LoaderErrors(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		orig := defaultLoader
		defaultLoader = func(*koanf.Koanf) error { return errors.New("mocked error") }
		defer func() { defaultLoader = orig }()

		_, err := Load()
		require.ErrorContains(t, err, "error loading default config")
	})
	t.Run("env", func(t *testing.T) {
		orig := envLoader
		envLoader = func(*koanf.Koanf) error { return errors.New("mocked error") }
		defer func() { envLoader = orig }()

		_, err := Load()
		require.ErrorContains(t, err, "error loading env")
	})
	t.Run("validation registration", func(t *testing.T) {
		orig := registerValidation
		registerValidation = func(*validator.Validate) error { return errors.New("mocked error") }
		defer func() { registerValidation = orig }()

		_, err := Load()
		require.ErrorContains(t, err, "error registering validation")
	})
}

func TestValidServerAddr(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"localhost:36623", true},
		{"127.0.0.1:36623", true},
		{"[::1]:36623", true},
		{"cache.example.org:1", true},
		{"cache.example.org:0", false},
		{"cache.example.org:70000", false},
		{"cache.example.org:port", false},
		{":36623", false},
		{"localhost", false},
		{"", false},
	}

	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("server_addr", validServerAddr))

	type S struct {
		Addr string `validate:"server_addr"`
	}
	for _, tc := range cases {
		err := validate.Struct(S{Addr: tc.input})
		if tc.want {
			assert.NoError(t, err, tc.input)
		} else {
			assert.Error(t, err, tc.input)
		}
	}
}
