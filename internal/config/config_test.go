package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOST", "")
	t.Setenv("PORT", "")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr())
	assert.Equal(t, "/", cfg.Greeting.Path)
	assert.Equal(t, "Hello World", cfg.Greeting.Body)
	assert.Equal(t, "text/plain", cfg.Greeting.ContentType)
	assert.Equal(t, 2*time.Second, cfg.Greeting.Delay())
	assert.Equal(t, 1000, cfg.JournalMemoryCapacity)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.MinIO.Enabled())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("GREETING_DELAY_MS", "150")
	t.Setenv("GREETING_BODY", "hi")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 150*time.Millisecond, cfg.Greeting.Delay())
	assert.Equal(t, "hi", cfg.Greeting.Body)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hellosrv.yaml")
	content := "port: \"9100\"\ngreeting_delay_ms: 10\ngreeting_body: from file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("GREETING_BODY", "from env")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 10, cfg.Greeting.DelayMs)
	// environment beats the file
	assert.Equal(t, "from env", cfg.Greeting.Body)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load(nil)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("PORT", "7000")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("host", "127.0.0.1", "")
	fs.String("port", "8000", "")
	fs.Int("delay-ms", 2000, "")
	fs.String("config", "", "")
	require.NoError(t, fs.Parse([]string{"--port", "9000", "--delay-ms", "0"}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 0, cfg.Greeting.DelayMs)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("GREETING_DELAY_MS", "-1")

	cfg, err := Load(nil)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "delay must not be negative")
}

func TestValidate(t *testing.T) {
	base := func() *AppConfig {
		return &AppConfig{
			Port:                  "8000",
			JournalMemoryCapacity: 10,
			Greeting:              GreetingConfig{Path: "/"},
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.Port = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Greeting.MaxPending = -2
	assert.Error(t, c.Validate())

	c = base()
	c.Greeting.Path = "hello"
	assert.Error(t, c.Validate())

	c = base()
	c.JournalMemoryCapacity = 0
	assert.Error(t, c.Validate())
}

func TestValidate_ReservedGreetingPath(t *testing.T) {
	for _, path := range []string{"/greeting", "/Greeting/", "/health", "/healthz", "/metrics", "/responses", "/responses/abc", "/swagger/index.html"} {
		t.Run(path, func(t *testing.T) {
			c := &AppConfig{Port: "8000", JournalMemoryCapacity: 10, Greeting: GreetingConfig{Path: path}}
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "collides with a built-in route")
		})
	}

	for _, path := range []string{"/", "/hello", "/greetings", "/healthcheck"} {
		t.Run(path, func(t *testing.T) {
			c := &AppConfig{Port: "8000", JournalMemoryCapacity: 10, Greeting: GreetingConfig{Path: path}}
			assert.NoError(t, c.Validate())
		})
	}
}

func TestLoad_ReservedGreetingPathFromEnv(t *testing.T) {
	t.Setenv("GREETING_PATH", "/greeting")

	cfg, err := Load(nil)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "UTC"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Local"
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}
