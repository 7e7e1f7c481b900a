package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tienda")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "/home/tienda/.local/share/lubri/lubri.db", cfg.Database.Path)
	assert.Equal(t, 7, cfg.Alerts.Cap)
	assert.Equal(t, 30*time.Second, cfg.Alerts.PollInterval)
	assert.Equal(t, "admin", cfg.Alerts.DefaultRole)
	assert.InDelta(t, 2.0, cfg.Classifier.Baseline, 1e-9)
	assert.InDelta(t, 0.3, cfg.Classifier.Floor, 1e-9)
	assert.True(t, cfg.Classifier.UseStoredRules)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Server.TLS)
	assert.Equal(t, "/home/tienda/.config/lubri/certs", cfg.Server.CertDir)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  path: /tmp/lubri-test.db
alerts:
  cap: 5
  poll_interval: 10s
  default_role: cajero
classifier:
  floor: 0.25
cache:
  enabled: true
  addr: redis:6379
  ttl: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lubri-test.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Alerts.Cap)
	assert.Equal(t, 10*time.Second, cfg.Alerts.PollInterval)
	assert.Equal(t, "cajero", cfg.Alerts.DefaultRole)
	assert.InDelta(t, 0.25, cfg.Classifier.Floor, 1e-9)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LUBRI_ALERTS_CAP", "3")
	t.Setenv("LUBRI_SERVER_ADDR", "127.0.0.1:9000")

	v := viper.New()
	BindEnv(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Alerts.Cap)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		wantErr error
		set     map[string]any
		name    string
	}{
		{name: "floor too high", set: map[string]any{"classifier.floor": 1.0}, wantErr: common.ErrInvalidConfig},
		{name: "negative baseline", set: map[string]any{"classifier.baseline": -1.0}, wantErr: common.ErrInvalidConfig},
		{name: "bad log level", set: map[string]any{"logging.level": "loud"}, wantErr: common.ErrInvalidConfig},
		{name: "cache without addr", set: map[string]any{"cache.enabled": true, "cache.addr": ""}, wantErr: common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LUBRI_TEST_DOTENV=hola\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("LUBRI_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hola", os.Getenv("LUBRI_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tienda")
	t.Setenv("LUBRI_DIR", "/srv/lubri")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/tienda", ExpandPath("~"))
	assert.Equal(t, "/home/tienda/db/lubri.db", ExpandPath("~/db/lubri.db"))
	assert.Equal(t, "/srv/lubri/lubri.db", ExpandPath("$LUBRI_DIR/lubri.db"))
	assert.Equal(t, "/abs/path.db", ExpandPath("/abs/path.db"))
}

func TestDir(t *testing.T) {
	t.Setenv("HOME", "/home/tienda")
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/home/tienda/.config/lubri", dir)

	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	dir, err = Dir()
	require.NoError(t, err)
	assert.Equal(t, "/etc/xdg/lubri", dir)
}
