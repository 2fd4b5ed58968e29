package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaults(t *testing.T) {
	t.Setenv(configFile, "")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, filepath.Join("data", "pokeidle.db"), c.DBDSN)
	assert.Equal(t, zapcore.InfoLevel, c.LogLevel)
	assert.Equal(t, time.Second, c.TickInterval)
	assert.Equal(t, 30*time.Second, c.FlushInterval)
	assert.Equal(t, 24*time.Hour, c.JWTTTL)
	assert.Equal(t, "http://localhost:3000", c.ClientURL)
	assert.False(t, c.GamedataWatch)
}

func TestFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pokeidle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9000"
data_dir: /var/lib/pokeidle
log_level: debug
gamedata_watch: true
tick_interval: 500ms
`), 0o644))
	t.Setenv(configFile, path)
	t.Setenv(envPrefix+"HTTP_ADDR", ":7000")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.HTTPAddr)
	assert.Equal(t, "/var/lib/pokeidle", c.DataDir)
	assert.Equal(t, filepath.Join("/var/lib/pokeidle", "pokeidle.db"), c.DBDSN)
	assert.Equal(t, zapcore.DebugLevel, c.LogLevel)
	assert.True(t, c.GamedataWatch)
	assert.Equal(t, 500*time.Millisecond, c.TickInterval)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"TICK_INTERVAL": "soon",
		"LOG_DEV":       "maybe",
		"LOG_LEVEL":     "loud",
		"DB_DRIVER":     "mongo",
		"JWT_TTL":       "-1h",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(configFile, "")
			t.Setenv(envPrefix+key, val)
			_, err := Load()
			assert.ErrorContains(t, err, envPrefix+key)
		})
	}
}

func TestMissingFile(t *testing.T) {
	t.Setenv(configFile, filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
