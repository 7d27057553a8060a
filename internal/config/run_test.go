package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/payments-engine/internal/common"
)

func TestLoadRunConfig_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadRunConfig(v)
	require.NoError(t, err)
	assert.Equal(t, &RunConfig{
		LogLevel:  "warn",
		LogFormat: "console",
		Sort:      true,
	}, cfg)
}

func TestLoadRunConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `logging:
  level: debug
  format: json
report:
  sort: false
export:
  database: $PAYMENTS_TEST_DIR/out.db
output:
  summary: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("PAYMENTS_TEST_DIR", dir)

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadRunConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.Sort)
	assert.True(t, cfg.Summary)
	assert.False(t, cfg.Progress)
	assert.Equal(t, filepath.Join(dir, "out.db"), cfg.ExportDatabase)
}

func TestLoadRunConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad level", key: KeyLogLevel, value: "loud"},
		{name: "bad format", key: KeyLogFormat, value: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := LoadRunConfig(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("PAYMENTS_EXPAND", "/data")

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "~", want: home},
		{input: "~/out.db", want: filepath.Join(home, "out.db")},
		{input: "$PAYMENTS_EXPAND/out.db", want: "/data/out.db"},
		{input: "/abs/out.db", want: "/abs/out.db"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
