package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"haptic": { "outerZoneDeg": 20, "holdSeconds": 2.5 },
		"history": { "type": "memory" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "truenorth.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 20.0, viper.GetFloat64("haptic.outerZoneDeg"))
	assert.Equal(t, 2.5, viper.GetFloat64("haptic.holdSeconds"))
	assert.Equal(t, "memory", viper.GetString("history.type"))
	// untouched keys keep their defaults
	assert.Equal(t, 5.0, viper.GetFloat64("haptic.alignZoneDeg"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "truenorth.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, 15.0, viper.GetFloat64("haptic.outerZoneDeg"))
	assert.Equal(t, 5.0, viper.GetFloat64("haptic.alignZoneDeg"))
	assert.Equal(t, 2.0, viper.GetFloat64("haptic.precisionZoneDeg"))
	assert.Equal(t, 1.5, viper.GetFloat64("haptic.holdSeconds"))
	assert.Equal(t, 0.3, viper.GetFloat64("haptic.precisionMinSeconds"))
	assert.Equal(t, 0.8, viper.GetFloat64("haptic.holdCapFraction"))
	assert.Equal(t, 100, viper.GetInt("haptic.tickMillis"))
	assert.Equal(t, 15, viper.GetInt("geocode.refreshSeconds"))
	assert.Equal(t, "sqlite", viper.GetString("history.type"))
	assert.Equal(t, 5, viper.GetInt("history.limit"))
	assert.Equal(t, "replay", viper.GetString("sensor.source"))
	assert.Equal(t, "tcp://localhost:1883", viper.GetString("sensor.mqtt.broker"))
	assert.Equal(t, false, viper.GetBool("stream.enabled"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, 15.0, viper.GetFloat64("haptic.outerZoneDeg"))
}
