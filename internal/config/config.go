// Package config loads application configuration from a JSON file with
// sensible defaults via viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file is
// not an error; defaults apply.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	// Haptic feedback tuning. Zone radii are degrees of alignment error.
	viper.SetDefault("haptic.outerZoneDeg", 15.0)
	viper.SetDefault("haptic.alignZoneDeg", 5.0)
	viper.SetDefault("haptic.precisionZoneDeg", 2.0)
	viper.SetDefault("haptic.holdSeconds", 1.5)
	viper.SetDefault("haptic.precisionMinSeconds", 0.3)
	viper.SetDefault("haptic.holdCapFraction", 0.8)
	viper.SetDefault("haptic.tickMillis", 100)
	viper.SetDefault("haptic.minIntensity", 0.25)

	viper.SetDefault("geocode.serverUrl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocode.refreshSeconds", 15)

	viper.SetDefault("places.serverUrl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("places.maxCandidates", 10)

	viper.SetDefault("history.type", "sqlite")
	viper.SetDefault("history.path", "./truenorth.db")
	viper.SetDefault("history.limit", 5)

	viper.SetDefault("sensor.source", "replay")
	viper.SetDefault("sensor.replayPath", "")
	viper.SetDefault("sensor.replayIntervalMillis", 100)
	viper.SetDefault("sensor.serialPort", "/dev/ttyUSB0")
	viper.SetDefault("sensor.serialBaud", 9600)
	viper.SetDefault("sensor.mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("sensor.mqtt.positionTopic", "truenorth/fix")
	viper.SetDefault("sensor.mqtt.headingTopic", "truenorth/heading")

	viper.SetDefault("stream.enabled", false)
	viper.SetDefault("stream.listenAddr", "localhost:8423")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "truenorth-metrics")
	viper.SetDefault("influx.bucket", "navigation")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("truenorth.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat returns a float64 config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
