// Package sensor turns raw position and heading inputs into normalized update
// callbacks. Sources exist for NMEA streams (replay files and serial ports)
// and for JSON samples delivered over MQTT.
package sensor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/truenorth-nav/truenorth/internal/model"
)

// Sink receives normalized sensor samples. Implementations must not block;
// sources call these from their own read loops.
type Sink interface {
	PositionUpdate(coord model.Coordinate)
	HeadingUpdate(headingDeg float64)
}

// Source produces samples until its context is cancelled or the input ends.
type Source interface {
	Run(ctx context.Context) error
}

// NewSource builds the configured sensor source.
func NewSource(sink Sink, log zerolog.Logger) (Source, error) {
	sourceType := viper.GetString("sensor.source")
	switch sourceType {
	case "replay":
		return NewReplay(viper.GetString("sensor.replayPath"), sink, log), nil
	case "serial":
		return NewSerial(SerialConfig{
			Port: viper.GetString("sensor.serialPort"),
			Baud: uint(viper.GetInt("sensor.serialBaud")),
		}, sink, log), nil
	case "mqtt":
		return NewMQTT(MQTTConfig{
			Broker:        viper.GetString("sensor.mqtt.broker"),
			PositionTopic: viper.GetString("sensor.mqtt.positionTopic"),
			HeadingTopic:  viper.GetString("sensor.mqtt.headingTopic"),
		}, sink, log), nil
	default:
		return nil, fmt.Errorf("unknown sensor source: %s", sourceType)
	}
}
