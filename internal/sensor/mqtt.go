package sensor

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/model"
)

// MQTTConfig describes the broker and the topics carrying sensor samples.
type MQTTConfig struct {
	Broker        string
	PositionTopic string
	HeadingTopic  string
}

type fixMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type headingMessage struct {
	Heading float64 `json:"heading"`
}

// MQTT subscribes to position and heading topics published by an external
// sensor bridge.
type MQTT struct {
	cfg  MQTTConfig
	sink Sink
	log  zerolog.Logger
}

func NewMQTT(cfg MQTTConfig, sink Sink, log zerolog.Logger) *MQTT {
	return &MQTT{cfg: cfg, sink: sink, log: log}
}

func (m *MQTT) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(m.cfg.Broker).
		SetClientID("truenorth-sensor").
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	defer client.Disconnect(250)
	m.log.Info().Str("broker", m.cfg.Broker).Msg("Sensor connected to MQTT broker")

	posToken := client.Subscribe(m.cfg.PositionTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var fix fixMessage
		if err := json.Unmarshal(msg.Payload(), &fix); err != nil {
			m.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("Bad fix payload")
			return
		}
		m.sink.PositionUpdate(model.Coordinate{
			Latitude:  fix.Latitude,
			Longitude: fix.Longitude,
		})
	})
	if posToken.Wait(); posToken.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", m.cfg.PositionTopic, posToken.Error())
	}

	hdgToken := client.Subscribe(m.cfg.HeadingTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var hdg headingMessage
		if err := json.Unmarshal(msg.Payload(), &hdg); err != nil {
			m.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("Bad heading payload")
			return
		}
		m.sink.HeadingUpdate(hdg.Heading)
	})
	if hdgToken.Wait(); hdgToken.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", m.cfg.HeadingTopic, hdgToken.Error())
	}

	<-ctx.Done()
	return ctx.Err()
}
