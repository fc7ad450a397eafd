package ir

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	defaultMQTTTimeout = 5 * time.Second
	defaultTopicPrefix = "irhome/bridge"
)

// MQTTConfig contains the broker settings for a network IR bridge.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
}

// Topic layout under TopicPrefix:
//
//	<prefix>/send      emit request (sendPayload)
//	<prefix>/capture   capture request (capturePayload)
//	<prefix>/captured  capture result (capturedPayload)
type sendPayload struct {
	GPIO   int    `json:"gpio"`
	Name   string `json:"name"`
	Pulses []int  `json:"pulses"`
}

type capturePayload struct {
	GPIO      int    `json:"gpio"`
	Label     string `json:"label"`
	TimeoutMS int64  `json:"timeout_ms"`
}

type capturedPayload struct {
	Label  string `json:"label"`
	Pulses []int  `json:"pulses"`
	Error  string `json:"error,omitempty"`
}

// MQTTTransceiver talks to an IR bridge that listens on an MQTT broker.
type MQTTTransceiver struct {
	client pahomqtt.Client
	cfg    Config
	mqtt   MQTTConfig
}

// NewMQTTTransceiver connects to the broker.
func NewMQTTTransceiver(cfg Config, mc MQTTConfig) (*MQTTTransceiver, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(mc.Broker).
		SetClientID(mc.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(defaultMQTTTimeout)
	if mc.Username != "" {
		opts.SetUsername(mc.Username)
		opts.SetPassword(mc.Password)
	}

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultMQTTTimeout) {
		return nil, fmt.Errorf("%w: connect timeout after %v", ErrNotConnected, defaultMQTTTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConnected, err)
	}

	log.Info().Str("broker", mc.Broker).Str("prefix", mc.TopicPrefix).Msg("MQTT IR bridge connected")

	return newMQTTTransceiver(client, cfg, mc), nil
}

func newMQTTTransceiver(client pahomqtt.Client, cfg Config, mc MQTTConfig) *MQTTTransceiver {
	if mc.TopicPrefix == "" {
		mc.TopicPrefix = defaultTopicPrefix
	}
	return &MQTTTransceiver{client: client, cfg: cfg.withDefaults(), mqtt: mc}
}

func (t *MQTTTransceiver) topic(suffix string) string {
	return t.mqtt.TopicPrefix + "/" + suffix
}

// Emit publishes cmd to the bridge's send topic.
func (t *MQTTTransceiver) Emit(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !t.client.IsConnected() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(sendPayload{GPIO: t.cfg.EmitterGPIO, Name: cmd.Name, Pulses: cmd.Pulses})
	if err != nil {
		return err
	}

	token := t.client.Publish(t.topic("send"), t.mqtt.QoS, false, payload)
	if err := waitToken(ctx, token, defaultMQTTTimeout); err != nil {
		return fmt.Errorf("%w: publish: %w", ErrBridge, err)
	}

	log.Debug().Str("command", cmd.Name).Str("topic", t.topic("send")).Msg("IR command published")
	return nil
}

// Capture subscribes to the result topic, asks the bridge to arm its
// receiver and waits for the first result carrying label.
func (t *MQTTTransceiver) Capture(ctx context.Context, label string) (Command, error) {
	if !t.client.IsConnected() {
		return Command{}, ErrNotConnected
	}

	results := make(chan capturedPayload, 1)
	resultTopic := t.topic("captured")
	token := t.client.Subscribe(resultTopic, t.mqtt.QoS, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		var p capturedPayload
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Warn().Err(err).Str("topic", msg.Topic()).Msg("Malformed capture result")
			return
		}
		if p.Label != label {
			return
		}
		select {
		case results <- p:
		default:
		}
	})
	if err := waitToken(ctx, token, defaultMQTTTimeout); err != nil {
		return Command{}, fmt.Errorf("%w: subscribe: %w", ErrBridge, err)
	}
	defer t.client.Unsubscribe(resultTopic)

	req, err := json.Marshal(capturePayload{
		GPIO:      t.cfg.ReceiverGPIO,
		Label:     label,
		TimeoutMS: t.cfg.CaptureTimeout.Milliseconds(),
	})
	if err != nil {
		return Command{}, err
	}
	if err := waitToken(ctx, t.client.Publish(t.topic("capture"), t.mqtt.QoS, false, req), defaultMQTTTimeout); err != nil {
		return Command{}, fmt.Errorf("%w: publish: %w", ErrBridge, err)
	}

	timer := time.NewTimer(t.cfg.CaptureTimeout)
	defer timer.Stop()

	select {
	case p := <-results:
		if p.Error != "" {
			return Command{}, fmt.Errorf("%w: %s", ErrBridge, p.Error)
		}
		return NormalizeTolerance(Command{Name: label, Pulses: p.Pulses}, t.cfg.Tolerance), nil
	case <-timer.C:
		return Command{}, ErrCaptureTimeout
	case <-ctx.Done():
		return Command{}, ctx.Err()
	}
}

// IsConnected reports the broker connection state.
func (t *MQTTTransceiver) IsConnected() bool {
	return t.client.IsConnected()
}

// Close disconnects from the broker.
func (t *MQTTTransceiver) Close() error {
	t.client.Disconnect(250)
	return nil
}

func waitToken(ctx context.Context, token pahomqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return fmt.Errorf("timeout after %v", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
