// Package config loads irhome settings from flags, IRHOME_* environment
// variables and an optional YAML file.
package config

import (
	"time"

	"github.com/urfave/cli/v3"
	"github.com/urmzd/irhome/pkg/ir"
)

type Config struct {
	LogLevel string
	// DBPath is the SQLite database holding sites, API settings and, with
	// the sqlite backend, devices.
	DBPath string
	Store  Store
	IR     IR
	API    API
}

type Store struct {
	Backend     string
	BoltPath    string
	DocStoreURL string
}

type IR struct {
	Transport string
	ir.Config
	MQTT ir.MQTTConfig
}

type API struct {
	Listen          string
	ShutdownTimeout time.Duration
}

// Load reads the flag values of cmd. Flags must come from Flags.
func Load(cmd *cli.Command) *Config {
	return &Config{
		LogLevel: cmd.String("log-level"),
		DBPath:   cmd.String("db"),
		Store: Store{
			Backend:     cmd.String("store"),
			BoltPath:    cmd.String("bolt-path"),
			DocStoreURL: cmd.String("docstore-url"),
		},
		IR: IR{
			Transport: cmd.String("transport"),
			Config: ir.Config{
				Port:           cmd.String("port"),
				BaudRate:       cmd.Int("baud"),
				EmitterGPIO:    cmd.Int("emitter-gpio"),
				ReceiverGPIO:   cmd.Int("receiver-gpio"),
				CaptureTimeout: cmd.Duration("capture-timeout"),
				Tolerance:      cmd.Float64("tolerance"),
			},
			MQTT: ir.MQTTConfig{
				Broker:      cmd.String("mqtt-broker"),
				ClientID:    cmd.String("mqtt-client-id"),
				Username:    cmd.String("mqtt-username"),
				Password:    cmd.String("mqtt-password"),
				TopicPrefix: cmd.String("mqtt-topic-prefix"),
				QoS:         byte(cmd.Uint("mqtt-qos")),
			},
		},
		API: API{
			Listen:          cmd.String("listen"),
			ShutdownTimeout: cmd.Duration("shutdown-timeout"),
		},
	}
}
