package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"github.com/urmzd/irhome/pkg/ir"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendBolt     = "bolt"
	BackendDocStore = "docstore"
)

// IR transports.
const (
	TransportSerial = "serial"
	TransportMQTT   = "mqtt"
	TransportNone   = "none"
)

// Flags returns the flags shared by every irhome binary. Each flag may also
// be set from an IRHOME_* environment variable or from the YAML file named
// by --config.
func Flags() []cli.Flag {
	var config string

	src := func(env, key string) cli.ValueSourceChain {
		return cli.NewValueSourceChain(
			cli.EnvVar("IRHOME_"+env),
			yaml.YAML(key, altsrc.NewStringPtrSourcer(&config)),
		)
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Load configuration from `FILE`",
			Sources:     cli.EnvVars("IRHOME_CONFIG"),
			Validator:   validateConfig,
			Destination: &config,
		},
		&cli.StringFlag{
			Name:      "log-level",
			Usage:     "Set log level (debug, info, warn, error)",
			Value:     "info",
			Sources:   src("LOG_LEVEL", "log.level"),
			Validator: validateLogLevel,
		},
		&cli.StringFlag{
			Name:    "db",
			Usage:   "Path to the SQLite database (default: ~/.config/irhome/irhome.db)",
			Sources: src("DB", "db.path"),
		},
		&cli.StringFlag{
			Name:      "store",
			Usage:     "Device store backend (sqlite, bolt, docstore)",
			Value:     BackendSQLite,
			Sources:   src("STORE", "store.backend"),
			Validator: oneOf(BackendSQLite, BackendBolt, BackendDocStore),
		},
		&cli.StringFlag{
			Name:    "bolt-path",
			Usage:   "Path to the bbolt device file",
			Value:   "irhome-devices.db",
			Sources: src("BOLT_PATH", "store.bolt_path"),
		},
		&cli.StringFlag{
			Name:    "docstore-url",
			Usage:   "Docstore collection URL, e.g. mongo://irhome/devices?id_field=device_id",
			Value:   "mem://devices/device_id",
			Sources: src("DOCSTORE_URL", "store.docstore_url"),
		},
		&cli.StringFlag{
			Name:      "transport",
			Usage:     "IR bridge transport (serial, mqtt, none)",
			Value:     TransportSerial,
			Sources:   src("TRANSPORT", "ir.transport"),
			Validator: oneOf(TransportSerial, TransportMQTT, TransportNone),
		},
		&cli.StringFlag{
			Name:    "port",
			Usage:   "Serial port of the IR bridge",
			Value:   "/dev/ttyUSB0",
			Sources: src("PORT", "ir.port"),
		},
		&cli.IntFlag{
			Name:    "baud",
			Usage:   "Serial baud rate",
			Value:   ir.DefaultBaudRate,
			Sources: src("BAUD", "ir.baud"),
		},
		&cli.IntFlag{
			Name:      "emitter-gpio",
			Usage:     "GPIO pin driving the IR LED",
			Value:     ir.DefaultEmitterGPIO,
			Sources:   src("EMITTER_GPIO", "ir.emitter_gpio"),
			Validator: validateGPIO,
		},
		&cli.IntFlag{
			Name:      "receiver-gpio",
			Usage:     "GPIO pin of the IR receiver",
			Value:     ir.DefaultReceiverGPIO,
			Sources:   src("RECEIVER_GPIO", "ir.receiver_gpio"),
			Validator: validateGPIO,
		},
		&cli.DurationFlag{
			Name:    "capture-timeout",
			Usage:   "How long the bridge waits for one button press",
			Value:   ir.DefaultCaptureTimeout,
			Sources: src("CAPTURE_TIMEOUT", "ir.capture_timeout"),
		},
		&cli.Float64Flag{
			Name:      "tolerance",
			Usage:     "Relative gap under which captured pulse widths are merged",
			Value:     ir.DefaultTolerance,
			Sources:   src("TOLERANCE", "ir.tolerance"),
			Validator: validateTolerance,
		},
		&cli.StringFlag{
			Name:    "mqtt-broker",
			Usage:   "MQTT broker URL",
			Value:   "tcp://localhost:1883",
			Sources: src("MQTT_BROKER", "mqtt.broker"),
		},
		&cli.StringFlag{
			Name:    "mqtt-client-id",
			Usage:   "MQTT client id",
			Value:   "irhome",
			Sources: src("MQTT_CLIENT_ID", "mqtt.client_id"),
		},
		&cli.StringFlag{
			Name:    "mqtt-username",
			Usage:   "MQTT username",
			Sources: src("MQTT_USERNAME", "mqtt.username"),
		},
		&cli.StringFlag{
			Name:    "mqtt-password",
			Usage:   "MQTT password",
			Sources: src("MQTT_PASSWORD", "mqtt.password"),
		},
		&cli.StringFlag{
			Name:    "mqtt-topic-prefix",
			Usage:   "Topic prefix the bridge listens under",
			Value:   "irhome/bridge",
			Sources: src("MQTT_TOPIC_PREFIX", "mqtt.topic_prefix"),
		},
		&cli.UintFlag{
			Name:      "mqtt-qos",
			Usage:     "MQTT QoS for bridge messages",
			Value:     1,
			Sources:   src("MQTT_QOS", "mqtt.qos"),
			Validator: validateQoS,
		},
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "Override the API listen address stored in the database",
			Sources: src("LISTEN", "api.listen"),
		},
		&cli.DurationFlag{
			Name:    "shutdown-timeout",
			Usage:   "Grace period for in-flight requests on shutdown",
			Value:   15 * time.Second,
			Sources: src("SHUTDOWN_TIMEOUT", "api.shutdown_timeout"),
		},
	}
}

func oneOf(values ...string) func(string) error {
	return func(v string) error {
		if !slices.Contains(values, v) {
			return fmt.Errorf("%q must be one of %v", v, values)
		}
		return nil
	}
}

func validateLogLevel(level string) error {
	_, err := parseLevel(level)
	return err
}

func validateTolerance(t float64) error {
	if t <= 0 || t >= 1 {
		return fmt.Errorf("tolerance %v must be between 0 and 1", t)
	}
	return nil
}

func validateGPIO(pin int) error {
	if pin < 0 || pin > ir.MaxGPIO {
		return fmt.Errorf("gpio pin %d must be between 0 and %d", pin, ir.MaxGPIO)
	}
	return nil
}

func validateQoS(q uint) error {
	if q > 2 {
		return fmt.Errorf("qos %d must be 0, 1 or 2", q)
	}
	return nil
}

func validateConfig(config string) error {
	info, err := os.Stat(config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", config)
		}
		return fmt.Errorf("failed to stat %q: %w", config, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", config)
	}

	ext := filepath.Ext(info.Name())
	if ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("invalid extension %q", config)
	}

	return nil
}
