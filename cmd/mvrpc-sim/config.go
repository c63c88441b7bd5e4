package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the host simulator's configuration surface, loaded with
// viper the way dbehnke-dmr-nexus/pkg/config does: defaults first,
// then an optional YAML file, then environment variables layered on
// top. None of this is part of the wire protocol - spec.md's "no
// CLI/persistence" scopes the embedded library, not this ambient
// tool.
type Config struct {
	Driver           string     `mapstructure:"driver"`
	BuffLen          int        `mapstructure:"buff_len"`
	RegistryCapacity int        `mapstructure:"registry_capacity"`
	SendTimeoutMS    int        `mapstructure:"send_timeout_ms"`
	RecvTimeoutMS    int        `mapstructure:"recv_timeout_ms"`
	UART             UARTConfig `mapstructure:"uart"`
	MQTT             MQTTConfig `mapstructure:"mqtt"`
	WS               WSConfig   `mapstructure:"ws"`
}

// UARTConfig describes the driver/uart.Config fields recognised at
// construction (spec.md §6 "Configuration recognised at construction").
type UARTConfig struct {
	PortPath string `mapstructure:"port_path"`
	BaudRate int    `mapstructure:"baud_rate"`
}

// MQTTConfig describes a driver/mqttbridge.Config.
type MQTTConfig struct {
	BrokerURL string `mapstructure:"broker_url"`
	ClientID  string `mapstructure:"client_id"`
	PubTopic  string `mapstructure:"pub_topic"`
	SubTopic  string `mapstructure:"sub_topic"`
}

// WSConfig describes a driver/wsbridge connection target.
type WSConfig struct {
	URL string `mapstructure:"url"`
}

func setDefaults() {
	viper.SetDefault("driver", "mem")
	viper.SetDefault("buff_len", 256)
	viper.SetDefault("registry_capacity", 16)
	viper.SetDefault("send_timeout_ms", 200)
	viper.SetDefault("recv_timeout_ms", 200)
	viper.SetDefault("uart.baud_rate", 115200)
	viper.SetDefault("mqtt.pub_topic", "mvrpc/cmd")
	viper.SetDefault("mqtt.sub_topic", "mvrpc/msg")
}

// LoadConfig reads configFile (if non-empty) or the default
// ./mvrpc-sim.yaml search path, falling back to defaults when no file
// is present - a missing config file is not an error, mirroring
// dbehnke-dmr-nexus/pkg/config.Load.
func LoadConfig(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("mvrpc-sim")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/mvrpc")
	}

	viper.SetEnvPrefix("MVRPC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
