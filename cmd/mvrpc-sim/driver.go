package main

import (
	"fmt"

	"github.com/ejosue98/mvrpc/driver/mqttbridge"
	"github.com/ejosue98/mvrpc/driver/uart"
	"github.com/ejosue98/mvrpc/driver/wsbridge"
	"github.com/ejosue98/mvrpc/transport"
	"github.com/gorilla/websocket"
)

// dialTransport opens the transport.Transport named by cfg.Driver.
// "mem" has no standalone meaning here - it only exists paired within
// the "sim" subcommand - so it is rejected with a pointer to that
// command instead of silently doing nothing.
func dialTransport(cfg *Config) (transport.Transport, func() error, error) {
	switch cfg.Driver {
	case "uart":
		d, err := uart.Open(uart.Config{PortPath: cfg.UART.PortPath, BaudRate: cfg.UART.BaudRate})
		if err != nil {
			return nil, nil, fmt.Errorf("open uart: %w", err)
		}
		return d, d.Close, nil
	case "mqttbridge":
		b, err := mqttbridge.Dial(mqttbridge.Config{
			BrokerURL: cfg.MQTT.BrokerURL,
			ClientID:  cfg.MQTT.ClientID,
			PubTopic:  cfg.MQTT.PubTopic,
			SubTopic:  cfg.MQTT.SubTopic,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("dial mqtt: %w", err)
		}
		return b, b.Close, nil
	case "wsbridge":
		conn, _, err := websocket.DefaultDialer.Dial(cfg.WS.URL, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("dial websocket: %w", err)
		}
		b := wsbridge.New(conn)
		return b, b.Close, nil
	case "mem", "":
		return nil, nil, fmt.Errorf("driver %q has no standalone endpoint; use the sim subcommand", cfg.Driver)
	default:
		return nil, nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
