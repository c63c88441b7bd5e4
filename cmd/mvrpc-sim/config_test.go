package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigUsesDefaultsWhenNoFile(t *testing.T) {
	viper.Reset()
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "mem", cfg.Driver)
	assert.Equal(t, 256, cfg.BuffLen)
	assert.Equal(t, 16, cfg.RegistryCapacity)
	assert.Equal(t, 115200, cfg.UART.BaudRate)
	assert.Equal(t, "mvrpc/cmd", cfg.MQTT.PubTopic)
}
