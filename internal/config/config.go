// Copyright (C) 2025 Bud Millwood
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"encoding/json"
	"log"
	"os"

	"sgready/pkg/eventbus"
)

type MqttConfig struct {
	BrokerAddr string `json:"broker_addr"` // e.g. "tcp://192.168.1.10:1883"
	Username   string `json:"username"`
	Password   string `json:"password"`
	ClientID   string `json:"client_id"`

	// RemoveDevice erases the registered device from the home automation
	// hub on next connect instead of announcing it.
	RemoveDevice bool `json:"remove_device"`
}

type DeviceConfig struct {
	Name         string `json:"name"`
	Model        string `json:"model"`
	SwVersion    string `json:"sw_version"`
	Manufacturer string `json:"manufacturer"`

	// UniqueID is fixed rather than derived from the client id so a
	// failed board can be swapped without re-registering entities.
	UniqueID string `json:"unique_id"`
}

type OutputConfig struct {
	Backend string `json:"backend"` // "gpio", "modbus", "http" or "mock"

	// gpio backend: BCM number of the low bit of the two-digit SG Ready
	// value. The high bit is never altered.
	GPIOPin int `json:"gpio_pin"`

	// modbus backend
	ModbusRegister string `json:"modbus_register"`

	// http backend (digital-out relay server)
	HTTPAddr    string `json:"http_addr"`
	HTTPChannel int    `json:"http_channel"`
	HTTPHubPort int    `json:"http_hub_port"`
}

type WebConfig struct {
	Addr string `json:"addr"`
}

type Config struct {
	Mqtt   MqttConfig   `json:"mqtt"`
	Device DeviceConfig `json:"device"`
	Output OutputConfig `json:"output"`
	Web    WebConfig    `json:"web"`

	// not loaded from file, but added here to
	// pass to all services alongside config
	EventBus *eventbus.Bus
}

func LoadFile(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open config: %v", err)
	}
	defer f.Close()
	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		log.Fatalf("decode config: %v", err)
	}
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Device.Name == "" {
		c.Device.Name = "SGReady"
	}
	if c.Device.Model == "" {
		c.Device.Model = "ESP32Device"
	}
	if c.Device.SwVersion == "" {
		c.Device.SwVersion = "1.0"
	}
	if c.Device.Manufacturer == "" {
		c.Device.Manufacturer = "Bud Millwood"
	}
	if c.Device.UniqueID == "" {
		c.Device.UniqueID = "sgready_board"
	}
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = c.Device.UniqueID
	}
	if c.Output.Backend == "" {
		c.Output.Backend = "mock"
	}
	if c.Output.GPIOPin == 0 {
		c.Output.GPIOPin = 25
	}
	if c.Output.ModbusRegister == "" {
		c.Output.ModbusRegister = "sg_ready_lsb"
	}
	if c.Web.Addr == "" {
		c.Web.Addr = ":80"
	}
}
