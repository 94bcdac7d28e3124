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

package hass_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"sgready/internal/config"
	"sgready/internal/hass"
)

var testDevice = config.DeviceConfig{
	Name:         "SGReady",
	Model:        "ESP32Device",
	SwVersion:    "1.0",
	Manufacturer: "Bud Millwood",
	UniqueID:     "sgready_board",
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "sgready_board_Excess/state", hass.StateTopic("sgready_board", hass.ExcessName))
	assert.Equal(t, "sgready_board_Excess/set", hass.CommandTopic("sgready_board", hass.ExcessName))
	assert.Equal(t, "sgready_board_Mode/state", hass.StateTopic("sgready_board", hass.ModeName))
	assert.Equal(t, "homeassistant/switch/sgready_board_excess/config", hass.SwitchConfigTopic("sgready_board"))
	assert.Equal(t, "homeassistant/sensor/sgready_board_mode/config", hass.SensorConfigTopic("sgready_board"))
}

func TestSwitchPayload(t *testing.T) {
	data, err := hass.SwitchPayload(testDevice)
	assert.NoError(t, err)

	var cfg map[string]any
	assert.NoError(t, json.Unmarshal(data, &cfg))

	assert.Equal(t, "Excess", cfg["name"])
	assert.Equal(t, "sgready_board_Excess", cfg["uniq_id"])
	assert.Equal(t, "switch", cfg["dev_cla"])
	assert.Equal(t, "sgready_board_Excess/state", cfg["state_topic"])
	assert.Equal(t, "sgready_board_Excess/set", cfg["command_topic"])

	device := cfg["device"].(map[string]any)
	assert.Equal(t, "SGReady", device["name"])
	assert.Equal(t, "Bud Millwood", device["manufacturer"])
	assert.Equal(t, []any{"sgready_board"}, device["identifiers"])
}

func TestSensorPayload(t *testing.T) {
	data, err := hass.SensorPayload(testDevice)
	assert.NoError(t, err)

	var cfg map[string]any
	assert.NoError(t, json.Unmarshal(data, &cfg))

	assert.Equal(t, "Mode", cfg["name"])
	assert.Equal(t, "sgready_board_Mode", cfg["uniq_id"])
	assert.Equal(t, "sgready_board_Mode/state", cfg["state_topic"])

	device := cfg["device"].(map[string]any)
	assert.Equal(t, "ESP32Device", device["model"])
	assert.Equal(t, "1.0", device["sw_version"])
}
