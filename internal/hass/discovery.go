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

// Package hass builds Home Assistant MQTT discovery payloads.
//
// The controller registers one device with two entities: an "Excess"
// switch for the desired mode and a "Mode" sensor reflecting the
// committed SG Ready mode.
package hass

import (
	"encoding/json"

	"sgready/internal/config"
)

const (
	// entity names, also used to form the per-entity topics
	ExcessName = "Excess"
	ModeName   = "Mode"

	discoveryPrefix = "homeassistant"
)

// Device is the shared device block embedded in every entity config.
type Device struct {
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	SwVersion    string   `json:"sw_version"`
	Manufacturer string   `json:"manufacturer"`
	Identifiers  []string `json:"identifiers"`
}

// SwitchConfig registers the Excess control switch.
type SwitchConfig struct {
	Name         string `json:"name"`
	UniqueID     string `json:"uniq_id"`
	DeviceClass  string `json:"dev_cla"`
	StateTopic   string `json:"state_topic"`
	CommandTopic string `json:"command_topic"`
	Device       Device `json:"device"`
}

// SensorConfig registers the Mode sensor.
type SensorConfig struct {
	Name       string `json:"name"`
	UniqueID   string `json:"uniq_id"`
	StateTopic string `json:"state_topic"`
	Device     Device `json:"device"`
}

// EntityTopic returns the topic base for one of this device's entities.
func EntityTopic(uid, entity string) string {
	return uid + "_" + entity
}

// StateTopic is where an entity announces its state (retained).
func StateTopic(uid, entity string) string {
	return EntityTopic(uid, entity) + "/state"
}

// CommandTopic is where an entity receives commands.
func CommandTopic(uid, entity string) string {
	return EntityTopic(uid, entity) + "/set"
}

// SwitchConfigTopic is the discovery config topic for the Excess switch.
func SwitchConfigTopic(uid string) string {
	return discoveryPrefix + "/switch/" + EntityTopic(uid, "excess") + "/config"
}

// SensorConfigTopic is the discovery config topic for the Mode sensor.
func SensorConfigTopic(uid string) string {
	return discoveryPrefix + "/sensor/" + EntityTopic(uid, "mode") + "/config"
}

func deviceBlock(dev config.DeviceConfig) Device {
	return Device{
		Name:         dev.Name,
		Model:        dev.Model,
		SwVersion:    dev.SwVersion,
		Manufacturer: dev.Manufacturer,
		Identifiers:  []string{dev.UniqueID},
	}
}

// SwitchPayload builds the discovery config for the Excess switch.
func SwitchPayload(dev config.DeviceConfig) ([]byte, error) {
	return json.Marshal(SwitchConfig{
		Name:         ExcessName,
		UniqueID:     EntityTopic(dev.UniqueID, ExcessName),
		DeviceClass:  "switch",
		StateTopic:   StateTopic(dev.UniqueID, ExcessName),
		CommandTopic: CommandTopic(dev.UniqueID, ExcessName),
		Device:       deviceBlock(dev),
	})
}

// SensorPayload builds the discovery config for the Mode sensor.
func SensorPayload(dev config.DeviceConfig) ([]byte, error) {
	return json.Marshal(SensorConfig{
		Name:       ModeName,
		UniqueID:   EntityTopic(dev.UniqueID, ModeName),
		StateTopic: StateTopic(dev.UniqueID, ModeName),
		Device:     deviceBlock(dev),
	})
}
