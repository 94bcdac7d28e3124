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

// Package mqttlink connects the mode controller to an MQTT broker: it
// subscribes to the Excess command topic, publishes the retained state
// announcements, registers the device with the home automation hub, and
// turns every delivery confirmation into a liveness ack.
package mqttlink

import (
	"context"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"sgready/internal/config"
	"sgready/internal/hass"
	"sgready/internal/sgready"
	"sgready/pkg/logger"
)

// Controller is the part of the mode controller the link drives.
type Controller interface {
	SetDesired(excess bool)
	RecordAck()
	SetConnected(up bool)
}

type Link struct {
	conf   config.MqttConfig
	device config.DeviceConfig
	client mqtt.Client
	ctrl   Controller
	log    *logger.Logger
}

func New(conf *config.Config) *Link {
	l := &Link{
		conf:   conf.Mqtt,
		device: conf.Device,
		log:    logger.New("MQTTLink"),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(conf.Mqtt.BrokerAddr).
		SetClientID(conf.Mqtt.ClientID).
		SetUsername(conf.Mqtt.Username).
		SetPassword(conf.Mqtt.Password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(l.onConnect).
		SetConnectionLostHandler(l.onConnectionLost)

	l.client = mqtt.NewClient(opts)
	return l
}

// Bind attaches the controller. Must be called before Run.
func (l *Link) Bind(ctrl Controller) {
	l.ctrl = ctrl
}

// Run connects (retrying until the broker is reachable) and holds the
// connection until ctx is canceled.
func (l *Link) Run(ctx context.Context) {
	l.log.Info("Connecting to %s...", l.conf.BrokerAddr)

	token := l.client.Connect()

	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			l.log.Error("connect: %v", err)
		}
	}()

	<-ctx.Done()
	l.client.Disconnect(250)
	l.log.Info("Stopped")
}

func (l *Link) onConnect(c mqtt.Client) {
	l.log.Info("MQTT connected")

	l.publishDiscovery()

	topic := hass.CommandTopic(l.device.UniqueID, hass.ExcessName)
	if token := c.Subscribe(topic, 1, l.onMessage); token.Wait() && token.Error() != nil {
		l.log.Error("subscribe %s: %v", topic, token.Error())
	}

	if l.ctrl != nil {
		l.ctrl.SetConnected(true)
	}
}

func (l *Link) onConnectionLost(_ mqtt.Client, err error) {
	l.log.Warn("MQTT disconnected: %v", err)
	if l.ctrl != nil {
		l.ctrl.SetConnected(false)
	}
}

func (l *Link) onMessage(_ mqtt.Client, msg mqtt.Message) {
	l.dispatch(msg.Topic(), string(msg.Payload()))
}

// dispatch routes an inbound message. A message for an unknown topic is
// ignored entirely; a malformed payload on the command topic falls back
// to deactivate so a bad message can never leave the pump in an
// ambiguous state.
func (l *Link) dispatch(topic, payload string) {
	if topic != hass.CommandTopic(l.device.UniqueID, hass.ExcessName) {
		l.log.Error("message for unknown topic '%s'", topic)
		return
	}

	excess, ok := ParseCommand(payload)
	if !ok {
		l.log.Error("invalid command payload '%s'", payload)
	}
	if l.ctrl != nil {
		l.ctrl.SetDesired(excess)
	}
}

// ParseCommand maps a command payload onto the desired mode. Only the
// exact literals "ON" and "OFF" are valid; anything else reports ok=false
// and the safe default (deactivate).
func ParseCommand(payload string) (excess, ok bool) {
	switch payload {
	case "ON":
		return true, true
	case "OFF":
		return false, true
	default:
		return false, false
	}
}

// PublishMode announces the committed SG Ready mode (retained). This is
// also the liveness probe: its delivery confirmation feeds RecordAck.
func (l *Link) PublishMode(mode sgready.Mode) {
	l.log.Debug("publishing mode %d", int(mode))
	l.publishRetained(hass.StateTopic(l.device.UniqueID, hass.ModeName), strconv.Itoa(int(mode)))
}

// PublishExcess announces the desired state (retained).
func (l *Link) PublishExcess(on bool) {
	payload := "OFF"
	if on {
		payload = "ON"
	}
	l.log.Debug("publishing excess '%s'", payload)
	l.publishRetained(hass.StateTopic(l.device.UniqueID, hass.ExcessName), payload)
}

// publishRetained sends a QoS 1 retained message. A completed publish is
// the only proof we have that the broker is alive, so every confirmation
// is recorded as an ack.
func (l *Link) publishRetained(topic, payload string) {
	token := l.client.Publish(topic, 1, true, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			l.log.Error("publish %s: %v", topic, err)
			return
		}
		if l.ctrl != nil {
			l.ctrl.RecordAck()
		}
	}()
}

// publishDiscovery registers both entities with the home automation hub.
// With the remove-device flag set, empty payloads erase the registration
// instead.
func (l *Link) publishDiscovery() {
	if !l.client.IsConnectionOpen() {
		l.log.Error("failed to send discovery: not connected")
		return
	}

	switchPayload, err := hass.SwitchPayload(l.device)
	if err != nil {
		l.log.Error("switch discovery payload: %v", err)
		return
	}
	sensorPayload, err := hass.SensorPayload(l.device)
	if err != nil {
		l.log.Error("sensor discovery payload: %v", err)
		return
	}

	if l.conf.RemoveDevice {
		switchPayload = nil
		sensorPayload = nil
	}

	l.log.Info("sending discovery...")
	l.publishRetained(hass.SwitchConfigTopic(l.device.UniqueID), string(switchPayload))
	l.publishRetained(hass.SensorConfigTopic(l.device.UniqueID), string(sensorPayload))
}
