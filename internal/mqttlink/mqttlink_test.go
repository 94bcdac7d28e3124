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

package mqttlink

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sgready/internal/config"
)

type fakeController struct {
	desired   []bool
	acks      int
	connected []bool
}

func (f *fakeController) SetDesired(excess bool) { f.desired = append(f.desired, excess) }
func (f *fakeController) RecordAck()             { f.acks++ }
func (f *fakeController) SetConnected(up bool)   { f.connected = append(f.connected, up) }

func newTestLink(ctrl Controller) *Link {
	conf := &config.Config{
		Mqtt: config.MqttConfig{
			BrokerAddr: "tcp://127.0.0.1:1883",
			ClientID:   "sgready_board",
		},
		Device: config.DeviceConfig{
			UniqueID: "sgready_board",
		},
	}
	l := New(conf)
	l.Bind(ctrl)
	return l
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		payload string
		excess  bool
		ok      bool
	}{
		{"ON", true, true},
		{"OFF", false, true},
		{"on", false, false}, // case-sensitive
		{"MAYBE", false, false},
		{"", false, false},
	}

	for _, tc := range tests {
		excess, ok := ParseCommand(tc.payload)
		assert.Equal(t, tc.excess, excess, "payload %q", tc.payload)
		assert.Equal(t, tc.ok, ok, "payload %q", tc.payload)
	}
}

func TestDispatchValidCommands(t *testing.T) {
	ctrl := &fakeController{}
	l := newTestLink(ctrl)

	l.dispatch("sgready_board_Excess/set", "ON")
	l.dispatch("sgready_board_Excess/set", "OFF")

	assert.Equal(t, []bool{true, false}, ctrl.desired)
}

func TestDispatchMalformedPayloadDeactivates(t *testing.T) {
	ctrl := &fakeController{}
	l := newTestLink(ctrl)

	// a bad payload must never leave the pump in an ambiguous state
	l.dispatch("sgready_board_Excess/set", "MAYBE")

	assert.Equal(t, []bool{false}, ctrl.desired)
}

func TestDispatchUnknownTopicIgnored(t *testing.T) {
	ctrl := &fakeController{}
	l := newTestLink(ctrl)

	l.dispatch("some_other_device/set", "ON")

	assert.Empty(t, ctrl.desired, "unknown topics must cause no state change")
}
