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

package sgready

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockTickAndReset(t *testing.T) {
	var c Clock

	assert.Equal(t, uint32(0), c.Elapsed())
	assert.Equal(t, uint32(1), c.Tick())
	assert.Equal(t, uint32(2), c.Tick())
	assert.Equal(t, uint32(2), c.Elapsed())

	c.Reset()
	assert.Equal(t, uint32(0), c.Elapsed())
}

func TestClockWrapsAround(t *testing.T) {
	c := Clock{ticks: ^uint32(0)}

	assert.Equal(t, uint32(0), c.Tick())
	assert.Equal(t, uint32(1), c.Tick())
}

func TestLivenessAcrossClockWrap(t *testing.T) {
	var l Liveness

	// ack shortly before the clock wraps; a reading shortly after the
	// wrap must still count as recent
	l.RecordAck(^uint32(0) - 5)
	assert.False(t, l.Dead(100, DeadTime)) // 106 seconds since ack
	assert.True(t, l.Dead(200, DeadTime))  // 206 seconds since ack
}
