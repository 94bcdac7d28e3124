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

package sgready_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sgready/internal/sgready"
)

func TestLivenessDeadThresholdIsStrict(t *testing.T) {
	var l sgready.Liveness

	l.RecordAck(50)
	assert.False(t, l.Dead(50+sgready.DeadTime, sgready.DeadTime))
	assert.True(t, l.Dead(50+sgready.DeadTime+1, sgready.DeadTime))
}

func TestLivenessRecordAckAdvances(t *testing.T) {
	var l sgready.Liveness

	l.RecordAck(100)
	assert.Equal(t, uint32(100), l.LastAck())
	assert.True(t, l.Dead(500, sgready.DeadTime))

	l.RecordAck(490)
	assert.False(t, l.Dead(500, sgready.DeadTime))
}

func TestLivenessRebase(t *testing.T) {
	var l sgready.Liveness

	l.RecordAck(550)
	l.Rebase()

	// after a rebase the tracker reads from the new clock origin: a
	// small reading must not wrap into a huge elapsed value
	assert.Equal(t, uint32(0), l.LastAck())
	assert.False(t, l.Dead(10, sgready.DeadTime))
	assert.True(t, l.Dead(sgready.DeadTime+1, sgready.DeadTime))
}
