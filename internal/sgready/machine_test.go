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

// recorder captures everything a machine drives, standing in for the
// output line, the broker and the display.
type recorder struct {
	writes     []sgready.Mode
	modePubs   []sgready.Mode
	excessPubs []bool
	notifies   int
}

func newTestMachine(rec *recorder) *sgready.Machine {
	return sgready.NewMachine(sgready.Outputs{
		SetOutput: func(m sgready.Mode) error {
			rec.writes = append(rec.writes, m)
			return nil
		},
		PublishMode: func(m sgready.Mode) {
			rec.modePubs = append(rec.modePubs, m)
		},
		PublishExcess: func(on bool) {
			rec.excessPubs = append(rec.excessPubs, on)
		},
		Notify: func(sgready.Status) {
			rec.notifies++
		},
	})
}

// tickAlive advances the machine n ticks with the broker acking every
// second, so liveness never lapses.
func tickAlive(m *sgready.Machine, n int) {
	for i := 0; i < n; i++ {
		m.RecordAck()
		m.Tick()
	}
}

func TestStartsInSafeDefault(t *testing.T) {
	rec := &recorder{}
	m := newTestMachine(rec)

	assert.Equal(t, sgready.ModeNormal, m.Mode())
	assert.False(t, m.Excess())
	assert.Equal(t, uint32(sgready.MinStateSeconds), m.Status().Remaining)
}

func TestHeartbeatCadence(t *testing.T) {
	rec := &recorder{}
	m := newTestMachine(rec)

	for i := 0; i < 1000; i++ {
		m.Tick()
	}

	// probes fire at 0, 60, 120, ... 960
	assert.Equal(t, 1000/sgready.KeepaliveInterval+1, len(rec.modePubs))
	for _, mode := range rec.modePubs {
		assert.Equal(t, sgready.ModeNormal, mode)
	}

	// no acks ever arrived, but the desired mode was never excess, so
	// the committed mode must not have changed
	assert.Equal(t, sgready.ModeNormal, m.Mode())
}

func TestDefensiveReassertWhileDead(t *testing.T) {
	rec := &recorder{}
	m := newTestMachine(rec)

	// no acks at all: dead as soon as the dwell window opens
	for i := 0; i < 1000; i++ {
		m.Tick()
	}

	// re-asserts at 600, 630, ... 990, all normal mode
	assert.Equal(t, 14, len(rec.writes))
	for _, mode := range rec.writes {
		assert.Equal(t, sgready.ModeNormal, mode)
	}
}

func TestCommitWaitsForDwellWindow(t *testing.T) {
	rec := &recorder{}
	m := newTestMachine(rec)

	tickAlive(m, 5)
	m.SetDesired(true)
	assert.Equal(t, sgready.ModeNormal, m.Mode(), "desired change must not commit immediately")

	// one tick short of the dwell threshold: still normal
	tickAlive(m, sgready.MinStateSeconds-6)
	assert.Equal(t, sgready.ModeNormal, m.Mode())
	assert.Empty(t, rec.writes)

	// the tick that completes the window commits
	tickAlive(m, 1)
	assert.Equal(t, sgready.ModeExcess, m.Mode())
	assert.Equal(t, []sgready.Mode{sgready.ModeExcess}, rec.writes)
	assert.Equal(t, uint32(sgready.MinStateSeconds), m.Status().Remaining, "clock resets on commit")
}

func TestCommitDoesNotLookInstantlyDead(t *testing.T) {
	rec := &recorder{}
	m := newTestMachine(rec)

	m.SetDesired(true)
	tickAlive(m, sgready.MinStateSeconds)
	assert.Equal(t, sgready.ModeExcess, m.Mode())

	// broker keeps acking: a full second dwell window must pass with no
	// forced reversion and no extra output writes
	tickAlive(m, sgready.MinStateSeconds)
	assert.True(t, m.Excess())
	assert.Equal(t, sgready.ModeExcess, m.Mode())
	assert.Equal(t, 1, len(rec.writes))
}

func TestFailSafeConvergence(t *testing.T) {
	rec := &recorder{}
	m := newTestMachine(rec)

	m.SetDesired(true)
	tickAlive(m, sgready.MinStateSeconds)
	assert.Equal(t, sgready.ModeExcess, m.Mode())

	// broker goes silent; nothing can happen before the dwell window
	// reopens
	for i := 0; i < sgready.MinStateSeconds-1; i++ {
		m.Tick()
	}
	assert.Equal(t, sgready.ModeExcess, m.Mode())
	assert.True(t, m.Excess())

	// the next tick sees a stale broker, forces the desired mode back to
	// normal and commits in the same step
	m.Tick()
	assert.False(t, m.Excess())
	assert.Equal(t, sgready.ModeNormal, m.Mode())
	assert.Equal(t, sgready.ModeNormal, rec.writes[len(rec.writes)-1])
}

func TestDwellInvariant(t *testing.T) {
	rec := &recorder{}
	m := newTestMachine(rec)

	// flip the desired mode aggressively; commits may only land once
	// per dwell window
	var commitTicks []int
	for i := 0; i < 2500; i++ {
		if i%10 == 0 {
			m.SetDesired((i/10)%2 == 0)
		}
		prev := len(rec.writes)
		m.RecordAck()
		m.Tick()
		if len(rec.writes) > prev {
			commitTicks = append(commitTicks, i)
		}
	}

	assert.NotEmpty(t, commitTicks)
	for i := 1; i < len(commitTicks); i++ {
		assert.GreaterOrEqual(t, commitTicks[i]-commitTicks[i-1], sgready.MinStateSeconds)
	}
}

func TestSetDesiredIsIdempotent(t *testing.T) {
	rec := &recorder{}
	m := newTestMachine(rec)

	tickAlive(m, 10)
	remaining := m.Status().Remaining

	for i := 0; i < 5; i++ {
		m.SetDesired(false)
	}

	assert.Equal(t, remaining, m.Status().Remaining, "repeated commands must not touch the dwell clock")
	assert.Empty(t, rec.writes, "no physical write beyond the courtesy echo")
	assert.Equal(t, []bool{false, false, false, false, false}, rec.excessPubs)
}

func TestAnnounceRepublishesState(t *testing.T) {
	rec := &recorder{}
	m := newTestMachine(rec)

	m.SetDesired(true)
	modePubs, excessPubs := len(rec.modePubs), len(rec.excessPubs)

	m.Announce()
	assert.Equal(t, modePubs+1, len(rec.modePubs))
	assert.Equal(t, excessPubs+1, len(rec.excessPubs))
	assert.Equal(t, sgready.ModeNormal, rec.modePubs[len(rec.modePubs)-1])
	assert.Equal(t, true, rec.excessPubs[len(rec.excessPubs)-1])
}

func TestAckLatencyTolerated(t *testing.T) {
	rec := &recorder{}
	var m *sgready.Machine

	// broker acks every publish, but 5 ticks late
	const ackDelay = 5
	var ackDue []int
	tick := 0

	m = sgready.NewMachine(sgready.Outputs{
		SetOutput: func(mode sgready.Mode) error {
			rec.writes = append(rec.writes, mode)
			return nil
		},
		PublishMode: func(mode sgready.Mode) {
			rec.modePubs = append(rec.modePubs, mode)
			ackDue = append(ackDue, tick+ackDelay)
		},
		PublishExcess: func(bool) {},
	})

	m.SetDesired(true)
	for ; tick < 2*sgready.MinStateSeconds; tick++ {
		for len(ackDue) > 0 && ackDue[0] <= tick {
			m.RecordAck()
			ackDue = ackDue[1:]
		}
		m.Tick()
	}

	// commits to excess and stays there: delayed acks are still acks
	assert.Equal(t, sgready.ModeExcess, m.Mode())
	assert.True(t, m.Excess())
	assert.Equal(t, []sgready.Mode{sgready.ModeExcess}, rec.writes)
}

func TestOutputFailureDoesNotStall(t *testing.T) {
	rec := &recorder{}
	m := sgready.NewMachine(sgready.Outputs{
		SetOutput: func(mode sgready.Mode) error {
			rec.writes = append(rec.writes, mode)
			return assert.AnError
		},
		PublishMode:   func(mode sgready.Mode) { rec.modePubs = append(rec.modePubs, mode) },
		PublishExcess: func(on bool) { rec.excessPubs = append(rec.excessPubs, on) },
	})

	m.SetDesired(true)
	tickAlive(m, sgready.MinStateSeconds)

	// the write failed but the mode still committed; the next dwell
	// window can retry
	assert.Equal(t, sgready.ModeExcess, m.Mode())
	assert.Equal(t, 1, len(rec.writes))
}
