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
	"sgready/pkg/logger"
)

// SG Ready requires that the control line not change state more often
// than every 10 minutes. Everything else derives from that.
const (
	// MinStateSeconds is the minimum time between committed mode changes.
	MinStateSeconds = 600
	// KeepaliveInterval is how often the committed mode is re-published
	// to solicit a broker ack.
	KeepaliveInterval = MinStateSeconds / 10
	// DeadTime is how long we go without an ack before considering the
	// broker offline.
	DeadTime = KeepaliveInterval * 3
	// reassertInterval is how often the output is defensively re-written
	// while the broker is dead and the pump is already in normal mode.
	reassertInterval = 30
)

// Outputs are the collaborators a Machine drives. Any nil field is
// replaced with a no-op, so a Machine is always total: no operation on
// it can fail.
type Outputs struct {
	// SetOutput asserts the committed mode on the physical control line.
	SetOutput func(Mode) error

	// PublishMode announces the committed mode (the liveness probe).
	PublishMode func(Mode)

	// PublishExcess echoes the desired state back to the command source.
	PublishExcess func(bool)

	// Notify refreshes the status display.
	Notify func(Status)
}

// Status is a point-in-time snapshot for display purposes.
type Status struct {
	Mode      Mode   `json:"mode"`
	Excess    bool   `json:"excess"`
	Remaining uint32 `json:"remaining"` // seconds until the next eligible transition
}

// Machine decides, once per tick, whether a mode transition is due.
// It is the sole owner of the committed mode, the desired mode and the
// dwell clock; nothing outside this package may mutate them. It is not
// goroutine-safe: Service serializes all access from a single loop.
type Machine struct {
	out    Outputs
	clock  Clock
	live   Liveness
	mode   Mode
	excess bool
	log    *logger.Logger
}

// NewMachine returns a machine in the safe default state (normal mode,
// nothing desired, clocks at zero).
func NewMachine(out Outputs) *Machine {
	if out.SetOutput == nil {
		out.SetOutput = func(Mode) error { return nil }
	}
	if out.PublishMode == nil {
		out.PublishMode = func(Mode) {}
	}
	if out.PublishExcess == nil {
		out.PublishExcess = func(bool) {}
	}
	if out.Notify == nil {
		out.Notify = func(Status) {}
	}
	return &Machine{
		out: out,
		log: logger.New("SGReady"),
	}
}

// Mode returns the committed mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Excess returns the desired mode as requested by the command source.
// It may differ from the committed mode while a transition is pending.
func (m *Machine) Excess() bool {
	return m.excess
}

// Status reports the current snapshot.
func (m *Machine) Status() Status {
	var remaining uint32
	if e := m.clock.Elapsed(); e < MinStateSeconds {
		remaining = MinStateSeconds - e
	}
	return Status{
		Mode:      m.mode,
		Excess:    m.excess,
		Remaining: remaining,
	}
}

// SetDesired updates the desired mode. It never commits a transition and
// never touches the clocks; it only echoes the accepted state back out
// so the command source sees what was applied.
func (m *Machine) SetDesired(excess bool) {
	m.excess = excess
	m.out.PublishExcess(m.excess)
	m.out.Notify(m.Status())
}

// RecordAck notes a broker delivery confirmation at the current clock
// reading. Called by the transport whenever a publish completes.
func (m *Machine) RecordAck() {
	m.live.RecordAck(m.clock.Elapsed())
}

// Announce re-publishes the committed mode and desired state. Used when
// connectivity is restored so late subscribers catch up immediately.
func (m *Machine) Announce() {
	m.out.PublishMode(m.mode)
	m.out.PublishExcess(m.excess)
	m.out.Notify(m.Status())
}

// AssertOutput writes the committed mode to the control line. Called once
// at startup so the pump starts from a known state.
func (m *Machine) AssertOutput() {
	m.setOutput()
}

// Tick runs one evaluation step. Called once per second.
func (m *Machine) Tick() {
	m.out.Notify(m.Status())

	// solicit a broker ack by publishing our mode; checked against the
	// pre-increment reading so the probe fires at 0, 60, 120, ...
	if m.clock.Elapsed()%KeepaliveInterval == 0 {
		m.out.PublishMode(m.mode)
	}

	// stay in the current state for at least 10 minutes
	if m.clock.Tick() < MinStateSeconds {
		return
	}

	now := m.clock.Elapsed()
	if m.live.Dead(now, DeadTime) {
		if m.excess {
			m.log.Warn("no broker ack in %d seconds, reverting to normal mode", now-m.live.LastAck())
			m.excess = false
		} else {
			// already in normal mode: re-assert the output every so
			// often as an added precaution
			if now%reassertInterval == 0 {
				m.log.Debug("defensive output re-assert")
				m.setOutput()
			}
			return
		}
	}

	// nothing to do if no state change requested
	if m.mode == ModeFor(m.excess) {
		return
	}

	m.clock.Reset()
	m.live.Rebase()
	m.mode = ModeFor(m.excess)
	m.log.Info("committed mode %s", m.mode)
	m.setOutput()
	m.out.PublishMode(m.mode)
	m.out.PublishExcess(m.excess)
	m.out.Notify(m.Status())
}

func (m *Machine) setOutput() {
	if err := m.out.SetOutput(m.mode); err != nil {
		m.log.Error("output write failed: %v", err)
	}
}
