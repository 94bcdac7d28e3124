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

// Liveness tracks how long ago the broker last acknowledged a publish.
// There is no dedicated ping/pong: the periodic mode announcement doubles
// as the liveness probe, and any delivery confirmation counts as proof
// the broker is still there. That keeps traffic on the link minimal.
//
// Purely reactive bookkeeping; it owns no timers of its own.
type Liveness struct {
	lastAck uint32
}

// RecordAck stores the dwell-clock reading at which an ack arrived.
func (l *Liveness) RecordAck(now uint32) {
	l.lastAck = now
}

// LastAck returns the dwell-clock reading of the most recent ack.
func (l *Liveness) LastAck() uint32 {
	return l.lastAck
}

// Dead reports whether more than threshold seconds have passed since the
// last ack. Unsigned subtraction keeps this wraparound-safe.
func (l *Liveness) Dead(now, threshold uint32) bool {
	return now-l.lastAck > threshold
}

// Rebase re-anchors the tracker to a fresh clock origin. Must be called
// whenever the dwell clock resets, otherwise the next Dead check would
// subtract a reading from the old clock epoch and a just-committed
// transition could look instantly dead.
func (l *Liveness) Rebase() {
	l.lastAck = 0
}
