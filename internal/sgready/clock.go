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

// Clock counts seconds spent in the current committed mode. It is an
// unsigned counter and is allowed to wrap: all elapsed-time math on it
// must use unsigned subtraction, never magnitude comparison against an
// absolute reading.
type Clock struct {
	ticks uint32
}

// Tick advances the clock by one second and returns the new reading.
func (c *Clock) Tick() uint32 {
	c.ticks++
	return c.ticks
}

// Elapsed returns seconds since the last Reset.
func (c *Clock) Elapsed() uint32 {
	return c.ticks
}

// Reset restarts the clock at zero. Called exactly when a mode commits.
func (c *Clock) Reset() {
	c.ticks = 0
}
