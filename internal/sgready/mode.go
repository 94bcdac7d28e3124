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

// Mode is the committed SG Ready mode, the one actually applied to the
// heat pump control line. Only two of the four SG Ready modes are
// supported.
type Mode int

const (
	// ModeNormal is normal operation.
	ModeNormal Mode = 0
	// ModeExcess means electricity is free or inexpensive, use is
	// encouraged.
	ModeExcess Mode = 1
)

func (m Mode) String() string {
	if m == ModeExcess {
		return "excess"
	}
	return "normal"
}

// ModeFor maps the requested excess flag onto a mode.
func ModeFor(excess bool) Mode {
	if excess {
		return ModeExcess
	}
	return ModeNormal
}
