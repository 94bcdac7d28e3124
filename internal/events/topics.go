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

package events

import (
	"time"

	"sgready/pkg/eventbus"
)

var (
	TopicStatus eventbus.Topic = "sgready/status"
)

// StatusUpdate is broadcast on every tick and on every state change.
type StatusUpdate struct {
	Connected bool
	Mode      int
	Excess    bool
	Remaining uint32
	Time      time.Time
}
