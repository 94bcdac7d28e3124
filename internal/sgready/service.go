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
	"context"
	"time"

	"sgready/internal/config"
	"sgready/internal/events"
	"sgready/pkg/eventbus"
	"sgready/pkg/logger"
)

// Service drives a Machine from a 1-second ticker plus the asynchronous
// transport callbacks. The machine's state is only ever touched from the
// Run loop goroutine; SetDesired, RecordAck and SetConnected enqueue onto
// channels instead of mutating anything themselves.
type Service struct {
	machine *Machine
	evBus   *eventbus.Bus
	log     *logger.Logger

	cmds chan bool
	acks chan struct{}
	conn chan bool

	connected bool
}

func NewService(conf *config.Config, out Outputs) *Service {
	s := &Service{
		evBus: conf.EventBus,
		log:   logger.New("Controller"),
		cmds:  make(chan bool, 1),
		acks:  make(chan struct{}, 8),
		conn:  make(chan bool, 1),
	}

	notify := out.Notify
	out.Notify = func(st Status) {
		s.publishStatus(st)
		if notify != nil {
			notify(st)
		}
	}
	s.machine = NewMachine(out)
	return s
}

// SetDesired requests a mode change. Safe to call from any goroutine.
func (s *Service) SetDesired(excess bool) {
	replace(s.cmds, excess)
}

// RecordAck reports a broker delivery confirmation. Safe to call from
// any goroutine. Acks are applied before the next tick that depends on
// them; coalescing extra acks loses nothing.
func (s *Service) RecordAck() {
	select {
	case s.acks <- struct{}{}:
	default:
	}
}

// SetConnected reports a transport connect or disconnect. Safe to call
// from any goroutine.
func (s *Service) SetConnected(up bool) {
	replace(s.conn, up)
}

// Run owns all machine state until ctx is canceled.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("Running...")
	defer s.log.Info("Stopped")

	// start from a known state on the control line
	s.machine.AssertOutput()

	// The ticker runs from the moment the service starts, regardless of
	// connection state. If no connection is up by the time the dwell
	// window expires, the stale-ack path reverts the pump to normal mode.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case excess := <-s.cmds:
			s.machine.SetDesired(excess)

		case <-s.acks:
			s.machine.RecordAck()

		case up := <-s.conn:
			s.connected = up
			if up {
				s.log.Info("transport connected, announcing state")
				s.machine.Announce()
			} else {
				s.log.Warn("transport disconnected")
				s.publishStatus(s.machine.Status())
			}

		case <-ticker.C:
			s.machine.Tick()
		}
	}
}

func (s *Service) publishStatus(st Status) {
	if s.evBus == nil {
		return
	}
	s.evBus.Publish(events.TopicStatus, events.StatusUpdate{
		Connected: s.connected,
		Mode:      int(st.Mode),
		Excess:    st.Excess,
		Remaining: st.Remaining,
		Time:      time.Now(),
	})
}

// replace sends v on a size-1 channel, displacing any unread value.
func replace[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
