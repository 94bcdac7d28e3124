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

// Package statusweb renders the controller status: connectivity,
// committed mode, desired mode, and seconds until the next eligible
// transition. Live updates go out over a websocket.
package statusweb

import (
	"context"
	"net/http"

	"sgready/internal/events"
	"sgready/pkg/eventbus"
	"sgready/pkg/logger"
)

type Service struct {
	evBus *eventbus.Bus
	log   *logger.Logger

	httpHandler http.Handler
}

func New(evBus *eventbus.Bus) *Service {
	s := &Service{
		evBus: evBus,
		log:   logger.New("StatusWeb"),
	}
	s.httpHandler = s.buildHTTPHandler()
	return s
}

// Run forwards status updates from the event bus to all websocket
// clients until the context is canceled.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("Running...")
	defer s.log.Info("Stopped")
	defer clients.closeAll()

	statusEvents, _ := s.evBus.Subscribe(ctx, events.TopicStatus, true)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-statusEvents:
			if !ok {
				return
			}
			s.broadcast(ev.(events.StatusUpdate))
		}
	}
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpHandler.ServeHTTP(w, r)
}
