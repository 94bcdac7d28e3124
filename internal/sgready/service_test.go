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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sgready/internal/config"
	"sgready/internal/events"
	"sgready/internal/sgready"
	"sgready/pkg/eventbus"
)

func waitForStatus(t *testing.T, ch <-chan eventbus.Event, match func(events.StatusUpdate) bool) events.StatusUpdate {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ch:
			update := ev.(events.StatusUpdate)
			if match(update) {
				return update
			}
		case <-deadline:
			t.Fatal("no matching status update published")
		}
	}
}

func TestServiceAnnouncesOnConnect(t *testing.T) {
	bus := eventbus.New()
	conf := &config.Config{EventBus: bus}

	svc := sgready.NewService(conf, sgready.Outputs{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := bus.Subscribe(ctx, events.TopicStatus, false)
	go svc.Run(ctx)

	svc.SetConnected(true)

	update := waitForStatus(t, ch, func(u events.StatusUpdate) bool { return u.Connected })
	assert.Equal(t, int(sgready.ModeNormal), update.Mode)
	assert.False(t, update.Excess)
}

func TestServiceAppliesCommandsFromAnyGoroutine(t *testing.T) {
	bus := eventbus.New()
	conf := &config.Config{EventBus: bus}

	svc := sgready.NewService(conf, sgready.Outputs{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := bus.Subscribe(ctx, events.TopicStatus, false)
	go svc.Run(ctx)

	go svc.SetDesired(true)

	update := waitForStatus(t, ch, func(u events.StatusUpdate) bool { return u.Excess })
	assert.Equal(t, int(sgready.ModeNormal), update.Mode, "a command alone must not commit")
}
