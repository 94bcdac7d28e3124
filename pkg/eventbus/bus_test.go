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

package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgready/pkg/eventbus"
)

func recv(t *testing.T, ch <-chan eventbus.Event) eventbus.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestPublishReplacesStaleValue(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsub := bus.Subscribe(ctx, "t", false)
	defer unsub()

	bus.Publish("t", 1)
	bus.Publish("t", 2)
	bus.Publish("t", 3)

	assert.Equal(t, 3, recv(t, ch), "slow subscribers see only the latest value")
}

func TestSubscribeWithLast(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	bus.Publish("t", "retained")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, unsub := bus.Subscribe(ctx, "t", true)
	defer unsub()

	assert.Equal(t, "retained", recv(t, ch))

	last, ok := bus.GetLast("t")
	require.True(t, ok)
	assert.Equal(t, "retained", last)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	ch, unsub := bus.Subscribe(context.Background(), "t", false)
	unsub()
	unsub() // idempotent

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	bus := eventbus.New()
	bus.Close()
	bus.Close() // idempotent

	bus.Publish("t", 1)

	ch, _ := bus.Subscribe(context.Background(), "t", true)
	_, open := <-ch
	assert.False(t, open, "subscriptions after close get a closed channel")
}
