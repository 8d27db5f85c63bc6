package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func assertNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected message %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_NotifyAccountReachesOnlyThatAccount(t *testing.T) {
	hub := startHub(t)
	alice1 := NewClient(hub, nil, 1)
	alice2 := NewClient(hub, nil, 1)
	bob := NewClient(hub, nil, 2)
	for _, c := range []*Client{alice1, alice2, bob} {
		require.True(t, hub.Register(c))
	}

	hub.NotifyAccount(1, "memos.created", map[string]int64{"id": 7})

	for _, c := range []*Client{alice1, alice2} {
		msg := receive(t, c)
		assert.Equal(t, "memos.created", msg.Action)
		assert.Equal(t, map[string]interface{}{"id": float64(7)}, msg.Payload)
	}
	assertNothing(t, bob)
}

func TestHub_NotifyAllReachesEveryone(t *testing.T) {
	hub := startHub(t)
	alice := NewClient(hub, nil, 1)
	bob := NewClient(hub, nil, 2)
	require.True(t, hub.Register(alice))
	require.True(t, hub.Register(bob))

	hub.NotifyAll("todos.rotated", nil)

	assert.Equal(t, "todos.rotated", receive(t, alice).Action)
	assert.Equal(t, "todos.rotated", receive(t, bob).Action)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, 1)
	require.True(t, hub.Register(c))
	hub.Unregister(c)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	// A second unregister is ignored.
	hub.Unregister(c)
}

func TestHub_SlowClientIsDisconnected(t *testing.T) {
	hub := startHub(t)
	slow := NewClient(hub, nil, 1)
	require.True(t, hub.Register(slow))

	for i := 0; i < cap(slow.Send)+1; i++ {
		hub.NotifyAccount(1, "tasks.updated", nil)
	}
	require.Eventually(t, func() bool { return len(hub.outbound) == 0 }, time.Second, time.Millisecond)
	// The loop only accepts a registration between iterations, so once this
	// returns every queued notification has been handled.
	require.True(t, hub.Register(NewClient(hub, nil, 99)))

	received := 0
	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.Send:
			if !ok {
				assert.Equal(t, cap(slow.Send), received)
				return
			}
			received++
		case <-timeout:
			t.Fatal("slow client was not disconnected")
		}
	}
}

func TestHub_ReplyTargetsOneClient(t *testing.T) {
	hub := startHub(t)
	a := NewClient(hub, nil, 1)
	b := NewClient(hub, nil, 1)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))

	a.Reply(NewMessage("pong", nil))

	assert.Equal(t, "pong", receive(t, a).Action)
	assertNothing(t, b)
}

func TestHub_StopClosesClientsAndRejectsRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	c := NewClient(hub, nil, 1)
	require.True(t, hub.Register(c))

	hub.Stop()
	hub.Stop()

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed on stop")
	}
	assert.False(t, hub.Register(NewClient(hub, nil, 2)))
	hub.Unregister(c)
}
