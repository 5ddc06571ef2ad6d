package chathub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/messaging"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

func testHub() *Hub {
	return NewHub(zap.NewNop().Sugar(), &messaging.Service{})
}

func recvWithin(t *testing.T, c *Client, d time.Duration) []byte {
	t.Helper()
	select {
	case payload := <-c.send:
		return payload
	case <-time.After(d):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func TestHubBroadcastReachesRoomMembers(t *testing.T) {
	h := testHub()
	go h.Run()
	defer close(h.done)

	a := newClient(h, nil, "user-a", types.RoleUser)
	b := newClient(h, nil, "user-b", types.RoleTrainer)
	room := messaging.DeriveRoomKey("user-a", "user-b")

	h.join <- joinRequest{client: a, roomKey: room}
	h.join <- joinRequest{client: b, roomKey: room}
	h.broadcast <- outbound{roomKey: room, payload: []byte("hello")}

	require.Equal(t, []byte("hello"), recvWithin(t, a, time.Second))
	require.Equal(t, []byte("hello"), recvWithin(t, b, time.Second))
}

func TestHubRejoinSwitchesRoom(t *testing.T) {
	h := testHub()
	go h.Run()
	defer close(h.done)

	a := newClient(h, nil, "user-a", types.RoleUser)
	first := messaging.DeriveRoomKey("user-a", "user-b")
	second := messaging.DeriveRoomKey("user-a", "user-c")

	h.join <- joinRequest{client: a, roomKey: first}
	h.join <- joinRequest{client: a, roomKey: second}

	h.broadcast <- outbound{roomKey: first, payload: []byte("old room")}
	h.broadcast <- outbound{roomKey: second, payload: []byte("new room")}

	require.Equal(t, []byte("new room"), recvWithin(t, a, time.Second))
}

func TestHubEvictsSlowClient(t *testing.T) {
	h := testHub()
	go h.Run()
	defer close(h.done)

	a := newClient(h, nil, "user-a", types.RoleUser)
	room := messaging.DeriveRoomKey("user-a", "user-b")
	h.join <- joinRequest{client: a, roomKey: room}

	for i := 0; i < cap(a.send); i++ {
		a.send <- []byte("fill")
	}
	h.broadcast <- outbound{roomKey: room, payload: []byte("overflow")}

	for i := 0; i < cap(a.send); i++ {
		<-a.send
	}
	select {
	case _, ok := <-a.send:
		require.False(t, ok, "send channel should be closed after eviction")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHubEvictedClientCannotRejoin(t *testing.T) {
	h := testHub()
	go h.Run()
	defer close(h.done)

	a := newClient(h, nil, "user-a", types.RoleUser)
	b := newClient(h, nil, "user-b", types.RoleTrainer)
	room := messaging.DeriveRoomKey("user-a", "user-b")
	h.join <- joinRequest{client: a, roomKey: room}
	h.join <- joinRequest{client: b, roomKey: room}

	for i := 0; i < cap(a.send); i++ {
		a.send <- []byte("fill")
	}
	h.broadcast <- outbound{roomKey: room, payload: []byte("overflow")}
	require.Equal(t, []byte("overflow"), recvWithin(t, b, time.Second))

	// the evicted client asks back in with its send channel already closed;
	// the hub must refuse, and later deliveries to the room must not panic
	h.join <- joinRequest{client: a, roomKey: room}
	h.broadcast <- outbound{roomKey: room, payload: []byte("after eviction")}
	require.Equal(t, []byte("after eviction"), recvWithin(t, b, time.Second))

	// unregister of the evicted client is a no-op, not a second close
	h.unregister <- a
	h.broadcast <- outbound{roomKey: room, payload: []byte("still alive")}
	require.Equal(t, []byte("still alive"), recvWithin(t, b, time.Second))

	for i := 0; i < cap(a.send); i++ {
		<-a.send
	}
	_, ok := <-a.send
	require.False(t, ok, "evicted client's channel stays closed")
}
