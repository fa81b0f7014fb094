package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsunagu-circle/backend/internal/registrations"
)

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) PublishEventMessage(eventID int64, event string, payload []byte) error {
	f.published = append(f.published, event)
	return nil
}

type fakeSubscriber struct {
	subscribed []int64
	cancelled  int
}

func (f *fakeSubscriber) SubscribeEvent(eventID int64, handler func(event string, payload []byte)) (func(), error) {
	f.subscribed = append(f.subscribed, eventID)
	return func() { f.cancelled++ }, nil
}

func newTestClient(eventID int64, id string) *Client {
	return &Client{ID: id, EventID: eventID, send: make(chan WSMessage, 8)}
}

func TestHubRegisterUnregister(t *testing.T) {
	sub := &fakeSubscriber{}
	hub := NewHub(nil, nil, sub)

	c1 := newTestClient(42, "a")
	c2 := newTestClient(42, "b")
	hub.Register(c1)
	hub.Register(c2)

	assert.Equal(t, 2, hub.ViewerCount(42))
	assert.Equal(t, []int64{42}, sub.subscribed, "one Redis subscription per room")

	hub.Unregister(c1)
	assert.Equal(t, 1, hub.ViewerCount(42))
	assert.Zero(t, sub.cancelled, "subscription held while viewers remain")

	hub.Unregister(c2)
	assert.Zero(t, hub.ViewerCount(42))
	assert.Equal(t, 1, sub.cancelled, "subscription released with the last viewer")
}

func TestHubBroadcastReachesRoomOnly(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	in := newTestClient(42, "in")
	other := newTestClient(43, "other")
	hub.Register(in)
	hub.Register(other)

	hub.Broadcast(42, "availability", map[string]string{"status": "open"})

	select {
	case msg := <-in.send:
		assert.Equal(t, "availability", msg.Event)
	default:
		t.Fatal("room member received nothing")
	}
	select {
	case <-other.send:
		t.Fatal("message leaked into another event room")
	default:
	}
}

func TestHubBroadcastSkipsFullBuffers(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	c := &Client{ID: "slow", EventID: 42, send: make(chan WSMessage)} // no buffer
	hub.Register(c)

	// Must not block.
	hub.Broadcast(42, "availability", map[string]string{"status": "open"})
}

func TestAvailabilityChangedBroadcastsAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	hub := NewHub(nil, pub, nil)
	c := newTestClient(42, "a")
	hub.Register(c)

	remaining := 3
	hub.AvailabilityChanged(42, registrations.Availability{
		Status:    registrations.StatusOpen,
		Remaining: &remaining,
	})

	require.Len(t, c.send, 1)
	msg := <-c.send
	assert.Equal(t, EventAvailability, msg.Event)

	var a registrations.Availability
	require.NoError(t, json.Unmarshal(msg.Data, &a))
	assert.Equal(t, registrations.StatusOpen, a.Status)
	require.NotNil(t, a.Remaining)
	assert.Equal(t, 3, *a.Remaining)

	assert.Equal(t, []string{EventAvailability}, pub.published, "other instances are told too")
}

func TestSendToClientTargetsOne(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	a := newTestClient(42, "a")
	b := newTestClient(42, "b")
	hub.Register(a)
	hub.Register(b)

	hub.SendToClient(42, "a", EventAvailability, map[string]string{"status": "full"})

	assert.Len(t, a.send, 1)
	assert.Empty(t, b.send)

	// unknown client is a no-op
	hub.SendToClient(42, "nobody", EventAvailability, nil)
	hub.SendToClient(99, "a", EventAvailability, nil)
}
