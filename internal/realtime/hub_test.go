package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus360/portal-api/internal/models"
)

func newTestClient(h *Hub, buffer int) *Client {
	return &Client{hub: h, send: make(chan []byte, buffer)}
}

func drain(c *Client) []serverMessage {
	var out []serverMessage
	for {
		select {
		case raw := <-c.send:
			var msg serverMessage
			if err := json.Unmarshal(raw, &msg); err == nil {
				out = append(out, msg)
			}
		default:
			return out
		}
	}
}

func TestEmitToRoomOnlyReachesSubscribers(t *testing.T) {
	hub := NewHub(nil, nil)
	subscriber := newTestClient(hub, 4)
	bystander := newTestClient(hub, 4)
	hub.register(subscriber)
	hub.register(bystander)
	hub.joinRooms(subscriber, []string{"club-c"})
	hub.joinRooms(bystander, []string{"club-d"})

	hub.EmitToRoom("club-c", models.Notification{Title: "hi", Type: models.NotificationAnnouncement})

	got := drain(subscriber)
	require.Len(t, got, 1)
	assert.Equal(t, "notification", got[0].Event)
	assert.Equal(t, "hi", got[0].Data.Title)
	assert.Empty(t, drain(bystander))
}

func TestEmitToEmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub(nil, nil)
	client := newTestClient(hub, 4)
	hub.register(client)

	hub.EmitToRoom("nobody-here", models.Notification{Title: "hi"})

	assert.Empty(t, drain(client))
}

func TestEmitToAllReachesEveryConnection(t *testing.T) {
	hub := NewHub(nil, nil)
	a := newTestClient(hub, 4)
	b := newTestClient(hub, 4)
	hub.register(a)
	hub.register(b)
	hub.joinRooms(a, []string{"club-c"})

	hub.EmitToAll(models.Notification{Title: "urgent", Type: models.NotificationNotice})

	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1, "room membership is irrelevant for broadcasts")
}

func TestJoinRoomsIsIdempotent(t *testing.T) {
	hub := NewHub(nil, nil)
	client := newTestClient(hub, 4)
	hub.register(client)

	hub.joinRooms(client, []string{"club-c", "club-c", ""})
	hub.joinRooms(client, []string{"club-c"})

	assert.Equal(t, 1, hub.RoomSize("club-c"))
	assert.Equal(t, 0, hub.RoomSize(""), "empty ids are skipped")

	hub.EmitToRoom("club-c", models.Notification{Title: "once"})
	assert.Len(t, drain(client), 1, "duplicate joins must not duplicate delivery")
}

func TestJoinRoomsIgnoresUnregisteredClient(t *testing.T) {
	hub := NewHub(nil, nil)
	ghost := newTestClient(hub, 4)

	hub.joinRooms(ghost, []string{"club-c"})

	assert.Equal(t, 0, hub.RoomSize("club-c"))
}

func TestUnregisterCleansUpRooms(t *testing.T) {
	hub := NewHub(nil, nil)
	client := newTestClient(hub, 4)
	hub.register(client)
	hub.joinRooms(client, []string{"club-c", "club-d"})
	require.Equal(t, 1, hub.ClientCount())

	hub.unregister(client)

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.RoomSize("club-c"))
	assert.Equal(t, 0, hub.RoomSize("club-d"))

	// A second unregister of the same client must be harmless.
	hub.unregister(client)
}

func TestSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(nil, nil)
	slow := newTestClient(hub, 1)
	hub.register(slow)
	hub.joinRooms(slow, []string{"club-c"})

	hub.EmitToRoom("club-c", models.Notification{Title: "first"})
	hub.EmitToRoom("club-c", models.Notification{Title: "dropped"})

	got := drain(slow)
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Data.Title)
}

type countingMetrics struct {
	opened, closed int
	emitted        map[string]int
}

func (m *countingMetrics) SocketOpened()  { m.opened++ }
func (m *countingMetrics) SocketClosed()  { m.closed++ }
func (m *countingMetrics) NotificationEmitted(target string) {
	if m.emitted == nil {
		m.emitted = map[string]int{}
	}
	m.emitted[target]++
}

func TestHubReportsMetrics(t *testing.T) {
	metrics := &countingMetrics{}
	hub := NewHub(nil, metrics)
	client := newTestClient(hub, 4)

	hub.register(client)
	hub.EmitToRoom("club-c", models.Notification{})
	hub.EmitToAll(models.Notification{})
	hub.unregister(client)

	assert.Equal(t, 1, metrics.opened)
	assert.Equal(t, 1, metrics.closed)
	assert.Equal(t, 1, metrics.emitted["room"])
	assert.Equal(t, 1, metrics.emitted["all"])
}
