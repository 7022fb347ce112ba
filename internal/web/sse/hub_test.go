package sse

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/testutil"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		data     string
		expected string
	}{
		{
			name:     "single line data",
			event:    "registration",
			data:     `{"id":"reg-1"}`,
			expected: "event: registration\ndata: {\"id\":\"reg-1\"}\n\n",
		},
		{
			name:     "multi-line data",
			event:    "notice",
			data:     "first\nsecond",
			expected: "event: notice\ndata: first\ndata: second\n\n",
		},
		{
			name:     "empty data",
			event:    "ping",
			data:     "",
			expected: "event: ping\ndata: \n\n",
		},
		{
			name:     "carriage returns dropped",
			event:    "notice",
			data:     "first\r\nsecond",
			expected: "event: notice\ndata: first\ndata: second\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatMessage(tt.event, tt.data)))
		})
	}
}

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func receive(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg, ok := <-client.send:
		require.True(t, ok, "client channel closed")
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestHubBroadcastsToEveryClient(t *testing.T) {
	hub := newRunningHub(t)

	first := NewClient("captain")
	second := NewClient("coach")
	require.True(t, hub.Register(first))
	require.True(t, hub.Register(second))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.BroadcastEvent("notice", "hello")

	assert.Equal(t, "event: notice\ndata: hello\n\n", receive(t, first))
	assert.Equal(t, "event: notice\ndata: hello\n\n", receive(t, second))
}

func TestHubUnregisterClosesClient(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient("captain")
	require.True(t, hub.Register(client))
	hub.Unregister(client)

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-client.send
	assert.False(t, ok)

	// A second unregister is a no-op
	hub.Unregister(client)
}

func TestHubRegisteredSendsRegistrationEvent(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient("captain")
	require.True(t, hub.Register(client))

	hub.Registered(&model.PlayerRegistration{
		ID:         "reg-7",
		League:     model.LeagueWomen,
		PlayerName: "meera rao",
		Profile:    model.ProfileBowler,
	})

	msg := receive(t, client)
	require.True(t, strings.HasPrefix(msg, "event: registration\ndata: "), msg)

	var payload registrationPayload
	body := strings.TrimSuffix(strings.TrimPrefix(msg, "event: registration\ndata: "), "\n\n")
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "reg-7", payload.ID)
	assert.Equal(t, "women", payload.League)
	assert.Equal(t, model.LeagueWomen.Label(), payload.LeagueLabel)
	assert.Equal(t, "meera rao", payload.PlayerName)
	assert.Equal(t, "Bowler", payload.Profile)
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()

	client := NewClient("captain")
	require.True(t, hub.Register(client))

	hub.Close()
	hub.Close()

	select {
	case _, ok := <-client.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client was not disconnected")
	}

	assert.False(t, hub.Register(NewClient("late")))
	hub.Unregister(client)
}

func TestServeSSEStreamsEvents(t *testing.T) {
	hub := newRunningHub(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub, "captain")
	}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := testutil.NewEventReader(resp.Body)
	assert.Equal(t, "connected", events.Next(t).Name)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.BroadcastEvent("notice", "hello")

	event := events.Next(t)
	assert.Equal(t, "notice", event.Name)
	assert.Equal(t, "hello", event.Data)
}

func TestServeSSEAfterCloseIsUnavailable(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	hub.Close()

	rr := httptest.NewRecorder()
	ServeSSE(rr, httptest.NewRequest(http.MethodGet, "/", nil), hub, "captain")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
