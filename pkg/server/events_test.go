package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialEvents(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestEventsStream(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	conn := dialEvents(t, ts)
	first := readEvent(t, conn)
	assert.Equal(t, Event{View: "graph"}, first)

	resp, err := http.Post(ts.URL+"/nodes", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// One layout run notifies both views once.
	got := []Event{readEvent(t, conn), readEvent(t, conn)}
	views := []string{got[0].View, got[1].View}
	assert.ElementsMatch(t, []string{"nodes", "edges"}, views)
	for _, ev := range got {
		assert.Equal(t, 1, ev.Nodes)
		assert.True(t, ev.LayoutValid)
		assert.Equal(t, 1, ev.LayoutRuns)
	}
}

func TestHubDropsForSlowClients(t *testing.T) {
	h := newHub(quietLogger())
	c := &client{send: make(chan Event, 1)}
	h.add(c)

	h.broadcast(Event{View: "nodes"})
	h.broadcast(Event{View: "edges"}) // queue full, dropped

	assert.Equal(t, "nodes", (<-c.send).View)
	select {
	case ev := <-c.send:
		t.Fatalf("unexpected event %v", ev)
	default:
	}

	h.remove(c)
	assert.Equal(t, 0, h.count())
	_, open := <-c.send
	assert.False(t, open, "removed clients have their queue closed")
	h.remove(c) // second remove is a no-op
}

func TestHubCloseStopsClients(t *testing.T) {
	h := newHub(quietLogger())
	a := &client{send: make(chan Event, 1)}
	b := &client{send: make(chan Event, 1)}
	h.add(a)
	h.add(b)

	h.close()
	assert.Equal(t, 0, h.count())
	_, openA := <-a.send
	_, openB := <-b.send
	assert.False(t, openA)
	assert.False(t, openB)
}
