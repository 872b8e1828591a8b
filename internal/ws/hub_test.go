package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, topic string) *Client {
	return &Client{
		id:    uuid.New(),
		hub:   hub,
		topic: topic,
		send:  make(chan []byte, 256),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(nil)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		return received
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
	}
	return Event{}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("expected no message, got: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventTopic(t *testing.T) {
	tests := map[string]string{
		"order.list":        "order",
		"meja.list":         "meja",
		"dashboard.summary": "dashboard",
		"ping":              "ping",
	}
	for typ, want := range tests {
		if got := (Event{Type: typ}).Topic(); got != want {
			t.Errorf("Topic(%q) = %q, want %q", typ, got, want)
		}
	}
}

func TestHubRegistration(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, "order")

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if !hub.rooms["order"][client] {
		t.Fatal("client not registered in order room")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, "order")

	hub.register <- client
	time.Sleep(10 * time.Millisecond)
	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got: %d", hub.ClientCount())
	}
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.rooms["order"] != nil {
		t.Fatal("room not cleaned up after last client unregistered")
	}
}

func TestPublishRoutesByTopic(t *testing.T) {
	hub := startHub(t)

	orders := mockClient(hub, "order")
	meja := mockClient(hub, "meja")
	all := mockClient(hub, TopicAll)
	hub.register <- orders
	hub.register <- meja
	hub.register <- all
	time.Sleep(10 * time.Millisecond)

	hub.Publish("order.deleted", map[string]int64{"id": 7})

	for _, c := range []*Client{orders, all} {
		got := receive(t, c)
		if got.Type != "order.deleted" {
			t.Errorf("expected type 'order.deleted', got '%s'", got.Type)
		}
		if string(got.Payload) != `{"id":7}` {
			t.Errorf("expected payload '{\"id\":7}', got '%s'", got.Payload)
		}
	}
	expectSilence(t, meja)
}

func TestPublishUnencodablePayloadIsDropped(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, TopicAll)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Publish("order.list", make(chan int))

	expectSilence(t, client)
}

func TestRunClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := mockClient(hub, "order")
	hub.register <- client
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, ok := <-client.send; ok {
		t.Fatal("expected client send channel to be closed")
	}
}

func TestHandlerDeliversEvents(t *testing.T) {
	hub := startHub(t)
	srv := httptest.NewServer(Handler(hub, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?topic=order"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish("order.list", []int{1, 2})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Type != "order.list" || string(got.Payload) != "[1,2]" {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin", "", true},
		{"allowed origin", "http://localhost:5173", true},
		{"same host", "http://dash.local", true},
		{"foreign origin", "http://evil.example", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://dash.local/ws", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if got := check(r); got != tc.want {
				t.Fatalf("expected %v, got: %v", tc.want, got)
			}
		})
	}
}
