package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sportID := int64(1)
		if r.URL.Query().Get("sport") == "2" {
			sportID = 2
		}
		hub.Serve(w, r, sportID)
	}))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, sportID int64, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Subscribers(sportID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers for sport %d, got %d", want, sportID, hub.Subscribers(sportID))
}

func TestPublishReachesSportSubscribersOnly(t *testing.T) {
	hub, server := startHub(t)

	football := dial(t, server, "sport=1")
	cricket := dial(t, server, "sport=2")
	waitForSubscribers(t, hub, 1, 1)
	waitForSubscribers(t, hub, 2, 1)

	hub.Publish(1, Event{Type: EventScore, MatchID: 7})

	_ = football.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := football.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Type != EventScore || event.SportID != 1 || event.MatchID != 7 {
		t.Fatalf("unexpected event: %+v", event)
	}

	_ = cricket.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := cricket.ReadMessage(); err == nil {
		t.Fatal("subscriber of another sport must not receive the event")
	}
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, server := startHub(t)

	conn := dial(t, server, "sport=1")
	waitForSubscribers(t, hub, 1, 1)

	conn.Close()
	waitForSubscribers(t, hub, 1, 0)
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub, _ := startHub(t)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(3, Event{Type: EventStatus})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestNilHubPublishIsNoop(t *testing.T) {
	var hub *Hub
	hub.Publish(1, Event{Type: EventScore})
}
