package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestRealtimeHubPublish(t *testing.T) {
	hub := NewRealtimeHub(zap.NewNop())
	registered := make(chan *WSClient, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cl := &WSClient{UserID: 5, Conn: conn}
		hub.Register(cl)
		registered <- cl
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(cl)
				return
			}
		}
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	<-registered

	if n := hub.Connections(5); n != 1 {
		t.Fatalf("Connections(5) = %d", n)
	}

	hub.Publish(6, EntryEvent{Kind: EventEntryCreated})
	hub.Publish(5, EntryEvent{Kind: EventEntryCreated, Entry: map[string]int{"calories": 95}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"kind":"entry.created","entry":{"calories":95}}`; string(msg) != want {
		t.Errorf("message = %s, want %s", msg, want)
	}
}
