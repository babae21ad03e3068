package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/canon"
)

func dialWS(t *testing.T, e *testEnv, origin string) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	wsURL := "ws" + strings.TrimPrefix(e.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readPosition(t *testing.T, conn *websocket.Conn) PositionMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg PositionMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	return msg
}

func TestWebSocketBroadcastsLastRead(t *testing.T) {
	e := newTestEnv(t, Config{})
	conn := dialWS(t, e, "")
	waitForClients(t, e.srv.Hub(), 1)

	if status, env := e.call(t, http.MethodPut, "/last-read", PositionRequest{Book: "Rut", Chapter: 2}); status != http.StatusOK {
		t.Fatalf("PUT status = %d, error = %+v", status, env.Error)
	}

	msg := readPosition(t, conn)
	if msg.Type != "position" || msg.Book != "Rut" || msg.Chapter != 2 || msg.Source != "api" {
		t.Errorf("message = %+v", msg)
	}
}

func TestWebSocketSendsCurrentPositionOnConnect(t *testing.T) {
	e := newTestEnv(t, Config{})
	p, _ := canon.NewPosition("Hechos", 2)
	if _, err := e.store.SetLastRead(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	conn := dialWS(t, e, "")
	msg := readPosition(t, conn)
	if msg.Book != "Hechos" || msg.Chapter != 2 || msg.Source != "current" {
		t.Errorf("message = %+v", msg)
	}
}

func TestWebSocketOriginCheck(t *testing.T) {
	e := newTestEnv(t, Config{AllowedOrigins: []string{"http://app.test"}})

	dialWS(t, e, "http://app.test")
	waitForClients(t, e.srv.Hub(), 1)

	wsURL := "ws" + strings.TrimPrefix(e.ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"http://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err == nil {
		t.Fatal("Dial from unlisted origin succeeded")
	}
	if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestHubDropsClientsOnShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := &Client{id: "c1", hub: hub, send: make(chan []byte, 1)}
	hub.register <- c
	waitForClients(t, hub, 1)

	hub.Broadcast(PositionMessage{Type: "position", Book: "Juan", Chapter: 1})
	select {
	case data := <-c.send:
		var msg PositionMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Timestamp == "" {
			t.Error("Broadcast did not stamp the message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}

	cancel()
	<-stopped
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() after shutdown = %d, want 0", hub.ClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("client send channel still open after shutdown")
	}
}
