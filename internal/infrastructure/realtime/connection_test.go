package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// dialTestConnection sets up a real websocket pair and wraps the client side
// in a Connection with its write loop running.
func dialTestConnection(t *testing.T, userID string) *Connection {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}

	conn := NewConnection(userID, ws)
	conn.Start()
	return conn
}

func TestSendAfterCloseReturnsError(t *testing.T) {
	conn := dialTestConnection(t, "alice")

	if err := conn.Send([]byte(`{"type":"connected"}`)); err != nil {
		t.Fatalf("send on a live connection: %v", err)
	}

	conn.Close(websocket.CloseNormalClosure, "test over")

	// A closed connection must degrade every send to an error; a panic here
	// would take the whole fan-out down with it.
	for i := 0; i < 200; i++ {
		if err := conn.Send([]byte("late payload")); err == nil {
			t.Fatalf("send %d after close accepted the payload", i)
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	conn := dialTestConnection(t, "alice")
	conn.Close(websocket.CloseNormalClosure, "first")
	conn.Close(websocket.CloseNormalClosure, "second")

	if err := conn.Send([]byte("x")); err == nil {
		t.Fatal("send after double close accepted the payload")
	}
}

func TestConcurrentSendAndCloseNeverPanics(t *testing.T) {
	for round := 0; round < 20; round++ {
		conn := dialTestConnection(t, "alice")

		var wg sync.WaitGroup
		start := make(chan struct{})
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for i := 0; i < 50; i++ {
					// Outcome does not matter; surviving the race does.
					_ = conn.Send([]byte("payload"))
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			conn.Close(websocket.CloseGoingAway, "racing close")
		}()

		close(start)
		wg.Wait()
	}
}
