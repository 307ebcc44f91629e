package httpinterface_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	httpinterface "github.com/tradelane-network/tradelane-daemon/internal/interfaces/http"
)

func TestEventHubConcurrentPublish(t *testing.T) {
	hub := httpinterface.NewEventHub()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Registration happens after the upgrade handshake completes.
	time.Sleep(100 * time.Millisecond)

	const publishers = 8
	const frames = 20
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < frames; j++ {
				payload := fmt.Sprintf(`{"publisher":%d,"frame":%d}`, i, j)
				_ = hub.Publish("TRADE_TRANSITION", payload)
			}
		}(i)
	}

	// Every frame arrives intact even with many publishers writing to the
	// same connection.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for received := 0; received < publishers*frames; received++ {
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err)
		require.True(t, json.Valid(frame))
	}
	wg.Wait()
}
