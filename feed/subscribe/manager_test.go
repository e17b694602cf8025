package subscribe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	feedlog "github.com/foresta-global/pricefeed/feed/log"
	feedtypes "github.com/foresta-global/pricefeed/feed/types"
)

var upgrader = websocket.Upgrader{}

// blockServer serves a websocket endpoint that pushes the given messages and
// then keeps the connection open until the client goes away.
func blockServer(t *testing.T, messages []string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func collect(t *testing.T, events <-chan feedtypes.BlockEvent, n int) []int64 {
	t.Helper()

	heights := make([]int64, 0, n)
	timeout := time.After(5 * time.Second)
	for len(heights) < n {
		select {
		case event := <-events:
			heights = append(heights, event.Height)
		case <-timeout:
			t.Fatalf("timed out waiting for %d events, got %d", n, len(heights))
		}
	}

	return heights
}

func TestBlockEvents(t *testing.T) {
	feedlog.InitLogger()

	srv := blockServer(t, []string{
		`{"height": 1}`,
		`{"height": 2}`,
		`{"height": 3}`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(wsURL(srv), 16)
	m.Start(ctx)

	require.Equal(t, []int64{1, 2, 3}, collect(t, m.Events(), 3))

	cancel()
	m.Wait()
}

func TestIgnoresMessagesWithoutHeight(t *testing.T) {
	feedlog.InitLogger()

	srv := blockServer(t, []string{
		`{"result": {}}`,
		`not json at all`,
		`{"height": 9}`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(wsURL(srv), 16)
	m.Start(ctx)

	require.Equal(t, []int64{9}, collect(t, m.Events(), 1))

	cancel()
	m.Wait()
}

func TestEventsChannelClosesOnCancel(t *testing.T) {
	feedlog.InitLogger()

	srv := blockServer(t, []string{`{"height": 5}`})

	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(wsURL(srv), 16)
	m.Start(ctx)

	collect(t, m.Events(), 1)

	cancel()
	m.Wait()

	_, ok := <-m.Events()
	require.False(t, ok)
}

func TestDialFailureKeepsRetrying(t *testing.T) {
	feedlog.InitLogger()

	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(fmt.Sprintf("ws://127.0.0.1:%d/nope", 1), 16)
	m.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	cancel()
	m.Wait()

	_, ok := <-m.Events()
	require.False(t, ok)
}
