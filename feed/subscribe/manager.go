package subscribe

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	feedlog "github.com/foresta-global/pricefeed/feed/log"
	feedtypes "github.com/foresta-global/pricefeed/feed/types"
)

const reconnectWait = 5 * time.Second

// Manager subscribes to the local node's websocket feed of imported blocks
// and turns each message into a BlockEvent for the worker. The connection is
// re-established after any read failure.
type Manager struct {
	endpoint string
	events   chan feedtypes.BlockEvent
	wg       sync.WaitGroup
}

func NewManager(endpoint string, channelSize int) *Manager {
	return &Manager{
		endpoint: endpoint,
		events:   make(chan feedtypes.BlockEvent, channelSize),
	}
}

// Events returns the channel block notifications are delivered on.
func (m *Manager) Events() <-chan feedtypes.BlockEvent {
	return m.events
}

// Start launches the subscription loop. It returns immediately; events flow
// until the context is cancelled.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.loop(ctx)
}

// Wait blocks until the subscription loop has exited.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) loop(ctx context.Context) {
	defer m.wg.Done()
	defer close(m.events)

	for {
		if ctx.Err() != nil {
			return
		}

		if err := m.consume(ctx); err != nil {
			feedlog.Errorf("block subscription interrupted: %v", err)
		}

		select {
		case <-time.After(reconnectWait):
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, m.endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	feedlog.Infof("subscribed to block feed at %s", m.endpoint)

	// Unblock the read when the context goes away
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		height := gjson.GetBytes(message, "height")
		if !height.Exists() {
			feedlog.Debugf("ignoring block feed message without height")
			continue
		}

		select {
		case m.events <- feedtypes.BlockEvent{Height: height.Int()}:
		default:
			feedlog.Errorf("block event channel full, dropping height %d", height.Int())
		}
	}
}
