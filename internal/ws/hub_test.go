package ws

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testClient(id string) *Client {
	return newClient(id, nil, zap.NewNop())
}

func TestHub_registerUnregister(t *testing.T) {
	hub := NewHub(nil)
	c := testClient("c-1")

	hub.Register(c)
	require.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Zero(t, hub.ClientCount())
	_, open := <-c.send
	assert.False(t, open, "queue closed on unregister")

	// Unregistering twice must not panic on a closed channel.
	assert.NotPanics(t, func() { hub.Unregister(c) })
}

func TestHub_unregisterUnknownKeepsQueue(t *testing.T) {
	hub := NewHub(nil)
	registered := testClient("same-id")
	stranger := testClient("same-id")
	hub.Register(registered)

	hub.Unregister(stranger)

	assert.Equal(t, 1, hub.ClientCount())
	assert.True(t, hub.Send(registered, Message{Type: MessageSnapshot}))
	assert.False(t, hub.Send(stranger, Message{Type: MessageSnapshot}))
}

func TestHub_broadcast(t *testing.T) {
	hub := NewHub(nil)
	clients := []*Client{testClient("a"), testClient("b"), testClient("c")}
	for _, c := range clients {
		hub.Register(c)
	}

	hub.Broadcast(Message{Type: MessageThemeApplied, ThemeID: "theme-1", Timestamp: time.Now(), Data: ThemeData{Name: "Ocean Calm"}})

	for _, c := range clients {
		select {
		case got := <-c.send:
			assert.Equal(t, MessageThemeApplied, got.Type, c.id)
			assert.Equal(t, "theme-1", got.ThemeID, c.id)
		default:
			t.Errorf("client %s got nothing", c.id)
		}
	}
}

func TestHub_fullBufferDrops(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	hub := NewHub(zap.New(core))
	c := testClient("slow")
	hub.Register(c)

	for range sendBuffer {
		c.send <- Message{Type: MessageThemeUpdated, ThemeID: "fill"}
	}
	hub.Broadcast(Message{Type: MessageThemeDeleted, ThemeID: "dropped"})
	assert.False(t, hub.Send(c, Message{Type: MessageSnapshot}))

	assert.Equal(t, 2, logs.FilterMessage("feed buffer full, message dropped").Len())
	require.Len(t, c.send, sendBuffer)
	for range sendBuffer {
		assert.Equal(t, "fill", (<-c.send).ThemeID)
	}
}

func TestHub_sendRequiresRegistration(t *testing.T) {
	hub := NewHub(nil)
	c := testClient("c-1")

	assert.False(t, hub.Send(c, Message{Type: MessageSnapshot}))

	hub.Register(c)
	require.True(t, hub.Send(c, Message{Type: MessageSnapshot}))
	assert.Equal(t, MessageSnapshot, (<-c.send).Type)

	hub.Unregister(c)
	assert.False(t, hub.Send(c, Message{Type: MessageSnapshot}))
}

func TestHub_concurrentUse(t *testing.T) {
	hub := NewHub(nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := testClient(fmt.Sprintf("c-%d", i))
			hub.Register(c)
			go func() {
				for range c.send {
				}
			}()
			time.Sleep(5 * time.Millisecond)
			hub.Unregister(c)
		}()
	}
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(Message{Type: MessageThemeUpdated})
		}()
	}
	wg.Wait()

	assert.Zero(t, hub.ClientCount())
}
