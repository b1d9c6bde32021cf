package pushgw

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, orderID string) *Client {
	return &Client{hub: hub, send: make(chan []byte, 4), orderID: orderID}
}

func receive(t *testing.T, c *Client) *StatusUpdate {
	t.Helper()
	select {
	case payload := <-c.send:
		var update StatusUpdate
		require.NoError(t, json.Unmarshal(payload, &update))
		return &update
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for status update")
		return nil
	}
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	a := newTestClient(hub, "CC-1")
	b := newTestClient(hub, "CC-1")
	other := newTestClient(hub, "CC-2")
	hub.attach(a)
	hub.attach(b)
	hub.attach(other)

	hub.Broadcast(&StatusUpdate{OrderID: "CC-1", State: "paid"})

	assert.Equal(t, "paid", receive(t, a).State)
	assert.Equal(t, "paid", receive(t, b).State)
	select {
	case <-other.send:
		t.Fatal("client subscribed to a different order received the update")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	c := newTestClient(hub, "CC-3")
	hub.attach(c)
	hub.detach(c)

	select {
	case _, ok := <-c.send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// 注销后的广播不应该 panic，也不应该投递
	hub.Broadcast(&StatusUpdate{OrderID: "CC-3", State: "shipped"})
	time.Sleep(20 * time.Millisecond)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	c := &Client{hub: hub, send: make(chan []byte), orderID: "CC-4"} // 无缓冲且无人读取
	hub.attach(c)

	hub.Broadcast(&StatusUpdate{OrderID: "CC-4", State: "paid"})

	// 等 Hub 处理完广播，无人读取的客户端会被断开
	time.Sleep(100 * time.Millisecond)
	_, ok := <-c.send
	assert.False(t, ok, "backlogged client should have been disconnected")
}

func TestHub_CloseStopsRunAndDisconnectsClients(t *testing.T) {
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	c := newTestClient(hub, "CC-5")
	hub.attach(c)

	hub.Close()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}

	_, ok := <-c.send
	assert.False(t, ok, "send channel should be closed on shutdown")

	// 关停后注册和注销都立即返回，连接 goroutine 不会卡在 channel 上
	done := make(chan struct{})
	go func() {
		hub.detach(c)
		hub.attach(newTestClient(hub, "CC-6"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("attach/detach blocked after Close")
	}
}
