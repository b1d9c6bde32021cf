// internal/service/pushgw/client.go
package pushgw

import (
	"time"

	"github.com/gorilla/websocket"

	"caddie/internal/pkg/logger"
)

const (
	// 单次写入的超时时间
	writeWait = 10 * time.Second
	// 两次 Pong 之间允许的最大间隔
	pongWait = 60 * time.Second
	// Ping 周期，必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// 客户端只发心跳，不需要大的读缓冲
	maxMessageSize = 512
)

// Client 是一个 WebSocket 连接的代表
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	orderID string
}

// writePump 把 send channel 中的消息写入 websocket，并定期发送 Ping。
// 每个连接只有一个 writePump，保证 websocket 的写操作串行。
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 关闭了 channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取并丢弃客户端消息，维持 Pong 心跳。
// 连接断开时负责从 Hub 注销。
func (c *Client) readPump() {
	defer func() {
		c.hub.detach(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Logger.Debug().Err(err).
					Str("order_id", c.orderID).
					Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}
