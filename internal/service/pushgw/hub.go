// internal/service/pushgw/hub.go
package pushgw

import (
	"encoding/json"

	"caddie/internal/pkg/logger"
)

// StatusUpdate 是推送给客户端的订单状态变化。
// 字段与结算域发布的事件保持线上兼容，但类型上相互独立。
type StatusUpdate struct {
	OrderID string `json:"orderId"`
	State   string `json:"state"`
}

// Hub 维护所有活跃的连接，并负责消息广播。
// 同一个订单允许多个连接同时订阅（比如买家开了多个标签页）。
type Hub struct {
	clients    map[string]map[*Client]struct{} // 使用订单号作为 Key
	register   chan *Client
	unregister chan *Client
	broadcast  chan *StatusUpdate
	done       chan struct{}
}

// NewHub 创建一个新的连接中心
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *StatusUpdate, 64),
		done:       make(chan struct{}),
	}
}

// Run 驱动注册、注销与广播，Close 之后断开所有连接并返回。
// 所有对 clients 的读写都收敛在这个 goroutine 里，不需要额外加锁。
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.orderID] == nil {
				h.clients[client.orderID] = make(map[*Client]struct{})
			}
			h.clients[client.orderID][client] = struct{}{}
			logger.Logger.Debug().
				Str("order_id", client.orderID).
				Int("subscribers", len(h.clients[client.orderID])).
				Msg("client subscribed")
		case client := <-h.unregister:
			if set, ok := h.clients[client.orderID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.send)
					if len(set) == 0 {
						delete(h.clients, client.orderID)
					}
				}
			}
			logger.Logger.Debug().
				Str("order_id", client.orderID).
				Msg("client unsubscribed")
		case update := <-h.broadcast:
			h.push(update)
		case <-h.done:
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = nil
			return
		}
	}
}

// attach 注册一个连接。Hub 已关停时直接关闭 send，让 writePump 立即退出。
func (h *Hub) attach(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// detach 注销一个连接。Hub 已关停时 send 已经在关停清理中关闭，直接返回。
func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast 把一条状态变化投递给所有订阅该订单的连接
func (h *Hub) Broadcast(update *StatusUpdate) {
	select {
	case h.broadcast <- update:
	case <-h.done:
	}
}

// Close 停止 Run 循环并断开所有连接
func (h *Hub) Close() {
	close(h.done)
}

func (h *Hub) push(update *StatusUpdate) {
	set, ok := h.clients[update.OrderID]
	if !ok {
		return
	}
	payload, err := json.Marshal(update)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("failed to marshal status update")
		return
	}
	for client := range set {
		select {
		case client.send <- payload:
		default:
			// 客户端写入积压，断开它而不是阻塞整个 Hub
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, update.OrderID)
	}
}
