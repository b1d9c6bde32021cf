// internal/service/pushgw/ws_handler.go
package pushgw

import (
	"net/http"

	"github.com/gorilla/websocket"

	"caddie/internal/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool { // 简化处理，允许所有跨域
		return true
	},
}

// ServeWS 把 HTTP 请求升级为 WebSocket 并订阅一个订单的状态推送。
// 订单号通过 ?orderId=... 传入。
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		http.Error(w, "orderId is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), orderID: orderID}
	client.hub.attach(client)

	go client.writePump()
	go client.readPump()
}
