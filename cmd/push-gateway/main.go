// cmd/push-gateway/main.go
package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"caddie/internal/pkg/bootstrap"
	"caddie/internal/pkg/mq"
	"caddie/internal/service/pushgw"
)

const serviceName = "push-gateway"

// main 函数是应用的"组装根" (Composition Root)
// 买家付款后停留在确认页，这个服务把订单状态变化实时推给浏览器。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	tracer := otel.Tracer(serviceName)

	hub := pushgw.NewHub()
	go hub.Run()

	// 每个网关节点一个独立消费组，所有节点都收到全量状态事件，
	// 各自只推给连在本节点上的客户端
	consumerGroupID := "push-gateway-" + uuid.New().String()[:8]
	reader := mq.NewKafkaReader(
		strings.Split(cfg.Infra.Kafka.Brokers, ","),
		cfg.Infra.Kafka.StatusTopic,
		consumerGroupID,
	)
	consumer := pushgw.NewStatusConsumer(reader, hub, tracer)
	consumer.Start(context.Background())

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8088,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
			appCtx.Mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
				pushgw.ServeWS(hub, w, r)
			})
		},
		OnShutdown: func(ctx context.Context) {
			consumer.Stop()
			hub.Close()
		},
	})
}
