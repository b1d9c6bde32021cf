// cmd/notification-service/main.go
package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"caddie/internal/pkg/bootstrap"
	"caddie/internal/pkg/httpclient"
	"caddie/internal/pkg/mq"
	"caddie/internal/service/notification/application"
	"caddie/internal/service/notification/infrastructure"
)

const (
	serviceName     = "notification-service"
	consumerGroupID = "notification-group"
)

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	tracer := otel.Tracer(serviceName)

	httpClient := httpclient.NewClient(tracer)
	emailSender := infrastructure.NewEmailHTTPAdapter(
		httpClient,
		cfg.Infra.Email.BaseURL,
		cfg.Infra.Email.APIKey,
		cfg.Infra.Email.From,
	)
	notificationService := application.NewNotificationService(emailSender, tracer)

	reader := mq.NewKafkaReader(
		strings.Split(cfg.Infra.Kafka.Brokers, ","),
		cfg.Infra.Kafka.ConfirmationTopic,
		consumerGroupID,
	)
	consumer := infrastructure.NewConfirmationConsumerAdapter(reader, notificationService, tracer)
	consumer.Start(context.Background())

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8083,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
		},
		OnShutdown: func(ctx context.Context) {
			consumer.Stop()
		},
	})
}
