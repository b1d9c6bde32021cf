package infrastructure

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"caddie/internal/pkg/logger"
	"caddie/internal/pkg/mq"
	"caddie/internal/service/notification/application"
	"caddie/internal/service/notification/domain"
)

// ConfirmationConsumerAdapter 是驱动适配器，监听支付完成事件并驱动应用服务。
type ConfirmationConsumerAdapter struct {
	reader  *kafka.Reader
	appSvc  *application.NotificationService
	tracer  trace.Tracer
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewConfirmationConsumerAdapter 创建一个新的 Kafka 消费者适配器
func NewConfirmationConsumerAdapter(reader *kafka.Reader, appSvc *application.NotificationService, tracer trace.Tracer) *ConfirmationConsumerAdapter {
	return &ConfirmationConsumerAdapter{
		reader: reader,
		appSvc: appSvc,
		tracer: tracer,
	}
}

// Start 开始监听，长期运行直到 Stop 或 ctx 取消
func (a *ConfirmationConsumerAdapter) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		logger.Logger.Info().
			Str("topic", a.reader.Config().Topic).
			Msg("confirmation consumer started")
		for {
			if a.stopped.Load() {
				return
			}
			// 用 FetchMessage 而不是 ReadMessage，处理成功后再提交 offset
			msg, err := a.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Logger.Info().Msg("confirmation consumer shutting down")
					return
				}
				logger.Logger.Error().Err(err).Msg("could not read message, retrying")
				time.Sleep(1 * time.Second)
				continue
			}

			a.processMessage(ctx, msg)

			if err := a.reader.CommitMessages(ctx, msg); err != nil {
				logger.Logger.Error().Err(err).Msg("failed to commit messages")
			}
		}
	}()
}

// Stop 优雅地停止消费者
func (a *ConfirmationConsumerAdapter) Stop() {
	a.stopped.Store(true)
	a.reader.Close()
	a.wg.Wait()
	logger.Logger.Info().Msg("confirmation consumer stopped")
}

func (a *ConfirmationConsumerAdapter) processMessage(parentCtx context.Context, msg kafka.Message) {
	// 把上游注入的追踪上下文接回来，邮件发送挂在同一条链路上
	propagator := otel.GetTextMapPropagator()
	headerCarrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := propagator.Extract(parentCtx, &headerCarrier)

	ctx, span := a.tracer.Start(ctx, "notification.ProcessConfirmation",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
		),
	)
	defer span.End()

	var event domain.OrderConfirmation
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal confirmation event, skipping")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	if err := a.appSvc.HandleOrderConfirmation(ctx, &event); err != nil {
		// 邮件失败不重投，避免重复确认信
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
