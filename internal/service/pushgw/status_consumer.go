// internal/service/pushgw/status_consumer.go
package pushgw

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
)

// StatusConsumer 监听订单状态主题并把事件广播给在线客户端
type StatusConsumer struct {
	reader  *kafka.Reader
	hub     *Hub
	tracer  trace.Tracer
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewStatusConsumer 创建一个新的状态消费者
func NewStatusConsumer(reader *kafka.Reader, hub *Hub, tracer trace.Tracer) *StatusConsumer {
	return &StatusConsumer{reader: reader, hub: hub, tracer: tracer}
}

// Start 开始监听，长期运行直到 Stop 或 ctx 取消
func (c *StatusConsumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		logger.Logger.Info().
			Str("topic", c.reader.Config().Topic).
			Msg("status consumer started")
		for {
			if c.stopped.Load() {
				return
			}
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Logger.Info().Msg("status consumer shutting down")
					return
				}
				logger.Logger.Error().Err(err).Msg("could not read message, retrying")
				time.Sleep(1 * time.Second)
				continue
			}

			c.processMessage(ctx, msg)

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				logger.Logger.Error().Err(err).Msg("failed to commit messages")
			}
		}
	}()
}

// Stop 优雅地停止消费者
func (c *StatusConsumer) Stop() {
	c.stopped.Store(true)
	c.reader.Close()
	c.wg.Wait()
	logger.Logger.Info().Msg("status consumer stopped")
}

func (c *StatusConsumer) processMessage(parentCtx context.Context, msg kafka.Message) {
	propagator := otel.GetTextMapPropagator()
	headerCarrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := propagator.Extract(parentCtx, &headerCarrier)

	ctx, span := c.tracer.Start(ctx, "pushgw.BroadcastStatus",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
		),
	)
	defer span.End()

	var update StatusUpdate
	if err := json.Unmarshal(msg.Value, &update); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal status event, skipping")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("order.id", update.OrderID),
		attribute.String("order.state", update.State),
	)
	c.hub.Broadcast(&update)
	logger.Ctx(ctx).Debug().
		Str("order_id", update.OrderID).
		Str("state", update.State).
		Msg("status update broadcast")
}
