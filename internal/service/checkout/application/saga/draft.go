package saga

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"caddie/internal/pkg/logger"
	"caddie/internal/service/checkout/port"
)

// DraftOrderHandler 负责持久化待支付订单并把设计档案写入外部数据表。
type DraftOrderHandler struct {
	NextHandler
}

const (
	// 外部数据表是可重试的持久化调用：限时、失败重试一次
	archiveTimeout  = 5 * time.Second
	archiveAttempts = 2
)

func NewDraftOrderHandler() *DraftOrderHandler {
	return &DraftOrderHandler{}
}

// saveDesignWithRetry 每次尝试都带独立超时，上游挂死不会拖住整个结算请求。
func saveDesignWithRetry(ctx context.Context, archive port.DesignArchive, record *port.DesignRecord) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= archiveAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, archiveTimeout)
		recordID, err := archive.SaveDesign(attemptCtx, record)
		cancel()
		if err == nil {
			return recordID, nil
		}
		lastErr = err
		logger.Ctx(ctx).Warn().Err(err).
			Int("attempt", attempt).
			Msg("design archive save failed")
	}
	return "", lastErr
}

func (h *DraftOrderHandler) Handle(checkoutCtx *CheckoutContext) error {
	ctx, span := checkoutCtx.Tracer.Start(checkoutCtx.Ctx, "saga.DraftOrder")
	defer span.End()

	order := checkoutCtx.Order

	// 1. 订单落库
	if err := checkoutCtx.OrderRepo.Create(ctx, order); err != nil {
		return errors.Wrap(err, "failed to create pending payment order")
	}
	span.AddEvent("Pending payment order saved to DB.")

	checkoutCtx.AddCompensation(func(ctx context.Context) {
		order.MarkFailed()
		if err := checkoutCtx.OrderRepo.Save(ctx, order); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", order.ID).
				Msg("compensation: failed to mark order as failed")
		}
	})

	// 2. 设计档案进外部数据表。档案失败不应拦住下单，记录后继续。
	designJSON, err := json.Marshal(order.Document)
	if err != nil {
		return errors.Wrap(err, "failed to marshal design snapshot")
	}
	recordID, err := saveDesignWithRetry(ctx, checkoutCtx.Archive, &port.DesignRecord{
		OrderID:       order.ID,
		Email:         order.Email,
		RecipientName: order.Document.Recipient.Name,
		Preset:        string(order.Document.Preset),
		Quantity:      order.Document.Quantity,
		AmountCents:   order.AmountCents,
		Status:        string(order.State),
		DesignJSON:    string(designJSON),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Warn().Err(err).
			Str("order_id", order.ID).
			Msg("failed to archive design, continuing checkout")
	} else {
		order.DesignRecordID = recordID
	}

	return h.executeNext(checkoutCtx)
}
