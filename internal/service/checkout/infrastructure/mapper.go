package infrastructure

import (
	"encoding/json"

	"github.com/pkg/errors"

	"caddie/internal/service/checkout/domain"
	customizer "caddie/internal/service/customizer/domain"
)

// ToOrderModel 把领域订单转换为数据库模型
func ToOrderModel(order *domain.Order) (*OrderModel, error) {
	docJSON, err := json.Marshal(order.Document)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal order document")
	}
	model := &OrderModel{
		ID:             order.ID,
		State:          string(order.State),
		Email:          order.Email,
		SessionID:      order.SessionID,
		DocumentJSON:   string(docJSON),
		AmountCents:    order.AmountCents,
		DiscountCents:  order.DiscountCents,
		CouponCode:     order.CouponCode,
		DesignRecordID: order.DesignRecordID,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if order.PaymentSessionID != "" {
		model.PaymentSessionID = &order.PaymentSessionID
	}
	if order.PaymentRef != "" {
		model.PaymentRef = &order.PaymentRef
	}
	return model, nil
}

// ToDomainOrder 把数据库模型转换为领域订单
func ToDomainOrder(model *OrderModel) (*domain.Order, error) {
	var doc customizer.Document
	if err := json.Unmarshal([]byte(model.DocumentJSON), &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal document for order %s", model.ID)
	}
	order := &domain.Order{
		ID:             model.ID,
		State:          domain.OrderState(model.State),
		Email:          model.Email,
		SessionID:      model.SessionID,
		Document:       &doc,
		AmountCents:    model.AmountCents,
		DiscountCents:  model.DiscountCents,
		CouponCode:     model.CouponCode,
		DesignRecordID: model.DesignRecordID,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
	if model.PaymentSessionID != nil {
		order.PaymentSessionID = *model.PaymentSessionID
	}
	if model.PaymentRef != nil {
		order.PaymentRef = *model.PaymentRef
	}
	return order, nil
}
