// internal/service/checkout/domain/errors.go
package domain

import "errors"

var (
	// ErrOrderNotFound 表示订单不存在
	ErrOrderNotFound = errors.New("order not found")

	// ErrDesignNotFound 表示设计档案不存在
	ErrDesignNotFound = errors.New("design not found")

	// ErrInvalidSignature 表示 webhook 签名校验失败。
	// 这是唯一允许 webhook 端点返回非 200 的情况。
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidTransition 表示订单状态流转不合法
	ErrInvalidTransition = errors.New("invalid order state transition")

	// ErrPaymentUnavailable 表示支付网关未配置或不可用
	ErrPaymentUnavailable = errors.New("payment gateway unavailable")
)
