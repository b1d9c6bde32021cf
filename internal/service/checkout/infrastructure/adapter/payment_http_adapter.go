package adapter

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"caddie/internal/pkg/httpclient"
	"caddie/internal/service/checkout/domain"
	"caddie/internal/service/checkout/port"
)

// PaymentHTTPAdapter 通过 REST API 实现 port.PaymentGateway。
// 网关未配置时所有调用返回 domain.ErrPaymentUnavailable，
// 结算是硬依赖支付的，这里没有本地降级。
type PaymentHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
	apiKey  string
}

// NewPaymentHTTPAdapter 创建一个新的支付网关适配器
func NewPaymentHTTPAdapter(client *httpclient.Client, baseURL, apiKey string) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client, baseURL: baseURL, apiKey: apiKey}
}

type createSessionRequest struct {
	AmountCents int64             `json:"amountCents"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Email       string            `json:"customerEmail"`
	SuccessURL  string            `json:"successUrl"`
	CancelURL   string            `json:"cancelUrl"`
	Metadata    map[string]string `json:"metadata"`
}

type createSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (a *PaymentHTTPAdapter) CreateCheckoutSession(ctx context.Context, req *port.CheckoutSessionRequest) (*port.CheckoutSession, error) {
	if a.baseURL == "" || a.apiKey == "" {
		return nil, domain.ErrPaymentUnavailable
	}

	var resp createSessionResponse
	err := a.client.PostJSON(ctx, a.baseURL+"/v1/checkout/sessions", a.apiKey, &createSessionRequest{
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Description: req.Description,
		Email:       req.Email,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
		Metadata:    req.Metadata,
	}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "payment gateway call failed")
	}
	if resp.ID == "" || resp.URL == "" {
		return nil, errors.New("payment gateway returned incomplete session")
	}
	return &port.CheckoutSession{ID: resp.ID, URL: resp.URL}, nil
}

func (a *PaymentHTTPAdapter) ExpireSession(ctx context.Context, sessionID string) error {
	if a.baseURL == "" || a.apiKey == "" {
		return domain.ErrPaymentUnavailable
	}
	url := fmt.Sprintf("%s/v1/checkout/sessions/%s/expire", a.baseURL, sessionID)
	return a.client.PostJSON(ctx, url, a.apiKey, struct{}{}, nil)
}
