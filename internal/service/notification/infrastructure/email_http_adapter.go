package infrastructure

import (
	"context"

	"github.com/pkg/errors"

	"caddie/internal/pkg/httpclient"
	"caddie/internal/pkg/logger"
	"caddie/internal/service/notification/port"
)

// EmailHTTPAdapter 通过事务邮件服务的 REST API 实现 port.EmailSender。
// 服务未配置时退化为只打日志，本地开发不需要邮件账号。
type EmailHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
	apiKey  string
	from    string
}

// NewEmailHTTPAdapter 创建一个新的邮件适配器
func NewEmailHTTPAdapter(client *httpclient.Client, baseURL, apiKey, from string) *EmailHTTPAdapter {
	return &EmailHTTPAdapter{client: client, baseURL: baseURL, apiKey: apiKey, from: from}
}

type sendEmailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

func (a *EmailHTTPAdapter) Send(ctx context.Context, msg *port.EmailMessage) error {
	if a.baseURL == "" || a.apiKey == "" {
		logger.Ctx(ctx).Warn().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("email service not configured, skipping send")
		return nil
	}

	var resp sendEmailResponse
	err := a.client.PostJSON(ctx, a.baseURL+"/emails", a.apiKey, &sendEmailRequest{
		From:    a.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}, &resp)
	if err != nil {
		return errors.Wrap(err, "email service call failed")
	}

	logger.Ctx(ctx).Debug().
		Str("message_id", resp.ID).
		Str("to", msg.To).
		Msg("email accepted by provider")
	return nil
}
