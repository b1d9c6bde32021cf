// internal/service/customizer/domain/session.go
package domain

import (
	"context"
	"time"
)

// Session 是一次进行中的定制会话：文档加上向导光标。
// 会话内的修改由应用层串行化，仓储实现不需要自己加锁。
type Session struct {
	ID          string    `json:"id"`
	Document    *Document `json:"document"`
	CurrentStep Step      `json:"currentStep"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SessionRepository 定义了会话仓储的接口
type SessionRepository interface {
	// Save 保存会话（新建或覆盖）
	Save(ctx context.Context, session *Session) error
	// FindByID 按 ID 查找会话，不存在时返回 ErrSessionNotFound
	FindByID(ctx context.Context, id string) (*Session, error)
	// Delete 删除会话，幂等
	Delete(ctx context.Context, id string) error
}
