package infrastructure

import (
	"context"
	"encoding/json"
	"sync"

	"caddie/internal/service/customizer/domain"
)

// MemorySessionRepository 把会话保存在进程内，用于本地开发和测试。
// 出入都走一次 JSON 拷贝，避免调用方与仓储共享可变状态。
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemorySessionRepository 创建一个空的内存仓储
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string][]byte)}
}

func (r *MemorySessionRepository) Save(_ context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = data
	return nil
}

func (r *MemorySessionRepository) FindByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	data, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
