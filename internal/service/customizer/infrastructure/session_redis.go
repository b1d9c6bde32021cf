package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"caddie/internal/pkg/redis"
	"caddie/internal/service/customizer/domain"
)

// sessionTTL 是会话在 redis 中的保留时长，每次写入续期。
// 超过这个时间没有任何操作的定制视为已放弃。
const sessionTTL = 24 * time.Hour

// RedisSessionRepository 把会话以 JSON 形式保存在 redis，
// 让多个 storefront 实例可以共享同一批会话。
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository 创建一个基于 redis 的会话仓储
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(id string) string {
	return fmt.Sprintf("customizer:session:%s", id)
}

func (r *RedisSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), data, sessionTTL); err != nil {
		return errors.Wrapf(err, "failed to save session %s", session.ID)
	}
	return nil
}

func (r *RedisSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load session %s", id)
	}
	if data == nil {
		return nil, domain.ErrSessionNotFound
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session %s", id)
	}
	return &session, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id))
}
