// internal/pkg/redis/redis.go
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client 是对 go-redis 的一层薄封装。
// 地址列表包含多个节点时使用 Cluster 客户端，单节点时退化为普通客户端。
type Client struct {
	cmdable goredis.UniversalClient
}

// NewClient 创建并校验一个 redis 客户端。启动时 Ping 失败会直接返回错误，
// 让组装根尽早失败而不是在第一次业务请求时才暴露。
func NewClient(addrs string) (*Client, error) {
	addrList := strings.Split(addrs, ",")

	client := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:        addrList,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addrs, err)
	}

	return &Client{cmdable: client}, nil
}

// GetClient 暴露底层客户端，供需要 pipeline 等高级用法的调用方使用。
func (c *Client) GetClient() goredis.UniversalClient {
	return c.cmdable
}

// Set 写入一个带 TTL 的键。
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.cmdable.Set(ctx, key, value, ttl).Err()
}

// Get 读取一个键。键不存在时返回 (nil, nil)，由调用方决定语义。
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.cmdable.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Del 删除一个键。
func (c *Client) Del(ctx context.Context, key string) error {
	return c.cmdable.Del(ctx, key).Err()
}

// SetNX 仅在键不存在时写入，返回是否写入成功。
// 用于幂等场景下的“第一次见到”判定。
func (c *Client) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	return c.cmdable.SetNX(ctx, key, value, ttl).Result()
}

// Close 关闭底层连接。
func (c *Client) Close() error {
	return c.cmdable.Close()
}
