package adapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"caddie/internal/pkg/httpclient"
	"caddie/internal/pkg/logger"
	"caddie/internal/service/checkout/domain"
	"caddie/internal/service/checkout/port"
)

// SheetDBAdapter 把设计档案写入外部在线数据表，实现 port.DesignArchive。
// 数据表未配置时退化为进程内存储并返回本地记录 ID，
// 让本地开发不依赖外部账号就能走完整条结算链路。
type SheetDBAdapter struct {
	client  *httpclient.Client
	baseURL string
	apiKey  string

	mu    sync.RWMutex
	local map[string]*port.DesignRecord
}

// NewSheetDBAdapter 创建一个新的数据表适配器
func NewSheetDBAdapter(client *httpclient.Client, baseURL, apiKey string) *SheetDBAdapter {
	return &SheetDBAdapter{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		local:   make(map[string]*port.DesignRecord),
	}
}

func (a *SheetDBAdapter) configured() bool {
	return a.baseURL != "" && a.apiKey != ""
}

type sheetRecordResponse struct {
	ID     string             `json:"id"`
	Fields *port.DesignRecord `json:"fields"`
}

func (a *SheetDBAdapter) SaveDesign(ctx context.Context, record *port.DesignRecord) (string, error) {
	if !a.configured() {
		id := "local-" + uuid.New().String()
		record.RecordID = id
		copied := *record
		a.mu.Lock()
		a.local[id] = &copied
		a.mu.Unlock()
		logger.Ctx(ctx).Warn().
			Str("order_id", record.OrderID).
			Str("record_id", id).
			Msg("design datastore not configured, keeping record locally")
		return id, nil
	}

	var resp sheetRecordResponse
	err := a.client.PostJSON(ctx, a.baseURL+"/v1/records", a.apiKey, map[string]interface{}{
		"fields": record,
	}, &resp)
	if err != nil {
		return "", errors.Wrap(err, "failed to save design record")
	}
	if resp.ID == "" {
		return "", errors.New("design datastore returned empty record id")
	}
	record.RecordID = resp.ID
	return resp.ID, nil
}

func (a *SheetDBAdapter) GetDesign(ctx context.Context, recordID string) (*port.DesignRecord, error) {
	if !a.configured() {
		a.mu.RLock()
		record, ok := a.local[recordID]
		a.mu.RUnlock()
		if !ok {
			return nil, domain.ErrDesignNotFound
		}
		copied := *record
		return &copied, nil
	}

	var resp sheetRecordResponse
	err := a.client.GetJSON(ctx, fmt.Sprintf("%s/v1/records/%s", a.baseURL, recordID), a.apiKey, &resp)
	if err != nil {
		if errors.Is(err, httpclient.ErrNotFound) {
			return nil, domain.ErrDesignNotFound
		}
		return nil, errors.Wrap(err, "failed to load design record")
	}
	if resp.Fields == nil {
		return nil, domain.ErrDesignNotFound
	}
	resp.Fields.RecordID = resp.ID
	return resp.Fields, nil
}

func (a *SheetDBAdapter) UpdateStatus(ctx context.Context, recordID, status string) error {
	if !a.configured() {
		a.mu.Lock()
		defer a.mu.Unlock()
		record, ok := a.local[recordID]
		if !ok {
			return domain.ErrDesignNotFound
		}
		record.Status = status
		return nil
	}

	url := fmt.Sprintf("%s/v1/records/%s/status", a.baseURL, recordID)
	return a.client.PostJSON(ctx, url, a.apiKey, map[string]string{"status": status}, nil)
}
