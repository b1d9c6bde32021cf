package port

import "context"

// DesignRecord 是落到外部数据表的设计档案
type DesignRecord struct {
	RecordID      string `json:"recordId,omitempty"`
	OrderID       string `json:"orderId"`
	Email         string `json:"email"`
	RecipientName string `json:"recipientName"`
	Preset        string `json:"preset"`
	Quantity      int    `json:"quantity"`
	AmountCents   int64  `json:"amountCents"`
	Status        string `json:"status"`
	DesignJSON    string `json:"designJson"`
	CreatedAt     string `json:"createdAt"`
}

// DesignArchive 定义了设计档案外部数据表的出站端口。
// 实现可以在未配置外部表时退化为本地记录 ID，调用方不感知差异。
type DesignArchive interface {
	// SaveDesign 保存设计档案，返回记录 ID
	SaveDesign(ctx context.Context, record *DesignRecord) (string, error)
	// GetDesign 按记录 ID 读取设计档案，不存在时返回 domain.ErrDesignNotFound
	GetDesign(ctx context.Context, recordID string) (*DesignRecord, error)
	// UpdateStatus 更新档案的状态列
	UpdateStatus(ctx context.Context, recordID, status string) error
}
