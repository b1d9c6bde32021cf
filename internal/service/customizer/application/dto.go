package application

import (
	"encoding/json"

	"caddie/internal/service/customizer/domain"
)

// CreateSessionRequest 新建一个定制会话
type CreateSessionRequest struct {
	Preset string `json:"preset"`
}

// SelectPresetRequest 切换套装
type SelectPresetRequest struct {
	Preset string `json:"preset"`
}

// SetRecipientRequest 更新收礼人。指针字段为 nil 表示不修改。
type SetRecipientRequest struct {
	Name         *string `json:"name,omitempty"`
	Initials     *string `json:"initials,omitempty"`
	Relationship *string `json:"relationship,omitempty"`
}

// UpdateItemRequest 更新某个单品，具体补丁结构由 itemKey 决定，
// 在应用层再按单品类型解码。
type UpdateItemRequest struct {
	Patch json.RawMessage `json:"patch"`
}

// SetQuantityRequest 更新整单份数
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GotoStepRequest 直接跳转到某个步骤
type GotoStepRequest struct {
	Step string `json:"step"`
}

// StepView 是向导中一个步骤的展示状态
type StepView struct {
	Key           string `json:"key"`
	DisplayNumber int    `json:"displayNumber,omitempty"`
	Available     bool   `json:"available"`
	Current       bool   `json:"current"`
}

// SessionView 是接口层返回的完整会话快照
type SessionView struct {
	SessionID   string           `json:"sessionId"`
	Document    *domain.Document `json:"document"`
	CurrentStep string           `json:"currentStep"`
	Steps       []StepView       `json:"steps"`
	Quote       domain.Quote     `json:"quote"`
}

// PresetView 是目录中一个套装的展示信息
type PresetView struct {
	Key              string `json:"key"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	PriceCents       int64  `json:"priceCents"`
	GolfBallQuantity int    `json:"golfBallQuantity"`
	GolfTeeQuantity  int    `json:"golfTeeQuantity"`
	Includes         []string `json:"includes"`
}

// CatalogView 是套装目录加展示用字典
type CatalogView struct {
	Presets       []PresetView `json:"presets"`
	Occasions     []string     `json:"occasions"`
	Relationships []string     `json:"relationships"`
}
