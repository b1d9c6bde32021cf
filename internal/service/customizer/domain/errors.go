// internal/service/customizer/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset 表示引用了目录中不存在的礼盒套装。
// 按约定这是调用方错误，必须在变更入口处拒绝，绝不能静默回退到默认套装。
var ErrUnknownPreset = errors.New("unknown gift set preset")

// ErrSessionNotFound 表示定制会话不存在或已过期。
var ErrSessionNotFound = errors.New("customization session not found")

// ValidationError 表示某个字段违反了文本长度或取值范围约束。
// 与 UI 体验性的静默钳制（clamp）不同，这类错误必须拒绝整个变更。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func newValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation 判断一个错误是否是字段校验错误，供接口层映射到 400。
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NewStepUnavailableError 表示试图跳转到当前套装下不可用的向导步骤。
func NewStepUnavailableError(step string) error {
	return newValidationError("step", "step %q is not available for the selected gift set", step)
}

// NewPatchDecodeError 表示单品补丁的请求体无法解码。
func NewPatchDecodeError(item string, cause error) error {
	if cause == nil {
		return newValidationError(item, "unknown line item")
	}
	return newValidationError(item, "invalid patch body: %v", cause)
}
