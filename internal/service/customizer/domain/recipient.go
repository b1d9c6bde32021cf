// internal/service/customizer/domain/recipient.go
package domain

import "strings"

// MaxInitials 是首字母缩写的最大长度。
const MaxInitials = 3

// Recipient 描述收礼人。Initials 在默认情况下是 Name 的纯函数，
// 只有当用户显式覆盖后才脱离 Name 独立存在（见 Document.SetRecipientInitials）。
type Recipient struct {
	Name         string `json:"name"`
	Initials     string `json:"initials"`
	Relationship string `json:"relationship,omitempty"`

	// InitialsOverridden 为 true 时，改名不再触发缩写重算
	InitialsOverridden bool `json:"initialsOverridden,omitempty"`
}

// InitialsFromName 按空白切分姓名，取每段的首个字符并大写，最多保留三个。
// 空名字产出空缩写。
func InitialsFromName(name string) string {
	initials := make([]rune, 0, MaxInitials)
	for _, token := range strings.Fields(name) {
		first := []rune(token)[0]
		initials = append(initials, []rune(strings.ToUpper(string(first)))...)
		if len(initials) >= MaxInitials {
			break
		}
	}
	if len(initials) > MaxInitials {
		initials = initials[:MaxInitials]
	}
	return string(initials)
}

// FirstName 返回姓名的第一个词，空名字返回空串。
func (r Recipient) FirstName() string {
	fields := strings.Fields(r.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LastName 返回姓名的最后一个词，单词名时与 FirstName 相同。
func (r Recipient) LastName() string {
	fields := strings.Fields(r.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
