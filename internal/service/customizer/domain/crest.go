// internal/service/customizer/domain/crest.go
package domain

// 纹章（crest）是多件单品共享的装饰配置：高尔夫球选择 crest 样式时、
// 以及果岭叉和球标（它们只支持 crest）都引用同一份 CrestConfiguration。

// CrestStyle 是纹章的视觉风格。
type CrestStyle string

const (
	CrestHeritage CrestStyle = "heritage"
	CrestRoyal    CrestStyle = "royal"
	CrestClassic  CrestStyle = "classic"
	CrestModern   CrestStyle = "modern"
)

// CrestTextSource 决定纹章中央文字取自哪里。
type CrestTextSource string

const (
	CrestTextInitials  CrestTextSource = "initials"
	CrestTextFirstName CrestTextSource = "firstName"
	CrestTextLastName  CrestTextSource = "lastName"
	CrestTextCustom    CrestTextSource = "custom"
)

// CrestFont 是纹章文字的字体族。
type CrestFont string

const (
	CrestFontSerif  CrestFont = "serif"
	CrestFontSans   CrestFont = "sans"
	CrestFontScript CrestFont = "script"
	CrestFontGothic CrestFont = "gothic"
	CrestFontModern CrestFont = "modern"
)

const (
	// MaxCrestCustomText 是纹章自定义文字的长度上限
	MaxCrestCustomText = 10

	// 纹章尺寸与文字大小都是百分比，UI 上以钳制方式兜底
	MinCrestSizePercent = 50
	MaxCrestSizePercent = 150
)

// CrestConfiguration 是共享的纹章设置。ResolvedText 是派生字段，
// 由 Document 在每次相关变更后同步重算，读取方永远不应自行计算。
type CrestConfiguration struct {
	Style           CrestStyle      `json:"style"`
	TextSource      CrestTextSource `json:"textSource"`
	CustomText      string          `json:"customText,omitempty"`
	Font            CrestFont       `json:"font"`
	TextSizePercent int             `json:"textSizePercent"`

	ResolvedText string `json:"resolvedText"`
}

func defaultCrestConfiguration() CrestConfiguration {
	return CrestConfiguration{
		Style:           CrestHeritage,
		TextSource:      CrestTextInitials,
		Font:            CrestFontSerif,
		TextSizePercent: 100,
	}
}

// resolve 依据收礼人信息重算纹章文字。
func (c *CrestConfiguration) resolve(r Recipient) {
	switch c.TextSource {
	case CrestTextFirstName:
		c.ResolvedText = r.FirstName()
	case CrestTextLastName:
		c.ResolvedText = r.LastName()
	case CrestTextCustom:
		c.ResolvedText = c.CustomText
	default: // initials
		c.ResolvedText = r.Initials
	}
}

// CrestPatch 是对共享纹章配置的命名更新。nil 字段表示不修改。
type CrestPatch struct {
	Style           *CrestStyle      `json:"style,omitempty"`
	TextSource      *CrestTextSource `json:"textSource,omitempty"`
	CustomText      *string          `json:"customText,omitempty"`
	Font            *CrestFont       `json:"font,omitempty"`
	TextSizePercent *int             `json:"textSizePercent,omitempty"`
}

// apply 校验并落入补丁。自定义文字超长是校验错误；文字大小越界按 UI 约定钳制。
func (c *CrestConfiguration) apply(p CrestPatch) error {
	if p.Style != nil {
		switch *p.Style {
		case CrestHeritage, CrestRoyal, CrestClassic, CrestModern:
			c.Style = *p.Style
		default:
			return newValidationError("crest.style", "unknown style %q", *p.Style)
		}
	}
	if p.TextSource != nil {
		switch *p.TextSource {
		case CrestTextInitials, CrestTextFirstName, CrestTextLastName, CrestTextCustom:
			c.TextSource = *p.TextSource
		default:
			return newValidationError("crest.textSource", "unknown text source %q", *p.TextSource)
		}
	}
	if p.CustomText != nil {
		if len([]rune(*p.CustomText)) > MaxCrestCustomText {
			return newValidationError("crest.customText", "must be at most %d characters", MaxCrestCustomText)
		}
		c.CustomText = *p.CustomText
	}
	if p.Font != nil {
		switch *p.Font {
		case CrestFontSerif, CrestFontSans, CrestFontScript, CrestFontGothic, CrestFontModern:
			c.Font = *p.Font
		default:
			return newValidationError("crest.font", "unknown font %q", *p.Font)
		}
	}
	if p.TextSizePercent != nil {
		c.TextSizePercent = clampInt(*p.TextSizePercent, MinCrestSizePercent, MaxCrestSizePercent)
	}
	return nil
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
