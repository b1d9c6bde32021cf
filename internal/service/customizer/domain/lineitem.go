// internal/service/customizer/domain/lineitem.go
package domain

// ItemKey 标识五种实体单品之一。
type ItemKey string

const (
	ItemGolfBalls  ItemKey = "golfBalls"
	ItemGolfTees   ItemKey = "golfTees"
	ItemGolfTowel  ItemKey = "golfTowel"
	ItemDivotTool  ItemKey = "divotTool"
	ItemBallMarker ItemKey = "ballMarker"
)

// AllItemKeys 按固定展示顺序列出全部单品。
var AllItemKeys = []ItemKey{ItemGolfBalls, ItemGolfTees, ItemGolfTowel, ItemDivotTool, ItemBallMarker}

// 各单品的文本与尺寸约束。长度超限拒绝，字号越界钳制。
const (
	MaxBallLineText   = 20
	MaxTeeMessageText = 12

	MinBallTextSizePx = 10
	MaxBallTextSizePx = 32
	MinTeeFontSizePx  = 8
	MaxTeeFontSizePx  = 16
	MinTowelFontSizePx = 14
	MaxTowelFontSizePx = 36
)

// BallStyle 区分高尔夫球采用纹章还是文字印刷。
type BallStyle string

const (
	BallStyleCrest BallStyle = "crest"
	BallStyleText  BallStyle = "text"
)

// BallTextSource 决定球面文字第一行的来源。
type BallTextSource string

const (
	BallTextFullName  BallTextSource = "fullName"
	BallTextFirstName BallTextSource = "firstName"
	BallTextLastName  BallTextSource = "lastName"
	BallTextCustom    BallTextSource = "custom"
)

// TextFont 是印刷文字可选的字体族（球面与毛巾共用同一组）。
type TextFont string

const (
	FontClassic TextFont = "classic"
	FontModern  TextFont = "modern"
	FontScript  TextFont = "script"
	FontBold    TextFont = "bold"
	FontElegant TextFont = "elegant"
)

// TextCase 是文字的大小写变换。
type TextCase string

const (
	CaseUppercase  TextCase = "uppercase"
	CaseCapitalize TextCase = "capitalize"
	CaseNone       TextCase = "none"
)

// BallTextLine 是球面的一行文字。Resolved 为派生字段。
type BallTextLine struct {
	Source   BallTextSource `json:"source,omitempty"` // 仅第一行有来源选择器
	Text     string         `json:"text"`
	Font     TextFont       `json:"font"`
	SizePx   int            `json:"sizePx"`
	Case     TextCase       `json:"case"`
	Resolved string         `json:"resolved"`
}

// BallPersonalization 是高尔夫球的个性化配置。
type BallPersonalization struct {
	Style BallStyle `json:"style"`

	// crest 样式时生效
	CrestSizePercent int `json:"crestSizePercent"`

	// text 样式时生效
	Lines int           `json:"lines"` // 1 或 2
	Line1 BallTextLine  `json:"line1"`
	Line2 BallTextLine  `json:"line2"`
}

// GolfBalls 单品。
type GolfBalls struct {
	Included        bool                `json:"included"`
	Quantity        int                 `json:"quantity"`
	Personalization BallPersonalization `json:"personalization"`
}

// TeeTextSource 决定球钉上烙印文字的来源。
type TeeTextSource string

const (
	TeeTextInitials TeeTextSource = "initials"
	TeeTextName     TeeTextSource = "name"
	TeeTextMessage  TeeTextSource = "message"
)

// TeePersonalization 是球钉的个性化配置。
type TeePersonalization struct {
	Source     TeeTextSource `json:"source"`
	Message    string        `json:"message,omitempty"` // source == message 时的自定义内容
	FontSizePx int           `json:"fontSizePx"`
	Resolved   string        `json:"resolved"`
}

// TeeColor 目前只有原木色在售。
type TeeColor string

const TeeColorNatural TeeColor = "natural"

// GolfTees 单品。
type GolfTees struct {
	Included        bool               `json:"included"`
	Quantity        int                `json:"quantity"`
	Color           TeeColor           `json:"color"`
	Personalization TeePersonalization `json:"personalization"`
}

// TowelTextSource 决定毛巾刺绣文字的来源。
type TowelTextSource string

const (
	TowelTextInitials TowelTextSource = "initials"
	TowelTextName     TowelTextSource = "name"
)

// TowelColor 是毛巾的可选配色。
type TowelColor string

const (
	TowelNavy  TowelColor = "navy"
	TowelBlack TowelColor = "black"
	TowelRed   TowelColor = "red"
)

// TowelPersonalization 是毛巾的个性化配置，刺绣固定在角落位置。
type TowelPersonalization struct {
	Source     TowelTextSource `json:"source"`
	FontSizePx int             `json:"fontSizePx"`
	FontFamily TextFont        `json:"fontFamily"`
	Resolved   string          `json:"resolved"`
}

// GolfTowel 单品。
type GolfTowel struct {
	Included        bool                 `json:"included"`
	Color           TowelColor           `json:"color"`
	Personalization TowelPersonalization `json:"personalization"`
}

// ToolFinish 目前果岭叉只有银色表面。
type ToolFinish string

const FinishSilver ToolFinish = "silver"

// CrestOnlyPersonalization 用于只支持共享纹章的单品（果岭叉、球标），
// 仅允许调整纹章在该单品上的相对尺寸。
type CrestOnlyPersonalization struct {
	CrestSizePercent int `json:"crestSizePercent"`
}

// DivotTool 单品。
type DivotTool struct {
	Included        bool                     `json:"included"`
	Finish          ToolFinish               `json:"finish"`
	Personalization CrestOnlyPersonalization `json:"personalization"`
}

// BallMarker 单品。
type BallMarker struct {
	Included        bool                     `json:"included"`
	Personalization CrestOnlyPersonalization `json:"personalization"`
}

// Items 聚合五件单品。
type Items struct {
	GolfBalls  GolfBalls  `json:"golfBalls"`
	GolfTees   GolfTees   `json:"golfTees"`
	GolfTowel  GolfTowel  `json:"golfTowel"`
	DivotTool  DivotTool  `json:"divotTool"`
	BallMarker BallMarker `json:"ballMarker"`
}

// Included 返回某个单品当前是否在礼盒内。
func (it *Items) Included(key ItemKey) bool {
	switch key {
	case ItemGolfBalls:
		return it.GolfBalls.Included
	case ItemGolfTees:
		return it.GolfTees.Included
	case ItemGolfTowel:
		return it.GolfTowel.Included
	case ItemDivotTool:
		return it.DivotTool.Included
	case ItemBallMarker:
		return it.BallMarker.Included
	}
	return false
}
