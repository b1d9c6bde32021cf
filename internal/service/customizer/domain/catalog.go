// internal/service/customizer/domain/catalog.go
package domain

// PresetKey 标识一个礼盒套装。
type PresetKey string

const (
	PresetExecutive PresetKey = "executive"
	PresetSignature PresetKey = "signature"
)

// GiftSetPreset 是目录中一个套装的静态定义：价格、默认数量和五件单品的包含关系。
// 目录在启动时加载，之后只读。
type GiftSetPreset struct {
	Key         PresetKey
	Name        string
	Description string

	// PriceCents 为套装一口价（美分）。打包模式下单品增减只改变选择，不改变价格。
	PriceCents int64

	GolfBallQuantity int
	GolfTeeQuantity  int

	Includes map[ItemKey]bool
}

// Catalog 是套装目录。所有以 PresetKey 进行的查找都必须经过它，
// 未知 key 一律返回 ErrUnknownPreset。
type Catalog struct {
	presets map[PresetKey]GiftSetPreset
	order   []PresetKey
}

// NewCatalog 从一组套装定义构建目录，保留传入顺序用于展示。
func NewCatalog(presets ...GiftSetPreset) *Catalog {
	c := &Catalog{presets: make(map[PresetKey]GiftSetPreset, len(presets))}
	for _, p := range presets {
		c.presets[p.Key] = p
		c.order = append(c.order, p.Key)
	}
	return c
}

// Lookup 查找一个套装。
func (c *Catalog) Lookup(key PresetKey) (GiftSetPreset, error) {
	p, ok := c.presets[key]
	if !ok {
		return GiftSetPreset{}, ErrUnknownPreset
	}
	return p, nil
}

// Presets 按注册顺序返回全部套装。
func (c *Catalog) Presets() []GiftSetPreset {
	out := make([]GiftSetPreset, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.presets[k])
	}
	return out
}

// DefaultCatalog 返回当前在售的两个套装。
func DefaultCatalog() *Catalog {
	return NewCatalog(
		GiftSetPreset{
			Key:              PresetExecutive,
			Name:             "Executive Set",
			Description:      "Essential items for the business golfer",
			PriceCents:       14900,
			GolfBallQuantity: 4,
			GolfTeeQuantity:  25,
			Includes: map[ItemKey]bool{
				ItemGolfBalls:  true,
				ItemGolfTees:   true,
				ItemGolfTowel:  false,
				ItemDivotTool:  true,
				ItemBallMarker: false,
			},
		},
		GiftSetPreset{
			Key:              PresetSignature,
			Name:             "Signature Set",
			Description:      "Complete collection with all accessories",
			PriceCents:       24900,
			GolfBallQuantity: 8,
			GolfTeeQuantity:  50,
			Includes: map[ItemKey]bool{
				ItemGolfBalls:  true,
				ItemGolfTees:   true,
				ItemGolfTowel:  true,
				ItemDivotTool:  true,
				ItemBallMarker: true,
			},
		},
	)
}

// Occasions 是赠送场合的展示目录。
var Occasions = []string{
	"Birthday",
	"Father's Day",
	"Retirement",
	"Christmas",
	"Corporate Gift",
	"Tournament Prize",
	"Thank You",
	"Just Because",
}

// Relationships 是收礼人关系标签的展示目录。
var Relationships = []string{
	"Dad",
	"Husband",
	"Boss",
	"Friend",
	"Colleague",
	"Client",
	"Brother",
	"Grandfather",
}
