// internal/service/customizer/domain/document.go
package domain

import "strings"

// GiftOptions 是礼盒的附加选项，不影响价格。
type GiftOptions struct {
	Occasion    string `json:"occasion,omitempty"`
	IncludeCard bool   `json:"includeCard"`
	CardMessage string `json:"cardMessage,omitempty"`
	GiftWrap    bool   `json:"giftWrap"`
}

// Document 是一次礼盒定制的聚合根。所有修改都必须通过下面的命名操作进行，
// 每个操作成功返回时保证不变量成立：任何单品的派生文字（Resolved*）
// 都与 {收礼人, 纹章配置, 来源选择器} 一致，不存在过期缓存。
type Document struct {
	Preset      PresetKey          `json:"preset"`
	Recipient   Recipient          `json:"recipient"`
	Crest       CrestConfiguration `json:"crest"`
	Items       Items              `json:"items"`
	GiftOptions GiftOptions        `json:"giftOptions"`
	Quantity    int                `json:"quantity"`
}

// NewDocument 用目录默认值创建一个文档。未知套装返回 ErrUnknownPreset。
func NewDocument(catalog *Catalog, key PresetKey) (*Document, error) {
	preset, err := catalog.Lookup(key)
	if err != nil {
		return nil, err
	}

	d := &Document{
		Preset:    key,
		Recipient: Recipient{},
		Crest:     defaultCrestConfiguration(),
		Items: Items{
			GolfBalls: GolfBalls{
				Quantity: preset.GolfBallQuantity,
				Personalization: BallPersonalization{
					Style:            BallStyleCrest,
					CrestSizePercent: 100,
					Lines:            1,
					Line1: BallTextLine{
						Source: BallTextFullName,
						Font:   FontClassic,
						SizePx: 20,
						Case:   CaseCapitalize,
					},
					Line2: BallTextLine{
						Text:   "Signature Series",
						Font:   FontClassic,
						SizePx: 14,
						Case:   CaseCapitalize,
					},
				},
			},
			GolfTees: GolfTees{
				Quantity: preset.GolfTeeQuantity,
				Color:    TeeColorNatural,
				Personalization: TeePersonalization{
					Source:     TeeTextName,
					FontSizePx: 8,
				},
			},
			GolfTowel: GolfTowel{
				Color: TowelNavy,
				Personalization: TowelPersonalization{
					Source:     TowelTextInitials,
					FontSizePx: 20,
					FontFamily: FontElegant,
				},
			},
			DivotTool: DivotTool{
				Finish:          FinishSilver,
				Personalization: CrestOnlyPersonalization{CrestSizePercent: 100},
			},
			BallMarker: BallMarker{
				Personalization: CrestOnlyPersonalization{CrestSizePercent: 100},
			},
		},
		GiftOptions: GiftOptions{GiftWrap: true},
		Quantity:    1,
	}
	d.applyPresetIncludes(preset)
	d.resolveDerived()
	return d, nil
}

// SelectPreset 切换套装：用目录默认值替换球/钉数量和全部包含标记，
// 已输入的个性化内容保持不动。对同一套装重复调用是幂等的。
func (d *Document) SelectPreset(catalog *Catalog, key PresetKey) error {
	preset, err := catalog.Lookup(key)
	if err != nil {
		return err
	}
	d.Preset = key
	d.Items.GolfBalls.Quantity = preset.GolfBallQuantity
	d.Items.GolfTees.Quantity = preset.GolfTeeQuantity
	d.applyPresetIncludes(preset)
	d.resolveDerived()
	return nil
}

func (d *Document) applyPresetIncludes(preset GiftSetPreset) {
	d.Items.GolfBalls.Included = preset.Includes[ItemGolfBalls]
	d.Items.GolfTees.Included = preset.Includes[ItemGolfTees]
	d.Items.GolfTowel.Included = preset.Includes[ItemGolfTowel]
	d.Items.DivotTool.Included = preset.Includes[ItemDivotTool]
	d.Items.BallMarker.Included = preset.Includes[ItemBallMarker]
}

// SetRecipientName 原样保存姓名（允许空串），并在未被显式覆盖时重算缩写，
// 然后把新值传播到所有引用它的派生文字。
func (d *Document) SetRecipientName(name string) {
	d.Recipient.Name = name
	if !d.Recipient.InitialsOverridden {
		d.Recipient.Initials = InitialsFromName(name)
	}
	d.resolveDerived()
}

// SetRecipientInitials 显式覆盖缩写：之后改名不再重算，直到传入空串解除覆盖。
func (d *Document) SetRecipientInitials(initials string) error {
	if initials == "" {
		d.Recipient.InitialsOverridden = false
		d.Recipient.Initials = InitialsFromName(d.Recipient.Name)
		d.resolveDerived()
		return nil
	}
	if len([]rune(initials)) > MaxInitials {
		return newValidationError("recipient.initials", "must be at most %d characters", MaxInitials)
	}
	d.Recipient.Initials = strings.ToUpper(initials)
	d.Recipient.InitialsOverridden = true
	d.resolveDerived()
	return nil
}

// SetRecipientRelationship 更新关系标签，空串表示清除。
func (d *Document) SetRecipientRelationship(rel string) error {
	if rel != "" && !containsString(Relationships, rel) {
		return newValidationError("recipient.relationship", "unknown relationship %q", rel)
	}
	d.Recipient.Relationship = rel
	return nil
}

// SetCrestConfiguration 合并纹章补丁并重算所有纹章样式单品的文字。
// 补丁先落在副本上，被拒绝的补丁不会留下半套修改。
func (d *Document) SetCrestConfiguration(patch CrestPatch) error {
	crest := d.Crest
	if err := crest.apply(patch); err != nil {
		return err
	}
	d.Crest = crest
	d.resolveDerived()
	return nil
}

// SetLineItemPersonalization 合并某个单品的补丁。补丁类型必须与单品匹配。
// 多字段补丁要么整体生效要么整体拒绝：先应用到单品副本，
// 校验全部通过才写回文档，失败时文档保持原样。
func (d *Document) SetLineItemPersonalization(key ItemKey, patch interface{}) error {
	switch key {
	case ItemGolfBalls:
		p, ok := patch.(BallPatch)
		if !ok {
			return newValidationError(string(key), "patch type mismatch")
		}
		item := d.Items.GolfBalls
		if err := item.apply(p); err != nil {
			return err
		}
		d.Items.GolfBalls = item
	case ItemGolfTees:
		p, ok := patch.(TeePatch)
		if !ok {
			return newValidationError(string(key), "patch type mismatch")
		}
		item := d.Items.GolfTees
		if err := item.apply(p); err != nil {
			return err
		}
		d.Items.GolfTees = item
	case ItemGolfTowel:
		p, ok := patch.(TowelPatch)
		if !ok {
			return newValidationError(string(key), "patch type mismatch")
		}
		item := d.Items.GolfTowel
		if err := item.apply(p); err != nil {
			return err
		}
		d.Items.GolfTowel = item
	case ItemDivotTool:
		p, ok := patch.(CrestOnlyPatch)
		if !ok {
			return newValidationError(string(key), "patch type mismatch")
		}
		item := d.Items.DivotTool
		if err := item.apply(p); err != nil {
			return err
		}
		d.Items.DivotTool = item
	case ItemBallMarker:
		p, ok := patch.(CrestOnlyPatch)
		if !ok {
			return newValidationError(string(key), "patch type mismatch")
		}
		item := d.Items.BallMarker
		if err := item.apply(p); err != nil {
			return err
		}
		d.Items.BallMarker = item
	default:
		return newValidationError("itemKey", "unknown line item %q", key)
	}
	d.resolveDerived()
	return nil
}

// SetGiftOptions 合并礼品选项补丁。
func (d *Document) SetGiftOptions(patch GiftOptionsPatch) error {
	if patch.Occasion != nil {
		if *patch.Occasion != "" && !containsString(Occasions, *patch.Occasion) {
			return newValidationError("giftOptions.occasion", "unknown occasion %q", *patch.Occasion)
		}
		d.GiftOptions.Occasion = *patch.Occasion
	}
	if patch.IncludeCard != nil {
		d.GiftOptions.IncludeCard = *patch.IncludeCard
	}
	if patch.CardMessage != nil {
		d.GiftOptions.CardMessage = *patch.CardMessage
	}
	if patch.GiftWrap != nil {
		d.GiftOptions.GiftWrap = *patch.GiftWrap
	}
	return nil
}

// SetQuantity 更新整单份数。
func (d *Document) SetQuantity(q int) error {
	if q < 1 {
		return newValidationError("quantity", "must be positive")
	}
	d.Quantity = q
	return nil
}

// resolveDerived 在每次变更后同步重算所有派生文字。
// 对派生（非用户直接输入）的文字，超出单品可印刷长度时按字段上限截断。
func (d *Document) resolveDerived() {
	r := d.Recipient

	// 共享纹章
	d.Crest.resolve(r)
	d.Crest.ResolvedText = truncateRunes(d.Crest.ResolvedText, MaxCrestCustomText)

	// 高尔夫球文字行
	balls := &d.Items.GolfBalls.Personalization
	balls.Line1.Resolved = truncateRunes(
		applyCase(resolveBallLineSource(balls.Line1, r), balls.Line1.Case), MaxBallLineText)
	balls.Line2.Resolved = truncateRunes(applyCase(balls.Line2.Text, balls.Line2.Case), MaxBallLineText)

	// 球钉
	tees := &d.Items.GolfTees.Personalization
	switch tees.Source {
	case TeeTextInitials:
		tees.Resolved = r.Initials
	case TeeTextMessage:
		tees.Resolved = tees.Message
	default: // name
		tees.Resolved = r.Name
	}
	tees.Resolved = truncateRunes(tees.Resolved, MaxTeeMessageText)

	// 毛巾
	towel := &d.Items.GolfTowel.Personalization
	if towel.Source == TowelTextInitials {
		towel.Resolved = r.Initials
	} else {
		towel.Resolved = r.Name
	}
	towel.Resolved = truncateRunes(towel.Resolved, maxTowelResolvedText)
}

// maxTowelResolvedText 是毛巾刺绣的可印刷长度上限。
const maxTowelResolvedText = 30

func resolveBallLineSource(line BallTextLine, r Recipient) string {
	switch line.Source {
	case BallTextFirstName:
		return r.FirstName()
	case BallTextLastName:
		return r.LastName()
	case BallTextCustom:
		return line.Text
	default: // fullName
		return r.Name
	}
}

func applyCase(s string, c TextCase) string {
	switch c {
	case CaseUppercase:
		return strings.ToUpper(s)
	case CaseCapitalize:
		return capitalizeWords(s)
	default:
		return s
	}
}

func capitalizeWords(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		runes := []rune(f)
		fields[i] = strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
	}
	return strings.Join(fields, " ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
