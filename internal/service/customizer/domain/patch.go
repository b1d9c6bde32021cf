// internal/service/customizer/domain/patch.go
package domain

// 所有对单品个性化的修改都通过下面的命名补丁进行：nil 字段不动，
// 非法枚举与超长文本被拒绝，越界字号被钳制。这里不做任何派生字段的重算，
// 重算统一发生在 Document 的变更入口里。

// BallLinePatch 更新球面的一行文字。
type BallLinePatch struct {
	Source *BallTextSource `json:"source,omitempty"`
	Text   *string         `json:"text,omitempty"`
	Font   *TextFont       `json:"font,omitempty"`
	SizePx *int            `json:"sizePx,omitempty"`
	Case   *TextCase       `json:"case,omitempty"`
}

// BallPatch 更新高尔夫球单品。
type BallPatch struct {
	Quantity         *int           `json:"quantity,omitempty"`
	Style            *BallStyle     `json:"style,omitempty"`
	CrestSizePercent *int           `json:"crestSizePercent,omitempty"`
	Lines            *int           `json:"lines,omitempty"`
	Line1            *BallLinePatch `json:"line1,omitempty"`
	Line2            *BallLinePatch `json:"line2,omitempty"`
}

// TeePatch 更新球钉单品。
type TeePatch struct {
	Quantity   *int           `json:"quantity,omitempty"`
	Color      *TeeColor      `json:"color,omitempty"`
	Source     *TeeTextSource `json:"source,omitempty"`
	Message    *string        `json:"message,omitempty"`
	FontSizePx *int           `json:"fontSizePx,omitempty"`
}

// TowelPatch 更新毛巾单品。
type TowelPatch struct {
	Color      *TowelColor      `json:"color,omitempty"`
	Source     *TowelTextSource `json:"source,omitempty"`
	FontSizePx *int             `json:"fontSizePx,omitempty"`
	FontFamily *TextFont        `json:"fontFamily,omitempty"`
}

// CrestOnlyPatch 更新果岭叉/球标。
type CrestOnlyPatch struct {
	CrestSizePercent *int `json:"crestSizePercent,omitempty"`
}

func validTextFont(f TextFont) bool {
	switch f {
	case FontClassic, FontModern, FontScript, FontBold, FontElegant:
		return true
	}
	return false
}

func (line *BallTextLine) apply(p BallLinePatch, field string, allowSource bool) error {
	if p.Source != nil {
		if !allowSource {
			return newValidationError(field+".source", "second line has no text source selector")
		}
		switch *p.Source {
		case BallTextFullName, BallTextFirstName, BallTextLastName, BallTextCustom:
			line.Source = *p.Source
		default:
			return newValidationError(field+".source", "unknown text source %q", *p.Source)
		}
	}
	if p.Text != nil {
		if len([]rune(*p.Text)) > MaxBallLineText {
			return newValidationError(field+".text", "must be at most %d characters", MaxBallLineText)
		}
		line.Text = *p.Text
	}
	if p.Font != nil {
		if !validTextFont(*p.Font) {
			return newValidationError(field+".font", "unknown font %q", *p.Font)
		}
		line.Font = *p.Font
	}
	if p.SizePx != nil {
		line.SizePx = clampInt(*p.SizePx, MinBallTextSizePx, MaxBallTextSizePx)
	}
	if p.Case != nil {
		switch *p.Case {
		case CaseUppercase, CaseCapitalize, CaseNone:
			line.Case = *p.Case
		default:
			return newValidationError(field+".case", "unknown case transform %q", *p.Case)
		}
	}
	return nil
}

func (g *GolfBalls) apply(p BallPatch) error {
	if p.Quantity != nil {
		if *p.Quantity < 1 {
			return newValidationError("golfBalls.quantity", "must be positive")
		}
		g.Quantity = *p.Quantity
	}
	if p.Style != nil {
		switch *p.Style {
		case BallStyleCrest, BallStyleText:
			g.Personalization.Style = *p.Style
		default:
			return newValidationError("golfBalls.style", "unknown style %q", *p.Style)
		}
	}
	if p.CrestSizePercent != nil {
		g.Personalization.CrestSizePercent = clampInt(*p.CrestSizePercent, MinCrestSizePercent, MaxCrestSizePercent)
	}
	if p.Lines != nil {
		if *p.Lines != 1 && *p.Lines != 2 {
			return newValidationError("golfBalls.lines", "must be 1 or 2")
		}
		g.Personalization.Lines = *p.Lines
	}
	if p.Line1 != nil {
		if err := g.Personalization.Line1.apply(*p.Line1, "golfBalls.line1", true); err != nil {
			return err
		}
	}
	if p.Line2 != nil {
		if err := g.Personalization.Line2.apply(*p.Line2, "golfBalls.line2", false); err != nil {
			return err
		}
	}
	return nil
}

func (g *GolfTees) apply(p TeePatch) error {
	if p.Quantity != nil {
		if *p.Quantity < 1 {
			return newValidationError("golfTees.quantity", "must be positive")
		}
		g.Quantity = *p.Quantity
	}
	if p.Color != nil {
		if *p.Color != TeeColorNatural {
			return newValidationError("golfTees.color", "unknown color %q", *p.Color)
		}
		g.Color = *p.Color
	}
	if p.Source != nil {
		switch *p.Source {
		case TeeTextInitials, TeeTextName, TeeTextMessage:
			g.Personalization.Source = *p.Source
		default:
			return newValidationError("golfTees.source", "unknown text source %q", *p.Source)
		}
	}
	if p.Message != nil {
		if len([]rune(*p.Message)) > MaxTeeMessageText {
			return newValidationError("golfTees.message", "must be at most %d characters", MaxTeeMessageText)
		}
		g.Personalization.Message = *p.Message
	}
	if p.FontSizePx != nil {
		g.Personalization.FontSizePx = clampInt(*p.FontSizePx, MinTeeFontSizePx, MaxTeeFontSizePx)
	}
	return nil
}

func (g *GolfTowel) apply(p TowelPatch) error {
	if p.Color != nil {
		switch *p.Color {
		case TowelNavy, TowelBlack, TowelRed:
			g.Color = *p.Color
		default:
			return newValidationError("golfTowel.color", "unknown color %q", *p.Color)
		}
	}
	if p.Source != nil {
		switch *p.Source {
		case TowelTextInitials, TowelTextName:
			g.Personalization.Source = *p.Source
		default:
			return newValidationError("golfTowel.source", "unknown text source %q", *p.Source)
		}
	}
	if p.FontSizePx != nil {
		g.Personalization.FontSizePx = clampInt(*p.FontSizePx, MinTowelFontSizePx, MaxTowelFontSizePx)
	}
	if p.FontFamily != nil {
		if !validTextFont(*p.FontFamily) {
			return newValidationError("golfTowel.fontFamily", "unknown font %q", *p.FontFamily)
		}
		g.Personalization.FontFamily = *p.FontFamily
	}
	return nil
}

func (d *DivotTool) apply(p CrestOnlyPatch) error {
	if p.CrestSizePercent != nil {
		d.Personalization.CrestSizePercent = clampInt(*p.CrestSizePercent, MinCrestSizePercent, MaxCrestSizePercent)
	}
	return nil
}

func (b *BallMarker) apply(p CrestOnlyPatch) error {
	if p.CrestSizePercent != nil {
		b.Personalization.CrestSizePercent = clampInt(*p.CrestSizePercent, MinCrestSizePercent, MaxCrestSizePercent)
	}
	return nil
}

// GiftOptionsPatch 更新礼品附加选项。
type GiftOptionsPatch struct {
	Occasion    *string `json:"occasion,omitempty"`
	IncludeCard *bool   `json:"includeCard,omitempty"`
	CardMessage *string `json:"cardMessage,omitempty"`
	GiftWrap    *bool   `json:"giftWrap,omitempty"`
}
