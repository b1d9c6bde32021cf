// internal/service/customizer/domain/pricing.go
package domain

// 定价是纯函数：礼盒价格只由套装单价和份数决定，
// 任何个性化内容（文字、字体、纹章、礼品选项）都不影响金额。

// Quote 是一次定价结果，金额一律以分为单位的整数。
type Quote struct {
	Preset         PresetKey `json:"preset"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	TotalCents     int64     `json:"totalCents"`
}

// PriceDocument 对文档定价。未知套装返回 ErrUnknownPreset。
func PriceDocument(catalog *Catalog, doc *Document) (Quote, error) {
	preset, err := catalog.Lookup(doc.Preset)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Preset:         doc.Preset,
		UnitPriceCents: preset.PriceCents,
		Quantity:       doc.Quantity,
		TotalCents:     preset.PriceCents * int64(doc.Quantity),
	}, nil
}
