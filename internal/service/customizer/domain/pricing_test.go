package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceDocument_FlatPresetPricing(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)

	q, err := PriceDocument(DefaultCatalog(), doc)
	require.NoError(t, err)
	assert.Equal(t, int64(14900), q.UnitPriceCents)
	assert.Equal(t, int64(14900), q.TotalCents)

	require.NoError(t, doc.SetQuantity(3))
	q, err = PriceDocument(DefaultCatalog(), doc)
	require.NoError(t, err)
	assert.Equal(t, int64(44700), q.TotalCents)
}

func TestPriceDocument_PersonalizationDoesNotAffectPrice(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	base, err := PriceDocument(DefaultCatalog(), doc)
	require.NoError(t, err)

	doc.SetRecipientName("Robert James Smith")
	style := BallStyleText
	lines := 2
	require.NoError(t, doc.SetLineItemPersonalization(ItemGolfBalls, BallPatch{Style: &style, Lines: &lines}))
	src := CrestTextCustom
	text := "EST. 1987"
	require.NoError(t, doc.SetCrestConfiguration(CrestPatch{TextSource: &src, CustomText: &text}))
	wrap := false
	require.NoError(t, doc.SetGiftOptions(GiftOptionsPatch{GiftWrap: &wrap}))

	after, err := PriceDocument(DefaultCatalog(), doc)
	require.NoError(t, err)
	assert.Equal(t, base.TotalCents, after.TotalCents)
}

func TestPriceDocument_UnknownPreset(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)
	doc.Preset = "mystery"
	_, err := PriceDocument(DefaultCatalog(), doc)
	assert.ErrorIs(t, err, ErrUnknownPreset)
}
