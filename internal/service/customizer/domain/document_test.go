package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(t *testing.T, key PresetKey) *Document {
	t.Helper()
	doc, err := NewDocument(DefaultCatalog(), key)
	require.NoError(t, err)
	return doc
}

func TestNewDocument_UnknownPreset(t *testing.T) {
	_, err := NewDocument(DefaultCatalog(), "deluxe")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestNewDocument_ExecutiveDefaults(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)

	assert.Equal(t, PresetExecutive, doc.Preset)
	assert.Equal(t, 1, doc.Quantity)
	assert.True(t, doc.GiftOptions.GiftWrap)

	assert.True(t, doc.Items.GolfBalls.Included)
	assert.Equal(t, 4, doc.Items.GolfBalls.Quantity)
	assert.True(t, doc.Items.GolfTees.Included)
	assert.Equal(t, 25, doc.Items.GolfTees.Quantity)
	assert.False(t, doc.Items.GolfTowel.Included)
	assert.True(t, doc.Items.DivotTool.Included)
	assert.False(t, doc.Items.BallMarker.Included)
}

func TestSelectPreset_ReplacesQuantitiesKeepsContent(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)
	doc.SetRecipientName("Robert James Smith")
	msg := "Grip & Rip"
	require.NoError(t, doc.SetLineItemPersonalization(ItemGolfTees, TeePatch{Message: &msg}))

	require.NoError(t, doc.SelectPreset(DefaultCatalog(), PresetSignature))

	assert.Equal(t, 8, doc.Items.GolfBalls.Quantity)
	assert.Equal(t, 50, doc.Items.GolfTees.Quantity)
	assert.True(t, doc.Items.GolfTowel.Included)
	assert.True(t, doc.Items.BallMarker.Included)

	// 已输入内容不被覆盖
	assert.Equal(t, "Robert James Smith", doc.Recipient.Name)
	assert.Equal(t, "Grip & Rip", doc.Items.GolfTees.Personalization.Message)
}

func TestSelectPreset_Idempotent(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	doc.SetRecipientName("Ann Lee")
	before := *doc

	require.NoError(t, doc.SelectPreset(DefaultCatalog(), PresetSignature))
	assert.Equal(t, before, *doc)
}

func TestSelectPreset_UnknownLeavesDocumentUntouched(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)
	before := *doc

	err := doc.SelectPreset(DefaultCatalog(), "platinum")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, before, *doc)
}

func TestSetRecipientName_RecomputesInitials(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)

	doc.SetRecipientName("robert james smith")
	assert.Equal(t, "RJS", doc.Recipient.Initials)

	doc.SetRecipientName("")
	assert.Equal(t, "", doc.Recipient.Initials)
}

func TestSetRecipientInitials_OverrideSticksUntilCleared(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	doc.SetRecipientName("Robert Smith")

	require.NoError(t, doc.SetRecipientInitials("rjx"))
	assert.Equal(t, "RJX", doc.Recipient.Initials)

	// 覆盖后改名不再重算
	doc.SetRecipientName("Ann Lee")
	assert.Equal(t, "RJX", doc.Recipient.Initials)

	// 清除覆盖后恢复跟随姓名
	require.NoError(t, doc.SetRecipientInitials(""))
	assert.Equal(t, "AL", doc.Recipient.Initials)
	doc.SetRecipientName("Bo Chen Du")
	assert.Equal(t, "BCD", doc.Recipient.Initials)
}

func TestSetRecipientInitials_TooLong(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	err := doc.SetRecipientInitials("ABCD")
	assert.True(t, IsValidation(err))
}

func TestDerivedText_TracksRecipientEverywhere(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	doc.SetRecipientName("robert smith")

	// 球面第一行默认取全名并首字母大写
	assert.Equal(t, "Robert Smith", doc.Items.GolfBalls.Personalization.Line1.Resolved)
	// 球钉默认取姓名，截断到 12
	assert.Equal(t, "robert smith", doc.Items.GolfTees.Personalization.Resolved)
	// 毛巾默认取缩写
	assert.Equal(t, "RS", doc.Items.GolfTowel.Personalization.Resolved)
	// 纹章默认取缩写
	assert.Equal(t, "RS", doc.Crest.ResolvedText)
}

func TestDerivedText_TruncatedToItemCaps(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	doc.SetRecipientName("Bartholomew Higginbotham Fitzgerald")

	line1 := doc.Items.GolfBalls.Personalization.Line1.Resolved
	assert.LessOrEqual(t, len([]rune(line1)), MaxBallLineText)

	tee := doc.Items.GolfTees.Personalization.Resolved
	assert.Equal(t, "Bartholomew ", tee)
	assert.LessOrEqual(t, len([]rune(tee)), MaxTeeMessageText)
}

func TestLiteralTextOverCap_Rejected(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)

	long := "thirteenchars"
	err := doc.SetLineItemPersonalization(ItemGolfTees, TeePatch{Message: &long})
	require.True(t, IsValidation(err))
	assert.Empty(t, doc.Items.GolfTees.Personalization.Message)

	ballText := "this line is far too long for a golf ball"
	err = doc.SetLineItemPersonalization(ItemGolfBalls, BallPatch{Line1: &BallLinePatch{Text: &ballText}})
	assert.True(t, IsValidation(err))
}

func TestCrestCustomText_ResolvedForCrestItems(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)

	src := CrestTextCustom
	text := "EST. 1987"
	require.NoError(t, doc.SetCrestConfiguration(CrestPatch{TextSource: &src, CustomText: &text}))
	assert.Equal(t, "EST. 1987", doc.Crest.ResolvedText)

	tooLong := "elevenchars"
	err := doc.SetCrestConfiguration(CrestPatch{CustomText: &tooLong})
	assert.True(t, IsValidation(err))
}

func TestSizePercent_ClampedNotRejected(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)

	big := 400
	require.NoError(t, doc.SetCrestConfiguration(CrestPatch{TextSizePercent: &big}))
	assert.Equal(t, MaxCrestSizePercent, doc.Crest.TextSizePercent)

	small := 1
	require.NoError(t, doc.SetLineItemPersonalization(ItemDivotTool, CrestOnlyPatch{CrestSizePercent: &small}))
	assert.Equal(t, MinCrestSizePercent, doc.Items.DivotTool.Personalization.CrestSizePercent)
}

func TestBallSecondLine_HasNoSourceSelector(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)

	src := BallTextFirstName
	err := doc.SetLineItemPersonalization(ItemGolfBalls, BallPatch{Line2: &BallLinePatch{Source: &src}})
	assert.True(t, IsValidation(err))
}

func TestSetGiftOptions(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)

	occasion := "Retirement"
	card := true
	msg := "Enjoy the back nine"
	require.NoError(t, doc.SetGiftOptions(GiftOptionsPatch{Occasion: &occasion, IncludeCard: &card, CardMessage: &msg}))
	assert.Equal(t, "Retirement", doc.GiftOptions.Occasion)
	assert.True(t, doc.GiftOptions.IncludeCard)

	bad := "Groundhog Day"
	err := doc.SetGiftOptions(GiftOptionsPatch{Occasion: &bad})
	assert.True(t, IsValidation(err))
}

func TestSetQuantity(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)

	require.NoError(t, doc.SetQuantity(3))
	assert.Equal(t, 3, doc.Quantity)

	assert.True(t, IsValidation(doc.SetQuantity(0)))
	assert.True(t, IsValidation(doc.SetQuantity(-1)))
}

func TestSetLineItemPersonalization_RejectedPatchLeavesDocumentUnchanged(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	doc.SetRecipientName("Robert Smith")
	before := *doc

	// 合法的来源切换和超长文字在同一个补丁里：整体拒绝，不留半套修改
	src := TeeTextMessage
	long := "thirteenchars"
	err := doc.SetLineItemPersonalization(ItemGolfTees, TeePatch{Source: &src, Message: &long})
	require.True(t, IsValidation(err))
	assert.Equal(t, before, *doc)
	assert.Equal(t, TeeTextName, doc.Items.GolfTees.Personalization.Source)
	assert.Equal(t, "Robert Smith", doc.Items.GolfTees.Personalization.Resolved)
}

func TestSetCrestConfiguration_RejectedPatchLeavesDocumentUnchanged(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	doc.SetRecipientName("Robert Smith")
	before := *doc

	style := CrestRoyal
	tooLong := "elevenchars"
	err := doc.SetCrestConfiguration(CrestPatch{Style: &style, CustomText: &tooLong})
	require.True(t, IsValidation(err))
	assert.Equal(t, before, *doc)
}

func TestSetLineItemPersonalization_UnknownItem(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)
	err := doc.SetLineItemPersonalization("golfCart", CrestOnlyPatch{})
	assert.True(t, IsValidation(err))
}
