package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizard_FirstThreeStepsAlwaysAvailable(t *testing.T) {
	for _, key := range []PresetKey{PresetExecutive, PresetSignature} {
		doc := newTestDocument(t, key)
		w := NewWizard(doc)
		assert.True(t, w.IsAvailable(StepGiftSet))
		assert.True(t, w.IsAvailable(StepRecipient))
		assert.True(t, w.IsAvailable(StepCrestSetup))
	}
}

func TestWizard_ItemStepsFollowInclusion(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)
	w := NewWizard(doc)

	assert.True(t, w.IsAvailable(StepGolfBalls))
	assert.True(t, w.IsAvailable(StepGolfTees))
	assert.False(t, w.IsAvailable(StepGolfTowel))
	assert.True(t, w.IsAvailable(StepDivotTool))
	assert.False(t, w.IsAvailable(StepBallMarker))

	require.NoError(t, doc.SelectPreset(DefaultCatalog(), PresetSignature))
	assert.True(t, w.IsAvailable(StepGolfTowel))
	assert.True(t, w.IsAvailable(StepBallMarker))
}

func TestWizard_OutOfRangePanics(t *testing.T) {
	w := NewWizard(newTestDocument(t, PresetExecutive))
	assert.Panics(t, func() { w.IsAvailable(Step(-1)) })
	assert.Panics(t, func() { w.IsAvailable(stepCount) })
	assert.Panics(t, func() { w.Next(Step(-1)) })
	assert.Panics(t, func() { w.Next(stepCount) })
	assert.Panics(t, func() { w.Previous(Step(-1)) })
	assert.Panics(t, func() { w.Previous(stepCount) })
}

func TestWizard_NextSkipsUnavailable(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)
	w := NewWizard(doc)

	// executive 不含毛巾：球钉之后直接到果岭叉
	assert.Equal(t, StepDivotTool, w.Next(StepGolfTees))
	// 果岭叉是 executive 的最后一个可用步骤：停在原地，不回绕
	assert.Equal(t, StepDivotTool, w.Next(StepDivotTool))
}

func TestWizard_PreviousSkipsUnavailable(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)
	w := NewWizard(doc)

	assert.Equal(t, StepGolfTees, w.Previous(StepDivotTool))
	assert.Equal(t, StepGiftSet, w.Previous(StepGiftSet))
}

func TestWizard_NextPreviousRoundTrip(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	w := NewWizard(doc)

	steps := w.Steps()
	require.Len(t, steps, 8)
	for i := 1; i < len(steps); i++ {
		assert.Equal(t, steps[i-1], w.Previous(w.Next(steps[i-1])))
		assert.Equal(t, steps[i], w.Next(w.Previous(steps[i])))
	}
}

func TestWizard_RelocateOnPresetDowngrade(t *testing.T) {
	doc := newTestDocument(t, PresetSignature)
	w := NewWizard(doc)

	// 在毛巾步骤时降级到 executive：毛巾不可用，优先向前安置到果岭叉
	require.NoError(t, doc.SelectPreset(DefaultCatalog(), PresetExecutive))
	assert.Equal(t, StepDivotTool, w.Relocate(StepGolfTowel))

	// 在球标步骤降级：其后再无可用步骤，向后安置到果岭叉
	assert.Equal(t, StepDivotTool, w.Relocate(StepBallMarker))

	// 仍可用的步骤原样返回
	assert.Equal(t, StepRecipient, w.Relocate(StepRecipient))
}

func TestWizard_DisplayNumber(t *testing.T) {
	doc := newTestDocument(t, PresetExecutive)
	w := NewWizard(doc)

	assert.Equal(t, 1, w.DisplayNumber(StepGiftSet))
	assert.Equal(t, 4, w.DisplayNumber(StepGolfBalls))
	// 毛巾不可用，果岭叉顶上第 6 位
	assert.Equal(t, 6, w.DisplayNumber(StepDivotTool))
	assert.Equal(t, 0, w.DisplayNumber(StepGolfTowel))
}

func TestParseStep(t *testing.T) {
	s, err := ParseStep("golfTowel")
	require.NoError(t, err)
	assert.Equal(t, StepGolfTowel, s)

	_, err = ParseStep("checkout")
	assert.True(t, IsValidation(err))
}
