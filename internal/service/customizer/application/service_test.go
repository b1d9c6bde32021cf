package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"caddie/internal/service/customizer/domain"
	"caddie/internal/service/customizer/infrastructure"
)

func newTestService() *CustomizerService {
	return NewCustomizerService(
		domain.DefaultCatalog(),
		infrastructure.NewMemorySessionRepository(),
		otel.Tracer("customizer-test"),
	)
}

func TestCreateSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	view, err := svc.CreateSession(ctx, &CreateSessionRequest{Preset: "executive"})
	require.NoError(t, err)
	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, "giftSet", view.CurrentStep)
	assert.Equal(t, int64(14900), view.Quote.TotalCents)
	require.Len(t, view.Steps, 8)
	assert.False(t, view.Steps[5].Available) // executive 不含毛巾

	_, err = svc.CreateSession(ctx, &CreateSessionRequest{Preset: "bogus"})
	assert.ErrorIs(t, err, domain.ErrUnknownPreset)
}

func TestGetSession_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetSession(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMutationsPersistAcrossLoads(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &CreateSessionRequest{Preset: "signature"})
	require.NoError(t, err)
	id := created.SessionID

	name := "robert smith"
	_, err = svc.SetRecipient(ctx, id, &SetRecipientRequest{Name: &name})
	require.NoError(t, err)

	loaded, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "robert smith", loaded.Document.Recipient.Name)
	assert.Equal(t, "RS", loaded.Document.Recipient.Initials)
	assert.Equal(t, "RS", loaded.Document.Crest.ResolvedText)
}

func TestSelectPreset_RelocatesCursor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &CreateSessionRequest{Preset: "signature"})
	require.NoError(t, err)
	id := created.SessionID

	// 走到毛巾步骤再降级到 executive
	_, err = svc.GotoStep(ctx, id, &GotoStepRequest{Step: "golfTowel"})
	require.NoError(t, err)

	view, err := svc.SelectPreset(ctx, id, &SelectPresetRequest{Preset: "executive"})
	require.NoError(t, err)
	assert.Equal(t, "divotTool", view.CurrentStep)
}

func TestGotoStep_UnavailableRejected(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &CreateSessionRequest{Preset: "executive"})
	require.NoError(t, err)

	_, err = svc.GotoStep(ctx, created.SessionID, &GotoStepRequest{Step: "ballMarker"})
	assert.True(t, domain.IsValidation(err))
}

func TestNextPrevious(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &CreateSessionRequest{Preset: "executive"})
	require.NoError(t, err)
	id := created.SessionID

	view, err := svc.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "recipient", view.CurrentStep)

	view, err = svc.Previous(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "giftSet", view.CurrentStep)

	// 开头再 previous 停在原地
	view, err = svc.Previous(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "giftSet", view.CurrentStep)
}

func TestUpdateItem_DecodesPatchByItemKey(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &CreateSessionRequest{Preset: "signature"})
	require.NoError(t, err)
	id := created.SessionID

	view, err := svc.UpdateItem(ctx, id, "golfTees", json.RawMessage(`{"source":"message","message":"Fore!"}`))
	require.NoError(t, err)
	assert.Equal(t, "Fore!", view.Document.Items.GolfTees.Personalization.Resolved)

	// 超长消息被拒绝，文档不变
	_, err = svc.UpdateItem(ctx, id, "golfTees", json.RawMessage(`{"message":"thirteenchars"}`))
	assert.True(t, domain.IsValidation(err))

	loaded, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Fore!", loaded.Document.Items.GolfTees.Personalization.Message)

	_, err = svc.UpdateItem(ctx, id, "golfCart", json.RawMessage(`{}`))
	assert.True(t, domain.IsValidation(err))
}

func TestQuoteFollowsQuantity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &CreateSessionRequest{Preset: "signature"})
	require.NoError(t, err)

	view, err := svc.SetQuantity(ctx, created.SessionID, &SetQuantityRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(49800), view.Quote.TotalCents)
}
