package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caddie/internal/service/checkout/domain"
)

func TestSignatureVerifier(t *testing.T) {
	v := NewSignatureVerifier("whsec_test")
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	sig := v.Sign(body)
	require.NoError(t, v.Verify(body, sig))

	// 篡改请求体
	assert.ErrorIs(t, v.Verify([]byte(`{"id":"evt_2"}`), sig), domain.ErrInvalidSignature)
	// 错误签名
	assert.ErrorIs(t, v.Verify(body, "deadbeef"), domain.ErrInvalidSignature)
	// 缺失签名
	assert.ErrorIs(t, v.Verify(body, ""), domain.ErrInvalidSignature)
	// 不同密钥
	other := NewSignatureVerifier("whsec_other")
	assert.ErrorIs(t, other.Verify(body, sig), domain.ErrInvalidSignature)
}

func TestSignatureVerifier_EmptySecretRejectsEverything(t *testing.T) {
	v := NewSignatureVerifier("")
	body := []byte(`{}`)
	assert.ErrorIs(t, v.Verify(body, v.Sign(body)), domain.ErrInvalidSignature)
}
