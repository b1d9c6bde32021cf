package interfaces

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"caddie/internal/service/checkout/domain"
)

// SignatureHeader 是支付网关携带 webhook 签名的请求头
const SignatureHeader = "X-Payment-Signature"

// SignatureVerifier 校验支付网关的 webhook 签名：
// 对原始请求体做 HMAC-SHA256，十六进制编码后与请求头比对。
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier 创建一个签名校验器
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Sign 计算请求体的签名，测试与本地联调用
func (v *SignatureVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify 用常数时间比较校验签名，失败返回 domain.ErrInvalidSignature
func (v *SignatureVerifier) Verify(body []byte, signature string) error {
	if len(v.secret) == 0 || signature == "" {
		return domain.ErrInvalidSignature
	}
	expected := v.Sign(body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrInvalidSignature
	}
	return nil
}
