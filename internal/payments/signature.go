package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrMissingField is returned when any part of the confirmation payload is
// empty. Rejected before any HMAC computation happens.
var ErrMissingField = errors.New("order id, payment id and signature are required")

// SignatureVerifier proves that a payment confirmation originated from the
// gateway. The gateway signs hex(HMAC-SHA256(secret, orderID + "|" + paymentID))
// and hands the signature to the client, which forwards it verbatim.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Verify recomputes the signature and compares it in constant time.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) (bool, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return false, ErrMissingField
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature)), nil
}

// Sign produces the signature the gateway would attach for the given pair.
// Used by tests and the sandbox tooling.
func (v *SignatureVerifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
