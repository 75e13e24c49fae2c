package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureVerifier_Verify(t *testing.T) {
	const secret = "test_gateway_secret"
	v := NewSignatureVerifier(secret)

	sign := func(orderID, paymentID string) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(orderID + "|" + paymentID))
		return hex.EncodeToString(mac.Sum(nil))
	}

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		want      bool
		wantErr   bool
	}{
		{
			name:      "valid signature",
			orderID:   "order_Nf8qT2mK1x",
			paymentID: "pay_Nf8r9sLw3z",
			signature: sign("order_Nf8qT2mK1x", "pay_Nf8r9sLw3z"),
			want:      true,
		},
		{
			name:      "signature for different payment id",
			orderID:   "order_Nf8qT2mK1x",
			paymentID: "pay_Nf8r9sLw3z",
			signature: sign("order_Nf8qT2mK1x", "pay_other"),
			want:      false,
		},
		{
			name:      "garbage signature",
			orderID:   "order_Nf8qT2mK1x",
			paymentID: "pay_Nf8r9sLw3z",
			signature: "deadbeef",
			want:      false,
		},
		{
			name:      "missing order id",
			orderID:   "",
			paymentID: "pay_Nf8r9sLw3z",
			signature: sign("", "pay_Nf8r9sLw3z"),
			wantErr:   true,
		},
		{
			name:      "missing payment id",
			orderID:   "order_Nf8qT2mK1x",
			paymentID: "",
			signature: "abc",
			wantErr:   true,
		},
		{
			name:      "missing signature",
			orderID:   "order_Nf8qT2mK1x",
			paymentID: "pay_Nf8r9sLw3z",
			signature: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := v.Verify(tt.orderID, tt.paymentID, tt.signature)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingField)
				assert.False(t, ok)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, ok)
			}
		})
	}
}

func TestSignatureVerifier_SingleCharacterMutation(t *testing.T) {
	v := NewSignatureVerifier("test_gateway_secret")

	orderID := "order_Nf8qT2mK1x"
	paymentID := "pay_Nf8r9sLw3z"
	valid := v.Sign(orderID, paymentID)

	ok, err := v.Verify(orderID, paymentID, valid)
	require.NoError(t, err)
	require.True(t, ok)

	// Flipping any single hex character must invalidate the signature.
	for i := 0; i < len(valid); i++ {
		mutated := []byte(valid)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}

		ok, err := v.Verify(orderID, paymentID, string(mutated))
		require.NoError(t, err)
		assert.False(t, ok, "mutation at index %d must not verify", i)
	}
}

func TestSignatureVerifier_WrongSecret(t *testing.T) {
	signer := NewSignatureVerifier("real_secret")
	verifier := NewSignatureVerifier("other_secret")

	sig := signer.Sign("order_1", "pay_1")

	ok, err := verifier.Verify("order_1", "pay_1", sig)
	require.NoError(t, err)
	assert.False(t, ok)
}
