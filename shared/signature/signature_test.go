package signature_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lphuocloc/Oasis-Go-BE/shared/signature"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{
			name: "sorted and encoded",
			params: map[string]string{
				"vnp_TxnRef":    "ORDER-20250601-001",
				"vnp_Amount":    "25000000",
				"vnp_OrderInfo": "Thanh toan don hang",
			},
			want: "vnp_Amount=25000000&vnp_OrderInfo=Thanh+toan+don+hang&vnp_TxnRef=ORDER-20250601-001",
		},
		{
			name: "empty values skipped",
			params: map[string]string{
				"vnp_BankCode": "",
				"vnp_Command":  "pay",
			},
			want: "vnp_Command=pay",
		},
		{
			name:   "no params",
			params: map[string]string{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, signature.BuildQuery(tt.params))
		})
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	params := map[string]string{
		"vnp_Version": "2.1.0",
		"vnp_Command": "pay",
		"vnp_TmnCode": "OASIS01",
		"vnp_Amount":  "25000000",
		"vnp_TxnRef":  "ORDER-20250601-004",
	}
	secret := "test-secret"

	mac := signature.HashValue(params, secret)

	assert.Len(t, mac, 128)
	assert.Equal(t, strings.ToLower(mac), mac)
	assert.True(t, signature.Verify(params, secret, mac))
}

func TestVerifyRejectsMutations(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef": "ORDER-20250601-004",
		"vnp_Amount": "25000000",
	}
	secret := "test-secret"
	mac := signature.HashValue(params, secret)

	t.Run("single character flip", func(t *testing.T) {
		mutated := []byte(mac)
		if mutated[0] == 'a' {
			mutated[0] = 'b'
		} else {
			mutated[0] = 'a'
		}

		assert.False(t, signature.Verify(params, secret, string(mutated)))
	})

	t.Run("uppercase hex rejected", func(t *testing.T) {
		assert.False(t, signature.Verify(params, secret, strings.ToUpper(mac)))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, signature.Verify(params, "other-secret", mac))
	})

	t.Run("tampered params", func(t *testing.T) {
		params["vnp_Amount"] = "30000000"

		assert.False(t, signature.Verify(params, secret, mac))
	})
}
