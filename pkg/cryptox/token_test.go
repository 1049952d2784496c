package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"128-bit token", TokenSize128, 22},
		{"256-bit token", TokenSize256, 43},
		{"custom size", 24, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, token, tt.wantLen)

			token2, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, token, token2, "tokens should be unique")
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	fp1a := FingerprintToken("test-token-1")
	fp1b := FingerprintToken("test-token-1")
	fp2 := FingerprintToken("test-token-2")

	require.Equal(t, fp1a, fp1b)
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 43)
}

func TestEqualStrings(t *testing.T) {
	require.True(t, EqualStrings("042133", "042133"))
	require.False(t, EqualStrings("042133", "42133"))
	require.False(t, EqualStrings("042133", ""))
}

func TestDecodeBase64URL(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0xbe, 0x01, 0x02}

	tests := []struct {
		name  string
		input string
	}{
		{"url unpadded", base64.RawURLEncoding.EncodeToString(raw)},
		{"url padded", base64.URLEncoding.EncodeToString(raw)},
		{"std padded", base64.StdEncoding.EncodeToString(raw)},
		{"std unpadded", base64.RawStdEncoding.EncodeToString(raw)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DecodeBase64URL(tt.input)
			require.NoError(t, err)
			require.Equal(t, raw, out)
		})
	}

	t.Run("empty", func(t *testing.T) {
		out, err := DecodeBase64URL("")
		require.NoError(t, err)
		require.NotNil(t, out)
		require.Empty(t, out)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeBase64URL("***")
		require.Error(t, err)
	})
}
