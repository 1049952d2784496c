package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/pquerna/otp"
)

// otpDigits is the length of emailed one-time codes.
const otpDigits = otp.DigitsSix

// GenerateOTP returns a uniformly random numeric code, zero padded to six
// digits so leading zeros are preserved ("004213", never "4213").
func GenerateOTP() (string, error) {
	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(otpDigits.Length())), nil)

	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return otpDigits.Format(int32(n.Int64())), nil
}
