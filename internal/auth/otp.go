package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPValidity is how long a one-time code stays usable.
const OTPValidity = 10 * time.Minute

// GenerateOTP returns a random 6-digit one-time code and its expiry.
// The code is delivered only via the email/SMS side channel, never in a
// response body.
func GenerateOTP() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", time.Time{}, err
	}
	return fmt.Sprintf("%06d", n.Int64()), time.Now().Add(OTPValidity), nil
}
