package domain

import "time"

// ChallengeKind names the ceremony a challenge was issued for.
type ChallengeKind string

const (
	ChallengeRegister   ChallengeKind = "register"
	ChallengeLogin      ChallengeKind = "login"
	ChallengeEmailLogin ChallengeKind = "email_login"
)

// Valid reports whether k is one of the known ceremony kinds.
func (k ChallengeKind) Valid() bool {
	switch k {
	case ChallengeRegister, ChallengeLogin, ChallengeEmailLogin:
		return true
	}
	return false
}

// Challenge is a single-use, short-lived ceremony record. The JSON form is
// what the redis backend stores.
type Challenge struct {
	Challenge     string        `json:"challenge"`
	Kind          ChallengeKind `json:"kind"`
	Handle        string        `json:"handle"`
	Email         string        `json:"email,omitempty"`
	OTP           string        `json:"otp,omitempty"`
	PendingUserID string        `json:"pendingUserId,omitempty"`
	ExpiresAt     time.Time     `json:"expiresAt"`
}

// Expired reports whether the challenge is no longer usable at now.
func (c Challenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
