package accesscode

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCode means no access code row matches the submitted value.
	ErrInvalidCode = errors.New("invalid access code")
	// ErrCodeExpired means the code exists but its expiry is in the past.
	// Expired codes are rejected, never deleted.
	ErrCodeExpired = errors.New("access code has expired")
)

type VerifyDTO struct {
	Code string `json:"code"`
}

type CreateCodeDTO struct {
	Label         string `json:"label"`
	ExpiresInDays *int   `json:"expiresInDays"`
}

// UpdateCodeDTO is a partial update. ExpiresInDays recomputes the expiry from
// now; a non-positive value clears it.
type UpdateCodeDTO struct {
	Label         *string    `json:"label"`
	ExpiresAt     *time.Time `json:"expires_at"`
	ExpiresInDays *int       `json:"expiresInDays"`
}
