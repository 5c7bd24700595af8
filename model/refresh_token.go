// api/model/refresh_token.go
package model

import "time"

// RefreshToken is the persisted, revocable half of a session. Redeeming one
// rotates it: the row is marked revoked and ReplacedByToken points at its
// successor, forming a single-use chain.
type RefreshToken struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID          string    `json:"user_id" gorm:"index"`
	Token           string    `json:"token" gorm:"uniqueIndex"`
	CreatedByIP     string    `json:"created_by_ip"`
	ExpiresAt       time.Time `json:"expires_at"`
	Revoked         bool      `json:"revoked"`
	ReplacedByToken string    `json:"replaced_by_token,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Active reports whether the token can still be redeemed at the given time.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
