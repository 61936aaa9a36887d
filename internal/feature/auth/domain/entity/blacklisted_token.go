package entity

import "time"

// DefaultBlacklistTTL is used when the revoked token carries no readable expiry.
const DefaultBlacklistTTL = 24 * time.Hour

// BlacklistedToken is a token string revoked by logout.
// Rows are only ever inserted; the janitor drops them once ExpiresAt has passed.
type BlacklistedToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;size:1024;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// IsExpired reports whether the underlying token would already be rejected by its exp claim.
func (b *BlacklistedToken) IsExpired(now time.Time) bool {
	return !now.Before(b.ExpiresAt)
}
