package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"satark_backend/internal/feature/auth/domain/entity"
	"satark_backend/internal/feature/auth/usecase"
)

// blacklistGorm stores revoked tokens in the blacklisted_tokens table.
type blacklistGorm struct {
	db *gorm.DB
}

var _ usecase.BlacklistRepository = (*blacklistGorm)(nil)

// NewBlacklistGorm creates a new instance of blacklistGorm.
func NewBlacklistGorm(db *gorm.DB) *blacklistGorm {
	return &blacklistGorm{db: db}
}

// Add inserts the token. A token that is already present is left as is.
func (r *blacklistGorm) Add(ctx context.Context, t *entity.BlacklistedToken) error {
	if t == nil || t.Token == "" {
		return errors.New("token is empty")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(t).Error
}

// Contains reports whether the token has been revoked.
func (r *blacklistGorm) Contains(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.BlacklistedToken{}).
		Where("token = ?", token).
		Count(&count).Error
	return count > 0, err
}

// PurgeExpired removes rows whose token has expired on its own.
// Returns the number of deleted rows.
func (r *blacklistGorm) PurgeExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&entity.BlacklistedToken{})
	return result.RowsAffected, result.Error
}
