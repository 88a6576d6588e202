package crud

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hottakes/domain"
)

// DenylistService tracks revoked token ids. A token lands here when its user
// logs out, and every authentication checks against it. It implements the
// domain.DenylistService interface.
type DenylistService struct {
	denylistGorm
}

// denylistGorm runs the denylist's database operations.
type denylistGorm struct {
	db *gorm.DB
}

// NewDenylistService returns an instance of DenylistService.
func NewDenylistService(db *gorm.DB) *DenylistService {
	return &DenylistService{
		denylistGorm{
			db: db,
		},
	}
}

// Ensure the DenylistService struct properly implements the domain.DenylistService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.DenylistService = &DenylistService{}

// Revoke records a token id as revoked. Revoking the same id twice is a
// no-op, logging out twice should not fail.
func (dg *denylistGorm) Revoke(jti string, expiresAt time.Time) error {
	entry := domain.RevokedToken{JTI: jti, ExpiresAt: expiresAt}
	return dg.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
}

// IsRevoked reports whether a token id is on the denylist.
func (dg *denylistGorm) IsRevoked(jti string) (bool, error) {
	err := dg.db.First(&domain.RevokedToken{}, "jti = ?", jti).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PurgeExpired drops entries whose token would have expired on its own by
// now. They can't authenticate anymore either way, this just keeps the
// table from growing forever.
func (dg *denylistGorm) PurgeExpired(now time.Time) error {
	return dg.db.Where("expires_at < ?", now).Delete(&domain.RevokedToken{}).Error
}
