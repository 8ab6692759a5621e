package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateReferral(ctx context.Context, referral *models.Referral) error {
	return r.db.WithContext(ctx).Create(referral).Error
}

func (r *Repository) GetReferral(ctx context.Context, id uuid.UUID) (*models.Referral, error) {
	var referral models.Referral
	result := r.db.WithContext(ctx).First(&referral, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &referral, nil
}

func (r *Repository) UpdateReferral(ctx context.Context, update *models.ReferralUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Referral{}).
		Where("id = ?", update.ID).
		Updates(update)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteReferral(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Referral{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListReferralsByMember returns a member's referrals ordered by referral
// date, most recent first.
func (r *Repository) ListReferralsByMember(ctx context.Context, memberID uuid.UUID) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("referral_date DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}
