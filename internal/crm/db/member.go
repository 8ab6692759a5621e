package db

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateMember(ctx context.Context, member *models.Member) error {
	result := r.db.WithContext(ctx).Create(member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

// GetMember fetches a member with its stage and its referrals ordered by
// referral date, most recent first.
func (r *Repository) GetMember(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	result := r.db.WithContext(ctx).
		Preload("Stage").
		Preload("Referrals", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("referral_date DESC")
		}).
		First(&member, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &member, nil
}

func (r *Repository) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	result := r.db.WithContext(ctx).First(&member, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &member, nil
}

func (r *Repository) MemberExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("email = ?", email).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// ListMembers returns all members with their stage, most recently created
// first. A non-empty search filters by a case-insensitive substring match
// against full name or email.
func (r *Repository) ListMembers(ctx context.Context, search string) ([]models.Member, error) {
	tx := r.db.WithContext(ctx).Preload("Stage").Order("created_at DESC")
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		tx = tx.Where("lower(full_name) LIKE ? OR lower(email) LIKE ?", pattern, pattern)
	}
	var members []models.Member
	if err := tx.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *Repository) UpdateMember(ctx context.Context, update *models.MemberUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", update.ID).
		Updates(update)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// UpdateMemberStage moves a member to another stage, persisting the hire
// outcome alongside when supplied.
func (r *Repository) UpdateMemberStage(ctx context.Context, memberID uuid.UUID, stageID string, hired *models.HiredInfo) error {
	values := map[string]interface{}{
		"stage_id": stageID,
	}
	if hired != nil {
		values["hired_company"] = hired.Company
		values["hired_date"] = hired.Date
		values["hired_salary_usd"] = hired.SalaryUSD
	}

	result := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", memberID).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteMember removes a member and its referrals in one transaction.
func (r *Repository) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.db.WithContext(ctx).
			Delete(&models.Referral{}, "member_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.db.WithContext(ctx).Delete(&models.Member{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}
