package db

import (
	"context"
	"errors"

	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateStage(ctx context.Context, stage *models.Stage) error {
	result := r.db.WithContext(ctx).Create(stage)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateStage
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetStage(ctx context.Context, id string) (*models.Stage, error) {
	var stage models.Stage
	result := r.db.WithContext(ctx).First(&stage, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &stage, nil
}

// IntakeStage returns the stage with order 1, the landing point for new
// members.
func (r *Repository) IntakeStage(ctx context.Context) (*models.Stage, error) {
	var stage models.Stage
	result := r.db.WithContext(ctx).First(&stage, "position = ?", 1)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &stage, nil
}

// ListStages returns all stages in pipeline order, each annotated with
// its member count.
func (r *Repository) ListStages(ctx context.Context) ([]models.StageWithCount, error) {
	var stages []models.StageWithCount
	err := r.db.WithContext(ctx).Model(&models.Stage{}).
		Select("stages.*, count(members.id) AS member_count").
		Joins("LEFT JOIN members ON members.stage_id = stages.id").
		Group("stages.id").
		Order("stages.position ASC").
		Find(&stages).Error
	if err != nil {
		return nil, err
	}
	return stages, nil
}

// PipelineStages returns all stages in pipeline order with their full
// member lists, each list ordered by most recent activity.
func (r *Repository) PipelineStages(ctx context.Context) ([]models.Stage, error) {
	var stages []models.Stage
	err := r.db.WithContext(ctx).
		Preload("Members", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("updated_at DESC")
		}).
		Order("position ASC").
		Find(&stages).Error
	if err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *Repository) RenameStage(ctx context.Context, id, name string) error {
	result := r.db.WithContext(ctx).Model(&models.Stage{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteStage(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Stage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) CountStageMembers(ctx context.Context, id string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("stage_id = ?", id).
		Count(&count)
	return count, result.Error
}

func (r *Repository) MaxStageOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&models.Stage{}).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

// ReorderStages rewrites each stage's order to its 1-based position in
// the given id sequence. The updates run in a single transaction so a
// failure leaves the previous ordering intact.
func (r *Repository) ReorderStages(ctx context.Context, stageIDs []string) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		for i, id := range stageIDs {
			result := tx.db.WithContext(ctx).Model(&models.Stage{}).
				Where("id = ?", id).
				Update("position", i+1)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return e.ErrNotFound
			}
		}
		return nil
	})
}
