package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/events"
	"github.com/talentlane/crm/internal/crm/models"
	"go.uber.org/zap"
)

// StageService manages the ordered set of pipeline stages.
type StageService struct {
	repo   Repository
	views  ViewInvalidator
	logger *zap.Logger
}

func NewStageService(repo Repository, views ViewInvalidator, logger *zap.Logger) *StageService {
	return &StageService{
		repo:   repo,
		views:  views,
		logger: logger.Named("stage_service"),
	}
}

// ListStages returns all stages in pipeline order with member counts.
func (s *StageService) ListStages(ctx context.Context) ([]models.StageWithCount, error) {
	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	return stages, nil
}

// PipelineBoard returns the stages with their full member lists for the
// kanban view.
func (s *StageService) PipelineBoard(ctx context.Context) ([]models.Stage, error) {
	stages, err := s.repo.PipelineStages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}
	return stages, nil
}

// CreateStage appends a stage at the end of the pipeline. The id is a
// slug of the name.
func (s *StageService) CreateStage(ctx context.Context, name string) (*models.Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return nil, fmt.Errorf("%w: stage name must be 1-50 characters", e.ErrInvalidInput)
	}

	maxOrder, err := s.repo.MaxStageOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stage order: %w", err)
	}

	stage := &models.Stage{
		ID:    models.Slugify(name),
		Name:  name,
		Order: maxOrder + 1,
	}
	if err := s.repo.CreateStage(ctx, stage); err != nil {
		if errors.Is(err, e.ErrDuplicateStage) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}

	s.views.Invalidate(events.ViewPipeline)
	return stage, nil
}

// RenameStage updates the display name only; id and order are immutable.
func (s *StageService) RenameStage(ctx context.Context, id, name string) (*models.Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return nil, fmt.Errorf("%w: stage name must be 1-50 characters", e.ErrInvalidInput)
	}

	if err := s.repo.RenameStage(ctx, id, name); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to rename stage: %w", err)
	}

	stage, err := s.repo.GetStage(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get stage after rename",
			zap.Error(err),
			zap.String("stage_id", id),
		)
		return nil, err
	}

	s.views.Invalidate(events.ViewPipeline, events.ViewMembers)
	return stage, nil
}

// DeleteStage removes a stage, rejected while the stage owns members.
func (s *StageService) DeleteStage(ctx context.Context, id string) error {
	count, err := s.repo.CountStageMembers(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count stage members: %w", err)
	}
	if count > 0 {
		return e.ErrStageHasMembers
	}

	if err := s.repo.DeleteStage(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete stage: %w", err)
	}

	s.views.Invalidate(events.ViewPipeline)
	return nil
}

// Reorder rewrites stage order to match the given id sequence.
func (s *StageService) Reorder(ctx context.Context, stageIDs []string) error {
	if len(stageIDs) == 0 {
		return fmt.Errorf("%w: stage order is empty", e.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(stageIDs))
	for _, id := range stageIDs {
		if id == "" {
			return fmt.Errorf("%w: empty stage ID", e.ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate stage ID %q", e.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	if err := s.repo.ReorderStages(ctx, stageIDs); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to reorder stages: %w", err)
	}

	s.views.Invalidate(events.ViewPipeline)
	return nil
}
