package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/events"
	"github.com/talentlane/crm/internal/crm/models"
	"go.uber.org/zap"
)

// ReferralService manages referrals scoped to a parent member.
type ReferralService struct {
	repo   Repository
	views  ViewInvalidator
	logger *zap.Logger
}

func NewReferralService(repo Repository, views ViewInvalidator, logger *zap.Logger) *ReferralService {
	return &ReferralService{
		repo:   repo,
		views:  views,
		logger: logger.Named("referral_service"),
	}
}

// CreateReferral records that a member was referred to a company.
func (s *ReferralService) CreateReferral(ctx context.Context, memberID uuid.UUID, companyName string, referralDate time.Time, notes string) (*models.Referral, error) {
	if companyName == "" {
		return nil, fmt.Errorf("%w: company name is required", e.ErrInvalidInput)
	}
	if referralDate.IsZero() {
		return nil, fmt.Errorf("%w: referral date is required", e.ErrInvalidInput)
	}

	if _, err := s.repo.GetMember(ctx, memberID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get member for referral: %w", err)
	}

	referral := &models.Referral{
		ID:           uuid.New(),
		MemberID:     memberID,
		CompanyName:  companyName,
		ReferralDate: referralDate,
		Notes:        notes,
	}
	if err := s.repo.CreateReferral(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	s.views.Invalidate(events.MemberView(memberID), events.ViewMembers)
	return referral, nil
}

// UpdateReferral applies a partial update and returns the fresh referral.
func (s *ReferralService) UpdateReferral(ctx context.Context, update *models.ReferralUpdate) (*models.Referral, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid referral ID", e.ErrInvalidInput)
	}
	if update.CompanyName != nil && *update.CompanyName == "" {
		return nil, fmt.Errorf("%w: company name is required", e.ErrInvalidInput)
	}
	if update.ReferralDate != nil && update.ReferralDate.IsZero() {
		return nil, fmt.Errorf("%w: referral date is required", e.ErrInvalidInput)
	}

	if err := s.repo.UpdateReferral(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update referral: %w", err)
	}

	referral, err := s.repo.GetReferral(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get referral after update",
			zap.Error(err),
			zap.String("referral_id", update.ID.String()),
		)
		return nil, err
	}

	s.views.Invalidate(events.MemberView(referral.MemberID))
	return referral, nil
}

// DeleteReferral removes a referral.
func (s *ReferralService) DeleteReferral(ctx context.Context, id uuid.UUID) error {
	referral, err := s.repo.GetReferral(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get referral for deletion: %w", err)
	}

	if err := s.repo.DeleteReferral(ctx, id); err != nil {
		return fmt.Errorf("failed to delete referral: %w", err)
	}

	s.views.Invalidate(events.MemberView(referral.MemberID))
	return nil
}

// ListReferrals returns a member's referrals, most recent first.
func (s *ReferralService) ListReferrals(ctx context.Context, memberID uuid.UUID) ([]models.Referral, error) {
	referrals, err := s.repo.ListReferralsByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return referrals, nil
}
