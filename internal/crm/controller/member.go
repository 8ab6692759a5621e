package controller

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/google/uuid"
	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/events"
	"github.com/talentlane/crm/internal/crm/models"
	"go.uber.org/zap"
)

// MemberService manages the member lifecycle and stage transitions.
type MemberService struct {
	repo     Repository
	resumes  ResumeStore
	views    ViewInvalidator
	logger   *zap.Logger
	cvPolicy DeletePolicy
}

// NewMemberService constructs a MemberService. cvPolicy controls what a
// failing résumé-blob delete does to the member delete.
func NewMemberService(repo Repository, resumes ResumeStore, views ViewInvalidator, logger *zap.Logger, cvPolicy DeletePolicy) *MemberService {
	if cvPolicy == "" {
		cvPolicy = DeleteBestEffort
	}
	return &MemberService{
		repo:     repo,
		resumes:  resumes,
		views:    views,
		logger:   logger.Named("member_service"),
		cvPolicy: cvPolicy,
	}
}

// CreateMember adds a new member after validating input, rejects
// duplicate emails and assigns the member to the intake stage.
func (s *MemberService) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	if err := validateNewMember(member); err != nil {
		return nil, err
	}

	exists, err := s.repo.MemberExistsByEmail(ctx, member.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateEmail
	}

	intake, err := s.repo.IntakeStage(ctx)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrNoIntakeStage
		}
		return nil, fmt.Errorf("failed to resolve intake stage: %w", err)
	}

	member.ID = uuid.New()
	member.StageID = intake.ID
	if err := s.repo.CreateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.views.Invalidate(events.ViewMembers, events.ViewPipeline)
	return member, nil
}

// EmailTaken reports whether a member with this email already exists.
// The public application form checks it before the résumé touches blob
// storage.
func (s *MemberService) EmailTaken(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.MemberExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// GetMember retrieves a member with its stage and referrals.
func (s *MemberService) GetMember(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	member, err := s.repo.GetMember(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// ListMembers returns members, optionally filtered by a case-insensitive
// substring match against full name or email.
func (s *MemberService) ListMembers(ctx context.Context, search string) ([]models.Member, error) {
	members, err := s.repo.ListMembers(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// UpdateMember applies a partial update, then fetches the fresh member.
// Stage changes are not accepted here; they go through ChangeStage.
func (s *MemberService) UpdateMember(ctx context.Context, update *models.MemberUpdate) (*models.Member, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid member ID", e.ErrInvalidInput)
	}
	if err := validateMemberUpdate(update); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMember(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	member, err := s.repo.GetMember(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get member after update",
			zap.Error(err),
			zap.String("member_id", update.ID.String()),
		)
		return nil, err
	}

	s.views.Invalidate(events.ViewMembers, events.MemberView(update.ID), events.ViewPipeline)
	return member, nil
}

// ChangeStage moves a member to any stage. When the destination is the
// terminal hired stage the caller may supply the hire outcome; it is
// persisted alongside but never required. A hire payload aimed at any
// other stage is rejected.
func (s *MemberService) ChangeStage(ctx context.Context, memberID uuid.UUID, stageID string, hired *models.HiredInfo) (*models.Member, error) {
	if memberID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid member ID", e.ErrInvalidInput)
	}
	if stageID == "" {
		return nil, fmt.Errorf("%w: stage ID is required", e.ErrInvalidInput)
	}
	if hired != nil {
		if hired.Company == "" {
			return nil, fmt.Errorf("%w: hired company is required", e.ErrInvalidInput)
		}
		if hired.Date.IsZero() {
			return nil, fmt.Errorf("%w: hired date is required", e.ErrInvalidInput)
		}
		if hired.SalaryUSD < 0 {
			return nil, fmt.Errorf("%w: hired salary cannot be negative", e.ErrInvalidInput)
		}

		stage, err := s.repo.GetStage(ctx, stageID)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to get stage: %w", err)
		}
		if !stage.IsHired() {
			return nil, fmt.Errorf("%w: hire details are only accepted on the hired stage", e.ErrInvalidInput)
		}
	}

	if err := s.repo.UpdateMemberStage(ctx, memberID, stageID, hired); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("could not update stage: %w", err)
	}

	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		s.logger.Error("Failed to get member after stage change",
			zap.Error(err),
			zap.String("member_id", memberID.String()),
		)
		return nil, err
	}

	s.views.Invalidate(events.ViewMembers, events.MemberView(memberID), events.ViewPipeline)
	return member, nil
}

// DeleteMember removes a member. The résumé blob is deleted first; a
// blob failure aborts the operation only under the strict policy.
func (s *MemberService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	member, err := s.repo.GetMember(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get member for deletion: %w", err)
	}

	if member.CVFileURL != "" {
		if err := s.resumes.Delete(ctx, member.CVFileURL); err != nil {
			if s.cvPolicy == DeleteStrict {
				return fmt.Errorf("failed to delete resume: %w", err)
			}
			s.logger.Warn("failed to delete resume, deleting member anyway",
				zap.Error(err),
				zap.String("member_id", id.String()),
			)
		}
	}

	if err := s.repo.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	s.views.Invalidate(events.ViewMembers, events.MemberView(id), events.ViewPipeline)
	return nil
}

func validateNewMember(m *models.Member) error {
	if l := len(strings.TrimSpace(m.FullName)); l < 2 || l > 100 {
		return fmt.Errorf("%w: full name must be 2-100 characters", e.ErrInvalidInput)
	}
	if err := validateEmail(m.Email); err != nil {
		return err
	}
	if l := len(m.Whatsapp); l < 10 || l > 20 {
		return fmt.Errorf("%w: invalid whatsapp number", e.ErrInvalidInput)
	}
	if err := validateLinkedin(m.LinkedinURL); err != nil {
		return err
	}
	if !m.Area.Valid() {
		return fmt.Errorf("%w: invalid area", e.ErrInvalidInput)
	}
	if l := len(strings.TrimSpace(m.CurrentRole)); l < 2 || l > 100 {
		return fmt.Errorf("%w: current role must be 2-100 characters", e.ErrInvalidInput)
	}
	if m.YearsExperience < 0 || m.YearsExperience > 50 {
		return fmt.Errorf("%w: years of experience out of range", e.ErrInvalidInput)
	}
	if !m.EnglishLevel.Valid() {
		return fmt.Errorf("%w: invalid english level", e.ErrInvalidInput)
	}
	if len(strings.TrimSpace(m.Location)) < 2 {
		return fmt.Errorf("%w: location is required", e.ErrInvalidInput)
	}
	if !m.WorkPreference.Valid() {
		return fmt.Errorf("%w: invalid work preference", e.ErrInvalidInput)
	}
	return nil
}

func validateMemberUpdate(u *models.MemberUpdate) error {
	if u.FullName != nil {
		if l := len(strings.TrimSpace(*u.FullName)); l < 2 || l > 100 {
			return fmt.Errorf("%w: full name must be 2-100 characters", e.ErrInvalidInput)
		}
	}
	if u.Email != nil {
		if err := validateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.LinkedinURL != nil {
		if err := validateLinkedin(*u.LinkedinURL); err != nil {
			return err
		}
	}
	if u.AreaCode != nil && !u.AreaCode.Valid() {
		return fmt.Errorf("%w: invalid area", e.ErrInvalidInput)
	}
	if u.YearsExperience != nil && (*u.YearsExperience < 0 || *u.YearsExperience > 50) {
		return fmt.Errorf("%w: years of experience out of range", e.ErrInvalidInput)
	}
	if u.EnglishLevel != nil && !u.EnglishLevel.Valid() {
		return fmt.Errorf("%w: invalid english level", e.ErrInvalidInput)
	}
	if u.WorkPreference != nil && !u.WorkPreference.Valid() {
		return fmt.Errorf("%w: invalid work preference", e.ErrInvalidInput)
	}
	if u.HiredSalaryUSD != nil && *u.HiredSalaryUSD < 0 {
		return fmt.Errorf("%w: hired salary cannot be negative", e.ErrInvalidInput)
	}
	return nil
}

func validateEmail(address string) error {
	if _, err := mail.ParseAddress(address); err != nil {
		return fmt.Errorf("%w: invalid email", e.ErrInvalidInput)
	}
	return nil
}

func validateLinkedin(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || !strings.Contains(parsed.Host, "linkedin.com") {
		return fmt.Errorf("%w: invalid linkedin URL", e.ErrInvalidInput)
	}
	return nil
}
