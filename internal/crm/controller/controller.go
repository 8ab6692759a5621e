// Package controller implements the domain operations layer for the
// pipeline tracker: member lifecycle, stage transitions and management,
// referrals and bulk import, orchestrating repository operations and
// emitting view-invalidation hints.
package controller

import (
	"context"

	"github.com/google/uuid"
	"github.com/talentlane/crm/internal/crm/models"
)

// Repository defines the storage interface the services depend on.
type Repository interface {
	CreateMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, id uuid.UUID) (*models.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	MemberExistsByEmail(ctx context.Context, email string) (bool, error)
	ListMembers(ctx context.Context, search string) ([]models.Member, error)
	UpdateMember(ctx context.Context, update *models.MemberUpdate) error
	UpdateMemberStage(ctx context.Context, memberID uuid.UUID, stageID string, hired *models.HiredInfo) error
	DeleteMember(ctx context.Context, id uuid.UUID) error

	CreateStage(ctx context.Context, stage *models.Stage) error
	GetStage(ctx context.Context, id string) (*models.Stage, error)
	IntakeStage(ctx context.Context) (*models.Stage, error)
	ListStages(ctx context.Context) ([]models.StageWithCount, error)
	PipelineStages(ctx context.Context) ([]models.Stage, error)
	RenameStage(ctx context.Context, id, name string) error
	DeleteStage(ctx context.Context, id string) error
	CountStageMembers(ctx context.Context, id string) (int64, error)
	MaxStageOrder(ctx context.Context) (int, error)
	ReorderStages(ctx context.Context, stageIDs []string) error

	CreateReferral(ctx context.Context, referral *models.Referral) error
	GetReferral(ctx context.Context, id uuid.UUID) (*models.Referral, error)
	UpdateReferral(ctx context.Context, update *models.ReferralUpdate) error
	DeleteReferral(ctx context.Context, id uuid.UUID) error
	ListReferralsByMember(ctx context.Context, memberID uuid.UUID) ([]models.Referral, error)
}

// ViewInvalidator receives fire-and-forget hints naming views made stale
// by a mutation.
type ViewInvalidator interface {
	Invalidate(views ...string)
}

// ResumeStore removes résumé blobs by their public URL.
type ResumeStore interface {
	Delete(ctx context.Context, fileURL string) error
}

// DeletePolicy decides whether a failing résumé-blob delete aborts the
// member delete.
type DeletePolicy string

const (
	// DeleteBestEffort logs the blob failure and deletes the row anyway.
	DeleteBestEffort DeletePolicy = "best_effort"
	// DeleteStrict aborts the member delete when the blob delete fails.
	DeleteStrict DeletePolicy = "strict"
)
