package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/models"
	"github.com/talentlane/crm/internal/crm/storage"
	"go.uber.org/zap"
)

// MemberController defines the member operations the handlers invoke.
type MemberController interface {
	CreateMember(ctx context.Context, member *models.Member) (*models.Member, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	GetMember(ctx context.Context, id uuid.UUID) (*models.Member, error)
	ListMembers(ctx context.Context, search string) ([]models.Member, error)
	UpdateMember(ctx context.Context, update *models.MemberUpdate) (*models.Member, error)
	ChangeStage(ctx context.Context, memberID uuid.UUID, stageID string, hired *models.HiredInfo) (*models.Member, error)
	DeleteMember(ctx context.Context, id uuid.UUID) error
	ImportMembers(ctx context.Context, rows []map[string]any) (*models.ImportStats, error)
}

// StageController defines the stage operations the handlers invoke.
type StageController interface {
	ListStages(ctx context.Context) ([]models.StageWithCount, error)
	PipelineBoard(ctx context.Context) ([]models.Stage, error)
	CreateStage(ctx context.Context, name string) (*models.Stage, error)
	RenameStage(ctx context.Context, id, name string) (*models.Stage, error)
	DeleteStage(ctx context.Context, id string) error
	Reorder(ctx context.Context, stageIDs []string) error
}

// ReferralController defines the referral operations the handlers invoke.
type ReferralController interface {
	CreateReferral(ctx context.Context, memberID uuid.UUID, companyName string, referralDate time.Time, notes string) (*models.Referral, error)
	UpdateReferral(ctx context.Context, update *models.ReferralUpdate) (*models.Referral, error)
	DeleteReferral(ctx context.Context, id uuid.UUID) error
	ListReferrals(ctx context.Context, memberID uuid.UUID) ([]models.Referral, error)
}

// ResumeController validates and stores résumé uploads.
type ResumeController interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (*storage.ResumeUpload, error)
}

// AuthController is the identity provider the handlers invoke.
type AuthController interface {
	SignIn(ctx context.Context, email, password string) (string, *models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// API holds the services behind the HTTP surface.
type API struct {
	members   MemberController
	stages    StageController
	referrals ReferralController
	resumes   ResumeController
	auth      AuthController
	logger    *zap.Logger
}

func NewAPI(members MemberController, stages StageController, referrals ReferralController, resumes ResumeController, auth AuthController, logger *zap.Logger) *API {
	return &API{
		members:   members,
		stages:    stages,
		referrals: referrals,
		resumes:   resumes,
		auth:      auth,
		logger:    logger.Named("api"),
	}
}

// Routes builds the route table.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", a.handleLogin)
	mux.HandleFunc("POST /api/logout", a.handleLogout)
	mux.HandleFunc("GET /api/me", a.handleMe)

	mux.HandleFunc("POST /api/apply", a.handleApply)

	mux.HandleFunc("GET /api/members", a.handleListMembers)
	mux.HandleFunc("POST /api/members", a.handleCreateMember)
	mux.HandleFunc("GET /api/members/{id}", a.handleGetMember)
	mux.HandleFunc("PATCH /api/members/{id}", a.handleUpdateMember)
	mux.HandleFunc("DELETE /api/members/{id}", a.handleDeleteMember)
	mux.HandleFunc("POST /api/members/{id}/stage", a.handleChangeStage)
	mux.HandleFunc("POST /api/members/import", a.handleImportMembers)
	mux.HandleFunc("POST /api/uploads/cv", a.handleUploadCV)

	mux.HandleFunc("GET /api/stages", a.handleListStages)
	mux.HandleFunc("POST /api/stages", a.handleCreateStage)
	mux.HandleFunc("PATCH /api/stages/{id}", a.handleRenameStage)
	mux.HandleFunc("DELETE /api/stages/{id}", a.handleDeleteStage)
	mux.HandleFunc("PUT /api/stages/order", a.handleReorderStages)

	mux.HandleFunc("GET /api/members/{id}/referrals", a.handleListReferrals)
	mux.HandleFunc("POST /api/members/{id}/referrals", a.handleCreateReferral)
	mux.HandleFunc("PATCH /api/referrals/{id}", a.handleUpdateReferral)
	mux.HandleFunc("DELETE /api/referrals/{id}", a.handleDeleteReferral)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps a service error onto a status code. Unexpected
// failures are logged and surfaced as a generic message.
func (a *API) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, e.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "a member with this email already exists")
	case errors.Is(err, e.ErrDuplicateStage):
		writeError(w, http.StatusConflict, "a stage with this name already exists")
	case errors.Is(err, e.ErrStageHasMembers):
		writeError(w, http.StatusConflict, "cannot delete a stage that owns members")
	case errors.Is(err, e.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, e.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, e.ErrNoIntakeStage):
		a.logger.Error("pipeline is not configured", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "pipeline is not configured")
	default:
		a.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathUUID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}
