package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/models"
	"github.com/talentlane/crm/internal/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

// MockRepository implements the Repository interface for testing
type MockRepository struct {
	createMember        func(context.Context, *models.Member) error
	getMember           func(context.Context, uuid.UUID) (*models.Member, error)
	getMemberByEmail    func(context.Context, string) (*models.Member, error)
	memberExistsByEmail func(context.Context, string) (bool, error)
	listMembers         func(context.Context, string) ([]models.Member, error)
	updateMember        func(context.Context, *models.MemberUpdate) error
	updateMemberStage   func(context.Context, uuid.UUID, string, *models.HiredInfo) error
	deleteMember        func(context.Context, uuid.UUID) error

	createStage       func(context.Context, *models.Stage) error
	getStage          func(context.Context, string) (*models.Stage, error)
	intakeStage       func(context.Context) (*models.Stage, error)
	listStages        func(context.Context) ([]models.StageWithCount, error)
	pipelineStages    func(context.Context) ([]models.Stage, error)
	renameStage       func(context.Context, string, string) error
	deleteStage       func(context.Context, string) error
	countStageMembers func(context.Context, string) (int64, error)
	maxStageOrder     func(context.Context) (int, error)
	reorderStages     func(context.Context, []string) error

	createReferral        func(context.Context, *models.Referral) error
	getReferral           func(context.Context, uuid.UUID) (*models.Referral, error)
	updateReferral        func(context.Context, *models.ReferralUpdate) error
	deleteReferral        func(context.Context, uuid.UUID) error
	listReferralsByMember func(context.Context, uuid.UUID) ([]models.Referral, error)
}

func (m *MockRepository) CreateMember(ctx context.Context, member *models.Member) error {
	return m.createMember(ctx, member)
}

func (m *MockRepository) GetMember(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	return m.getMember(ctx, id)
}

func (m *MockRepository) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	return m.getMemberByEmail(ctx, email)
}

func (m *MockRepository) MemberExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.memberExistsByEmail(ctx, email)
}

func (m *MockRepository) ListMembers(ctx context.Context, search string) ([]models.Member, error) {
	return m.listMembers(ctx, search)
}

func (m *MockRepository) UpdateMember(ctx context.Context, update *models.MemberUpdate) error {
	return m.updateMember(ctx, update)
}

func (m *MockRepository) UpdateMemberStage(ctx context.Context, memberID uuid.UUID, stageID string, hired *models.HiredInfo) error {
	return m.updateMemberStage(ctx, memberID, stageID, hired)
}

func (m *MockRepository) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return m.deleteMember(ctx, id)
}

func (m *MockRepository) CreateStage(ctx context.Context, stage *models.Stage) error {
	return m.createStage(ctx, stage)
}

func (m *MockRepository) GetStage(ctx context.Context, id string) (*models.Stage, error) {
	return m.getStage(ctx, id)
}

func (m *MockRepository) IntakeStage(ctx context.Context) (*models.Stage, error) {
	return m.intakeStage(ctx)
}

func (m *MockRepository) ListStages(ctx context.Context) ([]models.StageWithCount, error) {
	return m.listStages(ctx)
}

func (m *MockRepository) PipelineStages(ctx context.Context) ([]models.Stage, error) {
	return m.pipelineStages(ctx)
}

func (m *MockRepository) RenameStage(ctx context.Context, id, name string) error {
	return m.renameStage(ctx, id, name)
}

func (m *MockRepository) DeleteStage(ctx context.Context, id string) error {
	return m.deleteStage(ctx, id)
}

func (m *MockRepository) CountStageMembers(ctx context.Context, id string) (int64, error) {
	return m.countStageMembers(ctx, id)
}

func (m *MockRepository) MaxStageOrder(ctx context.Context) (int, error) {
	return m.maxStageOrder(ctx)
}

func (m *MockRepository) ReorderStages(ctx context.Context, stageIDs []string) error {
	return m.reorderStages(ctx, stageIDs)
}

func (m *MockRepository) CreateReferral(ctx context.Context, referral *models.Referral) error {
	return m.createReferral(ctx, referral)
}

func (m *MockRepository) GetReferral(ctx context.Context, id uuid.UUID) (*models.Referral, error) {
	return m.getReferral(ctx, id)
}

func (m *MockRepository) UpdateReferral(ctx context.Context, update *models.ReferralUpdate) error {
	return m.updateReferral(ctx, update)
}

func (m *MockRepository) DeleteReferral(ctx context.Context, id uuid.UUID) error {
	return m.deleteReferral(ctx, id)
}

func (m *MockRepository) ListReferralsByMember(ctx context.Context, memberID uuid.UUID) ([]models.Referral, error) {
	return m.listReferralsByMember(ctx, memberID)
}

// MockInvalidator records the invalidation hints a service emits.
type MockInvalidator struct {
	views []string
}

func (m *MockInvalidator) Invalidate(views ...string) {
	m.views = append(m.views, views...)
}

// MockResumeStore records résumé deletions and can be made to fail.
type MockResumeStore struct {
	deleted []string
	err     error
}

func (m *MockResumeStore) Delete(_ context.Context, fileURL string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, fileURL)
	return nil
}

func validMember() *models.Member {
	return &models.Member{
		FullName:        "Ada Lovelace",
		Email:           "ada@example.com",
		Whatsapp:        "+5491100000000",
		LinkedinURL:     "https://www.linkedin.com/in/ada",
		Area:            models.Area{Code: models.AreaDevelopment},
		CurrentRole:     "Backend Engineer",
		YearsExperience: 8,
		EnglishLevel:    models.EnglishAdvanced,
		Location:        "Buenos Aires",
		WorkPreference:  models.WorkRemote,
	}
}

func TestMemberService_CreateMember(t *testing.T) {
	intake := &models.Stage{ID: "intake", Name: "Intake", Order: 1}

	tests := []struct {
		name          string
		input         *models.Member
		mockSetup     func(*MockRepository)
		expectError   bool
		expectedError error
	}{
		{
			name:  "successful creation assigns intake stage",
			input: validMember(),
			mockSetup: func(mr *MockRepository) {
				mr.memberExistsByEmail = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
				mr.intakeStage = func(_ context.Context) (*models.Stage, error) {
					return intake, nil
				}
				mr.createMember = func(_ context.Context, m *models.Member) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name:  "duplicate email",
			input: validMember(),
			mockSetup: func(mr *MockRepository) {
				mr.memberExistsByEmail = func(_ context.Context, _ string) (bool, error) {
					return true, nil
				}
			},
			expectError:   true,
			expectedError: e.ErrDuplicateEmail,
		},
		{
			name: "invalid email",
			input: func() *models.Member {
				m := validMember()
				m.Email = "not-an-email"
				return m
			}(),
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "name too short",
			input: func() *models.Member {
				m := validMember()
				m.FullName = "A"
				return m
			}(),
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "other area text without OTHER code",
			input: func() *models.Member {
				m := validMember()
				m.Area = models.Area{Code: models.AreaDesign, Other: "Astrology"}
				return m
			}(),
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "missing intake stage",
			input: validMember(),
			mockSetup: func(mr *MockRepository) {
				mr.memberExistsByEmail = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
				mr.intakeStage = func(_ context.Context) (*models.Stage, error) {
					return nil, e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNoIntakeStage,
		},
		{
			name:  "repository error",
			input: validMember(),
			mockSetup: func(mr *MockRepository) {
				mr.memberExistsByEmail = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
				mr.intakeStage = func(_ context.Context) (*models.Stage, error) {
					return intake, nil
				}
				mr.createMember = func(_ context.Context, _ *models.Member) error {
					return errors.New("database error")
				}
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockRepository{}
			views := &MockInvalidator{}
			tt.mockSetup(mockRepo)

			service := NewMemberService(mockRepo, &MockResumeStore{}, views, logger, DeleteBestEffort)
			result, err := service.CreateMember(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.expectedError != nil && !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if len(views.views) != 0 {
					t.Error("expected no invalidation hints on failure")
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.ID == uuid.Nil {
					t.Error("expected member ID to be set")
				}
				if result.StageID != intake.ID {
					t.Errorf("expected stage %q, got %q", intake.ID, result.StageID)
				}
				if len(views.views) == 0 {
					t.Error("expected invalidation hints to be emitted")
				}
			}
		})
	}
}

func TestMemberService_UpdateMember(t *testing.T) {
	testID := uuid.New()

	tests := []struct {
		name          string
		input         *models.MemberUpdate
		mockSetup     func(*MockRepository)
		expectError   bool
		expectedError error
	}{
		{
			name: "successful update",
			input: &models.MemberUpdate{
				ID:       testID,
				FullName: utils.Ptr("Grace Hopper"),
				Location: utils.Ptr("Remote"),
			},
			mockSetup: func(mr *MockRepository) {
				mr.updateMember = func(_ context.Context, _ *models.MemberUpdate) error {
					return nil
				}
				mr.getMember = func(_ context.Context, _ uuid.UUID) (*models.Member, error) {
					return &models.Member{ID: testID, FullName: "Grace Hopper"}, nil
				}
			},
			expectError: false,
		},
		{
			name:          "invalid ID",
			input:         &models.MemberUpdate{ID: uuid.Nil},
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "invalid email",
			input: &models.MemberUpdate{
				ID:    testID,
				Email: utils.Ptr("broken"),
			},
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "not found",
			input: &models.MemberUpdate{
				ID:       testID,
				FullName: utils.Ptr("Grace Hopper"),
			},
			mockSetup: func(mr *MockRepository) {
				mr.updateMember = func(_ context.Context, _ *models.MemberUpdate) error {
					return e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockRepository{}
			views := &MockInvalidator{}
			tt.mockSetup(mockRepo)

			service := NewMemberService(mockRepo, &MockResumeStore{}, views, logger, DeleteBestEffort)
			result, err := service.UpdateMember(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, tt.expectedError) && tt.expectedError != nil {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.ID != testID {
					t.Errorf("expected member ID %v, got %v", testID, result.ID)
				}
				if len(views.views) == 0 {
					t.Error("expected invalidation hints to be emitted")
				}
			}
		})
	}
}

func TestMemberService_ChangeStage(t *testing.T) {
	testID := uuid.New()
	hired := &models.HiredInfo{
		Company:   "Initech",
		Date:      time.Now(),
		SalaryUSD: 90000,
	}

	tests := []struct {
		name          string
		memberID      uuid.UUID
		stageID       string
		hired         *models.HiredInfo
		mockSetup     func(*MockRepository)
		expectError   bool
		expectedError error
	}{
		{
			name:     "move without hire info",
			memberID: testID,
			stageID:  "qualified",
			mockSetup: func(mr *MockRepository) {
				mr.updateMemberStage = func(_ context.Context, _ uuid.UUID, stageID string, h *models.HiredInfo) error {
					if h != nil {
						t.Error("expected no hire info")
					}
					return nil
				}
				mr.getMember = func(_ context.Context, _ uuid.UUID) (*models.Member, error) {
					return &models.Member{ID: testID, StageID: "qualified"}, nil
				}
			},
			expectError: false,
		},
		{
			name:     "move to hired with outcome",
			memberID: testID,
			stageID:  "hired",
			hired:    hired,
			mockSetup: func(mr *MockRepository) {
				mr.getStage = func(_ context.Context, id string) (*models.Stage, error) {
					return &models.Stage{ID: id, Name: "Hired", Order: 4}, nil
				}
				mr.updateMemberStage = func(_ context.Context, _ uuid.UUID, _ string, h *models.HiredInfo) error {
					if h == nil {
						t.Error("expected hire info to be passed through")
					}
					return nil
				}
				mr.getMember = func(_ context.Context, _ uuid.UUID) (*models.Member, error) {
					return &models.Member{ID: testID, StageID: "hired"}, nil
				}
			},
			expectError: false,
		},
		{
			name:     "hire info aimed at a non-hired stage",
			memberID: testID,
			stageID:  "qualified",
			hired:    hired,
			mockSetup: func(mr *MockRepository) {
				mr.getStage = func(_ context.Context, id string) (*models.Stage, error) {
					return &models.Stage{ID: id, Name: "Qualified", Order: 2}, nil
				}
				mr.updateMemberStage = func(_ context.Context, _ uuid.UUID, _ string, _ *models.HiredInfo) error {
					t.Error("stage update should not run when the hire payload is rejected")
					return nil
				}
			},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:     "hire info for an unknown stage",
			memberID: testID,
			stageID:  "ghost",
			hired:    hired,
			mockSetup: func(mr *MockRepository) {
				mr.getStage = func(_ context.Context, _ string) (*models.Stage, error) {
					return nil, e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
		{
			name:          "missing stage ID",
			memberID:      testID,
			stageID:       "",
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:     "hire info without company",
			memberID: testID,
			stageID:  "hired",
			hired: &models.HiredInfo{
				Date: time.Now(),
			},
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:     "member not found",
			memberID: testID,
			stageID:  "qualified",
			mockSetup: func(mr *MockRepository) {
				mr.updateMemberStage = func(_ context.Context, _ uuid.UUID, _ string, _ *models.HiredInfo) error {
					return e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			mockRepo := &MockRepository{}
			views := &MockInvalidator{}
			tt.mockSetup(mockRepo)

			service := NewMemberService(mockRepo, &MockResumeStore{}, views, logger, DeleteBestEffort)
			result, err := service.ChangeStage(context.Background(), tt.memberID, tt.stageID, tt.hired)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.expectedError != nil && !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.StageID != tt.stageID {
					t.Errorf("expected stage %q, got %q", tt.stageID, result.StageID)
				}
			}
		})
	}
}

func TestMemberService_EmailTaken(t *testing.T) {
	mockRepo := &MockRepository{
		memberExistsByEmail: func(_ context.Context, email string) (bool, error) {
			return email == "ada@example.com", nil
		},
	}
	service := NewMemberService(mockRepo, &MockResumeStore{}, &MockInvalidator{}, zaptest.NewLogger(t), DeleteBestEffort)

	taken, err := service.EmailTaken(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !taken {
		t.Error("expected existing email to be reported as taken")
	}

	taken, err = service.EmailTaken(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taken {
		t.Error("expected new email to be reported as free")
	}
}

func TestMemberService_DeleteMember(t *testing.T) {
	testID := uuid.New()

	t.Run("deletes resume blob before the row", func(t *testing.T) {
		mockRepo := &MockRepository{
			getMember: func(_ context.Context, _ uuid.UUID) (*models.Member, error) {
				return &models.Member{ID: testID, CVFileURL: "http://files/cv.pdf"}, nil
			},
			deleteMember: func(_ context.Context, _ uuid.UUID) error {
				return nil
			},
		}
		resumes := &MockResumeStore{}
		service := NewMemberService(mockRepo, resumes, &MockInvalidator{}, zaptest.NewLogger(t), DeleteBestEffort)

		if err := service.DeleteMember(context.Background(), testID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resumes.deleted) != 1 || resumes.deleted[0] != "http://files/cv.pdf" {
			t.Errorf("expected resume blob deletion, got %v", resumes.deleted)
		}
	})

	t.Run("best effort proceeds past blob failure", func(t *testing.T) {
		rowDeleted := false
		mockRepo := &MockRepository{
			getMember: func(_ context.Context, _ uuid.UUID) (*models.Member, error) {
				return &models.Member{ID: testID, CVFileURL: "http://files/cv.pdf"}, nil
			},
			deleteMember: func(_ context.Context, _ uuid.UUID) error {
				rowDeleted = true
				return nil
			},
		}
		resumes := &MockResumeStore{err: errors.New("storage down")}
		service := NewMemberService(mockRepo, resumes, &MockInvalidator{}, zaptest.NewLogger(t), DeleteBestEffort)

		if err := service.DeleteMember(context.Background(), testID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rowDeleted {
			t.Error("expected the member row to be deleted anyway")
		}
	})

	t.Run("strict policy aborts on blob failure", func(t *testing.T) {
		mockRepo := &MockRepository{
			getMember: func(_ context.Context, _ uuid.UUID) (*models.Member, error) {
				return &models.Member{ID: testID, CVFileURL: "http://files/cv.pdf"}, nil
			},
			deleteMember: func(_ context.Context, _ uuid.UUID) error {
				t.Error("row delete should not run under strict policy")
				return nil
			},
		}
		resumes := &MockResumeStore{err: errors.New("storage down")}
		service := NewMemberService(mockRepo, resumes, &MockInvalidator{}, zaptest.NewLogger(t), DeleteStrict)

		if err := service.DeleteMember(context.Background(), testID); err == nil {
			t.Fatal("expected error but got none")
		}
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := &MockRepository{
			getMember: func(_ context.Context, _ uuid.UUID) (*models.Member, error) {
				return nil, e.ErrNotFound
			},
		}
		service := NewMemberService(mockRepo, &MockResumeStore{}, &MockInvalidator{}, zaptest.NewLogger(t), DeleteBestEffort)

		if err := service.DeleteMember(context.Background(), testID); !errors.Is(err, e.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
