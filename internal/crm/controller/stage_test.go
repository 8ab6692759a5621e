package controller

import (
	"context"
	"errors"
	"testing"

	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/models"
	"go.uber.org/zap/zaptest"
)

func TestStageService_CreateStage(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		mockSetup     func(*MockRepository)
		expectError   bool
		expectedError error
		expectedID    string
		expectedOrder int
	}{
		{
			name:  "appends at the end with a slug id",
			input: "Final Interview",
			mockSetup: func(mr *MockRepository) {
				mr.maxStageOrder = func(_ context.Context) (int, error) {
					return 3, nil
				}
				mr.createStage = func(_ context.Context, _ *models.Stage) error {
					return nil
				}
			},
			expectError:   false,
			expectedID:    "final-interview",
			expectedOrder: 4,
		},
		{
			name:          "empty name",
			input:         "   ",
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "duplicate name",
			input: "Intake",
			mockSetup: func(mr *MockRepository) {
				mr.maxStageOrder = func(_ context.Context) (int, error) {
					return 4, nil
				}
				mr.createStage = func(_ context.Context, _ *models.Stage) error {
					return e.ErrDuplicateStage
				}
			},
			expectError:   true,
			expectedError: e.ErrDuplicateStage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRepository{}
			views := &MockInvalidator{}
			tt.mockSetup(mockRepo)

			service := NewStageService(mockRepo, views, zaptest.NewLogger(t))
			stage, err := service.CreateStage(context.Background(), tt.input)

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
				if stage.ID != tt.expectedID {
					t.Errorf("expected id %q, got %q", tt.expectedID, stage.ID)
				}
				if stage.Order != tt.expectedOrder {
					t.Errorf("expected order %d, got %d", tt.expectedOrder, stage.Order)
				}
				if len(views.views) == 0 {
					t.Error("expected invalidation hints to be emitted")
				}
			}
		})
	}
}

func TestStageService_DeleteStage(t *testing.T) {
	tests := []struct {
		name          string
		mockSetup     func(*MockRepository)
		expectError   bool
		expectedError error
	}{
		{
			name: "empty stage is deleted",
			mockSetup: func(mr *MockRepository) {
				mr.countStageMembers = func(_ context.Context, _ string) (int64, error) {
					return 0, nil
				}
				mr.deleteStage = func(_ context.Context, _ string) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "stage with members is protected",
			mockSetup: func(mr *MockRepository) {
				mr.countStageMembers = func(_ context.Context, _ string) (int64, error) {
					return 7, nil
				}
			},
			expectError:   true,
			expectedError: e.ErrStageHasMembers,
		},
		{
			name: "not found",
			mockSetup: func(mr *MockRepository) {
				mr.countStageMembers = func(_ context.Context, _ string) (int64, error) {
					return 0, nil
				}
				mr.deleteStage = func(_ context.Context, _ string) error {
					return e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRepository{}
			tt.mockSetup(mockRepo)

			service := NewStageService(mockRepo, &MockInvalidator{}, zaptest.NewLogger(t))
			err := service.DeleteStage(context.Background(), "qualified")

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestStageService_Reorder(t *testing.T) {
	tests := []struct {
		name          string
		input         []string
		mockSetup     func(*MockRepository)
		expectError   bool
		expectedError error
	}{
		{
			name:  "valid sequence",
			input: []string{"referred", "intake", "hired"},
			mockSetup: func(mr *MockRepository) {
				mr.reorderStages = func(_ context.Context, ids []string) error {
					if len(ids) != 3 {
						t.Errorf("expected 3 ids, got %d", len(ids))
					}
					return nil
				}
			},
			expectError: false,
		},
		{
			name:          "empty sequence",
			input:         nil,
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "duplicate id",
			input:         []string{"intake", "intake"},
			mockSetup:     func(_ *MockRepository) {},
			expectError:   true,
			expectedError: e.ErrInvalidInput,
		},
		{
			name:  "unknown id",
			input: []string{"intake", "ghost"},
			mockSetup: func(mr *MockRepository) {
				mr.reorderStages = func(_ context.Context, _ []string) error {
					return e.ErrNotFound
				}
			},
			expectError:   true,
			expectedError: e.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRepository{}
			views := &MockInvalidator{}
			tt.mockSetup(mockRepo)

			service := NewStageService(mockRepo, views, zaptest.NewLogger(t))
			err := service.Reorder(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if len(views.views) != 0 {
					t.Error("expected no invalidation hints on failure")
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestStageService_RenameStage(t *testing.T) {
	t.Run("keeps id and order", func(t *testing.T) {
		mockRepo := &MockRepository{
			renameStage: func(_ context.Context, id, name string) error {
				if id != "qualified" || name != "Vetted" {
					t.Errorf("unexpected rename arguments: %s %s", id, name)
				}
				return nil
			},
			getStage: func(_ context.Context, id string) (*models.Stage, error) {
				return &models.Stage{ID: id, Name: "Vetted", Order: 2}, nil
			},
		}

		service := NewStageService(mockRepo, &MockInvalidator{}, zaptest.NewLogger(t))
		stage, err := service.RenameStage(context.Background(), "qualified", "Vetted")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stage.ID != "qualified" || stage.Order != 2 {
			t.Errorf("expected id and order untouched, got %+v", stage)
		}
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := &MockRepository{
			renameStage: func(_ context.Context, _, _ string) error {
				return e.ErrNotFound
			},
		}

		service := NewStageService(mockRepo, &MockInvalidator{}, zaptest.NewLogger(t))
		if _, err := service.RenameStage(context.Background(), "ghost", "New"); !errors.Is(err, e.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
