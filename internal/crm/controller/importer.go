package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/events"
	"github.com/talentlane/crm/internal/crm/models"
	"go.uber.org/zap"
)

// Column-header aliases accepted per logical field, matched exactly
// first and then case-insensitively.
var importAliases = struct {
	email    []string
	fullName []string
	whatsapp []string
	linkedin []string
	role     []string
}{
	email:    []string{"Email", "Correo", "Mail", "E-mail", "Correo Electrónico"},
	fullName: []string{"Full Name", "Nombre", "Nombre Completo", "Name", "Nombres", "Member Name"},
	whatsapp: []string{"WhatsApp", "Whatsapp", "Telefono", "Teléfono", "Celular", "Phone", "Mobile"},
	linkedin: []string{"LinkedIn", "Linkedin", "LinkedIn URL", "URL Linkedin", "Perfil Linkedin", "Linkedin Profile"},
	role:     []string{"Current Role", "Rol", "Cargo", "Role", "Puesto", "Job Title"},
}

type importRow struct {
	Email    string
	FullName string
	Whatsapp string
	Linkedin string
	Role     string
}

// ImportMembers reconciles loosely-structured spreadsheet rows against
// the member table: upsert by email, best-effort per row. Requires the
// intake stage to exist before any row is processed.
func (s *MemberService) ImportMembers(ctx context.Context, rows []map[string]any) (*models.ImportStats, error) {
	stats := &models.ImportStats{Total: len(rows)}

	intake, err := s.repo.IntakeStage(ctx)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrNoIntakeStage
		}
		return nil, fmt.Errorf("failed to resolve intake stage: %w", err)
	}

	for _, raw := range rows {
		row := extractImportRow(raw)
		if row.Email == "" || row.FullName == "" {
			stats.Skipped++
			continue
		}

		existing, err := s.repo.GetMemberByEmail(ctx, row.Email)
		switch {
		case err == nil:
			if err := s.repo.UpdateMember(ctx, importUpdate(existing.ID, row)); err != nil {
				stats.Errors++
				s.logger.Warn("import row update failed",
					zap.Error(err),
					zap.String("email", row.Email),
				)
				continue
			}
			stats.Updated++
		case errors.Is(err, e.ErrNotFound):
			if err := s.repo.CreateMember(ctx, importMember(row, intake.ID)); err != nil {
				stats.Errors++
				s.logger.Warn("import row create failed",
					zap.Error(err),
					zap.String("email", row.Email),
				)
				continue
			}
			stats.Created++
		default:
			stats.Errors++
			s.logger.Warn("import row lookup failed",
				zap.Error(err),
				zap.String("email", row.Email),
			)
		}
	}

	s.views.Invalidate(events.ViewMembers, events.ViewPipeline)
	return stats, nil
}

// importUpdate updates the full name unconditionally; the remaining
// fields only when the row supplied a value. Stage and résumé are never
// touched.
func importUpdate(id uuid.UUID, row importRow) *models.MemberUpdate {
	update := &models.MemberUpdate{
		ID:       id,
		FullName: &row.FullName,
	}
	if row.Whatsapp != "" {
		update.Whatsapp = &row.Whatsapp
	}
	if row.Linkedin != "" {
		update.LinkedinURL = &row.Linkedin
	}
	if row.Role != "" {
		update.CurrentRole = &row.Role
	}
	return update
}

func importMember(row importRow, stageID string) *models.Member {
	role := row.Role
	if role == "" {
		role = "Member"
	}
	return &models.Member{
		ID:           uuid.New(),
		Email:        row.Email,
		FullName:     row.FullName,
		Whatsapp:     row.Whatsapp,
		LinkedinURL:  row.Linkedin,
		CurrentRole:  role,
		Area:         models.Area{Code: models.AreaOther},
		EnglishLevel: models.EnglishBasic,
		CVFileURL:    "",
		StageID:      stageID,
	}
}

func extractImportRow(raw map[string]any) importRow {
	return importRow{
		Email:    rowValue(raw, importAliases.email),
		FullName: rowValue(raw, importAliases.fullName),
		Whatsapp: rowValue(raw, importAliases.whatsapp),
		Linkedin: rowValue(raw, importAliases.linkedin),
		Role:     rowValue(raw, importAliases.role),
	}
}

// rowValue finds the first alias present in the row, trying an exact key
// match before the normalized (lower-cased, trimmed) one.
func rowValue(raw map[string]any, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := raw[alias]; ok {
			if s := cellString(v); s != "" {
				return s
			}
		}
		normalized := strings.ToLower(strings.TrimSpace(alias))
		for key, v := range raw {
			if strings.ToLower(strings.TrimSpace(key)) == normalized {
				if s := cellString(v); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// cellString renders a spreadsheet cell value. Numeric cells arrive as
// float64 from JSON decoding; integral values drop the decimal point.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
