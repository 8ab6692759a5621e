package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	e "github.com/talentlane/crm/internal/crm/errors"
	"github.com/talentlane/crm/internal/crm/models"
	"github.com/talentlane/crm/internal/crm/storage"
	"go.uber.org/zap"
)

// handleApply is the public application form endpoint. It accepts a
// multipart form with the candidate's details and an optional PDF
// résumé, and files the candidate into the intake stage. The duplicate
// check runs before the résumé touches blob storage so a rejected
// application leaves nothing behind.
func (a *API) handleApply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(storage.MaxResumeSize); err != nil {
		writeApplyFailure(w, http.StatusBadRequest, "invalid form data")
		return
	}

	years, _ := strconv.Atoi(r.FormValue("yearsExperience"))
	member := &models.Member{
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Whatsapp: strings.TrimSpace(r.FormValue("whatsapp")),

		LinkedinURL: strings.TrimSpace(r.FormValue("linkedinUrl")),
		Area: models.Area{
			Code:  models.AreaCode(r.FormValue("area")),
			Other: strings.TrimSpace(r.FormValue("otherArea")),
		},
		CurrentRole:       strings.TrimSpace(r.FormValue("currentRole")),
		YearsExperience:   years,
		EnglishLevel:      models.EnglishLevel(r.FormValue("englishLevel")),
		Location:          strings.TrimSpace(r.FormValue("location")),
		WorkPreference:    models.WorkPreference(r.FormValue("workPreference")),
		WillingToRelocate: r.FormValue("willingToRelocate") == "true",
		Notes:             strings.TrimSpace(r.FormValue("notes")),
	}

	taken, err := a.members.EmailTaken(r.Context(), member.Email)
	if err != nil {
		a.writeApplyError(w, err)
		return
	}
	if taken {
		a.writeApplyError(w, e.ErrDuplicateEmail)
		return
	}

	file, header, err := r.FormFile("cv")
	if err == nil {
		defer file.Close()
		upload, err := a.resumes.Upload(r.Context(), file, header.Size, header.Header.Get("Content-Type"))
		if err != nil {
			a.writeApplyError(w, err)
			return
		}
		member.CVFileURL = upload.URL
		member.CVText = upload.Text
	}

	if _, err := a.members.CreateMember(r.Context(), member); err != nil {
		a.writeApplyError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// writeApplyError keeps the public form contract: rejected submissions
// answer 400 with a {"success":false} body so the form can render the
// message inline. Duplicate emails are a form rejection here, not a
// resource conflict.
func (a *API) writeApplyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		writeApplyFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, e.ErrDuplicateEmail):
		writeApplyFailure(w, http.StatusBadRequest, "a member with this email already exists")
	case errors.Is(err, e.ErrNoIntakeStage):
		a.logger.Error("pipeline is not configured", zap.Error(err))
		writeApplyFailure(w, http.StatusInternalServerError, "pipeline is not configured")
	default:
		a.logger.Error("application submission failed", zap.Error(err))
		writeApplyFailure(w, http.StatusInternalServerError, "internal error")
	}
}

func writeApplyFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// handleUploadCV stores a résumé ahead of member creation and returns
// its public URL.
func (a *API) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(storage.MaxResumeSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	upload, err := a.resumes.Upload(r.Context(), file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": upload.URL})
}
