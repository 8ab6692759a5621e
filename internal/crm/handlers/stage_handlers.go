package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/talentlane/crm/internal/crm/models"
)

// handleListStages serves both the plain list (with member counts) and,
// with ?withMembers=1, the kanban board payload.
func (a *API) handleListStages(w http.ResponseWriter, r *http.Request) {
	if withMembers, _ := strconv.ParseBool(r.URL.Query().Get("withMembers")); withMembers {
		stages, err := a.stages.PipelineBoard(r.Context())
		if err != nil {
			a.writeDomainError(w, err)
			return
		}
		if stages == nil {
			stages = []models.Stage{}
		}
		writeJSON(w, http.StatusOK, stages)
		return
	}

	stages, err := a.stages.ListStages(r.Context())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	if stages == nil {
		stages = []models.StageWithCount{}
	}
	writeJSON(w, http.StatusOK, stages)
}

func (a *API) handleCreateStage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	stage, err := a.stages.CreateStage(r.Context(), payload.Name)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stage)
}

func (a *API) handleRenameStage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	stage, err := a.stages.RenameStage(r.Context(), r.PathValue("id"), payload.Name)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stage)
}

func (a *API) handleDeleteStage(w http.ResponseWriter, r *http.Request) {
	if err := a.stages.DeleteStage(r.Context(), r.PathValue("id")); err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handleReorderStages(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		StageIDs []string `json:"stageIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := a.stages.Reorder(r.Context(), payload.StageIDs); err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
