package handlers

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/talentlane/crm/internal/crm/models"
)

func (a *API) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := a.members.ListMembers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	if members == nil {
		members = []models.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (a *API) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var payload memberPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	member, err := a.members.CreateMember(r.Context(), payload.toMember())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (a *API) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	member, err := a.members.GetMember(r.Context(), id)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (a *API) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	var payload memberUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	member, err := a.members.UpdateMember(r.Context(), payload.toMemberUpdate(id))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (a *API) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	if err := a.members.DeleteMember(r.Context(), id); err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handleChangeStage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	var payload struct {
		StageID string            `json:"stageId"`
		Hired   *models.HiredInfo `json:"hired"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	member, err := a.members.ChangeStage(r.Context(), id, payload.StageID, payload.Hired)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// handleImportMembers accepts either a JSON array of row objects or a
// CSV document with a header line.
func (a *API) handleImportMembers(w http.ResponseWriter, r *http.Request) {
	var rows []map[string]any
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "text/csv") {
		parsed, err := csvRows(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid CSV")
			return
		}
		rows = parsed
	} else {
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	stats, err := a.members.ImportMembers(r.Context(), rows)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func csvRows(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
