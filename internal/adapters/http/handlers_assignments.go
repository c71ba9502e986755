package web

import (
	"net/http"
	"slices"

	"planning/internal/application/orchestrators"
)

// assignmentRequest is the body of POST /assignments. A known ID replaces
// the assignment and its trainer set.
type assignmentRequest struct {
	ID         string   `json:"id" validate:"omitempty,max=64"`
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	Half       string   `json:"half" validate:"required,max=32"`
	LocationID string   `json:"location_id" validate:"required"`
	TrainerIDs []string `json:"trainer_ids" validate:"required,min=1,dive,required"`
}

// handleSaveAssignment creates or replaces a coordinator assignment.
// Route: POST /assignments
func handleSaveAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	date, _, err := parseRange(req.Date, "")
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := orchestrators.ExecuteSaveAssignment(r.Context(), orchestrators.SaveAssignmentInput{
		ID:         req.ID,
		Date:       date,
		HalfLabel:  req.Half,
		LocationID: req.LocationID,
		TrainerIDs: slices.Clone(req.TrainerIDs),
	}, assignmentDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// handleDeleteAssignment removes a coordinator assignment.
// Route: DELETE /assignments/{id}
func handleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteAssignment(r.Context(), orchestrators.DeleteAssignmentInput{AssignmentID: r.PathValue("id")}, assignmentDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func assignmentDeps() orchestrators.AssignmentDeps {
	return orchestrators.AssignmentDeps{AssignmentStore: stores.AssignmentStore, Weekdays: weekdays, Effects: effects()}
}

// templateEntryRequest is the body of POST /templates.
type templateEntryRequest struct {
	ID         string `json:"id" validate:"omitempty,max=64"`
	TrainerID  string `json:"trainer_id" validate:"required"`
	Day        string `json:"day" validate:"required,max=32"`
	Half       string `json:"half" validate:"required,max=32"`
	LocationID string `json:"location_id"`
	Status     string `json:"status" validate:"required,oneof=disponible indisponible sur_demande"`
}

func templateDeps() orchestrators.TemplateDeps {
	return orchestrators.TemplateDeps{TemplateStore: stores.TemplateStore, Weekdays: weekdays, Effects: effects()}
}

// handleSaveTemplateEntry stores one unpublished weekly template entry.
// Route: POST /templates
func handleSaveTemplateEntry(w http.ResponseWriter, r *http.Request) {
	var req templateEntryRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	e, err := orchestrators.ExecuteSaveTemplateEntry(r.Context(), orchestrators.SaveTemplateEntryInput{
		ID:         req.ID,
		TrainerID:  req.TrainerID,
		Day:        req.Day,
		HalfLabel:  req.Half,
		LocationID: req.LocationID,
		Status:     req.Status,
	}, templateDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// handlePublishTemplate publishes every template entry of a trainer.
// Route: POST /trainers/{id}/template/publish
func handlePublishTemplate(w http.ResponseWriter, r *http.Request) {
	trainerID := r.PathValue("id")
	if _, err := stores.TrainerStore.GetByID(r.Context(), trainerID); err != nil {
		writeError(w, err)
		return
	}
	n, err := orchestrators.ExecutePublishTemplate(r.Context(), orchestrators.PublishTemplateInput{TrainerID: trainerID}, templateDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"published": n})
}
