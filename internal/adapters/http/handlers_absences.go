package web

import (
	"net/http"
	"net/url"

	"planning/internal/application/orchestrators"
	"planning/internal/domain/absence"
	"planning/internal/domain/closure"
	"planning/internal/domain/trainer"
	"planning/internal/domain/week"
)

// absenceRequest is the body of POST /absences.
type absenceRequest struct {
	TrainerID string `json:"trainer_id" validate:"required"`
	Start     string `json:"start" validate:"required,datetime=2006-01-02"`
	End       string `json:"end" validate:"omitempty,datetime=2006-01-02"`
	Half      string `json:"half" validate:"max=32"`
	Category  string `json:"category" validate:"required,max=64"`
	Comment   string `json:"comment" validate:"max=1000"`
}

func (a *absenceRequest) bindForm(form url.Values) {
	a.TrainerID = form.Get("trainer_id")
	a.Start = form.Get("start")
	a.End = form.Get("end")
	a.Half = form.Get("half")
	a.Category = form.Get("category")
	a.Comment = form.Get("comment")
}

// parseRange parses validated start and optional end dates.
func parseRange(start, end string) (week.Date, week.Date, error) {
	s, err := week.ParseDate(start)
	if err != nil {
		return week.Date{}, week.Date{}, err
	}
	var e week.Date
	if end != "" {
		if e, err = week.ParseDate(end); err != nil {
			return week.Date{}, week.Date{}, err
		}
	}
	return s, e, nil
}

func absenceDeps() orchestrators.AbsenceDeps {
	return orchestrators.AbsenceDeps{
		AbsenceStore: stores.AbsenceStore,
		TrainerStore: stores.TrainerStore,
		Effects:      effects(),
	}
}

type absencesPage struct {
	Pending    []absence.Absence
	Trainers   []trainer.Trainer
	Names      map[string]string
	Categories []string
}

// handleListPendingAbsences lists absences awaiting a decision.
// Route: GET /absences
func handleListPendingAbsences(w http.ResponseWriter, r *http.Request) {
	pending, err := stores.AbsenceStore.ListPending(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, pending)
		return
	}
	trainers, err := stores.TrainerStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	names := make(map[string]string, len(trainers))
	for _, t := range trainers {
		names[t.ID] = t.DisplayName()
	}
	renderTemplate(w, r, "absences.html", absencesPage{
		Pending:  pending,
		Trainers: trainers,
		Names:    names,
		Categories: []string{
			absence.CategoryAbsence, absence.CategorySickness, absence.CategoryLeave,
			absence.CategoryPersonal, absence.CategoryExceptional,
		},
	})
}

// handleRequestAbsence files a pending absence.
// Route: POST /absences
func handleRequestAbsence(w http.ResponseWriter, r *http.Request) {
	var req absenceRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := orchestrators.ExecuteRequestAbsence(r.Context(), orchestrators.RequestAbsenceInput{
		TrainerID: req.TrainerID,
		Start:     start,
		End:       end,
		HalfLabel: req.Half,
		Category:  req.Category,
		Comment:   req.Comment,
	}, absenceDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	respondWrite(w, r, http.StatusCreated, "/absences", a)
}

// handleValidateAbsence validates a pending absence.
// Route: POST /absences/{id}/validate
func handleValidateAbsence(w http.ResponseWriter, r *http.Request) {
	a, err := orchestrators.ExecuteValidateAbsence(r.Context(), orchestrators.DecideAbsenceInput{AbsenceID: r.PathValue("id")}, absenceDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	respondWrite(w, r, http.StatusOK, "/absences", a)
}

// handleRefuseAbsence refuses a pending absence.
// Route: POST /absences/{id}/refuse
func handleRefuseAbsence(w http.ResponseWriter, r *http.Request) {
	a, err := orchestrators.ExecuteRefuseAbsence(r.Context(), orchestrators.DecideAbsenceInput{AbsenceID: r.PathValue("id")}, absenceDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	respondWrite(w, r, http.StatusOK, "/absences", a)
}

// handleDeleteAbsence removes an absence.
// Route: DELETE /absences/{id}
func handleDeleteAbsence(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteAbsence(r.Context(), orchestrators.DeleteAbsenceInput{AbsenceID: r.PathValue("id")}, absenceDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// closureRequest is the body of POST /closures.
type closureRequest struct {
	Start       string `json:"start" validate:"required,datetime=2006-01-02"`
	End         string `json:"end" validate:"omitempty,datetime=2006-01-02"`
	Half        string `json:"half" validate:"max=32"`
	Reason      string `json:"reason" validate:"required,oneof=ferie vacances fermeture formation autre"`
	Description string `json:"description" validate:"max=4000"`
}

func (c *closureRequest) bindForm(form url.Values) {
	c.Start = form.Get("start")
	c.End = form.Get("end")
	c.Half = form.Get("half")
	c.Reason = form.Get("reason")
	c.Description = form.Get("description")
}

func closureDeps() orchestrators.ClosureDeps {
	return orchestrators.ClosureDeps{ClosureStore: stores.ClosureStore, Effects: effects()}
}

type closuresPage struct {
	Closures []closure.Closure
	Reasons  []string
}

// handleListClosures lists every closure, most recent first.
// Route: GET /closures
func handleListClosures(w http.ResponseWriter, r *http.Request) {
	closures, err := stores.ClosureStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "closures.html", closuresPage{
			Closures: closures,
			Reasons: []string{
				closure.ReasonPublicHoliday, closure.ReasonVacation, closure.ReasonClosed,
				closure.ReasonStaffTraining, closure.ReasonOther,
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, closures)
}

// handleCreateClosure records a facility closure.
// Route: POST /closures
func handleCreateClosure(w http.ResponseWriter, r *http.Request) {
	var req closureRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := orchestrators.ExecuteCreateClosure(r.Context(), orchestrators.CreateClosureInput{
		Start:       start,
		End:         end,
		HalfLabel:   req.Half,
		Reason:      req.Reason,
		Description: req.Description,
	}, closureDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	respondWrite(w, r, http.StatusCreated, "/closures", c)
}

// handleDeleteClosure removes a closure.
// Route: DELETE /closures/{id}
func handleDeleteClosure(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteClosure(r.Context(), orchestrators.DeleteClosureInput{ClosureID: r.PathValue("id")}, closureDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
