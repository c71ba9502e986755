package web

import (
	"net/http"
	"net/url"
	"strings"

	"planning/internal/application/orchestrators"
	"planning/internal/domain/location"
	"planning/internal/domain/trainer"
)

// trainerRequest is the body of POST /trainers and PUT /trainers/{id}.
type trainerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Active    *bool  `json:"active"`
}

func (t *trainerRequest) bindForm(form url.Values) {
	t.FirstName = form.Get("first_name")
	t.LastName = form.Get("last_name")
	t.Email = form.Get("email")
	active := form.Get("active") != ""
	t.Active = &active
}

type trainersPage struct {
	Trainers  []trainer.Trainer
	Locations []location.Location
}

// handleListTrainers lists every trainer, active or not.
// Route: GET /trainers
func handleListTrainers(w http.ResponseWriter, r *http.Request) {
	trainers, err := stores.TrainerStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if isHTMLRequest(r) {
		locations, err := stores.LocationStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "trainers.html", trainersPage{Trainers: trainers, Locations: locations})
		return
	}
	writeJSON(w, http.StatusOK, trainers)
}

// handleGetTrainer returns one trainer.
// Route: GET /trainers/{id}
func handleGetTrainer(w http.ResponseWriter, r *http.Request) {
	t, err := stores.TrainerStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleSaveTrainer creates (POST /trainers) or updates (PUT /trainers/{id}) a trainer.
func handleSaveTrainer(w http.ResponseWriter, r *http.Request) {
	var req trainerRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := r.PathValue("id")
	if id != "" {
		if _, err := stores.TrainerStore.GetByID(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
	}
	active := req.Active == nil || *req.Active
	t, err := orchestrators.ExecuteSaveTrainer(r.Context(), orchestrators.SaveTrainerInput{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Active:    active,
	}, orchestrators.TrainerDeps{TrainerStore: stores.TrainerStore, Effects: effects()})
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if id != "" {
		status = http.StatusOK
	}
	respondWrite(w, r, status, "/trainers", t)
}

// handleDeleteTrainer removes a trainer.
// Route: DELETE /trainers/{id}
func handleDeleteTrainer(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteTrainer(r.Context(), orchestrators.DeleteTrainerInput{TrainerID: r.PathValue("id")},
		orchestrators.TrainerDeps{TrainerStore: stores.TrainerStore, Effects: effects()})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// locationRequest is the body of POST /locations. A known ID updates.
type locationRequest struct {
	ID       string `json:"id" validate:"omitempty,max=64"`
	Name     string `json:"name" validate:"required,max=100"`
	Initials string `json:"initials" validate:"omitempty,max=8"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

func (l *locationRequest) bindForm(form url.Values) {
	l.ID = form.Get("id")
	l.Name = form.Get("name")
	l.Initials = form.Get("initials")
	l.Color = form.Get("color")
}

// handleListLocations lists every location.
// Route: GET /locations
func handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := stores.LocationStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

// handleSaveLocation creates or updates a location.
// Route: POST /locations
func handleSaveLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	l, err := orchestrators.ExecuteSaveLocation(r.Context(), orchestrators.SaveLocationInput{
		ID:       req.ID,
		Name:     req.Name,
		Initials: req.Initials,
		Color:    strings.ToUpper(req.Color),
	}, orchestrators.LocationDeps{LocationStore: stores.LocationStore, Effects: effects()})
	if err != nil {
		writeError(w, err)
		return
	}
	respondWrite(w, r, http.StatusCreated, "/trainers", l)
}

// handleDeleteLocation removes a location.
// Route: DELETE /locations/{id}
func handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteLocation(r.Context(), orchestrators.DeleteLocationInput{LocationID: r.PathValue("id")},
		orchestrators.LocationDeps{LocationStore: stores.LocationStore, Effects: effects()})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
