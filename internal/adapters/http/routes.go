package web

import "net/http"

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealthz)

	// Planning views and exports
	mux.HandleFunc("GET /planning/trainers/{id}/week", handleTrainerWeek)
	mux.HandleFunc("GET /planning/trainers/{id}/week.ics", handleTrainerWeekICS)
	mux.HandleFunc("GET /planning/trainers/{id}/week.png", handleTrainerWeekPNG)
	mux.HandleFunc("GET /planning/trainers/{id}/events", handleTrainerWeekEvents)
	mux.HandleFunc("GET /planning/week", handleCoordinatorWeek)
	mux.HandleFunc("GET /planning/week.xlsx", handleCoordinatorWeekXLSX)

	// Trainers and locations
	mux.HandleFunc("GET /trainers", handleListTrainers)
	mux.HandleFunc("POST /trainers", handleSaveTrainer)
	mux.HandleFunc("GET /trainers/{id}", handleGetTrainer)
	mux.HandleFunc("PUT /trainers/{id}", handleSaveTrainer)
	mux.HandleFunc("DELETE /trainers/{id}", handleDeleteTrainer)
	mux.HandleFunc("GET /locations", handleListLocations)
	mux.HandleFunc("POST /locations", handleSaveLocation)
	mux.HandleFunc("DELETE /locations/{id}", handleDeleteLocation)

	// Absences and closures
	mux.HandleFunc("GET /absences", handleListPendingAbsences)
	mux.HandleFunc("POST /absences", handleRequestAbsence)
	mux.HandleFunc("POST /absences/{id}/validate", handleValidateAbsence)
	mux.HandleFunc("POST /absences/{id}/refuse", handleRefuseAbsence)
	mux.HandleFunc("DELETE /absences/{id}", handleDeleteAbsence)
	mux.HandleFunc("GET /closures", handleListClosures)
	mux.HandleFunc("POST /closures", handleCreateClosure)
	mux.HandleFunc("DELETE /closures/{id}", handleDeleteClosure)

	// Coordinator assignments and weekly templates
	mux.HandleFunc("POST /assignments", handleSaveAssignment)
	mux.HandleFunc("DELETE /assignments/{id}", handleDeleteAssignment)
	mux.HandleFunc("POST /templates", handleSaveTemplateEntry)
	mux.HandleFunc("POST /trainers/{id}/template/publish", handlePublishTemplate)

	// Admin
	mux.HandleFunc("GET /admin/outbox", handleListOutbox)
	mux.HandleFunc("POST /admin/outbox/{id}/retry", handleRetryOutbox)
	mux.HandleFunc("POST /admin/outbox/{id}/abandon", handleAbandonOutbox)
	mux.HandleFunc("GET /admin/perf", handleAdminPerf)
}
