package web

import (
	"bytes"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"planning/internal/adapters/export"
	"planning/internal/application/projections"
	"planning/internal/domain/week"
)

// handleHealthz reports liveness and, when configured, database reachability.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	if healthCheck != nil {
		if err := healthCheck(r.Context()); err != nil {
			logger.Warn("healthcheck_failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// trainerWeekPage is the view model of trainer_week.html.
type trainerWeekPage struct {
	Week   projections.TrainerWeek
	Anchor week.Date
}

// loadTrainerWeek runs the trainer week projection for the request.
func loadTrainerWeek(r *http.Request) (projections.TrainerWeek, week.Date, error) {
	anchor, err := anchorDate(r)
	if err != nil {
		return projections.TrainerWeek{}, week.Date{}, err
	}
	tw, err := projections.QueryGetTrainerWeek(r.Context(), projections.GetTrainerWeekQuery{
		TrainerID: r.PathValue("id"),
		Anchor:    anchor,
	}, weekDeps())
	return tw, anchor, err
}

// handleTrainerWeek serves the arbitrated week of one trainer.
// Route: GET /planning/trainers/{id}/week?date=YYYY-MM-DD
func handleTrainerWeek(w http.ResponseWriter, r *http.Request) {
	tw, anchor, err := loadTrainerWeek(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "trainer_week.html", trainerWeekPage{Week: tw, Anchor: anchor})
		return
	}
	writeJSON(w, http.StatusOK, tw)
}

// handleTrainerWeekICS serves the week as an iCalendar file.
func handleTrainerWeekICS(w http.ResponseWriter, r *http.Request) {
	tw, _, err := loadTrainerWeek(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteTrainerWeekICS(&buf, tw, tz, timeNow()); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(fmt.Sprintf("planning-%s-S%02d.ics", tw.TrainerID, tw.WeekNumber)))
	_, _ = buf.WriteTo(w)
}

// handleTrainerWeekPNG serves the week grid as an image.
func handleTrainerWeekPNG(w http.ResponseWriter, r *http.Request) {
	tw, _, err := loadTrainerWeek(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.RenderTrainerWeekPNG(&buf, tw); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = buf.WriteTo(w)
}

// coordinatorWeekPage is the view model of coordinator_week.html.
type coordinatorWeekPage struct {
	Week   projections.CoordinatorWeek
	Anchor week.Date
}

func loadCoordinatorWeek(r *http.Request) (projections.CoordinatorWeek, week.Date, error) {
	anchor, err := anchorDate(r)
	if err != nil {
		return projections.CoordinatorWeek{}, week.Date{}, err
	}
	cw, err := projections.QueryGetCoordinatorWeek(r.Context(), projections.GetCoordinatorWeekQuery{Anchor: anchor}, weekDeps())
	return cw, anchor, err
}

// handleCoordinatorWeek serves every active trainer's week.
// Route: GET /planning/week?date=YYYY-MM-DD
func handleCoordinatorWeek(w http.ResponseWriter, r *http.Request) {
	cw, anchor, err := loadCoordinatorWeek(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "coordinator_week.html", coordinatorWeekPage{Week: cw, Anchor: anchor})
		return
	}
	writeJSON(w, http.StatusOK, cw)
}

// handleCoordinatorWeekXLSX serves the coordinator grid as a workbook.
func handleCoordinatorWeekXLSX(w http.ResponseWriter, r *http.Request) {
	cw, _, err := loadCoordinatorWeek(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCoordinatorWeekXLSX(&buf, cw); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(fmt.Sprintf("planning-S%02d.xlsx", cw.WeekNumber)))
	_, _ = buf.WriteTo(w)
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
