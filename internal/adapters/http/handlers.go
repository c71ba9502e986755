package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"planning/internal/application/orchestrators"
	"planning/internal/application/projections"
	"planning/internal/domain/absence"
	"planning/internal/domain/assignment"
	"planning/internal/domain/availability"
	"planning/internal/domain/closure"
	"planning/internal/domain/location"
	"planning/internal/domain/outbox"
	"planning/internal/domain/slot"
	"planning/internal/domain/trainer"
	"planning/internal/domain/week"
)

//go:embed templates/*.html
var templateFS embed.FS

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// validate checks request DTO tags.
var validate = validator.New(validator.WithRequiredStructEnabled())

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	logger.Error("internal_error", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// formBinder is implemented by request DTOs that accept HTML form posts.
type formBinder interface {
	bindForm(form url.Values)
}

// decodeRequest fills v from a JSON body or, for form posts, from the form,
// then runs the validate tags.
func decodeRequest(r *http.Request, v any) error {
	if fb, ok := v.(formBinder); ok && !isJSONRequest(r) {
		if err := r.ParseForm(); err != nil {
			return err
		}
		fb.bindForm(r.PostForm)
	} else if err := strictDecode(r, v); err != nil {
		return err
	}
	return validate.Struct(v)
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("json_encode_failed", zap.Error(err))
	}
}

// respondWrite answers a successful write: browsers are redirected to
// back, API clients get v as JSON.
func respondWrite(w http.ResponseWriter, r *http.Request, status int, back string, v any) {
	if isHTMLRequest(r) && !isJSONRequest(r) {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, v)
}

// badRequestErrors are domain errors caused by the request content.
var badRequestErrors = []error{
	week.ErrInvalidDate,
	slot.ErrUnknownHalf,
	trainer.ErrEmptyID, trainer.ErrEmptyFirstName, trainer.ErrEmptyLastName, trainer.ErrInvalidEmail,
	location.ErrEmptyID, location.ErrEmptyName, location.ErrInvalidColor,
	absence.ErrEmptyTrainerID, absence.ErrEmptyStartDate, absence.ErrEmptyEndDate,
	absence.ErrInvalidDates, absence.ErrEmptyCategory, absence.ErrInvalidStatus,
	closure.ErrEmptyStartDate, closure.ErrInvalidDates, closure.ErrInvalidReason,
	assignment.ErrEmptyDate, assignment.ErrEmptyDay, assignment.ErrWholeDay,
	assignment.ErrEmptyLocationID, assignment.ErrNoTrainers,
	availability.ErrEmptyTrainerID, availability.ErrEmptyDay, availability.ErrWholeDay, availability.ErrInvalidStatus,
	orchestrators.ErrWeekend, orchestrators.ErrUnknownWeekday,
	projections.ErrEmptyTrainerID,
}

var notFoundErrors = []error{
	trainer.ErrNotFound, location.ErrNotFound, absence.ErrNotFound, closure.ErrNotFound,
	assignment.ErrNotFound, availability.ErrNotFound, outbox.ErrNotFound,
}

var conflictErrors = []error{
	absence.ErrNotPending,
	orchestrators.ErrTrainerMismatch,
	outbox.ErrInvalidStatus,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError maps err to a status: validation to 400, missing records to
// 404, invalid transitions to 409 and anything else to a logged 500.
func writeError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		http.Error(w, validationMessage(verrs), http.StatusBadRequest)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF),
		strings.HasPrefix(err.Error(), "json: unknown field"):
		http.Error(w, "invalid request body", http.StatusBadRequest)
	case isAny(err, badRequestErrors):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case isAny(err, notFoundErrors):
		http.Error(w, err.Error(), http.StatusNotFound)
	case isAny(err, conflictErrors):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		internalError(w, err)
	}
}

func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

// anchorDate reads ?date=YYYY-MM-DD, defaulting to today in the configured zone.
func anchorDate(r *http.Request) (week.Date, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return week.DateOf(timeNow().In(tz)), nil
	}
	return week.ParseDate(raw)
}

// renderMarkdown renders Markdown to HTML; raw HTML in the input is escaped.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	funcMap := template.FuncMap{
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"renderMarkdown": renderMarkdown,
		"isoDate":        func(d week.Date) string { return d.String() },
		"frDate": func(d week.Date) string {
			if d.IsZero() {
				return ""
			}
			return d.Time().Format("02/01/2006")
		},
		"prevWeek":  func(d week.Date) string { return d.AddDays(-7).String() },
		"nextWeek":  func(d week.Date) string { return d.AddDays(7).String() },
		"halfLabel": func(h slot.Half) string { return h.Label() },
		"halves":    func() []int { return []int{0, 1} },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
