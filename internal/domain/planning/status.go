package planning

import "planning/internal/domain/closure"

// Status is the single authoritative state of a resolved half-day cell.
type Status string

// Resolved statuses, highest precedence first.
const (
	StatusFacilityClosed         Status = "facility-closed"
	StatusExceptionallyAvailable Status = "exceptionally-available"
	StatusAbsent                 Status = "absent"
	StatusCoordinatorAssigned    Status = "coordinator-assigned"
	StatusAvailable              Status = "available-but-unassigned"
)

// Statuses lists every resolved status in precedence order.
var Statuses = []Status{
	StatusFacilityClosed,
	StatusExceptionallyAvailable,
	StatusAbsent,
	StatusCoordinatorAssigned,
	StatusAvailable,
}

// EmptyCellLabel is displayed for a cell with no resolved entry.
const EmptyCellLabel = "—"

type palette struct {
	background string
	border     string
	text       string
}

var statusLabels = map[Status]string{
	StatusFacilityClosed:         "Fermé",
	StatusExceptionallyAvailable: "Dispo exceptionnelle",
	StatusAbsent:                 "Absent",
	StatusCoordinatorAssigned:    "Affecté",
	StatusAvailable:              "Disponible",
}

var statusPalettes = map[Status]palette{
	StatusExceptionallyAvailable: {"#BBF7D0", "#15803D", "#14532D"},
	StatusAbsent:                 {"#FECACA", "#DC2626", "#7F1D1D"},
	StatusCoordinatorAssigned:    {"#C7D2FE", "#4338CA", "#1E1B4B"},
	StatusAvailable:              {"#E0F2FE", "#0284C7", "#0C4A6E"},
}

var closurePalettes = map[string]palette{
	closure.ReasonPublicHoliday: {"#FDE68A", "#D97706", "#78350F"},
	closure.ReasonVacation:      {"#BFDBFE", "#2563EB", "#1E3A8A"},
	closure.ReasonClosed:        {"#E5E7EB", "#4B5563", "#111827"},
	closure.ReasonStaffTraining: {"#DDD6FE", "#7C3AED", "#4C1D95"},
	closure.ReasonOther:         {"#F3F4F6", "#6B7280", "#1F2937"},
}

var closureReasonLabels = map[string]string{
	closure.ReasonPublicHoliday: "Jour férié",
	closure.ReasonVacation:      "Vacances",
	closure.ReasonClosed:        "Fermeture",
	closure.ReasonStaffTraining: "Formation interne",
	closure.ReasonOther:         "Autre",
}

var emptyPalette = palette{"#FFFFFF", "#E5E7EB", "#9CA3AF"}

// Label returns the display label of s, or "" for an unknown status.
func Label(s Status) string {
	return statusLabels[s]
}

// ClosureReasonLabel returns the display label of a closure reason code.
// Unknown codes fall back to the "other" label.
func ClosureReasonLabel(reason string) string {
	if l, ok := closureReasonLabels[reason]; ok {
		return l
	}
	return closureReasonLabels[closure.ReasonOther]
}

func paletteOf(r ResolvedSlot) palette {
	if r.Status == StatusFacilityClosed {
		if p, ok := closurePalettes[r.ClosureReason]; ok {
			return p
		}
		return closurePalettes[closure.ReasonOther]
	}
	if p, ok := statusPalettes[r.Status]; ok {
		return p
	}
	return emptyPalette
}

// BackgroundColor returns the fill colour of a resolved cell.
// Closed cells are coloured by closure reason.
func BackgroundColor(r ResolvedSlot) string { return paletteOf(r).background }

// BorderColor returns the border colour of a resolved cell.
func BorderColor(r ResolvedSlot) string { return paletteOf(r).border }

// TextColor returns the foreground colour of a resolved cell.
func TextColor(r ResolvedSlot) string { return paletteOf(r).text }

// Label returns the display label of the cell: the status label, suffixed
// with the closure reason or absence category where one applies.
func (r ResolvedSlot) Label() string {
	switch r.Status {
	case StatusFacilityClosed:
		return Label(r.Status) + " · " + ClosureReasonLabel(r.ClosureReason)
	case StatusAbsent:
		if r.AbsenceCategory != "" {
			return Label(r.Status) + " · " + r.AbsenceCategory
		}
	}
	return Label(r.Status)
}
