package slot

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownHalf is returned for a half-day label that cannot be normalized.
var ErrUnknownHalf = errors.New("unknown half-day label")

// Half identifies a half-day scheduling unit. The zero value means the
// whole day: an entry without a half restriction covers both halves.
type Half uint8

const (
	WholeDay Half = iota
	Morning
	Afternoon
)

// Halves lists the two half-day slots in display order.
var Halves = [2]Half{Morning, Afternoon}

// ParseHalf normalizes the half-day labels found across tables.
// Template and absence rows use "Matin"/"AM", assignment rows use
// "matin"/"apres-midi"; all collapse onto Morning and Afternoon here.
// An empty label (or "journee") means the whole day.
// PRE: none
// POST: Returns the normalized Half or ErrUnknownHalf
func ParseHalf(label string) (Half, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	l = strings.NewReplacer("è", "e", "é", "e", "_", "-", " ", "-").Replace(l)
	switch l {
	case "", "journee", "jour", "day", "all":
		return WholeDay, nil
	case "matin", "am", "morning":
		return Morning, nil
	case "apres-midi", "apresmidi", "pm", "afternoon":
		return Afternoon, nil
	}
	return WholeDay, fmt.Errorf("%w: %q", ErrUnknownHalf, label)
}

// Covers reports whether a restriction h applies to the cell half.
func (h Half) Covers(cell Half) bool {
	return h == WholeDay || h == cell
}

// Code returns the storage form of h.
func (h Half) Code() string {
	switch h {
	case Morning:
		return "matin"
	case Afternoon:
		return "apres-midi"
	default:
		return ""
	}
}

// Label returns the French display label of h.
func (h Half) Label() string {
	switch h {
	case Morning:
		return "Matin"
	case Afternoon:
		return "Après-midi"
	default:
		return "Journée"
	}
}

// String implements fmt.Stringer.
func (h Half) String() string {
	switch h {
	case Morning:
		return "morning"
	case Afternoon:
		return "afternoon"
	default:
		return "whole-day"
	}
}

// MarshalText implements encoding.TextMarshaler using the storage code.
func (h Half) MarshalText() ([]byte, error) {
	return []byte(h.Code()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler through ParseHalf.
func (h *Half) UnmarshalText(b []byte) error {
	parsed, err := ParseHalf(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// WeekSlot is a (weekday, half) coordinate. Day is 0 for Monday through 4 for Friday.
type WeekSlot struct {
	Day  int
	Half Half
}

// Weekdays holds the five weekday identifiers used by the stores, Monday first.
type Weekdays [5]string

// DefaultWeekdays are the French day names stored by the planning tables.
var DefaultWeekdays = Weekdays{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi"}

// Index returns the position of label in w, comparing case-insensitively, or -1.
func (w Weekdays) Index(label string) int {
	l := strings.TrimSpace(label)
	for i, d := range w {
		if strings.EqualFold(d, l) {
			return i
		}
	}
	return -1
}

// ParseWeekdays builds a Weekdays from a comma-separated list of five labels.
func ParseWeekdays(csv string) (Weekdays, error) {
	parts := strings.Split(csv, ",")
	if len(parts) != 5 {
		return Weekdays{}, fmt.Errorf("expected 5 weekday labels, got %d", len(parts))
	}
	var w Weekdays
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return Weekdays{}, fmt.Errorf("weekday label %d is empty", i+1)
		}
		w[i] = p
	}
	return w, nil
}
