package availability_test

import (
	"testing"

	"planning/internal/domain/availability"
	"planning/internal/domain/slot"
)

// TestEntry_Validate tests validation of template entries.
func TestEntry_Validate(t *testing.T) {
	valid := availability.Entry{ID: "e1", TrainerID: "t1", Day: "Lundi", Half: slot.Morning, Status: availability.StatusAvailable}

	tests := []struct {
		name    string
		mutate  func(e *availability.Entry)
		wantErr error
	}{
		{"valid", func(e *availability.Entry) {}, nil},
		{"missing trainer", func(e *availability.Entry) { e.TrainerID = "" }, availability.ErrEmptyTrainerID},
		{"missing day", func(e *availability.Entry) { e.Day = " " }, availability.ErrEmptyDay},
		{"whole day", func(e *availability.Entry) { e.Half = slot.WholeDay }, availability.ErrWholeDay},
		{"bad status", func(e *availability.Entry) { e.Status = "maybe" }, availability.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if err := e.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestEntry_IsArbitrable tests the published/normal-status visibility rule.
func TestEntry_IsArbitrable(t *testing.T) {
	tests := []struct {
		name      string
		published bool
		status    string
		want      bool
	}{
		{"published available", true, availability.StatusAvailable, true},
		{"unpublished available", false, availability.StatusAvailable, false},
		{"published unavailable", true, availability.StatusUnavailable, false},
		{"published on request", true, availability.StatusOnRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := availability.Entry{Published: tt.published, Status: tt.status}
			if got := e.IsArbitrable(); got != tt.want {
				t.Errorf("IsArbitrable() = %v, want %v", got, tt.want)
			}
		})
	}
}
