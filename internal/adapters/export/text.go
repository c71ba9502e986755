package export

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// Half-day opening hours, local time.
var halfHours = map[slot.Half][2]struct{ h, m int }{
	slot.Morning:   {{9, 0}, {12, 0}},
	slot.Afternoon: {{13, 30}, {17, 0}},
}

var punctuation = strings.NewReplacer("·", "-", "—", "-", "–", "-", "’", "'")

// asciiFold strips diacritics and maps typographic punctuation to ASCII,
// for renderers whose font only covers ASCII.
func asciiFold(s string) string {
	s = punctuation.Replace(s)
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r > unicode.MaxASCII {
			r = '?'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// shortDate formats d as DD/MM.
func shortDate(d week.Date) string {
	return d.Time().Format("02/01")
}

// longDate formats d as DD/MM/YYYY.
func longDate(d week.Date) string {
	return d.Time().Format("02/01/2006")
}
