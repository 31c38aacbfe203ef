// Package normalize cleans text before it reaches a database sink
package normalize

import (
	"strings"
	"unicode/utf8"

	"qabundle/internal/core/qa"
)

// Sanitize drops what postgres text columns and downstream readers choke on:
// NUL, ASCII controls other than \n \r \t, DEL, C1 controls and invalid UTF-8 bytes.
// Clean input is returned as is
func Sanitize(s string) string {
	i := firstBad(s)
	if i < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if keep(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// Row returns r with every column sanitized
func Row(r qa.Row) qa.Row {
	return qa.Row{
		Question: Sanitize(r.Question),
		Context:  Sanitize(r.Context),
		Answers:  Sanitize(r.Answers),
	}
}

func firstBad(s string) int {
	for i := 0; i < len(s); {
		if c := s[i]; c >= 0x20 && c < 0x7F {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keep(r, size) {
			return i
		}
		i += size
	}
	return -1
}

func keep(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return false
	case r == '\n', r == '\r', r == '\t':
		return true
	case r < 0x20, r == 0x7F:
		return false
	case r >= 0x80 && r <= 0x9F:
		return false
	}
	return true
}
