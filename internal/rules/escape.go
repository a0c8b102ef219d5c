package rules

import (
	"fmt"
	"strings"
)

// EscapeIdentifier escapes name into a valid CSS identifier, following
// the CSS Syntax Module's identifier-serialization algorithm (the same
// contract as cssparser::serialize_identifier / CSS.escape). The
// teacher's own dependency, tdewolff/parse/v2/css, is a tokenizer and
// exposes no serializer, so this is a small, deliberate hand-rolled
// implementation (see DESIGN.md).
func EscapeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	var sb strings.Builder
	runes := []rune(name)

	// A leading digit, or a leading '-' followed by a digit, must be
	// escaped as a code point escape so the identifier doesn't parse as
	// a number.
	start := 0
	if runes[0] == '-' && len(runes) > 1 && isDigit(runes[1]) {
		sb.WriteByte('-')
		writeCodepointEscape(&sb, runes[1])
		start = 2
	} else if isDigit(runes[0]) {
		writeCodepointEscape(&sb, runes[0])
		start = 1
	} else if runes[0] == '-' && len(runes) == 1 {
		sb.WriteString(`\-`)
		return sb.String()
	}

	for i := start; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == 0:
			sb.WriteRune('�')
		case r >= 0x80 || isIdentChar(r):
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

func writeCodepointEscape(sb *strings.Builder, r rune) {
	fmt.Fprintf(sb, "\\%x ", r)
}
