// Package index implements the Index (spec §4.E): an in-memory map from
// class name to the byte range of its serialized rule inside the
// utilities layer body.
package index

import (
	"strconv"
	"strings"
)

// Entry is one class's byte range within the utilities layer body.
// Offset is relative to the start of that body (the byte immediately
// following "@layer utilities {\n"); Length includes the rule's trailing
// newline, per invariant I1.
type Entry struct {
	Offset int
	Length int
}

// Index maps class name to its Entry.
type Index map[string]Entry

// New returns an empty index.
func New() Index {
	return Index{}
}

// ScanUtilitiesBody rebuilds an index from scratch by scanning the
// utilities layer body line by line, recognizing lines beginning with
// '.' (after any leading indentation) followed by an identifier and '{'
// as the start of an indexed rule, continuing until the matching closing
// brace. Any other line that opens a block (a wrapping @media/@container
// at-rule) is skipped together with its whole body, so the rules nested
// inside it are not indexed and only participate in full rewrites, per
// spec §4.E's documented limitation.
func ScanUtilitiesBody(body []byte) Index {
	idx := New()
	offset := 0
	n := len(body)
	for offset < n {
		lineEnd := indexByteFrom(body, '\n', offset)
		if lineEnd < 0 {
			lineEnd = n - 1
		}
		line := body[offset : lineEnd+1]
		trimmed := strings.TrimLeft(string(line), " \t")

		if len(trimmed) > 0 && trimmed[0] == '.' && strings.Contains(trimmed, "{") {
			name, ok := selectorName(trimmed)
			if ok {
				start := offset
				end := findMatchingClose(body, start)
				idx[name] = Entry{Offset: start, Length: end - start}
				offset = end
				continue
			}
		}
		if strings.Contains(trimmed, "{") {
			offset = findMatchingClose(body, offset)
			continue
		}
		offset = lineEnd + 1
	}
	return idx
}

// selectorName extracts the unescaped class name from a
// ".<escaped-name>[suffix] {" line. Rule selectors are rendered through
// EscapeIdentifier, so the text between '.' and the opening pseudo-class/
// attribute/combinator decoration is CSS-escaped, not the bare class name
// ClassSet/diffClassSets deal in; this unescapes it (the inverse of
// EscapeIdentifier) so the index key matches the real class name.
func selectorName(line string) (string, bool) {
	if len(line) == 0 || line[0] != '.' {
		return "", false
	}
	braceIdx := strings.IndexByte(line, '{')
	if braceIdx < 0 {
		return "", false
	}
	selector := strings.TrimSpace(line[1:braceIdx])
	if selector == "" {
		return "", false
	}
	name := unescapeIdentifierPrefix(selector)
	if name == "" {
		return "", false
	}
	return name, true
}

// unescapeIdentifierPrefix reverses EscapeIdentifier over the leading run
// of s that is a CSS-escaped identifier, stopping at the first unescaped
// byte EscapeIdentifier would never emit raw — the boundary where a
// pseudo-class (":hover"), attribute (" [data-x]"), or combinator
// (" > child") suffix begins.
func unescapeIdentifierPrefix(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			if isHexDigit(next) {
				j := i + 1
				for j < len(runes) && j < i+7 && isHexDigit(runes[j]) {
					j++
				}
				if val, err := strconv.ParseInt(string(runes[i+1:j]), 16, 32); err == nil {
					sb.WriteRune(rune(val))
				}
				if j < len(runes) && runes[j] == ' ' {
					j++
				}
				i = j - 1
				continue
			}
			sb.WriteRune(next)
			i++
			continue
		}
		if r >= 0x80 || isIdentRune(r) {
			sb.WriteRune(r)
			continue
		}
		break
	}
	return sb.String()
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

// findMatchingClose returns the byte offset one past the newline
// terminating the '}' that closes the rule opened at start, tracking
// brace depth so nested at-rule bodies (composites, animations) close
// correctly.
func findMatchingClose(body []byte, start int) int {
	depth := 0
	i := start
	n := len(body)
	seenOpen := false
	for i < n {
		switch body[i] {
		case '{':
			depth++
			seenOpen = true
		case '}':
			depth--
			if seenOpen && depth == 0 {
				// advance to end of this line
				j := i + 1
				for j < n && body[j] != '\n' {
					j++
				}
				if j < n {
					j++
				}
				return j
			}
		}
		i++
	}
	return n
}

func indexByteFrom(b []byte, c byte, from int) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// Remove deletes a class's entry, if present.
func (idx Index) Remove(class string) {
	delete(idx, class)
}

// Set records or overwrites a class's entry; duplicate selectors
// overwrite the prior entry, latest wins, per spec §4.E.
func (idx Index) Set(class string, e Entry) {
	idx[class] = e
}

// ShiftFrom adds delta to the offset of every entry whose offset is at
// or past at. The append path does not call it: an
// append_inside_final_block insertion lands after all existing entries
// and shifts nothing.
func (idx Index) ShiftFrom(at, delta int) {
	for class, e := range idx {
		if e.Offset >= at {
			e.Offset += delta
			idx[class] = e
		}
	}
}
