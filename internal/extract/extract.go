// Package extract implements the Class Extractor (spec §4.A): a purely
// textual, two-pass scan of markup bytes that yields the set of utility
// class tokens referenced and the grouping events needed by the Group
// Registry to expand alias syntax.
package extract

import (
	"bytes"
	"strings"
)

// GroupEvent records one token's occurrence inside one or more nested
// grouping parens, per spec §3 "Group Event".
type GroupEvent struct {
	Stack     []string
	Token     string
	HadPlus   bool
	FullClass string
}

// Result is the output of a single extraction pass.
type Result struct {
	Classes     map[string]struct{}
	GroupEvents []GroupEvent
}

func newResult(capHint int) *Result {
	if capHint < 64 {
		capHint = 64
	}
	return &Result{
		Classes: make(map[string]struct{}, capHint),
	}
}

func (r *Result) insert(class string) {
	r.Classes[class] = struct{}{}
}

func (r *Result) record(stack []string, token string, hadPlus bool, fullClass string) {
	if len(stack) == 0 {
		return
	}
	stackCopy := make([]string, len(stack))
	copy(stackCopy, stack)
	r.GroupEvents = append(r.GroupEvents, GroupEvent{
		Stack:     stackCopy,
		Token:     token,
		HadPlus:   hadPlus,
		FullClass: fullClass,
	})
}

// Extract scans html for `class="..."` and `dx-*="..."` attribute values
// and expands grouping syntax within each value. capacityHint sizes the
// initial class set (typically the previous cycle's class count).
func Extract(html []byte, capacityHint int) *Result {
	res := newResult(capacityHint)
	scanAttr(html, []byte("class"), res)
	scanDxAttrs(html, res)
	return res
}

// scanAttr finds every standalone occurrence of name followed by `=` and
// a quoted value, and expands each value into res.
func scanAttr(html, name []byte, res *Result) {
	pos := 0
	for {
		idx := bytes.Index(html[pos:], name)
		if idx < 0 {
			return
		}
		start := pos + idx + len(name)
		i := start
		i = skipSpace(html, i)
		if i >= len(html) || html[i] != '=' {
			pos = start
			continue
		}
		i++
		i = skipSpace(html, i)
		if i >= len(html) {
			return
		}
		quote := html[i]
		if quote != '"' && quote != '\'' {
			pos = i
			continue
		}
		i++
		valueStart := i
		relEnd := bytes.IndexByte(html[valueStart:], quote)
		if relEnd < 0 {
			return
		}
		valueEnd := valueStart + relEnd
		expandGroupingInto(string(html[valueStart:valueEnd]), res)
		pos = valueEnd + 1
	}
}

// scanDxAttrs finds `dx-<name>="..."` attributes, where <name> is any
// run of alphanumerics/-/_ following the literal `dx-`.
func scanDxAttrs(html []byte, res *Result) {
	marker := []byte("dx-")
	pos := 0
	n := len(html)
	for {
		idx := bytes.Index(html[pos:], marker)
		if idx < 0 {
			return
		}
		i := pos + idx + len(marker)
		for i < n {
			b := html[i]
			if isAlnum(b) || b == '-' || b == '_' {
				i++
			} else {
				break
			}
		}
		i = skipSpace(html, i)
		if i >= n || html[i] != '=' {
			pos = pos + idx + len(marker)
			continue
		}
		i++
		i = skipSpace(html, i)
		if i >= n {
			return
		}
		quote := html[i]
		if quote != '"' && quote != '\'' {
			pos = pos + idx + len(marker)
			continue
		}
		i++
		valueStart := i
		relEnd := bytes.IndexByte(html[valueStart:], quote)
		if relEnd < 0 {
			return
		}
		valueEnd := valueStart + relEnd
		expandGroupingInto(string(html[valueStart:valueEnd]), res)
		pos = valueEnd + 1
	}
}

func skipSpace(html []byte, i int) int {
	for i < len(html) && isSpace(html[i]) {
		i++
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\r' || b == '\t'
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// expandGroupingInto expands attribute value s, inserting tokens into
// res.Classes and recording group events for anything inside a group.
// Mirrors the original's expand_grouping_into: a fast path for values
// with no grouping syntax at all, and a general stack-based scanner
// otherwise.
func expandGroupingInto(s string, res *Result) {
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		s = s[:idx]
	}

	if !strings.ContainsAny(s, "()+") {
		for _, tok := range strings.Fields(s) {
			if tok != "" {
				res.insert(tok)
			}
		}
		return
	}

	bytesS := []byte(s)
	n := len(bytesS)
	i := 0
	var stack []string
	tokStart := -1

	finalize := func(raw string) {
		trimmed, hadPlus := trimPlus(raw)
		if trimmed == "" {
			return
		}
		var combined string
		if len(stack) == 0 {
			combined = trimmed
		} else {
			combined = strings.Join(stack, ":") + ":" + trimmed
		}
		res.insert(combined)
		res.record(stack, trimmed, hadPlus, combined)
	}

	for i < n {
		for i < n && isSpace(bytesS[i]) {
			i++
		}
		if i >= n {
			break
		}

		for i < n && bytesS[i] == ')' {
			if tokStart >= 0 && tokStart < i {
				finalize(s[tokStart:i])
				tokStart = -1
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			i++
			for i < n && isSpace(bytesS[i]) {
				i++
			}
		}
		if i >= n {
			break
		}

		if tokStart < 0 {
			tokStart = i
		}

		for i < n && !isSpace(bytesS[i]) && bytesS[i] != '(' && bytesS[i] != ')' {
			i++
		}

		if i < n && bytesS[i] == '(' {
			if tokStart >= 0 && tokStart < i {
				raw := s[tokStart:i]
				trimmed, _ := trimPlus(raw)
				if trimmed != "" {
					stack = append(stack, trimmed)
				}
			}
			tokStart = -1
			i++
			continue
		}

		if tokStart >= 0 && tokStart < i {
			finalize(s[tokStart:i])
			tokStart = -1
		}
	}

	if tokStart >= 0 && tokStart < n {
		finalize(s[tokStart:n])
	}
}

func trimPlus(s string) (string, bool) {
	end := len(s)
	hadPlus := false
	for end > 0 && s[end-1] == '+' {
		end--
		hadPlus = true
	}
	return s[:end], hadPlus
}
