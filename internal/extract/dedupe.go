package extract

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// AliasGroup describes one alias introduced by RewriteDuplicateClasses.
type AliasGroup struct {
	Alias   string
	Classes []string
}

// RewriteResult is the outcome of scanning markup for repeated, simple
// class lists worth hoisting into a dx-group alias.
type RewriteResult struct {
	HTML   []byte
	Groups []AliasGroup
}

type occurrence struct {
	start, end int // byte range of the whole `class="..."` attribute
	tokens     []string
	canonical  string
}

// RewriteDuplicateClasses finds class="..." attributes sharing an
// identical, simple token list (no grouping syntax, no internal
// duplicates, no dx-group prefix, at least two tokens) appearing two or
// more times in html, and hoists the first occurrence into a
// `dx-group="aliasN(tokens…)"` definition, replacing every occurrence's
// class attribute with the bare alias. Returns nil if there is nothing
// to rewrite. This is a supplemental, opt-in tool — the rebuild driver
// never calls it on its own.
func RewriteDuplicateClasses(html []byte) *RewriteResult {
	var occs []occurrence
	existing := map[string]struct{}{}

	pos := 0
	n := len(html)
	marker := []byte("class")
	for {
		idx := bytes.Index(html[pos:], marker)
		if idx < 0 {
			break
		}
		attrStart := pos + idx
		if attrStart > 0 {
			prev := html[attrStart-1]
			if isAlnum(prev) || prev == '-' || prev == '_' {
				pos = attrStart + len(marker)
				continue
			}
		}
		cursor := attrStart + len(marker)
		cursor = skipSpace(html, cursor)
		if cursor >= n || html[cursor] != '=' {
			pos = attrStart + len(marker)
			continue
		}
		cursor++
		cursor = skipSpace(html, cursor)
		if cursor >= n {
			break
		}
		quote := html[cursor]
		if quote != '"' && quote != '\'' {
			pos = attrStart + len(marker)
			continue
		}
		cursor++
		valueStart := cursor
		relEnd := bytes.IndexByte(html[valueStart:], quote)
		if relEnd < 0 {
			break
		}
		valueEnd := valueStart + relEnd
		attrEnd := valueEnd + 1
		valueStr := string(html[valueStart:valueEnd])

		rawTokens := strings.Fields(valueStr)
		for _, tok := range rawTokens {
			existing[tok] = struct{}{}
		}
		if len(rawTokens) < 2 {
			pos = attrEnd
			continue
		}
		if strings.ContainsAny(valueStr, "(){}:@#[]") {
			pos = attrEnd
			continue
		}
		seen := map[string]struct{}{}
		simple := true
		for _, tok := range rawTokens {
			if strings.Contains(tok, "+") || strings.HasPrefix(tok, "dxg-") {
				simple = false
				break
			}
			if _, dup := seen[tok]; dup {
				simple = false
				break
			}
			seen[tok] = struct{}{}
		}
		if !simple {
			pos = attrEnd
			continue
		}
		occs = append(occs, occurrence{
			start:     attrStart,
			end:       attrEnd,
			tokens:    append([]string(nil), rawTokens...),
			canonical: strings.Join(rawTokens, "\x00"),
		})
		pos = attrEnd
	}

	if len(occs) == 0 {
		return nil
	}

	grouped := map[string][]int{}
	for i, occ := range occs {
		grouped[occ.canonical] = append(grouped[occ.canonical], i)
	}

	type replacement struct {
		start, end int
		text       string
	}
	var replacements []replacement
	var groups []AliasGroup
	aliasCounter := 1

	canonicals := make([]string, 0, len(grouped))
	for c := range grouped {
		canonicals = append(canonicals, c)
	}
	sort.Strings(canonicals)

	for _, canonical := range canonicals {
		indices := grouped[canonical]
		if len(indices) < 2 {
			continue
		}
		first := occs[indices[0]]
		var alias string
		for {
			candidate := fmt.Sprintf("dxg-%d", aliasCounter)
			aliasCounter++
			if _, taken := existing[candidate]; !taken {
				existing[candidate] = struct{}{}
				alias = candidate
				break
			}
		}
		tokensJoin := strings.Join(first.tokens, " ")
		replacements = append(replacements, replacement{
			start: first.start,
			end:   first.end,
			text:  fmt.Sprintf("class=\"%s\" dx-group=\"%s(%s)\"", alias, alias, tokensJoin),
		})
		for _, idx := range indices[1:] {
			occ := occs[idx]
			replacements = append(replacements, replacement{
				start: occ.start,
				end:   occ.end,
				text:  fmt.Sprintf("class=\"%s\"", alias),
			})
		}
		groups = append(groups, AliasGroup{Alias: alias, Classes: first.tokens})
	}

	if len(replacements) == 0 {
		return nil
	}

	sort.Slice(replacements, func(i, j int) bool {
		return replacements[i].start > replacements[j].start
	})

	out := string(html)
	for _, r := range replacements {
		out = out[:r.start] + r.text + out[r.end:]
	}

	return &RewriteResult{HTML: []byte(out), Groups: groups}
}
