package rules

import "strings"

// resolveComposite expands a precompiled composite class: a dictionary
// entry naming an ordered list of other utility classes whose compiled
// CSS is concatenated, with each sub-utility's own selector rewritten to
// the composite's selector. Grounded on the same flatten-then-rewrite
// algorithm the Group Registry uses for user-authored aliases
// (internal/group), applied here to dictionary-authored composites.
func resolveComposite(dict Dictionary, class string) (string, bool) {
	utilities, ok := dict.Composite(class)
	if !ok || len(utilities) == 0 {
		return "", false
	}
	selector := "." + EscapeIdentifier(class)
	var out strings.Builder
	visited := map[string]bool{class: true}
	any := false
	for _, util := range utilities {
		if visited[util] {
			continue
		}
		css, ok := resolveCompositeMember(dict, util, visited)
		if !ok {
			continue
		}
		memberSelector := "." + EscapeIdentifier(util)
		rewritten := strings.ReplaceAll(css, memberSelector, selector)
		out.WriteString(rewritten)
		if !strings.HasSuffix(rewritten, "\n") {
			out.WriteByte('\n')
		}
		any = true
	}
	if !any {
		return "", false
	}
	return out.String(), true
}

// resolveCompositeMember resolves one composite member's raw CSS,
// recursing through nested composites with a visited set to break
// cycles (spec §3's Group Definition cycle-safety invariant applies
// equally here).
func resolveCompositeMember(dict Dictionary, class string, visited map[string]bool) (string, bool) {
	if visited[class] {
		return "", false
	}
	visited[class] = true
	defer delete(visited, class)

	if v, ok := dict.Static(class); ok {
		return v, true
	}
	if v, ok := resolveComposite(dict, class); ok {
		return v, true
	}
	if v, ok := resolveColor(dict, class); ok {
		return v, true
	}
	if v, ok := resolveDynamic(dict, class); ok {
		return v, true
	}
	return "", false
}
