package rules

import "strings"

// classifyPrefixes partitions the ':'-separated prefix segment of a
// class into media queries, container queries, and state wrappers, per
// spec §4.C step 2. Unknown prefixes are silently dropped (they yield
// no wrapper and no selector suffix). State entries whose dictionary
// value contains '&' are full selector-wrapper templates (theme toggles,
// child combinators); state entries without '&' are pseudo-class/data-
// attribute suffixes concatenated directly onto the selector.
func classifyPrefixes(dict Dictionary, prefixSegment string) (mediaQueries, wrappers []string, pseudoSuffix string) {
	if prefixSegment == "" {
		return nil, nil, ""
	}
	for _, token := range strings.Split(prefixSegment, ":") {
		if token == "" {
			continue
		}
		if val, ok := dict.State(token); ok {
			if strings.Contains(val, "&") {
				wrappers = append(wrappers, val)
			} else {
				pseudoSuffix += val
			}
			continue
		}
		if val, ok := dict.Screen(token); ok {
			mediaQueries = append(mediaQueries, "@media (min-width: "+val+")")
			continue
		}
		if val, ok := dict.ContainerQuery(token); ok {
			wrappers = append(wrappers, "@container (min-width: "+val+") { & }")
			continue
		}
		// Unknown prefix: no output, per spec.
	}
	return mediaQueries, wrappers, pseudoSuffix
}

// buildBlock serializes one `selector { declarations }` rule, ensuring
// the declarations end with a trailing newline inside the block and the
// block itself ends with a newline, matching the artifact's expected
// per-rule framing.
func buildBlock(selector, declarations string) string {
	decls := strings.TrimRight(declarations, "\n")
	if decls == "" {
		return selector + " {}\n"
	}
	var sb strings.Builder
	sb.WriteString(selector)
	sb.WriteString(" {\n")
	for _, line := range strings.Split(decls, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
	return sb.String()
}

// wrapMediaQueries wraps an already-built set of rule blocks with the
// given @media conditions, outermost last (so @media wraps @container
// wraps the bare rule, matching the compile order in compute()).
func wrapMediaQueries(blocks string, mediaQueries []string) string {
	out := blocks
	for _, mq := range mediaQueries {
		var sb strings.Builder
		sb.WriteString(mq)
		sb.WriteString(" {\n")
		for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
			if line == "" {
				continue
			}
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteString("}\n")
		out = sb.String()
	}
	return out
}

// applyWrappers wraps selector/declarations with any non-media wrappers
// (state templates containing '&', @container templates) collected by
// classifyPrefixes; if there are none, it's a single plain block.
func applyWrappers(selector, declarations string, wrappers []string) string {
	if len(wrappers) == 0 {
		return buildBlock(selector, declarations)
	}
	var sb strings.Builder
	for _, w := range wrappers {
		if strings.Contains(w, "{") {
			// @container (min-width: X) { & } style template: split
			// off the trailing "{ & }" placeholder and rebuild with
			// the real selector substituted for '&'.
			idx := strings.Index(w, "{")
			head := strings.TrimSpace(w[:idx])
			sb.WriteString(head)
			sb.WriteString(" {\n")
			for _, line := range strings.Split(strings.TrimRight(buildBlock(selector, declarations), "\n"), "\n") {
				if line == "" {
					continue
				}
				sb.WriteString("  ")
				sb.WriteString(line)
				sb.WriteByte('\n')
			}
			sb.WriteString("}\n")
			continue
		}
		sel := strings.ReplaceAll(w, "&", selector)
		sb.WriteString(buildBlock(sel, declarations))
	}
	return sb.String()
}
