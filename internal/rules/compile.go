package rules

import "strings"

// CompileMiss is returned alongside a best-effort empty rule whenever no
// resolver in the chain recognizes a class, so the Index can still place
// an entry for it (spec §7's CompileMiss disposition: log and continue,
// never abort the rebuild).
type CompileMiss struct {
	Class string
}

func (e *CompileMiss) Error() string {
	return "no rule resolver matched class " + e.Class
}

// Compile turns one full class name (prefix segment plus base class,
// e.g. "hover:lg:bg-red-500") into its CSS rule text. It splits off the
// prefix segment, classifies it into media queries / wrappers / pseudo
// suffix, then walks the resolver chain in the same order the original
// engine tries them: composite(full) → static(base) → color(base) →
// animation(full, only if it contains no space) → dynamic(base) →
// composite(base) as a final fallback. The winning resolver's output is
// escaped into a selector, decoded through any tagged lines, wrapped by
// state/container templates, and finally wrapped by media queries.
//
// On no match, Compile still returns a syntactically valid empty rule
// (`.class {}`) plus a *CompileMiss error, so callers can log-and-continue
// per spec §7 while the index still gets an entry to track.
func Compile(dict Dictionary, class string) (string, error) {
	prefixSegment, base := splitPrefix(class)
	mediaQueries, wrappers, pseudoSuffix := classifyPrefixes(dict, prefixSegment)

	selector := "." + EscapeIdentifier(base) + pseudoSuffix
	if prefixSegment != "" {
		selector = "." + EscapeIdentifier(prefixSegment+":"+base) + pseudoSuffix
	}

	body, ok := resolveChain(dict, class, base)
	if !ok {
		empty := selector + " {}\n"
		return wrapMediaQueries(empty, mediaQueries), &CompileMiss{Class: class}
	}

	decoded := decodeEncodedCSS(dict, body, selector, wrappers)
	if !strings.HasSuffix(decoded, "\n") {
		decoded += "\n"
	}
	return wrapMediaQueries(decoded, mediaQueries), nil
}

// resolveChain tries each resolver in turn against the full class (prefix
// included, for composite/animation which may key on the whole name) or
// the base class (for static/color/dynamic, and composite's fallback),
// matching compute_css's .or_else() chain in original_source.
func resolveChain(dict Dictionary, fullClass, base string) (string, bool) {
	if css, ok := resolveComposite(dict, fullClass); ok {
		return css, true
	}
	if css, ok := dict.Static(base); ok {
		return css, true
	}
	if css, ok := resolveColor(dict, base); ok {
		return css, true
	}
	if !strings.ContainsRune(fullClass, ' ') {
		if css, ok := resolveAnimation(dict, fullClass); ok {
			return css, true
		}
	}
	if css, ok := resolveDynamic(dict, base); ok {
		return css, true
	}
	if css, ok := resolveComposite(dict, base); ok {
		return css, true
	}
	return "", false
}

// splitPrefix separates a class at its last ':' into the prefix segment
// (media/state/container tokens) and the trailing base class. A class
// with no ':' has an empty prefix segment.
func splitPrefix(class string) (prefixSegment, base string) {
	idx := strings.LastIndexByte(class, ':')
	if idx < 0 {
		return "", class
	}
	return class[:idx], class[idx+1:]
}
