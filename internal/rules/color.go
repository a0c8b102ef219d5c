package rules

import (
	"sort"
	"strings"
)

// resolveColor implements the color rule resolver: `bg-<name>` and
// `text-<name>` classes resolve through the color dictionary into a
// declaration referencing the materialized `--color-<name>` custom
// property, rather than embedding the raw value. Grounded on
// original_source/src/core/color/mod.rs's generate_color_css.
func resolveColor(dict Dictionary, class string) (string, bool) {
	if name, ok := strings.CutPrefix(class, "bg-"); ok {
		if _, ok := dict.Color(name); ok {
			return "background-color: var(--color-" + name + ")", true
		}
	}
	if name, ok := strings.CutPrefix(class, "text-"); ok {
		if _, ok := dict.Color(name); ok {
			return "color: var(--color-" + name + ")", true
		}
	}
	return "", false
}

// IsColorClass reports whether class's base segment (after the last
// ':') names a bg-*/text-* color utility, the test the Rebuild Driver
// uses to decide whether an addition/removal forces a full rewrite
// (spec §4.F strategy selection).
func IsColorClass(class string) bool {
	base := class
	if idx := strings.LastIndexByte(class, ':'); idx >= 0 {
		base = class[idx+1:]
	}
	return strings.HasPrefix(base, "bg-") || strings.HasPrefix(base, "text-")
}

// ColorVarsFor materializes `:root { --color-X: value; }` and
// `.dark { --color-X: value; }` blocks for every bg-*/text-* class in
// classes whose name resolves in the color dictionary. Classes are
// consulted by their base segment; duplicates collapse naturally since
// the accumulator is keyed by color name.
func ColorVarsFor(dict Dictionary, classes []string) (root, dark string) {
	needed := map[string]struct{}{}
	for _, c := range classes {
		base := c
		if idx := strings.LastIndexByte(c, ':'); idx >= 0 {
			base = c[idx+1:]
		}
		if name, ok := strings.CutPrefix(base, "bg-"); ok {
			needed[name] = struct{}{}
		}
		if name, ok := strings.CutPrefix(base, "text-"); ok {
			needed[name] = struct{}{}
		}
	}
	if len(needed) == 0 {
		return "", ""
	}
	names := make([]string, 0, len(needed))
	for n := range needed {
		names = append(names, n)
	}
	sort.Strings(names)

	var rootSB, darkSB strings.Builder
	rootSB.WriteString(":root {\n")
	darkSB.WriteString(".dark {\n")
	any := false
	for _, name := range names {
		val, ok := dict.Color(name)
		if !ok {
			continue
		}
		any = true
		rootSB.WriteString("  --color-" + name + ": " + val + ";\n")
		darkSB.WriteString("  --color-" + name + ": " + val + ";\n")
	}
	if !any {
		return "", ""
	}
	rootSB.WriteString("}\n")
	darkSB.WriteString("}\n")
	return rootSB.String(), darkSB.String()
}
