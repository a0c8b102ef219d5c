package rules

import "strings"

// resolveAnimation implements the animation rule resolver (spec §4.C
// step 3, only tried when the class name contains no spaces). Emits
// ANIM| tagged lines consumed by decodeEncodedCSS, which assembles the
// `animation:` declaration plus the accompanying @keyframes block. The
// keyframes body's newlines are escaped as "\n" literals because the
// tagged-line decoder splits the whole CSS body on real newlines before
// dispatching by tag.
func resolveAnimation(dict Dictionary, class string) (string, bool) {
	meta, ok := dict.Animation(class)
	if !ok {
		return "", false
	}
	out := "ANIM|name|" + class + "\n" +
		"ANIM|duration|" + meta.Duration + "\n" +
		"ANIM|timing|" + meta.Timing + "\n"
	if meta.Keyframes != "" {
		escaped := strings.ReplaceAll(meta.Keyframes, "\n", `\n`)
		out += "ANIM|keyframes|" + escaped + "\n"
	}
	return out, true
}
