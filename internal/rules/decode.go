package rules

import "strings"

// decodeEncodedCSS interprets tagged lines inside a resolved rule body
// (spec §4.C step 5): BASE|, STATE|, CHILD|, DATA|, COND|, ANIM|, RAW|.
// A body with none of these tags is treated as a plain declaration
// block and passed straight to applyWrappers. dict resolves COND|
// screen:<name> references against the screen table.
func decodeEncodedCSS(dict Dictionary, css, selector string, wrappers []string) string {
	if !containsAnyTag(css) {
		return applyWrappers(selector, css, wrappers)
	}

	var out strings.Builder
	var lines []string
	if strings.Contains(css, "\n") {
		lines = strings.Split(css, "\n")
	} else {
		lines = []string{css}
	}

	var pendingAnim *pendingAnimation

	for _, line := range lines {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "BASE|"):
			rest := strings.TrimPrefix(line, "BASE|")
			out.WriteString(applyWrappers(selector, rest, wrappers))
			if !strings.HasSuffix(out.String(), "\n") {
				out.WriteByte('\n')
			}
		case strings.HasPrefix(line, "STATE|"):
			rest := strings.TrimPrefix(line, "STATE|")
			parts := strings.SplitN(rest, "|", 2)
			state, decls := parts[0], ""
			if len(parts) > 1 {
				decls = parts[1]
			}
			switch state {
			case "dark":
				out.WriteString(buildBlock(".dark "+selector, decls))
			case "light":
				out.WriteString(buildBlock(":root "+selector, decls))
				out.WriteString(buildBlock(".light "+selector, decls))
			default:
				out.WriteString(buildBlock(selector+":"+state, decls))
			}
		case strings.HasPrefix(line, "CHILD|"):
			rest := strings.TrimPrefix(line, "CHILD|")
			parts := strings.SplitN(rest, "|", 2)
			child, decls := parts[0], ""
			if len(parts) > 1 {
				decls = parts[1]
			}
			out.WriteString(buildBlock(selector+" > "+child, decls))
		case strings.HasPrefix(line, "DATA|"):
			rest := strings.TrimPrefix(line, "DATA|")
			parts := strings.SplitN(rest, "|", 2)
			data, decls := parts[0], ""
			if len(parts) > 1 {
				decls = parts[1]
			}
			out.WriteString(buildBlock(selector+"[data-"+data+"]", decls))
		case strings.HasPrefix(line, "COND|"):
			rest := strings.TrimPrefix(line, "COND|")
			parts := strings.SplitN(rest, "|", 2)
			cond, decls := parts[0], ""
			if len(parts) > 1 {
				decls = parts[1]
			}
			if val, ok := strings.CutPrefix(cond, "@container>"); ok {
				out.WriteString("@container (min-width: " + val + ") {\n")
				for _, l := range strings.Split(strings.TrimRight(buildBlock(selector, decls), "\n"), "\n") {
					out.WriteString("  ")
					out.WriteString(l)
					out.WriteByte('\n')
				}
				out.WriteString("}\n")
			} else if bp, ok := strings.CutPrefix(cond, "screen:"); ok {
				if v, ok := dict.Screen(bp); ok {
					out.WriteString("@media (min-width: " + v + ") {\n")
					for _, l := range strings.Split(strings.TrimRight(buildBlock(selector, decls), "\n"), "\n") {
						out.WriteString("  ")
						out.WriteString(l)
						out.WriteByte('\n')
					}
					out.WriteString("}\n")
				}
			}
		case strings.HasPrefix(line, "ANIM|"):
			processAnimLine(line, &pendingAnim)
		case strings.HasPrefix(line, "RAW|"):
			raw := strings.TrimPrefix(line, "RAW|")
			out.WriteString(raw)
			if !strings.HasSuffix(raw, "\n") {
				out.WriteByte('\n')
			}
		}
	}

	decodeAnimationIfPending(selector, pendingAnim, &out)

	result := out.String()
	return strings.TrimSuffix(result, "\n")
}

func containsAnyTag(css string) bool {
	for _, p := range []string{"BASE|", "STATE|", "CHILD|", "COND|", "DATA|", "RAW|", "ANIM|"} {
		if strings.Contains(css, p) {
			return true
		}
	}
	return false
}

type pendingAnimation struct {
	name      string
	duration  string
	timing    string
	keyframes string
}

// processAnimLine accumulates an "ANIM|field|value" line into pending,
// one field at a time ("name", "duration", "timing", "keyframes").
func processAnimLine(line string, pending **pendingAnimation) {
	rest := strings.TrimPrefix(line, "ANIM|")
	parts := strings.SplitN(rest, "|", 2)
	if len(parts) != 2 {
		return
	}
	if *pending == nil {
		*pending = &pendingAnimation{}
	}
	field, value := parts[0], parts[1]
	switch field {
	case "name":
		(*pending).name = value
	case "duration":
		(*pending).duration = value
	case "timing":
		(*pending).timing = value
	case "keyframes":
		(*pending).keyframes = strings.ReplaceAll(value, `\n`, "\n")
	}
}

// decodeAnimationIfPending emits the accumulated animation declaration
// plus its @keyframes block, once all ANIM| lines for a class have been
// consumed.
func decodeAnimationIfPending(selector string, pending *pendingAnimation, out *strings.Builder) {
	if pending == nil || pending.name == "" {
		return
	}
	decl := "animation: " + pending.name + " " + pending.duration + " " + pending.timing + ";"
	out.WriteString(buildBlock(selector, decl))
	if pending.keyframes != "" {
		out.WriteString("@keyframes " + pending.name + " {\n")
		for _, line := range strings.Split(strings.TrimRight(pending.keyframes, "\n"), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			out.WriteString("  ")
			out.WriteString(line)
			out.WriteByte('\n')
		}
		out.WriteString("}\n")
	}
}
