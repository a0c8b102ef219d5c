package driver

import (
	"sort"
	"strings"

	"github.com/daaku/dxcss/internal/index"
	"github.com/daaku/dxcss/internal/rules"
)

const (
	layerDeclaration = "@layer theme, components, utilities, base, properties;\n"
	utilitiesOpen    = "@layer utilities {\n"
)

// buildArtifact assembles the five-layer artifact body (spec §3's
// Artifact Layout) for the given class set, in sorted order, returning
// the full bytes plus the absolute byte offset of the utilities layer
// body (the utilities offset index entries are relative to).
func buildArtifact(dict rules.Dictionary, classes map[string]struct{}, componentsTemplate, baseTemplate string) (body []byte, utilitiesOffset int) {
	sorted := make([]string, 0, len(classes))
	for c := range classes {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	var sb strings.Builder
	sb.WriteString(layerDeclaration)

	themeRoot, themeDark := rules.ColorVarsFor(dict, sorted)
	sb.WriteString("@layer theme {\n")
	if themeRoot != "" {
		for _, line := range strings.Split(strings.TrimRight(themeRoot, "\n"), "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
	if themeDark != "" {
		for _, line := range strings.Split(strings.TrimRight(themeDark, "\n"), "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
	sb.WriteString("}\n")

	sb.WriteString("@layer components {\n")
	if componentsTemplate != "" {
		sb.WriteString(componentsTemplate)
	}
	sb.WriteString("}\n")

	sb.WriteString(utilitiesOpen)
	utilitiesOffset = len(sb.String())
	for _, class := range sorted {
		css, _ := rules.Compile(dict, class)
		for _, line := range strings.Split(strings.TrimRight(css, "\n"), "\n") {
			if line == "" {
				continue
			}
			sb.WriteString("  " + line + "\n")
		}
	}
	sb.WriteString("}\n")

	sb.WriteString("@layer base {\n")
	if baseTemplate != "" {
		sb.WriteString(baseTemplate)
	}
	sb.WriteString("}\n")

	sb.WriteString("@layer properties {\n")
	props := dict.PropertyAtRules()
	if props != "" {
		for _, line := range strings.Split(strings.TrimRight(props, "\n"), "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
	sb.WriteString("}\n")

	return []byte(sb.String()), utilitiesOffset
}

// scanArtifactIndex rebuilds the index from an already-written artifact
// by locating the "@layer utilities {" marker and scanning the body that
// follows, per spec §4.G's warm-start path. It returns ErrArtifactParse
// if the marker can't be found.
func scanArtifactIndex(artifact []byte) (index.Index, int, error) {
	marker := []byte(utilitiesOpen)
	pos := indexBytes(artifact, marker)
	if pos < 0 {
		return nil, 0, ErrArtifactParse
	}
	offset := pos + len(marker)
	closeRel := findUtilitiesClose(artifact[offset:])
	if closeRel < 0 {
		return nil, 0, ErrArtifactParse
	}
	body := artifact[offset : offset+closeRel]
	return index.ScanUtilitiesBody(body), offset, nil
}

func findUtilitiesClose(body []byte) int {
	depth := 1
	for i, b := range body {
		switch b {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func indexBytes(haystack, needle []byte) int {
	n, m := len(haystack), len(needle)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if string(haystack[i:i+m]) == string(needle) {
			return i
		}
	}
	return -1
}
