// Package group implements the Group Registry (spec §4.B): it classifies
// grouping events emitted by internal/extract into alias definitions and
// expands an alias into its flattened list of terminal utility classes.
package group

import (
	"strings"

	"github.com/daaku/dxcss/internal/extract"
	"github.com/daaku/dxcss/internal/rules"
)

// Definition is one alias's group definition: an ordered set of utility
// classes it stands for, plus whether any occurrence of the alias used
// the trailing '+' ("allow extend") syntax.
type Definition struct {
	Utilities   []string
	AllowExtend bool
}

// Registry holds every alias definition discovered during analysis,
// keyed by alias name.
type Registry struct {
	defs map[string]*Definition
}

// KnownPrefixes is the set of tokens the compiler's dictionary recognizes
// as media/state/container names, supplied by the caller so the registry
// can tell a real prefix apart from an alias name sharing the same
// position in the stack.
type KnownPrefixes map[string]struct{}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: map[string]*Definition{}}
}

// Analyze classifies each group event's stack against knownPrefixes: the
// longest run of known-prefix tokens at the front of the stack is the
// real prefix chain; the first token that isn't a known prefix is the
// alias name. The remainder (prefix chain + token) is the actual class
// the alias expands to for that occurrence. Analyze mutates classes in
// place: it adds the alias and the actual class, and removes the
// internal "alias:...:token" compound the extractor originally
// inserted.
func (r *Registry) Analyze(events []extract.GroupEvent, classes map[string]struct{}, knownPrefixes KnownPrefixes) {
	for _, ev := range events {
		if len(ev.Stack) == 0 {
			continue
		}
		i := 0
		for i < len(ev.Stack) {
			if _, known := knownPrefixes[ev.Stack[i]]; !known {
				break
			}
			i++
		}
		realPrefixes := ev.Stack[:i]
		var alias string
		if i < len(ev.Stack) {
			alias = ev.Stack[i]
		} else {
			// Every stack entry was a known prefix; fall back to the last
			// one as the alias so the event still classifies as something.
			alias = ev.Stack[len(ev.Stack)-1]
			realPrefixes = ev.Stack[:len(ev.Stack)-1]
		}

		actualClass := ev.Token
		if len(realPrefixes) > 0 {
			actualClass = strings.Join(realPrefixes, ":") + ":" + ev.Token
		}

		full := ev.FullClass
		if full == "" {
			full = strings.Join(ev.Stack, ":") + ":" + ev.Token
		}
		delete(classes, full)
		classes[alias] = struct{}{}
		classes[actualClass] = struct{}{}

		def, ok := r.defs[alias]
		if !ok {
			def = &Definition{}
			r.defs[alias] = def
		}
		if !containsString(def.Utilities, actualClass) {
			def.Utilities = append(def.Utilities, actualClass)
		}
		if ev.HadPlus {
			def.AllowExtend = true
		}
	}
}

// Definition returns the group definition for an alias, if any.
func (r *Registry) Definition(alias string) (*Definition, bool) {
	d, ok := r.defs[alias]
	return d, ok
}

// Flatten returns class's terminal utility classes by depth-first
// traversal over alias definitions, guarding against cycles with a
// visited set (spec §3's cycle-safety invariant). A class with no
// definition flattens to itself.
func (r *Registry) Flatten(class string) []string {
	visited := map[string]bool{}
	var out []string
	r.flattenInto(class, visited, &out)
	return out
}

func (r *Registry) flattenInto(class string, visited map[string]bool, out *[]string) {
	if visited[class] {
		return
	}
	visited[class] = true
	def, ok := r.defs[class]
	if !ok {
		*out = append(*out, class)
		return
	}
	for _, u := range def.Utilities {
		r.flattenInto(u, visited, out)
	}
}

// GenerateCSSFor builds the compiled CSS for an alias by flattening it to
// terminal utilities, compiling each one, and substituting the alias's
// own escaped selector for each member's selector — the same
// selector-rewrite approach the Rule Compiler uses for dictionary
// composites (internal/rules/composite.go), applied here to
// user-authored aliases.
func (r *Registry) GenerateCSSFor(dict rules.Dictionary, alias string) (string, bool) {
	members := r.Flatten(alias)
	if len(members) == 0 {
		return "", false
	}
	aliasSelector := "." + rules.EscapeIdentifier(alias)
	var sb strings.Builder
	any := false
	for _, member := range members {
		if member == alias {
			continue
		}
		css, err := rules.Compile(dict, member)
		if err != nil {
			continue
		}
		memberSelector := "." + rules.EscapeIdentifier(member)
		rewritten := strings.ReplaceAll(css, memberSelector, aliasSelector)
		sb.WriteString(rewritten)
		if !strings.HasSuffix(rewritten, "\n") {
			sb.WriteByte('\n')
		}
		any = true
	}
	if !any {
		return "", false
	}
	return sb.String(), true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
