// Package rules implements the Rule Compiler (spec §4.C): it turns one
// class name into a serialized CSS rule, decoding prefixes into
// media/container/state wrappers and resolving the base class through a
// fixed chain of resolvers.
package rules

// GeneratorMeta describes one dynamic-generator entry: a prefix whose
// numeric suffix multiplies into a CSS value (e.g. "p-" * 0.25rem/unit).
type GeneratorMeta struct {
	Prefix     string
	Property   string
	Multiplier float64
	Unit       string
}

// AnimationMeta describes one named animation: a duration/timing pair
// and the @keyframes body to emit alongside the declaration.
type AnimationMeta struct {
	Duration string
	Timing   string
	Keyframes string
}

// PropertyMeta mirrors a single @property at-rule definition from the
// static dictionary.
type PropertyMeta struct {
	Name     string
	Syntax   string
	Inherits bool
	Initial  string
}

// Dictionary is the read-only, static rule table the Rule Compiler
// consults. It is the Go-side contract for spec §6's "precompiled static
// rule table" — a memory-mappable, read-only dictionary the core only
// ever looks up into, never mutates.
type Dictionary interface {
	Static(name string) (string, bool)
	Composite(name string) ([]string, bool)
	Color(name string) (string, bool)
	Animation(name string) (AnimationMeta, bool)
	Generator(prefix string) (GeneratorMeta, bool)
	Screen(name string) (string, bool)
	State(name string) (string, bool)
	ContainerQuery(name string) (string, bool)
	PropertyAtRules() string
}

// MapDictionary is an in-memory Dictionary, used by tests and, empty, by
// the CLI when DX_STYLE_BIN is unset.
type MapDictionary struct {
	StaticRules map[string]string
	Composites  map[string][]string
	Colors      map[string]string
	Animations  map[string]AnimationMeta
	Generators  []GeneratorMeta
	Screens     map[string]string
	States      map[string]string
	Containers  map[string]string
	Properties  []PropertyMeta

	generatorByPrefix map[string]GeneratorMeta
}

// NewMapDictionary builds an empty, ready-to-populate dictionary.
func NewMapDictionary() *MapDictionary {
	return &MapDictionary{
		StaticRules: map[string]string{},
		Composites:  map[string][]string{},
		Colors:      map[string]string{},
		Animations:  map[string]AnimationMeta{},
		Screens:     map[string]string{},
		States:      map[string]string{},
		Containers:  map[string]string{},
	}
}

func (d *MapDictionary) Static(name string) (string, bool) {
	v, ok := d.StaticRules[name]
	return v, ok
}

func (d *MapDictionary) Composite(name string) ([]string, bool) {
	v, ok := d.Composites[name]
	return v, ok
}

func (d *MapDictionary) Color(name string) (string, bool) {
	v, ok := d.Colors[name]
	return v, ok
}

func (d *MapDictionary) Animation(name string) (AnimationMeta, bool) {
	v, ok := d.Animations[name]
	return v, ok
}

func (d *MapDictionary) Generator(prefix string) (GeneratorMeta, bool) {
	if d.generatorByPrefix == nil {
		d.generatorByPrefix = make(map[string]GeneratorMeta, len(d.Generators))
		for _, g := range d.Generators {
			d.generatorByPrefix[g.Prefix] = g
		}
	}
	v, ok := d.generatorByPrefix[prefix]
	return v, ok
}

func (d *MapDictionary) Screen(name string) (string, bool) {
	v, ok := d.Screens[name]
	return v, ok
}

func (d *MapDictionary) State(name string) (string, bool) {
	v, ok := d.States[name]
	return v, ok
}

func (d *MapDictionary) ContainerQuery(name string) (string, bool) {
	v, ok := d.Containers[name]
	return v, ok
}

// KnownPrefixesFrom collects every media/state/container name a
// dictionary recognizes, for the Group Registry's prefix classification
// (spec §4.B). It unwraps BinaryDictionary to its backing MapDictionary
// since both expose the same underlying tables.
func KnownPrefixesFrom(dict Dictionary) map[string]struct{} {
	var md *MapDictionary
	switch v := dict.(type) {
	case *MapDictionary:
		md = v
	case *BinaryDictionary:
		md = v.MapDictionary
	default:
		return map[string]struct{}{}
	}
	known := make(map[string]struct{}, len(md.Screens)+len(md.States)+len(md.Containers))
	for k := range md.Screens {
		known[k] = struct{}{}
	}
	for k := range md.States {
		known[k] = struct{}{}
	}
	for k := range md.Containers {
		known[k] = struct{}{}
	}
	return known
}

func (d *MapDictionary) PropertyAtRules() string {
	if len(d.Properties) == 0 {
		return ""
	}
	var out []byte
	for _, p := range d.Properties {
		out = append(out, "@property "+p.Name+" {\n"...)
		if p.Syntax != "" {
			out = append(out, "  syntax: \""+p.Syntax+"\";\n"...)
		}
		if p.Inherits {
			out = append(out, "  inherits: true;\n"...)
		} else {
			out = append(out, "  inherits: false;\n"...)
		}
		if p.Initial != "" {
			out = append(out, "  initial-value: "+p.Initial+";\n"...)
		}
		out = append(out, "}\n\n"...)
	}
	return string(out)
}
