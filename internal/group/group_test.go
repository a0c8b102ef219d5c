package group_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daaku/dxcss/internal/extract"
	"github.com/daaku/dxcss/internal/group"
	"github.com/daaku/dxcss/internal/rules"
)

func TestAnalyzeSimpleAlias(t *testing.T) {
	classes := map[string]struct{}{
		"card:bg-red-500": {},
		"card:h-50":        {},
	}
	events := []extract.GroupEvent{
		{Stack: []string{"card"}, Token: "bg-red-500", FullClass: "card:bg-red-500", HadPlus: false},
		{Stack: []string{"card"}, Token: "h-50", FullClass: "card:h-50", HadPlus: true},
	}

	r := group.NewRegistry()
	r.Analyze(events, classes, group.KnownPrefixes{})

	_, hasInternal1 := classes["card:bg-red-500"]
	_, hasInternal2 := classes["card:h-50"]
	assert.False(t, hasInternal1)
	assert.False(t, hasInternal2)

	_, hasAlias := classes["card"]
	_, hasA := classes["bg-red-500"]
	_, hasB := classes["h-50"]
	assert.True(t, hasAlias)
	assert.True(t, hasA)
	assert.True(t, hasB)

	def, ok := r.Definition("card")
	require.True(t, ok)
	assert.Equal(t, []string{"bg-red-500", "h-50"}, def.Utilities)
	assert.True(t, def.AllowExtend)
}

func TestAnalyzeAliasPrecededByKnownPrefix(t *testing.T) {
	classes := map[string]struct{}{
		"md:card:bg-red-500": {},
	}
	events := []extract.GroupEvent{
		{Stack: []string{"md", "card"}, Token: "bg-red-500", FullClass: "md:card:bg-red-500"},
	}

	r := group.NewRegistry()
	r.Analyze(events, classes, group.KnownPrefixes{"md": {}})

	_, hasInternal := classes["md:card:bg-red-500"]
	assert.False(t, hasInternal)

	_, hasAlias := classes["card"]
	_, hasActual := classes["md:bg-red-500"]
	assert.True(t, hasAlias)
	assert.True(t, hasActual)

	def, ok := r.Definition("card")
	require.True(t, ok)
	assert.Equal(t, []string{"md:bg-red-500"}, def.Utilities)
}

func TestAnalyzeAliasBetweenTwoKnownPrefixes(t *testing.T) {
	classes := map[string]struct{}{
		"p1:x:p2:bg-red-500": {},
	}
	events := []extract.GroupEvent{
		{Stack: []string{"p1", "x", "p2"}, Token: "bg-red-500", FullClass: "p1:x:p2:bg-red-500"},
	}

	r := group.NewRegistry()
	r.Analyze(events, classes, group.KnownPrefixes{"p1": {}, "p2": {}})

	_, hasX := classes["x"]
	_, hasP2Alias := classes["p2"]
	assert.True(t, hasX, "the first non-known stack segment must be the alias")
	assert.False(t, hasP2Alias, "a known prefix must never be misclassified as the alias")

	def, ok := r.Definition("x")
	require.True(t, ok)
	assert.Equal(t, []string{"p1:bg-red-500"}, def.Utilities)
}

func TestFlattenBreaksCycles(t *testing.T) {
	r := group.NewRegistry()
	classes := map[string]struct{}{}
	events := []extract.GroupEvent{
		{Stack: []string{"a"}, Token: "b", FullClass: "a:b"},
		{Stack: []string{"b"}, Token: "a", FullClass: "b:a"},
	}
	r.Analyze(events, classes, group.KnownPrefixes{})

	out := r.Flatten("a")
	// Must terminate despite the a->b->a cycle. Both a and b have
	// definitions, so neither is a terminal utility and nothing is
	// returned.
	assert.Empty(t, out)
	assert.NotContains(t, out, "b")
}

func TestGenerateCSSForConcatenatesMembers(t *testing.T) {
	dict := rules.NewMapDictionary()
	dict.StaticRules["bg-red-500"] = "background-color: red;"
	dict.StaticRules["h-50"] = "height: 50px;"

	classes := map[string]struct{}{}
	events := []extract.GroupEvent{
		{Stack: []string{"card"}, Token: "bg-red-500", FullClass: "card:bg-red-500"},
		{Stack: []string{"card"}, Token: "h-50", FullClass: "card:h-50"},
	}
	r := group.NewRegistry()
	r.Analyze(events, classes, group.KnownPrefixes{})

	css, ok := r.GenerateCSSFor(dict, "card")
	require.True(t, ok)
	assert.Contains(t, css, ".card")
	assert.Contains(t, css, "background-color: red;")
	assert.Contains(t, css, "height: 50px;")
}
