package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSimpleClasses(t *testing.T) {
	html := []byte(`<div class="p-4 text-lg flex items-center"></div>`)
	res := Extract(html, 0)
	want := []string{"p-4", "text-lg", "flex", "items-center"}
	for _, w := range want {
		_, ok := res.Classes[w]
		assert.True(t, ok, "expected class %q", w)
	}
	assert.Len(t, res.Classes, len(want))
	assert.Empty(t, res.GroupEvents)
}

func TestExtractDxAttribute(t *testing.T) {
	html := []byte(`<div dx-text="p-4 flex"></div>`)
	res := Extract(html, 0)
	assert.Contains(t, res.Classes, "p-4")
	assert.Contains(t, res.Classes, "flex")
}

// P1: extraction idempotence for markup with no grouping syntax.
func TestExtractIdempotence(t *testing.T) {
	html := []byte(`<div class="p-4 text-lg flex items-center"></div>`)
	first := Extract(html, 0)

	var classList string
	for c := range first.Classes {
		classList += c + " "
	}
	second := Extract([]byte(`<div class="`+classList+`"></div>`), 0)

	require.Equal(t, len(first.Classes), len(second.Classes))
	for c := range first.Classes {
		assert.Contains(t, second.Classes, c)
	}
}

// P5 / S6: grouping round-trip.
func TestExpandGroupingAliasAndPlus(t *testing.T) {
	html := []byte(`<div dx-text="card(bg-red-500 h-50 text-yellow-500+)"></div>`)
	res := Extract(html, 0)

	assert.Contains(t, res.Classes, "card:bg-red-500")
	assert.Contains(t, res.Classes, "card:h-50")
	assert.Contains(t, res.Classes, "card:text-yellow-500")
	assert.NotContains(t, res.Classes, "card")
	assert.NotContains(t, res.Classes, "bg-red-500")

	var found bool
	for _, evt := range res.GroupEvents {
		if len(evt.Stack) == 1 && evt.Stack[0] == "card" && evt.Token == "text-yellow-500" {
			found = true
			assert.True(t, evt.HadPlus)
		}
	}
	assert.True(t, found, "expected group event for card:text-yellow-500")
}

func TestExpandGroupingNested(t *testing.T) {
	html := []byte(`<div class="lg(md(bg-red-500))"></div>`)
	res := Extract(html, 0)
	assert.Contains(t, res.Classes, "lg:md:bg-red-500")
	require.Len(t, res.GroupEvents, 1)
	assert.Equal(t, []string{"lg", "md"}, res.GroupEvents[0].Stack)
	assert.Equal(t, "bg-red-500", res.GroupEvents[0].Token)
}

func TestExpandGroupingIgnoresComment(t *testing.T) {
	html := []byte(`<div class="flex # trailing comment p-4"></div>`)
	res := Extract(html, 0)
	assert.Contains(t, res.Classes, "flex")
	assert.NotContains(t, res.Classes, "p-4")
}

func TestRewriteDuplicateClasses(t *testing.T) {
	html := []byte(`<h1 class="border flex text-red-500">Hello</h1>
<h1 class="border flex text-red-500">World</h1>`)
	result := RewriteDuplicateClasses(html)
	require.NotNil(t, result)
	rewritten := string(result.HTML)
	assert.Contains(t, rewritten, `class="dxg-1" dx-group="dxg-1(border flex text-red-500)"`)
	assert.Contains(t, rewritten, `class="dxg-1">World`)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, "dxg-1", result.Groups[0].Alias)
	assert.Equal(t, []string{"border", "flex", "text-red-500"}, result.Groups[0].Classes)
}

func TestRewriteDuplicateClassesNoRepeats(t *testing.T) {
	html := []byte(`<h1 class="border flex">Hello</h1><h2 class="p-4">World</h2>`)
	assert.Nil(t, RewriteDuplicateClasses(html))
}
