package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDict() *MapDictionary {
	d := NewMapDictionary()
	d.StaticRules["flex"] = "display: flex"
	d.Colors["red-500"] = "#ef4444"
	d.Generators = []GeneratorMeta{
		{Prefix: "p", Property: "padding", Multiplier: 0.25, Unit: "rem"},
	}
	d.Animations["spin"] = AnimationMeta{
		Duration:  "1s",
		Timing:    "linear",
		Keyframes: "0% { transform: rotate(0deg); }\n100% { transform: rotate(360deg); }",
	}
	d.Composites["btn"] = []string{"flex", "p-4"}
	d.Screens["lg"] = "1024px"
	d.States["hover"] = ":hover"
	d.States["dark"] = ".dark &"
	d.Containers["lg-c"] = "1024px"
	return d
}

func TestCompileStaticClass(t *testing.T) {
	css, err := Compile(testDict(), "flex")
	require.NoError(t, err)
	assert.Contains(t, css, ".flex {")
	assert.Contains(t, css, "display: flex")
}

func TestCompileColorClass(t *testing.T) {
	css, err := Compile(testDict(), "bg-red-500")
	require.NoError(t, err)
	assert.Contains(t, css, "background-color: var(--color-red-500)")
}

func TestCompileDynamicClass(t *testing.T) {
	css, err := Compile(testDict(), "p-4")
	require.NoError(t, err)
	assert.Contains(t, css, "padding: 1rem")
}

func TestCompileDynamicNegative(t *testing.T) {
	css, err := Compile(testDict(), "-p-4")
	require.NoError(t, err)
	assert.Contains(t, css, "padding: -1rem")
}

func TestCompileAnimationClassEmitsKeyframes(t *testing.T) {
	css, err := Compile(testDict(), "spin")
	require.NoError(t, err)
	assert.Contains(t, css, "animation:")
	assert.Contains(t, css, "@keyframes spin")
	assert.Contains(t, css, "0% { transform: rotate(0deg); }")
	assert.Contains(t, css, "100% { transform: rotate(360deg); }")
}

func TestCompileCompositeClass(t *testing.T) {
	css, err := Compile(testDict(), "btn")
	require.NoError(t, err)
	assert.Contains(t, css, ".btn {")
	assert.Contains(t, css, "display: flex")
	assert.Contains(t, css, "padding: 1rem")
}

func TestCompileMediaPrefix(t *testing.T) {
	css, err := Compile(testDict(), "lg:flex")
	require.NoError(t, err)
	assert.Contains(t, css, "@media (min-width: 1024px)")
	assert.Contains(t, css, "display: flex")
}

func TestCompileStatePrefixPseudo(t *testing.T) {
	css, err := Compile(testDict(), "hover:flex")
	require.NoError(t, err)
	assert.True(t, strings.Contains(css, ":hover"))
}

func TestCompileStatePrefixAmpersand(t *testing.T) {
	css, err := Compile(testDict(), "dark:flex")
	require.NoError(t, err)
	assert.Contains(t, css, ".dark ")
}

func TestCompileContainerPrefix(t *testing.T) {
	css, err := Compile(testDict(), "lg-c:flex")
	require.NoError(t, err)
	assert.Contains(t, css, "@container (min-width: 1024px)")
}

func TestCompileUnknownClassReturnsCompileMiss(t *testing.T) {
	css, err := Compile(testDict(), "totally-unknown-class")
	require.Error(t, err)
	var miss *CompileMiss
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, "totally-unknown-class", miss.Class)
	assert.Contains(t, css, "{}")
}

func TestCompileStaticWinsOverDynamicWhenBothMatch(t *testing.T) {
	// "flex" has both a static rule and could theoretically parse as a
	// dynamic suffix; static must win since it's earlier in the chain.
	d := testDict()
	css, err := Compile(d, "flex")
	require.NoError(t, err)
	assert.Contains(t, css, "display: flex")
}

func TestResolveDynamicRejectsNonNumericSuffix(t *testing.T) {
	_, ok := resolveDynamic(testDict(), "p-abc")
	assert.False(t, ok)
}

func TestResolveDynamicRejectsUnknownPrefix(t *testing.T) {
	_, ok := resolveDynamic(testDict(), "zz-4")
	assert.False(t, ok)
}

func TestResolveDynamicRejectsNoDash(t *testing.T) {
	_, ok := resolveDynamic(testDict(), "p")
	assert.False(t, ok)
}

func TestSplitPrefix(t *testing.T) {
	prefix, base := splitPrefix("hover:lg:bg-red-500")
	assert.Equal(t, "hover:lg", prefix)
	assert.Equal(t, "bg-red-500", base)

	prefix, base = splitPrefix("flex")
	assert.Equal(t, "", prefix)
	assert.Equal(t, "flex", base)
}
