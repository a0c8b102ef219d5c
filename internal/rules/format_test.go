package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daaku/dxcss/internal/rules"
)

func TestEncodeDecodeDictionaryRoundTrip(t *testing.T) {
	d := rules.NewMapDictionary()
	d.StaticRules["flex"] = "display: flex;"
	d.Composites["btn"] = []string{"px-4", "py-2"}
	d.Colors["red-500"] = "#ef4444"
	d.Animations["spin"] = rules.AnimationMeta{Duration: "1s", Timing: "linear", Keyframes: "from { transform: rotate(0); }"}
	d.Generators = []rules.GeneratorMeta{{Prefix: "p", Property: "padding", Multiplier: 0.25, Unit: "rem"}}
	d.Screens["lg"] = "1024px"
	d.States["hover"] = "&:hover"
	d.Containers["lg"] = "1024px"
	d.Properties = []rules.PropertyMeta{{Name: "--foo", Syntax: "<length>", Inherits: false, Initial: "0px"}}

	encoded := rules.EncodeDictionary(d)

	dir := t.TempDir()
	path := filepath.Join(dir, "dict.bin")
	require.NoError(t, os.WriteFile(path, encoded, 0o644))

	bd, err := rules.OpenBinaryDictionary(path)
	require.NoError(t, err)
	defer bd.Close()

	v, ok := bd.Static("flex")
	require.True(t, ok)
	assert.Equal(t, "display: flex;", v)

	utils, ok := bd.Composite("btn")
	require.True(t, ok)
	assert.Equal(t, []string{"px-4", "py-2"}, utils)

	meta, ok := bd.Generator("p")
	require.True(t, ok)
	assert.Equal(t, 0.25, meta.Multiplier)

	anim, ok := bd.Animation("spin")
	require.True(t, ok)
	assert.Equal(t, "1s", anim.Duration)
}
