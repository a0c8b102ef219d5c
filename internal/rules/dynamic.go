package rules

import (
	"strconv"
	"strings"
)

// resolveDynamic implements the dynamic generator resolver (spec §4.C
// step 3; Compile tries it last, before only the composite(base)
// fallback): classes of the shape `<prefix>-<number>`
// resolve against a GeneratorMeta by multiplying the numeric suffix by
// the generator's Multiplier and appending its Unit. Grounded on
// original_source/src/core/dynamic/mod.rs's numeric-suffix matching.
func resolveDynamic(dict Dictionary, class string) (string, bool) {
	idx := strings.LastIndexByte(class, '-')
	if idx < 0 || idx == len(class)-1 {
		return "", false
	}
	prefix, suffix := class[:idx], class[idx+1:]

	negative := false
	if strings.HasPrefix(prefix, "-") {
		negative = true
		prefix = prefix[1:]
	}

	n, err := strconv.ParseFloat(suffix, 64)
	if err != nil {
		return "", false
	}

	meta, ok := dict.Generator(prefix)
	if !ok {
		return "", false
	}

	value := n * meta.Multiplier
	if negative {
		value = -value
	}

	return meta.Property + ": " + formatNumber(value) + meta.Unit, true
}

// formatNumber renders a computed value trimmed of trailing zeros and a
// trailing decimal point, so 4.0 prints as "4" and 0.25 as "0.25".
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s
}
