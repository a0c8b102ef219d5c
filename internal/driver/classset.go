package driver

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ClassSet is the current set of live utility classes. It is a plain
// map[string]struct{} under the hood so it composes with the diff/sort
// helpers below, plus a Checksum method used to debounce the formatter
// on class-list stability (spec §5).
type ClassSet map[string]struct{}

// Checksum returns an xxhash digest of the sorted class list, stable
// across map iteration order.
func (cs ClassSet) Checksum() uint64 {
	names := make([]string, 0, len(cs))
	for c := range cs {
		names = append(names, c)
	}
	sort.Strings(names)
	return xxhash.Sum64String(strings.Join(names, ","))
}
