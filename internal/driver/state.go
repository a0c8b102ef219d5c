// Package driver implements the Rebuild Driver (spec §4.F): the single
// entry point that reads markup, diffs the class set, selects a mutation
// strategy, and applies it against the CSS Output artifact.
package driver

import (
	"sync"

	"github.com/daaku/dxcss/internal/cache"
	"github.com/daaku/dxcss/internal/group"
	"github.com/daaku/dxcss/internal/index"
	"github.com/daaku/dxcss/internal/output"
	"github.com/daaku/dxcss/internal/rules"
	"github.com/daaku/dxcss/internal/telemetry"
)

// AppState is the process-wide state owned exclusively by the driver
// (spec §3's App State), mutated only while mu is held.
type AppState struct {
	mu sync.Mutex

	MarkupHash        string
	ClassSet          ClassSet
	ClassListChecksum string

	CSSOut          *output.CSSOutput
	LastCSSHash     string
	UtilitiesOffset int
	Index           index.Index

	GroupRegistry *group.Registry
	Dict          rules.Dictionary

	CachePath       string
	ComponentsTpl   string
	BaseTpl         string
	KnownPrefixes   group.KnownPrefixes
}

// NewAppState constructs an AppState backed by cssOut and dict, seeding
// it from the on-disk cache (if present) and from a warm-start scan of
// the existing artifact (spec §4.G), so the index can be rebuilt without
// recompiling every class.
func NewAppState(cssOut *output.CSSOutput, dict rules.Dictionary, cachePath string, knownPrefixes group.KnownPrefixes) *AppState {
	s := &AppState{
		ClassSet:      ClassSet{},
		CSSOut:        cssOut,
		Index:         index.New(),
		GroupRegistry: group.NewRegistry(),
		Dict:          dict,
		CachePath:     cachePath,
		KnownPrefixes: knownPrefixes,
	}

	if st, err := cache.Load(cachePath); err != nil {
		telemetry.L().Warnw("cache load failed, starting cold", "error", err)
	} else if st != nil {
		for _, c := range st.Classes {
			s.ClassSet[c] = struct{}{}
		}
		s.MarkupHash = st.MarkupHash
		s.ClassListChecksum = st.ListChecksum
	}

	artifact, err := cssOut.ReadAll()
	if err != nil {
		telemetry.L().Warnw("artifact warm-start read failed", "error", err)
		return s
	}
	if len(artifact) == 0 {
		return s
	}
	idx, offset, err := scanArtifactIndex(artifact)
	if err != nil {
		telemetry.L().Warnw("artifact warm-start scan failed, index will rebuild on next full rewrite", "error", err)
		return s
	}
	s.Index = idx
	s.UtilitiesOffset = offset
	return s
}

// persistCache writes the current class set back to disk, best-effort
// (errors are logged, never fatal, per spec §4.G and the ErrCacheWrite
// disposition).
func (s *AppState) persistCache() {
	classes := make([]string, 0, len(s.ClassSet))
	for c := range s.ClassSet {
		classes = append(classes, c)
	}
	st := &cache.State{
		Classes:      classes,
		MarkupHash:   s.MarkupHash,
		ListChecksum: s.ClassListChecksum,
	}
	if err := cache.Save(s.CachePath, st); err != nil {
		telemetry.L().Warnw("cache persist failed", "error", err, "path", s.CachePath)
	}
}
