package driver

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/daaku/dxcss/internal/extract"
	"github.com/daaku/dxcss/internal/index"
	"github.com/daaku/dxcss/internal/rules"
	"github.com/daaku/dxcss/internal/telemetry"
)

// strategy identifies which of the three mutation strategies a rebuild
// cycle selected (spec §4.F step 6).
type strategy int

const (
	strategyFullRewrite strategy = iota
	strategyAppend
	strategyBlank
)

// Result describes the outcome of one Rebuild call, for logging and for
// tests asserting on P1-P7/S1-S6.
type Result struct {
	Wrote    bool
	Strategy strategy
	Added    []string
	Removed  []string
}

// Rebuild is the Rebuild Driver's single entry point (spec §4.F). It
// reads markupPath, diffs the extracted class set against state, selects
// a mutation strategy, executes it against state.CSSOut, and persists
// the cache. isInitial forces the full-rewrite strategy regardless of
// the diff shape.
func Rebuild(state *AppState, markupPath string, isInitial bool) (Result, error) {
	state.mu.Lock()
	defer state.mu.Unlock()

	markup, err := os.ReadFile(markupPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrMarkupRead, markupPath, err)
	}

	newHash := contentHash(markup)
	if !isInitial && newHash == state.MarkupHash && len(state.Index) == len(state.ClassSet) {
		return Result{Wrote: false}, nil
	}

	res := extract.Extract(markup, len(state.ClassSet))
	newClasses := res.Classes
	state.GroupRegistry.Analyze(res.GroupEvents, newClasses, state.KnownPrefixes)

	added, removed := diffClassSets(state.ClassSet, newClasses)

	state.MarkupHash = newHash
	state.ClassSet = newClasses
	state.ClassListChecksum = fmt.Sprintf("%x", ClassSet(newClasses).Checksum())

	defer state.persistCache()

	strat := selectStrategy(isInitial, added, removed, state.Index)

	var wrote bool
	switch strat {
	case strategyFullRewrite:
		wrote, err = executeFullRewrite(state)
	case strategyAppend:
		err = executeAppend(state, added)
		wrote = true
	case strategyBlank:
		err = executeBlank(state, removed)
		wrote = true
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}

	if wrote {
		if err := state.CSSOut.FlushNow(); err != nil {
			telemetry.L().Warnw("flush failed", "error", err)
		}
	}

	return Result{Wrote: wrote, Strategy: strat, Added: added, Removed: removed}, nil
}

func diffClassSets(old, new map[string]struct{}) (added, removed []string) {
	for c := range new {
		if _, ok := old[c]; !ok {
			added = append(added, c)
		}
	}
	for c := range old {
		if _, ok := new[c]; !ok {
			removed = append(removed, c)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// selectStrategy implements spec §4.F step 6. missingIndexForRemoved is
// the literal fallback the design notes require: if a removal isn't
// present in the index, the blank path can't locate its range, so the
// driver must fall back to a full rewrite rather than skip it.
func selectStrategy(isInitial bool, added, removed []string, idx index.Index) strategy {
	if isInitial {
		return strategyFullRewrite
	}
	if len(added) > 0 && len(removed) == 0 && !anyColor(added) {
		return strategyAppend
	}
	if len(removed) > 0 && len(added) == 0 && !anyColor(removed) {
		if missingIndexForRemoved(removed, idx) {
			return strategyFullRewrite
		}
		return strategyBlank
	}
	return strategyFullRewrite
}

func anyColor(classes []string) bool {
	for _, c := range classes {
		if rules.IsColorClass(c) {
			return true
		}
	}
	return false
}

func missingIndexForRemoved(removed []string, idx index.Index) bool {
	for _, c := range removed {
		if _, ok := idx[c]; !ok {
			return true
		}
	}
	return false
}

func executeFullRewrite(state *AppState) (bool, error) {
	body, utilitiesOffset := buildArtifact(state.Dict, state.ClassSet, state.ComponentsTpl, state.BaseTpl)
	newHash := contentHash(body)
	if newHash == state.LastCSSHash {
		return false, nil
	}
	if err := state.CSSOut.Replace(body); err != nil {
		return false, err
	}
	state.LastCSSHash = newHash
	state.UtilitiesOffset = utilitiesOffset

	bodyBytes := body[utilitiesOffset:]
	closeRel := findUtilitiesClose(bodyBytes)
	if closeRel < 0 {
		state.Index = index.New()
		return true, nil
	}
	state.Index = index.ScanUtilitiesBody(bodyBytes[:closeRel])
	return true, nil
}

// executeAppend implements the append path (spec §4.F): compile each
// added class, indent two spaces, concatenate, and insert before the
// utilities layer's closing brace. New index entries are derived by
// scanning the appended block on its own and offsetting by the absolute
// insertion point minus the utilities offset.
func executeAppend(state *AppState, added []string) error {
	var sb strings.Builder
	for _, class := range added {
		css, _ := rules.Compile(state.Dict, class)
		for _, line := range strings.Split(strings.TrimRight(css, "\n"), "\n") {
			if line == "" {
				continue
			}
			sb.WriteString("  " + line + "\n")
		}
	}
	block := []byte(sb.String())

	absOffset, err := state.CSSOut.AppendInsideFinalBlock(block)
	if err != nil {
		return err
	}

	relStart := int(absOffset) - state.UtilitiesOffset
	blockIdx := index.ScanUtilitiesBody(block)
	for name, e := range blockIdx {
		state.Index.Set(name, index.Entry{Offset: relStart + e.Offset, Length: e.Length})
	}
	return nil
}

// executeBlank implements the blank path (spec §4.F): for each removed
// class, look up its index entry, blank that absolute range, and drop
// the entry.
func executeBlank(state *AppState, removed []string) error {
	for _, class := range removed {
		e, ok := state.Index[class]
		if !ok {
			continue
		}
		abs := int64(state.UtilitiesOffset + e.Offset)
		if err := state.CSSOut.BlankRange(abs, int64(e.Length)); err != nil {
			return err
		}
		state.Index.Remove(class)
	}
	return nil
}
