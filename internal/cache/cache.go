// Package cache implements Cache I/O (spec §4.G): best-effort persistence
// of the driver's class set and markup hash across restarts. The primary
// format is JSON; an optional brotli-compressed binary snapshot (used
// when the class set crosses a size threshold) is grounded on
// github.com/andybalholm/brotli, a dependency present only transitively
// in the retrieval pack's kernel module and otherwise unexercised there.
package cache

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/andybalholm/brotli"
)

// snapshotThreshold is the class-set size above which Save switches from
// plain JSON to a brotli-compressed JSON snapshot.
const snapshotThreshold = 2000

// State is the persisted shape: the class set as of the last completed
// rebuild, the markup content hash that produced it, and a checksum of
// the class list used for formatter debouncing.
type State struct {
	Classes      []string `json:"classes"`
	MarkupHash   string   `json:"html_hash"`
	ListChecksum string   `json:"class_list_checksum"`
}

// Load reads the cache file at path. A missing file is not an error: it
// returns (nil, nil) so callers can seed AppState from a fresh scan
// instead, per spec §4.G's "errors are non-fatal" contract.
func Load(path string) (*State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if isBrotli(raw) {
		raw, err = decompress(raw)
		if err != nil {
			return nil, err
		}
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Save writes st to path, creating parent directories as needed. Above
// snapshotThreshold classes it writes a brotli-compressed body prefixed
// with a magic marker so Load can tell the two formats apart; callers
// treat any error here as non-fatal and only log it.
func Save(path string, st *State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if len(st.Classes) > snapshotThreshold {
		compressed, err := compress(raw)
		if err != nil {
			return err
		}
		return os.WriteFile(path, compressed, 0o644)
	}
	return os.WriteFile(path, raw, 0o644)
}

var brotliMagic = []byte("DXBR")

func isBrotli(raw []byte) bool {
	return len(raw) >= len(brotliMagic) && bytes.Equal(raw[:len(brotliMagic)], brotliMagic)
}

func compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(brotliMagic)
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(raw []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(raw[len(brotliMagic):]))
	return io.ReadAll(r)
}
