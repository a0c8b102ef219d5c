// Package output implements CSS Output (spec §4.D): ownership of the
// artifact file, supporting full replace, append-inside-final-block, and
// in-range blanking, memory-mapping reads once the file grows past a
// configurable threshold. Grounded on the mmap lifecycle in
// nmxmxh-inos_v1/kernel/threads/sab/hal_native.go, adapted from
// syscall.Mmap to golang.org/x/sys/unix and from a fixed-size shared
// buffer to a file that grows and shrinks under append/replace.
package output

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Layout records the fixed position inside the artifact established by
// the last full rewrite: the absolute byte offset of the first byte of
// the utilities layer body.
type Layout struct {
	UtilitiesOffset int
}

// CSSOutput owns the artifact file descriptor and, once the file exceeds
// MmapThreshold bytes, a read-only memory mapping of it. All mutating
// operations go through the file descriptor directly; the mapping is
// invalidated and remapped lazily on the next read after any mutation
// that changes file size.
type CSSOutput struct {
	mu            sync.Mutex
	path          string
	file          *os.File
	mmapThreshold int64

	mapped []byte
	dirty  bool
}

// Open opens or creates the artifact file at path, recording
// mmapThreshold as the size above which reads are served from a mapping
// instead of a full read(2). A threshold of 0 disables mapping.
func Open(path string, mmapThreshold int64) (*CSSOutput, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	return &CSSOutput{path: path, file: f, mmapThreshold: mmapThreshold}, nil
}

// Close releases any mapping and the file descriptor.
func (o *CSSOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unmapLocked()
	return o.file.Close()
}

// Size returns the current file size in bytes.
func (o *CSSOutput) Size() (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	info, err := o.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat artifact: %w", err)
	}
	return info.Size(), nil
}

// ReadAll returns the full current contents, from the mapping when one
// is active and valid, otherwise via a direct read.
func (o *CSSOutput) ReadAll() ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.readAllLocked()
}

func (o *CSSOutput) readAllLocked() ([]byte, error) {
	info, err := o.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	size := info.Size()

	if o.mmapThreshold > 0 && size >= o.mmapThreshold {
		if o.mapped == nil || int64(len(o.mapped)) != size {
			o.unmapLocked()
			if size > 0 {
				m, err := unix.Mmap(int(o.file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
				if err != nil {
					return nil, fmt.Errorf("mmap artifact: %w", err)
				}
				o.mapped = m
			}
		}
		out := make([]byte, len(o.mapped))
		copy(out, o.mapped)
		return out, nil
	}

	o.unmapLocked()
	buf := make([]byte, size)
	if _, err := o.file.ReadAt(buf, 0); err != nil && size > 0 {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return buf, nil
}

func (o *CSSOutput) unmapLocked() {
	if o.mapped != nil {
		_ = unix.Munmap(o.mapped)
		o.mapped = nil
	}
}

// Replace atomically replaces the entire file contents by writing to a
// temp file in the same directory and renaming it over path, then
// reopens the descriptor so subsequent operations see the new inode.
func (o *CSSOutput) Replace(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unmapLocked()

	tmp, err := os.CreateTemp(dirOf(o.path), ".dxcss-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, o.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp artifact: %w", err)
	}

	o.file.Close()
	f, err := os.OpenFile(o.path, os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("reopen artifact: %w", err)
	}
	o.file = f
	o.dirty = true
	return nil
}

// Append writes data to the end of the file and returns the absolute
// byte offset at which the write began.
func (o *CSSOutput) Append(data []byte) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unmapLocked()

	info, err := o.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat artifact: %w", err)
	}
	start := info.Size()
	if _, err := o.file.WriteAt(data, start); err != nil {
		return 0, fmt.Errorf("append artifact: %w", err)
	}
	o.dirty = true
	return start, nil
}

// AppendInsideFinalBlock inserts data immediately before the closing '}'
// of the "@layer utilities {" block (or, when the file has no such block,
// of the last top-level block), returning the absolute offset at which
// the insertion began. The file grows by len(data). Any open mapping is
// invalidated.
func (o *CSSOutput) AppendInsideFinalBlock(data []byte) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	current, err := o.readAllLocked()
	if err != nil {
		return 0, err
	}
	closeIdx := lastTopLevelClose(current)
	if start := strings.Index(string(current), "@layer utilities {"); start >= 0 {
		depth := 0
		for i := start; i < len(current); i++ {
			if current[i] == '{' {
				depth++
			} else if current[i] == '}' {
				depth--
				if depth == 0 {
					closeIdx = i
					break
				}
			}
		}
	}
	if closeIdx < 0 {
		return 0, fmt.Errorf("append inside final block: no closing brace found")
	}

	rebuilt := make([]byte, 0, len(current)+len(data))
	rebuilt = append(rebuilt, current[:closeIdx]...)
	rebuilt = append(rebuilt, data...)
	rebuilt = append(rebuilt, current[closeIdx:]...)

	o.unmapLocked()
	if _, err := o.file.WriteAt(rebuilt, 0); err != nil {
		return 0, fmt.Errorf("write artifact: %w", err)
	}
	if err := o.file.Truncate(int64(len(rebuilt))); err != nil {
		return 0, fmt.Errorf("truncate artifact: %w", err)
	}
	o.dirty = true
	return int64(closeIdx), nil
}

// lastTopLevelClose finds the byte offset of the last '}' in data that
// closes a brace opened at depth 0, i.e. the closing brace of the final
// top-level @layer block.
func lastTopLevelClose(data []byte) int {
	depth := 0
	lastZero := -1
	for i, b := range data {
		switch b {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				lastZero = i
			}
		}
	}
	return lastZero
}

// BlankRange overwrites the byte range [offset, offset+length) with
// ASCII spaces, preserving any newlines within the range so line layout
// is unchanged. File size is unchanged.
func (o *CSSOutput) BlankRange(offset, length int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unmapLocked()

	buf := make([]byte, length)
	if _, err := o.file.ReadAt(buf, offset); err != nil {
		return fmt.Errorf("read range to blank: %w", err)
	}
	for i, b := range buf {
		if b != '\n' {
			buf[i] = ' '
		}
	}
	if _, err := o.file.WriteAt(buf, offset); err != nil {
		return fmt.Errorf("blank range: %w", err)
	}
	o.dirty = true
	return nil
}

// FlushNow fsyncs the file unconditionally.
func (o *CSSOutput) FlushNow() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.file.Sync(); err != nil {
		return fmt.Errorf("flush artifact: %w", err)
	}
	o.dirty = false
	return nil
}

// FlushIfDirty fsyncs only if a mutation has occurred since the last
// flush.
func (o *CSSOutput) FlushIfDirty() error {
	o.mu.Lock()
	dirty := o.dirty
	o.mu.Unlock()
	if !dirty {
		return nil
	}
	return o.FlushNow()
}

func dirOf(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "."
	}
	return path[:idx]
}
