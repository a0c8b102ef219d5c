package rules

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// BinaryDictionary reads the precompiled static rule table from a
// read-only memory mapping (spec §9's "memory-mapped dictionary"
// design note). The original's schema is flatbuffers, which is not part
// of the retrieval pack; rather than fabricate a flatbuffers dependency
// this uses a small length-prefixed binary format covering only the
// tables the resolver chain actually consults (see DESIGN.md).
type BinaryDictionary struct {
	mapped []byte
	file   *os.File

	*MapDictionary
}

var binaryMagic = [4]byte{'D', 'X', 'R', 'D'}

// OpenBinaryDictionary mmaps path read-only and decodes it into an
// in-memory MapDictionary, which serves all lookups; the mapping itself
// is held open only so the backing pages stay resident for the process
// lifetime (matching the original's "mapped once at startup" contract),
// not re-parsed on every lookup.
func OpenBinaryDictionary(path string) (*BinaryDictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat dictionary: %w", err)
	}
	if info.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("dictionary %s is empty", path)
	}
	mapped, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap dictionary: %w", err)
	}

	dict, err := decodeDictionary(mapped)
	if err != nil {
		unix.Munmap(mapped)
		f.Close()
		return nil, err
	}

	return &BinaryDictionary{mapped: mapped, file: f, MapDictionary: dict}, nil
}

// Close releases the dictionary's mapping and file descriptor.
func (b *BinaryDictionary) Close() error {
	if b.mapped != nil {
		_ = unix.Munmap(b.mapped)
		b.mapped = nil
	}
	return b.file.Close()
}

// EncodeDictionary serializes a MapDictionary into the binary format
// OpenBinaryDictionary reads, for use by a build step that produces the
// DX_STYLE_BIN artifact.
func EncodeDictionary(d *MapDictionary) []byte {
	var buf []byte
	buf = append(buf, binaryMagic[:]...)

	buf = appendStringMap(buf, d.StaticRules)
	buf = appendStringSliceMap(buf, d.Composites)
	buf = appendStringMap(buf, d.Colors)
	buf = appendAnimations(buf, d.Animations)
	buf = appendGenerators(buf, d.Generators)
	buf = appendStringMap(buf, d.Screens)
	buf = appendStringMap(buf, d.States)
	buf = appendStringMap(buf, d.Containers)
	buf = appendProperties(buf, d.Properties)

	return buf
}

func decodeDictionary(data []byte) (*MapDictionary, error) {
	if len(data) < 4 || string(data[:4]) != string(binaryMagic[:]) {
		return nil, fmt.Errorf("dictionary: bad magic")
	}
	r := &reader{buf: data, pos: 4}

	d := NewMapDictionary()
	var err error
	if d.StaticRules, err = r.stringMap(); err != nil {
		return nil, err
	}
	if d.Composites, err = r.stringSliceMap(); err != nil {
		return nil, err
	}
	if d.Colors, err = r.stringMap(); err != nil {
		return nil, err
	}
	if d.Animations, err = r.animations(); err != nil {
		return nil, err
	}
	if d.Generators, err = r.generators(); err != nil {
		return nil, err
	}
	if d.Screens, err = r.stringMap(); err != nil {
		return nil, err
	}
	if d.States, err = r.stringMap(); err != nil {
		return nil, err
	}
	if d.Containers, err = r.stringMap(); err != nil {
		return nil, err
	}
	if d.Properties, err = r.properties(); err != nil {
		return nil, err
	}
	return d, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, fmt.Errorf("dictionary: truncated uint32")
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) f64() (float64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, fmt.Errorf("dictionary: truncated float64")
	}
	bits := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

func (r *reader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.buf) {
		return "", fmt.Errorf("dictionary: truncated string")
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) stringMap() (map[string]string, error) {
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, count)
	for i := uint32(0); i < count; i++ {
		k, err := r.str()
		if err != nil {
			return nil, err
		}
		v, err := r.str()
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

func (r *reader) stringSliceMap() (map[string][]string, error) {
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	m := make(map[string][]string, count)
	for i := uint32(0); i < count; i++ {
		k, err := r.str()
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		vals := make([]string, n)
		for j := uint32(0); j < n; j++ {
			if vals[j], err = r.str(); err != nil {
				return nil, err
			}
		}
		m[k] = vals
	}
	return m, nil
}

func (r *reader) animations() (map[string]AnimationMeta, error) {
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	m := make(map[string]AnimationMeta, count)
	for i := uint32(0); i < count; i++ {
		k, err := r.str()
		if err != nil {
			return nil, err
		}
		dur, err := r.str()
		if err != nil {
			return nil, err
		}
		timing, err := r.str()
		if err != nil {
			return nil, err
		}
		keyframes, err := r.str()
		if err != nil {
			return nil, err
		}
		m[k] = AnimationMeta{Duration: dur, Timing: timing, Keyframes: keyframes}
	}
	return m, nil
}

func (r *reader) generators() ([]GeneratorMeta, error) {
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	out := make([]GeneratorMeta, count)
	for i := uint32(0); i < count; i++ {
		prefix, err := r.str()
		if err != nil {
			return nil, err
		}
		property, err := r.str()
		if err != nil {
			return nil, err
		}
		mult, err := r.f64()
		if err != nil {
			return nil, err
		}
		unit, err := r.str()
		if err != nil {
			return nil, err
		}
		out[i] = GeneratorMeta{Prefix: prefix, Property: property, Multiplier: mult, Unit: unit}
	}
	return out, nil
}

func (r *reader) properties() ([]PropertyMeta, error) {
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	out := make([]PropertyMeta, count)
	for i := uint32(0); i < count; i++ {
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		syntax, err := r.str()
		if err != nil {
			return nil, err
		}
		inheritsByte, err := r.u32()
		if err != nil {
			return nil, err
		}
		initial, err := r.str()
		if err != nil {
			return nil, err
		}
		out[i] = PropertyMeta{Name: name, Syntax: syntax, Inherits: inheritsByte != 0, Initial: initial}
	}
	return out, nil
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendF64(buf []byte, v float64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	return append(buf, tmp[:]...)
}

func appendStr(buf []byte, s string) []byte {
	buf = appendU32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendStringMap(buf []byte, m map[string]string) []byte {
	buf = appendU32(buf, uint32(len(m)))
	for k, v := range m {
		buf = appendStr(buf, k)
		buf = appendStr(buf, v)
	}
	return buf
}

func appendStringSliceMap(buf []byte, m map[string][]string) []byte {
	buf = appendU32(buf, uint32(len(m)))
	for k, vals := range m {
		buf = appendStr(buf, k)
		buf = appendU32(buf, uint32(len(vals)))
		for _, v := range vals {
			buf = appendStr(buf, v)
		}
	}
	return buf
}

func appendAnimations(buf []byte, m map[string]AnimationMeta) []byte {
	buf = appendU32(buf, uint32(len(m)))
	for k, v := range m {
		buf = appendStr(buf, k)
		buf = appendStr(buf, v.Duration)
		buf = appendStr(buf, v.Timing)
		buf = appendStr(buf, v.Keyframes)
	}
	return buf
}

func appendGenerators(buf []byte, list []GeneratorMeta) []byte {
	buf = appendU32(buf, uint32(len(list)))
	for _, g := range list {
		buf = appendStr(buf, g.Prefix)
		buf = appendStr(buf, g.Property)
		buf = appendF64(buf, g.Multiplier)
		buf = appendStr(buf, g.Unit)
	}
	return buf
}

func appendProperties(buf []byte, list []PropertyMeta) []byte {
	buf = appendU32(buf, uint32(len(list)))
	for _, p := range list {
		buf = appendStr(buf, p.Name)
		buf = appendStr(buf, p.Syntax)
		inherits := uint32(0)
		if p.Inherits {
			inherits = 1
		}
		buf = appendU32(buf, inherits)
		buf = appendStr(buf, p.Initial)
	}
	return buf
}
