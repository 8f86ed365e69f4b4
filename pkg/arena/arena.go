// Package arena implements the memory-mapped, append-only binary
// envelope shared by the prism and table artifacts: a fixed magic +
// version header, a checksum, and a flat byte body addressed by
// 32-bit offsets. Builders accumulate blocks in memory and flush once;
// readers open the finished file read-only via mmap, exactly the
// zero-copy load pattern used by SteosMorphy's analyzer package, so
// any number of translators can share one opened arena.
package arena

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/rime/rimecore/internal/rerr"
)

// magicSize is the fixed width of the magic+version header field. Short
// magics are NUL-padded to this width so every arena file has the same
// header size regardless of the component's magic string length.
const magicSize = 32

// Builder accumulates blocks append-only and tracks the current write
// offset, the same discipline the teacher's binary dictionary writer
// uses (count header, then length-prefixed entries) generalized to an
// arbitrary sequence of typed blocks.
type Builder struct {
	buf bytes.Buffer
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Offset returns the position the next Put* call will write at.
func (b *Builder) Offset() uint32 { return uint32(b.buf.Len()) }

// PutUint32 appends v and returns the offset it was written at.
func (b *Builder) PutUint32(v uint32) uint32 {
	off := b.Offset()
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
	return off
}

// PutInt32 appends v as a signed 32-bit two's complement value.
func (b *Builder) PutInt32(v int32) uint32 {
	return b.PutUint32(uint32(v))
}

// PutUint64 appends v and returns the offset it was written at.
func (b *Builder) PutUint64(v uint64) uint32 {
	off := b.Offset()
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf.Write(tmp[:])
	return off
}

// PutFloat64 appends v as IEEE-754 bits and returns the offset.
func (b *Builder) PutFloat64(v float64) uint32 {
	return b.PutUint64(math.Float64bits(v))
}

// PutBytes appends raw bytes with no length prefix and returns the
// offset they start at. Callers that need the length back must record
// len(b) themselves (e.g. in a preceding count field).
func (b *Builder) PutBytes(p []byte) uint32 {
	off := b.Offset()
	b.buf.Write(p)
	return off
}

// PutBlob appends a length-prefixed byte blob (uint32 length + bytes)
// and returns the offset of the length prefix.
func (b *Builder) PutBlob(p []byte) uint32 {
	off := b.PutUint32(uint32(len(p)))
	b.buf.Write(p)
	return off
}

// PutString is PutBlob over the UTF-8 bytes of s.
func (b *Builder) PutString(s string) uint32 {
	return b.PutBlob([]byte(s))
}

// Bytes returns the accumulated body. The returned slice aliases the
// builder's internal buffer; callers must not mutate it after further
// Put* calls.
func (b *Builder) Bytes() []byte { return b.buf.Bytes() }

// WriteFile serializes magic+version header, checksum, and the
// accumulated body to path. The file is written to a temp path in the
// same directory and renamed into place, so a crash mid-write never
// leaves a partially-written artifact at path — the prior file (if any)
// is left untouched until the rename succeeds.
func WriteFile(path, magic, version string, checksum uint32, body []byte) error {
	header := formatHeader(magic, version)

	tmp, err := os.CreateTemp(dirOf(path), ".arena-*")
	if err != nil {
		return rerr.New(rerr.System, "arena.WriteFile", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(header[:]); err != nil {
		tmp.Close()
		return rerr.New(rerr.System, "arena.WriteFile", err)
	}
	var csum [4]byte
	binary.LittleEndian.PutUint32(csum[:], checksum)
	if _, err := tmp.Write(csum[:]); err != nil {
		tmp.Close()
		return rerr.New(rerr.System, "arena.WriteFile", err)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return rerr.New(rerr.System, "arena.WriteFile", err)
	}
	if err := tmp.Close(); err != nil {
		return rerr.New(rerr.System, "arena.WriteFile", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return rerr.New(rerr.System, "arena.WriteFile", err)
	}
	return nil
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "."
	}
	return path[:i]
}

func formatHeader(magic, version string) [magicSize]byte {
	var out [magicSize]byte
	s := magic + version
	copy(out[:], s)
	return out
}

// Arena is an opened, read-only memory-mapped artifact.
type Arena struct {
	m         mmap.MMap
	magic     string
	version   string
	checksum  uint32
	bodyStart uint32
}

// Open maps path read-only and validates that its magic prefix matches
// wantMagic exactly and its version is >= minVersion (compared as
// dotted major.minor numbers, per spec the minimum supported format is
// 4.0). Open fails with rerr.NoRepository if path does not exist, and
// rerr.Broken if the header is malformed or the version is too old.
func Open(path, wantMagic, minVersion string) (*Arena, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerr.New(rerr.NoRepository, "arena.Open", err)
		}
		return nil, rerr.New(rerr.System, "arena.Open", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, rerr.New(rerr.System, "arena.Open", err)
	}
	if info.Size() < magicSize+4 {
		return nil, rerr.New(rerr.Broken, "arena.Open", fmt.Errorf("file too small: %d bytes", info.Size()))
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, rerr.New(rerr.System, "arena.Open", err)
	}

	header := string(bytes.TrimRight(m[:magicSize], "\x00"))
	if !strings.HasPrefix(header, wantMagic) {
		m.Unmap()
		return nil, rerr.New(rerr.Broken, "arena.Open", fmt.Errorf("bad magic %q, want prefix %q", header, wantMagic))
	}
	version := strings.TrimPrefix(header, wantMagic)
	if compareVersions(version, minVersion) < 0 {
		m.Unmap()
		return nil, rerr.New(rerr.Broken, "arena.Open", fmt.Errorf("format version %q older than minimum %q", version, minVersion))
	}

	checksum := binary.LittleEndian.Uint32(m[magicSize : magicSize+4])

	return &Arena{
		m:         m,
		magic:     wantMagic,
		version:   version,
		checksum:  checksum,
		bodyStart: magicSize + 4,
	}, nil
}

// Close unmaps the underlying file.
func (a *Arena) Close() error {
	return a.m.Unmap()
}

// Version returns the format version string found in the header.
func (a *Arena) Version() string { return a.version }

// Checksum returns the 32-bit checksum stored in the header.
func (a *Arena) Checksum() uint32 { return a.checksum }

// Body returns the mapped bytes following the header+checksum, i.e.
// the region addressed by the offsets a component-specific reader
// (prism.Prism, table.Table) computed at build time.
func (a *Arena) Body() []byte { return a.m[a.bodyStart:] }

// Uint32 reads a little-endian uint32 at the given body offset.
func (a *Arena) Uint32(off uint32) uint32 {
	b := a.Body()
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// Int32 reads a little-endian two's complement int32 at the given body offset.
func (a *Arena) Int32(off uint32) int32 {
	return int32(a.Uint32(off))
}

// Uint64 reads a little-endian uint64 at the given body offset.
func (a *Arena) Uint64(off uint32) uint64 {
	b := a.Body()
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// Float64 reads an IEEE-754 float64 at the given body offset.
func (a *Arena) Float64(off uint32) float64 {
	return math.Float64frombits(a.Uint64(off))
}

// Bytes returns a slice of the body of the given length starting at
// off. The slice aliases the mapped memory; it must not be retained
// past Close.
func (a *Arena) Bytes(off, length uint32) []byte {
	b := a.Body()
	return b[off : off+length]
}

// Blob reads a length-prefixed blob at off (as written by
// Builder.PutBlob) and returns its bytes.
func (a *Arena) Blob(off uint32) []byte {
	n := a.Uint32(off)
	return a.Bytes(off+4, n)
}

// String reads a length-prefixed blob at off as a UTF-8 string.
func (a *Arena) String(off uint32) string {
	return string(a.Blob(off))
}

func putUint32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

func putFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

// compareVersions compares two "major.minor" dotted version strings
// numerically, returning -1, 0, or 1.
func compareVersions(a, b string) int {
	pa, pb := strings.SplitN(a, ".", 2), strings.SplitN(b, ".", 2)
	for len(pa) < 2 {
		pa = append(pa, "0")
	}
	for len(pb) < 2 {
		pb = append(pb, "0")
	}
	for i := 0; i < 2; i++ {
		na, _ := strconv.Atoi(pa[i])
		nb, _ := strconv.Atoi(pb[i])
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return 0
}
