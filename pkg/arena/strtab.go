package arena

// StrTableBuilder accumulates (string, weight) pairs and assigns each a
// 32-bit id in strict insertion order, so building is deterministic:
// the same sequence of Add calls always yields the same ids regardless
// of string content or weight.
type StrTableBuilder struct {
	strings []string
	weights []float64
}

// NewStrTableBuilder returns an empty string table builder.
func NewStrTableBuilder() *StrTableBuilder {
	return &StrTableBuilder{}
}

// Add assigns s the next sequential id and records weight alongside it.
// Repeated calls with the same string get distinct ids — callers that
// want interning dedup themselves before calling Add.
func (b *StrTableBuilder) Add(s string, weight float64) uint32 {
	id := uint32(len(b.strings))
	b.strings = append(b.strings, s)
	b.weights = append(b.weights, weight)
	return id
}

// Len returns the number of strings added so far.
func (b *StrTableBuilder) Len() int { return len(b.strings) }

// Get returns the string previously assigned id, for builders that need
// to read back what they wrote.
func (b *StrTableBuilder) Get(id uint32) string { return b.strings[id] }

// Build serializes the accumulated pairs into ab as a flat array of
// (string-blob-offset, weight) records plus the string blobs
// themselves, and returns the offset of the array's first element.
// The public contract this supports is add(string,weight)->id at build
// time and get(id)->string at read time; the encoding itself (a flat
// record array rather than any hashing scheme) is not part of the
// contract.
func (b *StrTableBuilder) Build(ab *Builder) (rootOffset uint32, count uint32) {
	n := len(b.strings)
	recordOffsets := make([]uint32, n)
	// Records are fixed 12 bytes (4-byte blob offset + 8-byte weight)
	// reserved up front so each string blob can be written immediately
	// after without a second pass.
	arrayStart := ab.Offset()
	for i := 0; i < n; i++ {
		recordOffsets[i] = arrayStart + uint32(i*12)
	}
	ab.PutBytes(make([]byte, n*12))
	for i := 0; i < n; i++ {
		blobOff := ab.PutString(b.strings[i])
		patchUint32(ab, recordOffsets[i], blobOff)
		patchFloat64(ab, recordOffsets[i]+4, b.weights[i])
	}
	return arrayStart, uint32(n)
}

func patchUint32(ab *Builder, at, v uint32) {
	buf := ab.Bytes()
	putUint32(buf[at:at+4], v)
}

func patchFloat64(ab *Builder, at uint32, v float64) {
	buf := ab.Bytes()
	putFloat64(buf[at:at+8], v)
}

// StrTable is a read-only view over a string table serialized by
// StrTableBuilder.Build, anchored at rootOffset within a. count is the
// number of strings.
type StrTable struct {
	a          *Arena
	rootOffset uint32
	count      uint32
}

// OpenStrTable wraps an opened Arena's string table region.
func OpenStrTable(a *Arena, rootOffset, count uint32) *StrTable {
	return &StrTable{a: a, rootOffset: rootOffset, count: count}
}

// Len returns the number of strings in the table.
func (t *StrTable) Len() uint32 { return t.count }

// Get returns the string stored at id.
func (t *StrTable) Get(id uint32) string {
	recordOff := t.rootOffset + id*12
	blobOff := t.a.Uint32(recordOff)
	return t.a.String(blobOff)
}

// Weight returns the weight stored alongside id.
func (t *StrTable) Weight(id uint32) float64 {
	recordOff := t.rootOffset + id*12
	return t.a.Float64(recordOff + 4)
}
