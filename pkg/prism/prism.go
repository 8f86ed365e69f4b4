// Package prism implements the double-array trie mapping input-byte
// prefixes to syllable ids, with spelling metadata (type, credibility)
// attached per syllable to support spelling algebra where several
// spellings resolve to the same id.
package prism

import (
	"sort"

	"github.com/rime/rimecore/pkg/arena"
	"github.com/rime/rimecore/pkg/spelling"
)

// Magic and MinVersion are the on-disk envelope constants for prism
// files, matching spec.md's "magic prefix includes format version".
const (
	Magic      = "Rime::Prism/"
	MinVersion = "4.0"
)

// headerSize is the fixed byte size of the prism header record written
// immediately after the generic arena envelope (magic+version+checksum).
const headerSize = 4 * 9

// Match is one hit from CommonPrefixSearch or ExpandSearch.
type Match struct {
	Value  spelling.SyllableId
	Length int
}

// SpellingEntry is one (input string, syllable id, properties) triple
// fed to Build. Several entries may share an Id — that is exactly the
// spelling algebra the prism exists to support.
type SpellingEntry struct {
	Key   string
	Id    spelling.SyllableId
	Props spelling.Properties
}

// Prism is a read-only, opened double-array trie plus its attached
// spelling metadata.
type Prism struct {
	base     []int32
	check    []int32
	alphabet map[byte]int32

	terminal  map[int32]spelling.SyllableId
	spellings map[spelling.SyllableId][]spelling.Properties

	dictChecksum   uint32
	schemaChecksum uint32
}

// Build compiles entries into a Prism held in memory (not yet
// persisted — call Save to write it out). Entries are sorted by Key
// internally so CommonPrefixSearch's result order is deterministic
// regardless of input order.
func Build(entries []SpellingEntry) (*Prism, error) {
	sorted := make([]SpellingEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	d := newDABuilder()
	spellings := make(map[spelling.SyllableId][]spelling.Properties)
	for _, e := range sorted {
		d.Insert(e.Key, e.Id)
		spellings[e.Id] = append(spellings[e.Id], e.Props)
	}

	return &Prism{
		base:      d.base,
		check:     d.check,
		alphabet:  d.alphabet,
		terminal:  d.terminal,
		spellings: spellings,
	}, nil
}

func (p *Prism) walk(key string) (int32, bool) {
	node := root
	for i := 0; i < len(key); i++ {
		code, ok := p.alphabet[key[i]]
		if !ok {
			return 0, false
		}
		target := p.base[node] + code
		if target < 0 || int(target) >= len(p.check) || p.check[target] != node {
			return 0, false
		}
		node = target
	}
	return node, true
}

func (p *Prism) terminalAt(node int32) (spelling.SyllableId, bool) {
	end := p.base[node] + endCode
	if end < 0 || int(end) >= len(p.check) || p.check[end] != node {
		return 0, false
	}
	id, ok := p.terminal[end]
	return id, ok
}

// Root returns the root node state, the starting point for Step.
func (p *Prism) Root() int32 { return root }

// Step attempts the transition from node on byte b, reporting whether
// the trie has that edge. Exposed so pkg/corrector can drive its own
// BFS over the compacted trie without duplicating its layout.
func (p *Prism) Step(node int32, b byte) (int32, bool) {
	code, ok := p.alphabet[b]
	if !ok {
		return 0, false
	}
	target := p.base[node] + code
	if target < 0 || int(target) >= len(p.check) || p.check[target] != node {
		return 0, false
	}
	return target, true
}

// TerminalAt reports the syllable id terminating at node, if any.
func (p *Prism) TerminalAt(node int32) (spelling.SyllableId, bool) {
	return p.terminalAt(node)
}

// GetValue looks up key for an exact match.
func (p *Prism) GetValue(key string) (spelling.SyllableId, bool) {
	node, ok := p.walk(key)
	if !ok {
		return 0, false
	}
	return p.terminalAt(node)
}

// CommonPrefixSearch returns every terminal prefix of key, in
// ascending length order.
func (p *Prism) CommonPrefixSearch(key string) []Match {
	var out []Match
	node := root
	for i := 0; i < len(key); i++ {
		code, ok := p.alphabet[key[i]]
		if !ok {
			break
		}
		target := p.base[node] + code
		if target < 0 || int(target) >= len(p.check) || p.check[target] != node {
			break
		}
		node = target
		if id, ok := p.terminalAt(node); ok {
			out = append(out, Match{Value: id, Length: i + 1})
		}
	}
	return out
}

// ExpandSearch returns every terminal whose key begins with prefix, up
// to limit matches, in the order a depth-first walk of the remaining
// trie discovers them. As with CommonPrefixSearch, each Match.Length is
// the full key length.
func (p *Prism) ExpandSearch(prefix string, limit int) []Match {
	node, ok := p.walk(prefix)
	if !ok {
		return nil
	}
	var out []Match
	p.expandFrom(node, len(prefix), &out, limit)
	return out
}

func (p *Prism) expandFrom(node int32, depth int, out *[]Match, limit int) {
	if len(*out) >= limit {
		return
	}
	if id, ok := p.terminalAt(node); ok && depth > 0 {
		*out = append(*out, Match{Value: id, Length: depth})
	}
	base := p.base[node]
	if base == 0 {
		return
	}
	for code := int32(1); code < p.nextAllocatedCode(); code++ {
		if len(*out) >= limit {
			return
		}
		target := base + code
		if target < 0 || int(target) >= len(p.check) || p.check[target] != node {
			continue
		}
		p.expandFrom(target, depth+1, out, limit)
	}
}

func (p *Prism) nextAllocatedCode() int32 {
	max := int32(1)
	for _, c := range p.alphabet {
		if c >= max {
			max = c + 1
		}
	}
	return max
}

// QuerySpelling returns the spelling properties attached to a syllable id.
func (p *Prism) QuerySpelling(id spelling.SyllableId) []spelling.Properties {
	return p.spellings[id]
}

// DictChecksum returns the checksum of the text source this prism was
// compiled from, as stored in the header.
func (p *Prism) DictChecksum() uint32 { return p.dictChecksum }

// SchemaChecksum returns the schema checksum stored in the header.
func (p *Prism) SchemaChecksum() uint32 { return p.schemaChecksum }

// Save persists the prism to path with the given checksums. It fails
// atomically: a write error leaves any previous file at path intact
// (see arena.WriteFile).
func (p *Prism) Save(path string, dictChecksum, schemaChecksum uint32) error {
	b := arena.NewBuilder()
	b.PutBytes(make([]byte, headerSize)) // reserved, patched below

	arrayLen := uint32(len(p.base))
	baseOff := b.Offset()
	for _, v := range p.base {
		b.PutInt32(v)
	}
	checkOff := b.Offset()
	for _, v := range p.check {
		b.PutInt32(v)
	}

	alphabetOff := b.Offset()
	var alphabetTable [256]int32
	for byt, code := range p.alphabet {
		alphabetTable[byt] = code
	}
	for _, code := range alphabetTable {
		b.PutInt32(code)
	}

	terminalNodes := make([]int32, 0, len(p.terminal))
	for node := range p.terminal {
		terminalNodes = append(terminalNodes, node)
	}
	sort.Slice(terminalNodes, func(i, j int) bool { return terminalNodes[i] < terminalNodes[j] })
	terminalOff := b.Offset()
	for _, node := range terminalNodes {
		b.PutInt32(node)
		b.PutInt32(int32(p.terminal[node]))
	}
	terminalCount := uint32(len(terminalNodes))

	maxID := int32(-1)
	for id := range p.spellings {
		if int32(id) > maxID {
			maxID = int32(id)
		}
	}

	spellingIndexOff := b.Offset()
	const indexEntrySize = 8
	// Reserve the index (count, arrayOffset) pairs; fill arrayOffset in
	// a second pass once each syllable's properties have been written.
	b.PutBytes(make([]byte, int(maxID+1)*indexEntrySize))
	for id := int32(0); id <= maxID; id++ {
		props := p.spellings[spelling.SyllableId(id)]
		arrOff := b.Offset()
		for _, pr := range props {
			writeProperties(b, pr)
		}
		entryAt := spellingIndexOff + uint32(id)*indexEntrySize
		patchUint32(b, entryAt, uint32(len(props)))
		patchUint32(b, entryAt+4, arrOff)
	}

	patchUint32(b, 0, arrayLen)
	patchUint32(b, 4, baseOff)
	patchUint32(b, 8, checkOff)
	patchUint32(b, 12, alphabetOff)
	patchUint32(b, 16, terminalOff)
	patchUint32(b, 20, terminalCount)
	patchUint32(b, 24, spellingIndexOff)
	patchUint32(b, 28, uint32(int32(maxID)))
	patchUint32(b, 32, schemaChecksum)

	return arena.WriteFile(path, Magic, MinVersion, dictChecksum, b.Bytes())
}

func writeProperties(b *arena.Builder, p spelling.Properties) {
	b.PutInt32(int32(p.Type))
	b.PutUint32(p.EndPos)
	b.PutFloat64(p.Credibility)
	b.PutString(p.Tips)
	if p.IsCorrection {
		b.PutInt32(1)
	} else {
		b.PutInt32(0)
	}
}

func patchUint32(b *arena.Builder, at, v uint32) {
	buf := b.Bytes()
	buf[at] = byte(v)
	buf[at+1] = byte(v >> 8)
	buf[at+2] = byte(v >> 16)
	buf[at+3] = byte(v >> 24)
}

// Open loads a prism file written by Save, decoding its arrays into
// native slices in one pass. The initial file read goes through the
// arena's memory-mapped region; subsequent queries operate on the
// decoded Go slices rather than re-touching the mapping per lookup.
func Open(path string) (*Prism, error) {
	a, err := arena.Open(path, Magic, MinVersion)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	arrayLen := a.Uint32(0)
	baseOff := a.Uint32(4)
	checkOff := a.Uint32(8)
	alphabetOff := a.Uint32(12)
	terminalOff := a.Uint32(16)
	terminalCount := a.Uint32(20)
	spellingIndexOff := a.Uint32(24)
	maxID := int32(a.Uint32(28))
	schemaChecksum := a.Uint32(32)

	p := &Prism{
		base:           make([]int32, arrayLen),
		check:          make([]int32, arrayLen),
		alphabet:       make(map[byte]int32),
		terminal:       make(map[int32]spelling.SyllableId),
		spellings:      make(map[spelling.SyllableId][]spelling.Properties),
		dictChecksum:   a.Checksum(),
		schemaChecksum: schemaChecksum,
	}
	for i := uint32(0); i < arrayLen; i++ {
		p.base[i] = a.Int32(baseOff + i*4)
		p.check[i] = a.Int32(checkOff + i*4)
	}
	for byt := 0; byt < 256; byt++ {
		code := a.Int32(alphabetOff + uint32(byt)*4)
		if code != 0 {
			p.alphabet[byte(byt)] = code
		}
	}
	for i := uint32(0); i < terminalCount; i++ {
		entryOff := terminalOff + i*8
		node := a.Int32(entryOff)
		id := spelling.SyllableId(a.Int32(entryOff + 4))
		p.terminal[node] = id
	}
	for id := int32(0); id <= maxID; id++ {
		entryAt := spellingIndexOff + uint32(id)*8
		count := a.Uint32(entryAt)
		arrOff := a.Uint32(entryAt + 4)
		if count == 0 {
			continue
		}
		props := make([]spelling.Properties, count)
		off := arrOff
		for i := uint32(0); i < count; i++ {
			props[i], off = readProperties(a, off)
		}
		p.spellings[spelling.SyllableId(id)] = props
	}
	return p, nil
}

func readProperties(a *arena.Arena, off uint32) (spelling.Properties, uint32) {
	var pr spelling.Properties
	pr.Type = spelling.Type(a.Int32(off))
	off += 4
	pr.EndPos = a.Uint32(off)
	off += 4
	pr.Credibility = a.Float64(off)
	off += 8
	tipsLen := a.Uint32(off)
	pr.Tips = a.String(off)
	off += 4 + tipsLen
	pr.IsCorrection = a.Int32(off) != 0
	off += 4
	return pr, off
}
