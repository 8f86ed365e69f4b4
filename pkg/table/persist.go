package table

import (
	"github.com/rime/rimecore/pkg/arena"
	"github.com/rime/rimecore/pkg/spelling"
)

// persistHeaderSize is the fixed header: nodeCount, nodeTableOffset,
// syllabaryCount, syllabaryRootOffset.
const persistHeaderSize = 4 * 4

// Save flattens the trie into a node table plus per-node entry/tail
// arrays and serializes it through pkg/arena, atomically as WriteFile
// guarantees.
func (t *Table) Save(path string, dictChecksum uint32) error {
	nodes, index := flatten(t.root)

	b := arena.NewBuilder()
	b.PutBytes(make([]byte, persistHeaderSize))

	sb := arena.NewStrTableBuilder()
	for _, s := range t.syllabary {
		sb.Add(s, 0)
	}
	syllabaryRoot, syllabaryCount := sb.Build(b)

	const nodeRecordSize = 4 * 6 // entryOff,entryCount,tailOff,tailCount,childOff,childCount
	nodeTableOffset := b.Offset()
	b.PutBytes(make([]byte, nodeRecordSize*len(nodes)))

	for i, n := range nodes {
		entryOff := b.Offset()
		for _, e := range n.entries {
			writeEntry(b, e)
		}
		tailOff := b.Offset()
		for _, le := range n.tail {
			writeCode(b, le.ExtraCode)
			writeEntry(b, le.Entry)
		}
		childIDs := sortedChildren(n)
		childOff := b.Offset()
		for _, id := range childIDs {
			b.PutInt32(int32(id))
			b.PutUint32(uint32(index[n.children[id]]))
		}

		recAt := nodeTableOffset + uint32(i)*nodeRecordSize
		patchUint32(b, recAt, entryOff)
		patchUint32(b, recAt+4, uint32(len(n.entries)))
		patchUint32(b, recAt+8, tailOff)
		patchUint32(b, recAt+12, uint32(len(n.tail)))
		patchUint32(b, recAt+16, childOff)
		patchUint32(b, recAt+20, uint32(len(childIDs)))
	}

	patchUint32(b, 0, uint32(len(nodes)))
	patchUint32(b, 4, nodeTableOffset)
	patchUint32(b, 8, syllabaryCount)
	patchUint32(b, 12, syllabaryRoot)

	return arena.WriteFile(path, Magic, MinVersion, dictChecksum, b.Bytes())
}

func flatten(root *node) ([]*node, map[*node]int) {
	nodes := []*node{root}
	index := map[*node]int{root: 0}
	for i := 0; i < len(nodes); i++ {
		for _, id := range sortedChildren(nodes[i]) {
			child := nodes[i].children[id]
			if _, ok := index[child]; !ok {
				index[child] = len(nodes)
				nodes = append(nodes, child)
			}
		}
	}
	return nodes, index
}

func writeCode(b *arena.Builder, c spelling.Code) {
	b.PutUint32(uint32(len(c)))
	for _, id := range c {
		b.PutInt32(int32(id))
	}
}

func writeEntry(b *arena.Builder, e Entry) {
	b.PutString(e.Text)
	b.PutFloat64(e.Weight)
	b.PutString(e.Comment)
	b.PutString(e.CustomCode)
	writeCode(b, e.Code)
}

func patchUint32(b *arena.Builder, at, v uint32) {
	buf := b.Bytes()
	buf[at] = byte(v)
	buf[at+1] = byte(v >> 8)
	buf[at+2] = byte(v >> 16)
	buf[at+3] = byte(v >> 24)
}

// Open loads a table file written by Save, decoding the flattened node
// table back into the linked trie representation Query walks.
func Open(path string) (*Table, error) {
	a, err := arena.Open(path, Magic, MinVersion)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	nodeCount := a.Uint32(0)
	nodeTableOffset := a.Uint32(4)
	syllabaryCount := a.Uint32(8)
	syllabaryRoot := a.Uint32(12)

	st := arena.OpenStrTable(a, syllabaryRoot, syllabaryCount)
	syllabary := make([]string, syllabaryCount)
	for i := uint32(0); i < syllabaryCount; i++ {
		syllabary[i] = st.Get(i)
	}

	const nodeRecordSize = 4 * 6
	nodes := make([]*node, nodeCount)
	for i := range nodes {
		nodes[i] = newNode()
	}
	for i := uint32(0); i < nodeCount; i++ {
		recAt := nodeTableOffset + i*nodeRecordSize
		entryOff := a.Uint32(recAt)
		entryCount := a.Uint32(recAt + 4)
		tailOff := a.Uint32(recAt + 8)
		tailCount := a.Uint32(recAt + 12)
		childOff := a.Uint32(recAt + 16)
		childCount := a.Uint32(recAt + 20)

		n := nodes[i]
		off := entryOff
		for j := uint32(0); j < entryCount; j++ {
			var e Entry
			e, off = readEntry(a, off)
			n.entries = append(n.entries, e)
		}
		off = tailOff
		for j := uint32(0); j < tailCount; j++ {
			var extra spelling.Code
			extra, off = readCode(a, off)
			var e Entry
			e, off = readEntry(a, off)
			n.tail = append(n.tail, LongEntry{ExtraCode: extra, Entry: e})
		}
		for j := uint32(0); j < childCount; j++ {
			entryAt := childOff + j*8
			id := spelling.SyllableId(a.Int32(entryAt))
			childIdx := a.Uint32(entryAt + 4)
			n.children[id] = nodes[childIdx]
		}
	}

	t := &Table{
		root:         nodes[0],
		syllabary:    syllabary,
		dictChecksum: a.Checksum(),
	}
	return t, nil
}

func readCode(a *arena.Arena, off uint32) (spelling.Code, uint32) {
	n := a.Uint32(off)
	off += 4
	c := make(spelling.Code, n)
	for i := uint32(0); i < n; i++ {
		c[i] = spelling.SyllableId(a.Int32(off))
		off += 4
	}
	return c, off
}

func readEntry(a *arena.Arena, off uint32) (Entry, uint32) {
	var e Entry
	e.Text = a.String(off)
	off += 4 + a.Uint32(off)
	e.Weight = a.Float64(off)
	off += 8
	e.Comment = a.String(off)
	off += 4 + a.Uint32(off)
	e.CustomCode = a.String(off)
	off += 4 + a.Uint32(off)
	e.Code, off = readCode(a, off)
	return e, off
}

// DictChecksum returns the checksum stored when this table was saved.
func (t *Table) DictChecksum() uint32 { return t.dictChecksum }
