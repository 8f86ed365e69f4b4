package prism

import "github.com/rime/rimecore/pkg/spelling"

// endCode is the reserved transition code meaning "end of key", the
// double-array analogue of a NUL terminator.
const endCode int32 = 0

// daBuilder grows a double-array trie by inserting keys one at a time,
// relocating a node's children on base/check collisions. This is the
// classic incremental double-array construction (Aoe-style), traded
// for simplicity over the bit-packed density of a production
// implementation: build-time relocation scans are linear in the
// current array size, acceptable since compiling a dictionary is an
// offline operation, not a query-path one.
type daBuilder struct {
	base  []int32
	check []int32

	alphabet map[byte]int32 // byte -> code, codes start at 1 (0 is endCode)
	nextCode int32

	terminal map[int32]spelling.SyllableId
}

func newDABuilder() *daBuilder {
	return &daBuilder{
		base:     []int32{0, 0}, // index 0 unused, index 1 is root
		check:    []int32{-1, -1},
		alphabet: make(map[byte]int32),
		nextCode: 1,
		terminal: make(map[int32]spelling.SyllableId),
	}
}

const root int32 = 1

func (d *daBuilder) ensureSize(n int) {
	for len(d.base) <= n {
		d.base = append(d.base, 0)
		d.check = append(d.check, 0)
	}
}

func (d *daBuilder) codeOf(b byte) int32 {
	if c, ok := d.alphabet[b]; ok {
		return c
	}
	c := d.nextCode
	d.nextCode++
	d.alphabet[b] = c
	return c
}

// Insert adds key mapped to id. Keys must be inserted in sorted order
// for the resulting trie's CommonPrefixSearch/ExpandSearch traversal
// order to match spec — the builder itself does not sort.
func (d *daBuilder) Insert(key string, id spelling.SyllableId) {
	node := root
	for i := 0; i < len(key); i++ {
		code := d.codeOf(key[i])
		node = d.transition(node, code)
	}
	end := d.transition(node, endCode)
	d.terminal[end] = id
}

func (d *daBuilder) transition(node, code int32) int32 {
	if d.base[node] == 0 {
		d.base[node] = d.findBase([]int32{code})
	}
	target := d.base[node] + code
	d.ensureSize(int(target))
	if d.check[target] == 0 {
		d.check[target] = node
		return target
	}
	if d.check[target] == node {
		return target
	}
	d.relocate(node)
	target = d.base[node] + code
	d.ensureSize(int(target))
	d.check[target] = node
	return target
}

// relocate moves node's existing children to a fresh base so the
// colliding transition can be placed at node's current base.
func (d *daBuilder) relocate(node int32) {
	type child struct {
		code   int32
		target int32
	}
	var children []child
	for x := int32(0); x < int32(len(d.check)); x++ {
		if d.check[x] == node {
			children = append(children, child{code: x - d.base[node], target: x})
		}
	}
	codes := make([]int32, len(children))
	for i, c := range children {
		codes[i] = c.code
	}
	newBase := d.findBase(codes)
	for _, c := range children {
		newTarget := newBase + c.code
		d.ensureSize(int(newTarget))
		d.base[newTarget] = d.base[c.target]
		d.check[newTarget] = node
		if id, ok := d.terminal[c.target]; ok {
			d.terminal[newTarget] = id
			delete(d.terminal, c.target)
		}
		// Re-home c.target's own children (grandchildren of node) to
		// point at the relocated node.
		for x := int32(0); x < int32(len(d.check)); x++ {
			if d.check[x] == c.target {
				d.check[x] = newTarget
			}
		}
		d.base[c.target] = 0
		d.check[c.target] = 0
	}
	d.base[node] = newBase
}

// findBase returns the smallest s >= 1 such that s+code is free for
// every code in codes.
func (d *daBuilder) findBase(codes []int32) int32 {
	for s := int32(1); ; s++ {
		ok := true
		for _, c := range codes {
			t := s + c
			if int(t) < len(d.check) && d.check[t] != 0 {
				ok = false
				break
			}
		}
		if ok {
			max := s
			for _, c := range codes {
				if s+c > max {
					max = s + c
				}
			}
			d.ensureSize(int(max))
			return s
		}
	}
}
