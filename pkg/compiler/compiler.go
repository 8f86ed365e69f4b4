package compiler

import (
	"bytes"
	"hash/crc32"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/rime/rimecore/internal/rerr"
	"github.com/rime/rimecore/internal/rlog"
	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
	"github.com/rime/rimecore/pkg/table"
)

// Artifacts is the result of a successful Compile: the discovered
// syllabary and the built table and prism, keyed by the source
// checksum that must match on load.
type Artifacts struct {
	Syllabary []string
	Table     *table.Table
	Prism     *prism.Prism
	Checksum  uint32
}

// Compile reads sourcePath, discovers its syllabary as the union of
// every row's code tokens (ids assigned by sort order), builds the
// vocabulary tree, and builds the prism over the syllabary strings.
func Compile(sourcePath string, logger *log.Logger) (*Artifacts, error) {
	if logger == nil {
		logger = rlog.Nop()
	}

	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, rerr.New(rerr.NoRepository, "compiler.Compile", err)
	}
	checksum := crc32.ChecksumIEEE(raw)

	src, err := ParseSource(bytes.NewReader(raw))
	if err != nil {
		return nil, rerr.New(rerr.Broken, "compiler.Compile", err)
	}

	syllabary := discoverSyllabary(src.Rows)
	idOf := make(map[string]spelling.SyllableId, len(syllabary))
	for i, s := range syllabary {
		idOf[s] = spelling.SyllableId(i)
	}

	vocab := make([]table.VocabEntry, 0, len(src.Rows))
	for _, row := range src.Rows {
		code := make(spelling.Code, len(row.Code))
		for i, tok := range row.Code {
			code[i] = idOf[tok]
		}
		vocab = append(vocab, table.VocabEntry{
			Code:  code,
			Entry: table.Entry{Text: row.Text, Weight: row.Weight, Code: code},
		})
	}

	entries := make([]prism.SpellingEntry, len(syllabary))
	for i, s := range syllabary {
		entries[i] = prism.SpellingEntry{
			Key:   s,
			Id:    spelling.SyllableId(i),
			Props: spelling.Properties{Type: spelling.Normal},
		}
	}
	p, err := prism.Build(entries)
	if err != nil {
		return nil, rerr.New(rerr.Logic, "compiler.Compile", err)
	}

	t := table.Build(syllabary, vocab)

	logger.Debugf("compiled %d rows over %d syllables from %s", len(src.Rows), len(syllabary), sourcePath)

	return &Artifacts{Syllabary: syllabary, Table: t, Prism: p, Checksum: checksum}, nil
}

// discoverSyllabary collects the union of every row's code tokens into a
// scratch patricia.Trie, the same scaffold structure the dictionary
// builder uses to dedupe keys before they're handed to a denser
// structure (here, the double-array prism). Ids are assigned by a
// final explicit sort rather than trie traversal order, since syllable
// ids must stay stable across rebuilds and that invariant shouldn't
// depend on go-patricia's internal child ordering.
func discoverSyllabary(rows []Row) []string {
	scaffold := patricia.NewTrie()
	for _, row := range rows {
		for _, tok := range row.Code {
			scaffold.Insert(patricia.Prefix(tok), struct{}{})
		}
	}
	syllabary := make([]string, 0, len(rows))
	scaffold.Visit(func(prefix patricia.Prefix, _ patricia.Item) error {
		syllabary = append(syllabary, string(prefix))
		return nil
	})
	sort.Strings(syllabary)
	return syllabary
}

// Save persists both artifacts. Each file is written to a temp path
// and renamed into place on success, so a failed write never leaves a
// partially written artifact at the final path.
func (a *Artifacts) Save(tablePath, prismPath string) error {
	if err := saveAtomic(tablePath, func(p string) error { return a.Table.Save(p, a.Checksum) }); err != nil {
		return rerr.New(rerr.System, "compiler.Save", err)
	}
	if err := saveAtomic(prismPath, func(p string) error { return a.Prism.Save(p, a.Checksum, 0) }); err != nil {
		return rerr.New(rerr.System, "compiler.Save", err)
	}
	return nil
}

func saveAtomic(path string, write func(string) error) error {
	tmp := path + ".tmp"
	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
