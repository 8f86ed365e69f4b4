// Package compiler reads a plain-text dictionary source (optional YAML
// header plus tab-separated rows), discovers its syllabary, and builds
// the prism and table artifacts the query engine opens at runtime.
package compiler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Header is the optional YAML document a source file may open with,
// delimited by a leading "---" and a trailing "...".
type Header struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Sort    string `yaml:"sort"`
}

// Row is one parsed vocabulary line: text, its code as whitespace-split
// syllable tokens, and an optional weight (defaulting to 0 when absent).
type Row struct {
	Text   string
	Code   []string
	Weight float64
}

// Source is a fully parsed text dictionary: its header (zero value if
// absent) and rows in file order.
type Source struct {
	Header Header
	Rows   []Row
}

// ParseSource reads a text source per spec: an optional YAML header
// terminated by a line "...", then tab-separated rows
// "text<TAB>code[<TAB>weight]". Blank lines and lines starting with
// "#" are ignored.
func ParseSource(r io.Reader) (*Source, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	src := &Source{}

	line, ok := nextLine(sc)
	if ok && strings.TrimSpace(line) == "---" {
		var headerLines []string
		for {
			line, ok = nextRawLine(sc)
			if !ok {
				return nil, fmt.Errorf("compiler: unterminated YAML header")
			}
			if strings.TrimSpace(line) == "..." {
				break
			}
			headerLines = append(headerLines, line)
		}
		if err := yaml.Unmarshal([]byte(strings.Join(headerLines, "\n")), &src.Header); err != nil {
			return nil, fmt.Errorf("compiler: parsing YAML header: %w", err)
		}
		line, ok = nextLine(sc)
	}

	for ok {
		row, parseErr := parseRow(line)
		if parseErr != nil {
			return nil, parseErr
		}
		if row != nil {
			src.Rows = append(src.Rows, *row)
		}
		line, ok = nextLine(sc)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("compiler: reading source: %w", err)
	}
	return src, nil
}

// nextLine returns the next non-blank, non-comment line.
func nextLine(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return line, true
	}
	return "", false
}

// nextRawLine returns the next line verbatim, including blank ones,
// for use inside the YAML header block.
func nextRawLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return sc.Text(), true
}

func parseRow(line string) (*Row, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return nil, fmt.Errorf("compiler: malformed row %q: need at least text and code", line)
	}
	row := &Row{
		Text: fields[0],
		Code: strings.Fields(fields[1]),
	}
	if len(fields) >= 3 && strings.TrimSpace(fields[2]) != "" {
		w, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("compiler: malformed weight in row %q: %w", line, err)
		}
		row.Weight = w
	}
	return row, nil
}
