package parse

import (
	"fmt"
	"os"
	"strings"

	"github.com/gnolang/repat/internal/ir"
)

// Fragment is one parsed fragment line of a document. Node spans are byte
// offsets into Source.
type Fragment struct {
	Line   int // 1-based line number
	Source string
	Node   ir.Node
}

// Error records a parse failure on one line. The remaining lines of the
// document are unaffected.
type Error struct {
	Line int
	Msg  string
}

func (e Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Document is a parsed fragment file.
type Document struct {
	Filename  string
	Fragments []Fragment
	Errors    []Error
}

// ParseSource parses fragment source, one fragment per line. Blank lines
// and comment-only lines are skipped; malformed lines are collected as
// Errors without stopping the rest of the document.
func ParseSource(filename string, src []byte) *Document {
	doc := &Document{Filename: filename}
	for i, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		// Parse the untrimmed line so node spans line up with file columns.
		node, err := ParseFragment(line)
		if err != nil {
			doc.Errors = append(doc.Errors, Error{Line: i + 1, Msg: err.Error()})
			continue
		}
		doc.Fragments = append(doc.Fragments, Fragment{Line: i + 1, Source: line, Node: node})
	}
	return doc
}

// ParseFile reads and parses a fragment file.
func ParseFile(filename string) (*Document, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return ParseSource(filename, src), nil
}
