package fixer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gnolang/repat/internal/parse"
	tt "github.com/gnolang/repat/internal/types"
)

type Fixer struct {
	DryRun        bool
	Force         bool    // apply suggestions below the confidence threshold
	MinConfidence float64 // threshold for applying suggestions
}

func New(dryRun bool, threshold float64) *Fixer {
	return &Fixer{
		DryRun:        dryRun,
		MinConfidence: threshold,
	}
}

// Fix splices suggested rewrites over their original spans in filename.
// Hunks apply bottom to top so earlier spans stay valid, and the result
// is re-parsed before anything is written back.
func (f *Fixer) Fix(filename string, suggs []tt.Suggestion) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	sort.Slice(suggs, func(i, j int) bool {
		if suggs[i].End.Line != suggs[j].End.Line {
			return suggs[i].End.Line > suggs[j].End.Line
		}
		return suggs[i].End.Column > suggs[j].End.Column
	})

	lines := strings.Split(string(content), "\n")
	fixedLines := make(map[int]bool)

	for _, sugg := range suggs {
		if !f.Force && sugg.Confidence < f.MinConfidence {
			continue
		}

		if f.DryRun {
			fmt.Printf("Would rewrite %s at line %d: %s\n", filename, sugg.Start.Line, sugg.Message)
			fmt.Printf("Suggestion:\n%s\n", sugg.Suggested)
			continue
		}

		ln := sugg.Start.Line - 1
		if ln < 0 || ln >= len(lines) || sugg.End.Line != sugg.Start.Line {
			continue
		}
		line := lines[ln]
		start := sugg.Start.Column - 1
		end := sugg.End.Column - 1
		if start < 0 || end > len(line) || start >= end {
			continue
		}
		// The file may have changed since the suggestion was produced.
		if sugg.Original != "" && line[start:end] != sugg.Original {
			continue
		}

		lines[ln] = line[:start] + sugg.Suggested + line[end:]
		fixedLines[sugg.Start.Line] = true
	}

	if f.DryRun || len(fixedLines) == 0 {
		return nil
	}

	newContent := strings.Join(lines, "\n")

	doc := parse.ParseSource(filename, []byte(newContent))
	for _, perr := range doc.Errors {
		if fixedLines[perr.Line] {
			return fmt.Errorf("fix produced an unparsable fragment: %s", perr)
		}
	}

	if err := os.WriteFile(filename, []byte(newContent), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Printf("Fixed %d suggestions in %s\n", len(fixedLines), filename)
	return nil
}
