package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/repat"
	"github.com/gnolang/repat/formatter"
	"github.com/gnolang/repat/internal/parse"
	"github.com/gnolang/repat/internal/synth"
	"github.com/gnolang/repat/internal/verify"
	"github.com/gnolang/repat/scanner"
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Verify that suggested rewrites preserve behavior",
	Long: `Synthesizes the rewrite for every rewritable fragment and compares both
sides over sampled receiver shapes. Exits non-zero when any rewrite is not
equivalent or any fragment fails to parse.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		config, err := repat.LoadConfig(cfgFile)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		oracle, err := config.Oracle()
		if err != nil {
			logger.Fatal("Failed to build semantic oracle", zap.Error(err))
		}

		synthesizer := synth.New(oracle)
		verifier := verify.New()

		failed := false
		for _, path := range args {
			ok, err := checkPath(synthesizer, verifier, path)
			if err != nil {
				logger.Error("Error checking path", zap.String("path", path), zap.Error(err))
				failed = true
				continue
			}
			if !ok {
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
	},
}

func checkPath(s *synth.Synthesizer, v *verify.Verifier, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	files := []string{path}
	if info.IsDir() {
		scanned, err := scanner.New(path).Scan()
		if err != nil {
			return false, err
		}
		files = files[:0]
		for _, f := range scanned {
			files = append(files, f.Path)
		}
	}

	ok := true
	for _, file := range files {
		if !checkFile(s, v, file) {
			ok = false
		}
	}
	return ok, nil
}

// checkFile verifies every rewritable fragment in one file. It reports
// false when a fragment fails to parse or a rewrite is not equivalent.
func checkFile(s *synth.Synthesizer, v *verify.Verifier, filename string) bool {
	doc, err := parse.ParseFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		return false
	}

	ok := true
	for _, perr := range doc.Errors {
		fmt.Fprintf(os.Stderr, "%s: %s\n", filename, perr)
		ok = false
	}

	for _, frag := range doc.Fragments {
		rw, found := s.TryBuildRewrite(frag.Node, synth.Anchor(frag.Node))
		if !found {
			continue
		}

		result := rw.Result
		if rw.Hints&synth.HintSimplify != 0 {
			result = formatter.Simplify(result)
		}
		original := formatter.Render(rw.Fragment)
		suggested := formatter.Render(result)

		report := v.Check(rw)
		switch report.Result {
		case verify.Equivalent:
			fmt.Printf("%s:%d: equivalent: %s => %s\n", filename, frag.Line, original, suggested)
		case verify.NotEquivalent:
			fmt.Printf("%s:%d: NOT equivalent: %s => %s\n", filename, frag.Line, original, suggested)
			if report.Detail != "" {
				fmt.Printf("  counterexample: %s\n", report.Detail)
			}
			ok = false
		default:
			fmt.Printf("%s:%d: unknown: %s (%s)\n", filename, frag.Line, original, report.Reason)
		}
	}
	return ok
}
