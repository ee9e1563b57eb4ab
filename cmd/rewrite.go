package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/repat"
	"github.com/gnolang/repat/formatter"
	"github.com/gnolang/repat/internal/fixer"
	tt "github.com/gnolang/repat/internal/types"
)

var (
	ignoreRules         string
	jsonOutput          bool
	outPath             string
	writeFiles          bool
	dryRun              bool
	confidenceThreshold float64
	atPosition          string
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [paths...]",
	Short: "Suggest structural pattern rewrites for guard fragments",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		runner, err := repat.New(cfgFile, repat.WithLogger(logger))
		if err != nil {
			logger.Fatal("Failed to initialize rewrite engine", zap.Error(err))
		}

		if ignoreRules != "" {
			rules := strings.Split(ignoreRules, ",")
			for _, rule := range rules {
				runner.IgnoreRule(strings.TrimSpace(rule))
			}
		}

		runRewriteProcess(ctx, logger, runner, args)
	},
}

func init() {
	rewriteCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rewrite rules to ignore")
	rewriteCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output suggestions in JSON format")
	rewriteCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	rewriteCmd.Flags().BoolVar(&writeFiles, "write", false, "Apply the suggested rewrites in place")
	rewriteCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the rewrites that --write would apply")
	rewriteCmd.Flags().Float64Var(&confidenceThreshold, "confidence", 0.75, "Confidence threshold for applying rewrites (0.0 to 1.0)")
	rewriteCmd.Flags().StringVar(&atPosition, "at", "", "Only rewrite the fragment at line:col (requires a single file)")
}

func runRewriteProcess(ctx context.Context, logger *zap.Logger, runner *repat.Runner, paths []string) {
	var suggestions []tt.Suggestion
	var err error

	if atPosition != "" {
		suggestions, err = runAtPosition(runner, paths)
	} else {
		suggestions, err = runner.ProcessFiles(ctx, paths)
	}
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	if writeFiles || dryRun {
		applySuggestions(logger, suggestions)
		return
	}

	printSuggestions(logger, suggestions)

	if len(suggestions) > 0 {
		os.Exit(1)
	}
}

func runAtPosition(runner *repat.Runner, paths []string) ([]tt.Suggestion, error) {
	if len(paths) != 1 {
		return nil, fmt.Errorf("--at requires exactly one file path")
	}
	line, col, err := parsePosition(atPosition)
	if err != nil {
		return nil, err
	}
	return runner.Engine().RunAt(paths[0], line, col)
}

// parsePosition splits a 1-based "line:col" cursor position.
func parsePosition(pos string) (line, col int, err error) {
	lineStr, colStr, ok := strings.Cut(pos, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid position %q, want line:col", pos)
	}
	line, err = strconv.Atoi(lineStr)
	if err == nil {
		col, err = strconv.Atoi(colStr)
	}
	if err != nil || line < 1 || col < 1 {
		return 0, 0, fmt.Errorf("invalid position %q, want line:col", pos)
	}
	return line, col, nil
}

func applySuggestions(logger *zap.Logger, suggestions []tt.Suggestion) {
	fix := fixer.New(dryRun, confidenceThreshold)

	suggestionsByFile := repat.GroupByFile(suggestions)
	sortedFiles := make([]string, 0, len(suggestionsByFile))
	for filename := range suggestionsByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		if err := fix.Fix(filename, suggestionsByFile[filename]); err != nil {
			logger.Error("Error applying rewrites", zap.String("file", filename), zap.Error(err))
		}
	}
}

func printSuggestions(logger *zap.Logger, suggestions []tt.Suggestion) {
	suggestionsByFile := repat.GroupByFile(suggestions)

	sortedFiles := make([]string, 0, len(suggestionsByFile))
	for filename := range suggestionsByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if !jsonOutput {
		for _, filename := range sortedFiles {
			fileSuggestions := suggestionsByFile[filename]
			snippet, err := formatter.ReadSourceCode(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
				continue
			}
			output := formatter.GenerateFormattedSuggestion(fileSuggestions, snippet)
			fmt.Println(output)
		}
		return
	}

	d, err := json.Marshal(suggestionsByFile)
	if err != nil {
		logger.Error("Error marshalling suggestions to JSON", zap.Error(err))
		return
	}
	if outPath == "" {
		fmt.Println(string(d))
		return
	}
	if err := os.WriteFile(outPath, d, 0o644); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
	}
}
