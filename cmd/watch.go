package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/repat"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch fragment files and re-run the rewriter on change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 1 {
			fmt.Println("error: watch takes at most one path")
			os.Exit(1)
		}
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		runner, err := repat.New(cfgFile, repat.WithLogger(logger))
		if err != nil {
			logger.Fatal("Failed to initialize rewrite engine", zap.Error(err))
		}

		if err := runner.Watch(cmd.Context(), root); err != nil {
			logger.Fatal("Watch failed", zap.Error(err))
		}
	},
}
