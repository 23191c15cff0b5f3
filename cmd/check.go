package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/templc/templc/compile"
	"github.com/templc/templc/formatter"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Parse templates and report problems without generating output",
	Run: func(cmd *cobra.Command, args []string) {
		indir := "."
		if len(args) > 0 {
			indir = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}

		engine := compile.New(cfg, logger)
		warnings, err := engine.CheckTree(context.Background(), indir)
		if err != nil {
			logger.Fatal("Check aborted", zap.Error(err))
		}
		if len(warnings) > 0 {
			fmt.Print(formatter.Format(warnings))
			os.Exit(1)
		}
	},
}
