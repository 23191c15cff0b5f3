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

var (
	outDir   string
	pkgName  string
	modPath  string
	jobs     int
	progress bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [dir]",
	Short: "Compile a template directory into a mirrored tree of Go packages",
	Run: func(cmd *cobra.Command, args []string) {
		indir := "."
		if len(args) > 0 {
			indir = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		if pkgName != "" {
			cfg.Package = pkgName
		}
		if modPath != "" {
			cfg.Module = modPath
		}
		if jobs > 0 {
			cfg.Workers = jobs
		}
		if progress {
			cfg.Progress = true
		}

		engine := compile.New(cfg, logger)
		warnings, err := engine.CompileTree(context.Background(), indir, outDir)
		if err != nil {
			logger.Fatal("Compilation aborted", zap.Error(err))
		}
		if len(warnings) > 0 {
			fmt.Print(formatter.Format(warnings))
			fmt.Fprintf(os.Stderr, "%d template(s) skipped\n", len(warnings))
		}
	},
}

func init() {
	compileCmd.Flags().StringVarP(&outDir, "output", "o", "templates", "Output directory for generated source")
	compileCmd.Flags().StringVar(&pkgName, "package", "", "Package name of the root output directory")
	compileCmd.Flags().StringVar(&modPath, "module", "", "Import path of the root output package")
	compileCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Parallel file compilations (default NumCPU)")
	compileCmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar")
}
