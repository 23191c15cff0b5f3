package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/templc/templc/compile"
)

var (
	cfgFile string
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "templc",
	Short: "templc - compile HTML template files into Go source",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			logger = zap.NewNop()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(checkCmd)
}

// loadConfig reads the configured file, falling back to defaults when no
// file exists and none was requested explicitly.
func loadConfig() (compile.Config, error) {
	path := cfgFile
	explicit := path != ""
	if !explicit {
		path = compile.DefaultConfigFile
	}
	cfg, err := compile.LoadConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return compile.Default(), nil
		}
		return cfg, err
	}
	return cfg, nil
}
