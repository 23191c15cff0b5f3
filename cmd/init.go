package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/templc/templc/compile"
)

// initCmd: templc init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new compiler configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			path = compile.DefaultConfigFile
		}
		if err := compile.WriteConfig(path); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Printf("Configuration file created/updated: %s\n", path)
	},
}
