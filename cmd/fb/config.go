package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matsen/figbatch/internal/config"
)

var configFile string

func init() {
	configCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default fb.yaml, or $FB_CONFIG)")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage run configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path(configFile)
		if _, err := os.Stat(path); err == nil {
			exitWithError(ExitConfigError, "config file already exists: %s", path)
		}

		if err := config.Default().Save(path); err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			fmt.Printf("Wrote default config to %s\n", path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "created", Path: path})
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.Path(configFile), configFile == "")
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		if humanOutput {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				exitWithError(ExitError, "%v", err)
			}
			fmt.Print(string(data))
			return nil
		}
		return outputJSON(cfg)
	},
}
