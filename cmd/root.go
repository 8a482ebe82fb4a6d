// root.go viper root command code
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"daw-engine/cmd/importcmd"
	"daw-engine/cmd/run"
	"daw-engine/cmd/state"
	"daw-engine/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "daw",
		Short: "Realtime audio mixing and timeline playback engine",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file overriding the embedded defaults")
	rootCmd.PersistentFlags().Bool("debug", false, "panic when an output callback asks for more frames than the maximum window")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		fmt.Printf("error binding debug flag: %v\n", err)
	}

	var cfg *conf.EngineConfig
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := conf.Load(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		loaded.Debug = loaded.Debug || viper.GetBool("debug")
		cfg = loaded
		return nil
	}

	runCmd := run.Command(func() *conf.EngineConfig { return cfg })
	importCmd := importcmd.Command(func() *conf.EngineConfig { return cfg })
	stateCmd := state.Command(func() *conf.EngineConfig { return cfg })

	rootCmd.AddCommand(runCmd, importCmd, stateCmd)

	return rootCmd
}
