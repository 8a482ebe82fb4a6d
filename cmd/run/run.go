// Package run implements the "daw run" command: opens the configured
// output sink and drives the engine until interrupted.
package run

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"daw-engine/internal/conf"
	"daw-engine/internal/dropper"
	"daw-engine/internal/engine"
	"daw-engine/internal/logging"
)

// Command creates the "run" command. cfg is resolved lazily since the
// root command's PersistentPreRunE populates it after flag parsing.
func Command(cfg func() *conf.EngineConfig) *cobra.Command {
	var device string
	var dummy bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine against a real or dummy output device",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if dummy {
				c.Audio.DummyOutput = true
			}
			if device != "" {
				c.Audio.DeviceName = device
				c.Audio.DummyOutput = false
			}

			logging.Init(c)
			e := engine.Empty(c)
			if err := e.Start(); err != nil {
				return fmt.Errorf("error starting engine: %w", err)
			}
			logging.Info("engine started", "dummy", c.Audio.DummyOutput, "device", c.Audio.DeviceName)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			logging.Info("shutting down")
			if err := e.Close(); err != nil {
				return fmt.Errorf("error stopping engine: %w", err)
			}
			dropper.Default().Shutdown()
			return nil
		},
	}

	cmd.Flags().StringVar(&device, "device", "", "host output device name (empty selects the driver default)")
	cmd.Flags().BoolVar(&dummy, "dummy", false, "drive the engine with a no-device ticker sink instead of real audio output")

	return cmd
}
