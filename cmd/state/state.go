// Package state implements the "daw state" command: builds an engine
// from zero or more clip imports and prints its snapshot as JSON, for
// inspecting the shape of EngineState. This is not a load-bearing
// persistence format — see internal/engine's state.go.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"daw-engine/internal/conf"
	"daw-engine/internal/engine"
)

// Command creates the "state" command.
func Command(cfg func() *conf.EngineConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "state [clip...]",
		Short: "Print an engine snapshot as JSON for inspection",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := engine.Empty(cfg())
			for _, path := range args {
				if _, err := e.ImportClip(path); err != nil {
					return fmt.Errorf("error importing clip %q: %w", path, err)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(e.State())
		},
	}
}
