// Package importcmd implements the "daw import" command: decodes an
// audio file and prints its stored-clip metadata.
package importcmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"daw-engine/internal/conf"
	"daw-engine/internal/engine"
)

// Command creates the "import" command.
func Command(cfg func() *conf.EngineConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Decode an audio file and print its stored-clip metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := engine.Empty(cfg())
			key, err := e.ImportClip(args[0])
			if err != nil {
				return fmt.Errorf("error importing clip: %w", err)
			}
			info, err := e.StoredClip(key)
			if err != nil {
				return fmt.Errorf("error reading stored clip metadata: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
