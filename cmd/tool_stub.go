package cmd

import (
	"context"

	"github.com/gnodet/mvx/pkg/mvx"
	"github.com/gnodet/mvx/pkg/tools"
	"github.com/spf13/cobra"
)

// toolStubCmd implements `mvx tool-stub <file> [args...]` (§6.2): executing a
// standalone TOML file that names a tool and binary to resolve, install if
// missing, and run in its place.
var toolStubCmd = &cobra.Command{
	Use:                "tool-stub FILE [args...]",
	Short:              "[experimental] Execute a tool-stub file",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := tools.NewManager()
		if err != nil {
			return err
		}
		registry := mvx.DefaultRegistry(manager)
		return mvx.RunStub(context.Background(), registry, args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(toolStubCmd)
}
