package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dynplug/internal/app"
	"go.trai.ch/dynplug/internal/core/domain"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [root]",
		Short: "Remove installed dynamic plugins and generated files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := domain.DefaultRootDirName
			if len(args) > 0 {
				root = args[0]
			}
			return c.app.Clean(cmd.Context(), app.CleanOptions{Root: root})
		},
	}
}
