package commands

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/dynplug/internal/app"
	"go.trai.ch/dynplug/internal/core/domain"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [root]",
		Short: "Install dynamic plugins into the plugins root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Install(cmd.Context(), installOptions(cmd, args))
		},
	}
	addInstallFlags(cmd)
	return cmd
}

// addInstallFlags declares the flags shared by install and watch. The
// environment provides the defaults, so container deployments configure a
// run without touching the command line; a flag set explicitly wins.
func addInstallFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("manifest", "m", domain.ManifestFileName, "Path to the dynamic plugins manifest")
	cmd.Flags().Bool("skip-integrity-check", envBool("SKIP_INTEGRITY_CHECK"), "Skip integrity verification of remote registry packages")
	cmd.Flags().String("catalog-index", os.Getenv("CATALOG_INDEX_IMAGE"), "Catalog index image providing the default plugins manifest")
	cmd.Flags().String("catalog-entities-dir", os.Getenv("CATALOG_ENTITIES_EXTRACT_DIR"), "Directory receiving catalog entity documents")
	cmd.Flags().StringP("output", "o", "auto", "Output mode: auto, tui, or linear")
}

func installOptions(cmd *cobra.Command, args []string) app.InstallOptions {
	root := domain.DefaultRootDirName
	if len(args) > 0 {
		root = args[0]
	}
	manifest, _ := cmd.Flags().GetString("manifest")
	skipIntegrity, _ := cmd.Flags().GetBool("skip-integrity-check")
	catalogIndex, _ := cmd.Flags().GetString("catalog-index")
	entitiesDir, _ := cmd.Flags().GetString("catalog-entities-dir")
	output, _ := cmd.Flags().GetString("output")

	return app.InstallOptions{
		Root:          root,
		Manifest:      manifest,
		SkipIntegrity: skipIntegrity,
		CatalogIndex:  catalogIndex,
		EntitiesDir:   entitiesDir,
		OutputMode:    output,
	}
}

// envBool reports whether the named environment variable holds a true value.
func envBool(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}
