package internal

import (
	"github.com/fgtools/fgbuild/internal/distro"
	"github.com/fgtools/fgbuild/internal/sudo"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Install build dependencies with the system package manager",
	Args:  cobra.NoArgs,
	RunE:  runPackages,
}

func init() {
	rootCmd.AddCommand(packagesCmd)
}

func runPackages(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rel, err := distro.Identify(cmd.Context())
	if err != nil {
		return err
	}
	log.Debugf("Release: %s", rel)
	if !rel.Supported() {
		log.Warn("Your distribution is not supported!")
	}

	runner, err := sudo.New(cfg.SudoMethod)
	if err != nil {
		return err
	}
	return distro.InstallPackages(cmd.Context(), runner, rel)
}
