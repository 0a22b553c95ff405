package internal

import (
	"github.com/fgtools/fgbuild/internal/component"
	"github.com/fgtools/fgbuild/internal/driver"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [component...]",
	Short: "Build and install the simulator stack",
	Long: `Build reconciles each component's source checkout, configures a
release build, compiles it and installs it into the shared prefix, in
dependency order. With no arguments the full stack is built, including
the data bundle; naming components restricts the run to them (order is
always the canonical one).`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	comps, err := component.Select(args...)
	if err != nil {
		return err
	}
	comps = cfg.Apply(comps)
	return driver.New(cfg).Run(cmd.Context(), comps)
}
