package internal

import (
	"github.com/fgtools/fgbuild/internal/component"
	"github.com/fgtools/fgbuild/internal/driver"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Check out the simulator data bundle",
	Long: `Data reconciles the fgdata asset bundle into the install tree
without building anything. The bundle is large; this command exists so
it can be refreshed independently of the compiled components.`,
	Args: cobra.NoArgs,
	RunE: runData,
}

func init() {
	rootCmd.AddCommand(dataCmd)
}

func runData(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	comps, err := component.Select("fgdata")
	if err != nil {
		return err
	}
	comps = cfg.Apply(comps)
	return driver.New(cfg).Run(cmd.Context(), comps)
}
