package internal

import (
	"github.com/fgtools/fgbuild/internal/config"
	"github.com/fgtools/fgbuild/internal/sudo"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	buildRoot     string
	installRoot   string
	makeOpts      string
	sudoMethod    string
	logLevel      string
	unstable      bool
	noUpdate      bool
	noReconfigure bool
)

var rootCmd = &cobra.Command{
	Use:   "fgbuild",
	Short: "fgbuild builds the FlightGear simulator stack from source",
	Long: `fgbuild fetches, configures, compiles and installs the FlightGear
simulator and its upstream libraries (plib, OpenSceneGraph, OpenRTI,
SimGear) into a shared install prefix, in dependency order.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml)")
	pf.StringVar(&buildRoot, "build-dir", "", "build root directory")
	pf.StringVar(&installRoot, "install-dir", "", "shared install prefix")
	pf.StringVar(&makeOpts, "makeopts", "", "extra flags passed to the compile step (space separated)")
	pf.StringVar(&sudoMethod, "sudo-method", "", "privilege escalation method (auto, sudo, su, ssh, none)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn)")
	pf.BoolVar(&unstable, "unstable", false, "track moving integration branches instead of pinned revisions")
	pf.BoolVar(&noUpdate, "no-update", false, "keep existing valid checkouts exactly as-is")
	pf.BoolVar(&noReconfigure, "no-reconfigure", false, "skip the configure step")
}

// loadConfig builds the run configuration: defaults, then the optional
// config file, then flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if buildRoot != "" {
		cfg.BuildRoot = buildRoot
	}
	if installRoot != "" {
		cfg.InstallRoot = installRoot
	}
	if makeOpts != "" {
		cfg.MakeFlags = config.ParseMakeFlags(makeOpts)
	}
	if sudoMethod != "" {
		cfg.SudoMethod = sudo.Method(sudoMethod)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if unstable {
		cfg.Stable = false
	}
	if noUpdate {
		cfg.Update = false
	}
	if noReconfigure {
		cfg.Reconfigure = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setLogLevel(cfg.LogLevel)
	return cfg, nil
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetOutputLevel(log.Ldebug)
	case "warn":
		log.SetOutputLevel(log.Lwarn)
	default:
		log.SetOutputLevel(log.Linfo)
	}
}
