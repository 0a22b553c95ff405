package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fgtools/fgbuild/internal/sudo"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func resetFlags() {
	cfgFile = ""
	buildRoot = ""
	installRoot = ""
	makeOpts = ""
	sudoMethod = ""
	logLevel = ""
	unstable = false
	noUpdate = false
	noReconfigure = false
}

func TestLoadConfigFlagsOverrideDefaults(t *testing.T) {
	resetFlags()
	defer resetFlags()

	tmp := t.TempDir()
	buildRoot = filepath.Join(tmp, "build")
	installRoot = filepath.Join(tmp, "install")
	makeOpts = "-j4 V=1"
	sudoMethod = "none"
	unstable = true
	noUpdate = true

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BuildRoot != filepath.Join(tmp, "build") {
		t.Errorf("BuildRoot = %q", cfg.BuildRoot)
	}
	if len(cfg.MakeFlags) != 2 || cfg.MakeFlags[0] != "-j4" || cfg.MakeFlags[1] != "V=1" {
		t.Errorf("MakeFlags = %v", cfg.MakeFlags)
	}
	if cfg.SudoMethod != sudo.MethodNone {
		t.Errorf("SudoMethod = %q", cfg.SudoMethod)
	}
	if cfg.Stable {
		t.Error("Stable should be false with --unstable")
	}
	if cfg.Update {
		t.Error("Update should be false with --no-update")
	}
	if !cfg.Reconfigure {
		t.Error("Reconfigure should keep its default")
	}
}

func TestLoadConfigRequiresRoots(t *testing.T) {
	resetFlags()
	defer resetFlags()

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected an error without build and install roots")
	}
}

func TestLoadConfigFileThenFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "fgbuild.yaml")
	writeFile(t, path, `
build_root: `+filepath.Join(tmp, "from-file")+`
install_root: `+filepath.Join(tmp, "install")+`
log_level: debug
`)
	cfgFile = path
	buildRoot = filepath.Join(tmp, "from-flag")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BuildRoot != filepath.Join(tmp, "from-flag") {
		t.Errorf("flag should win over file, got %q", cfg.BuildRoot)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}
