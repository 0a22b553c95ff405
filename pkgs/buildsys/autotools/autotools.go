package autotools

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/fgtools/fgbuild/pkgs/buildsys"
	"github.com/qiniu/x/log"
)

// AutoTools wraps common Autotools build steps: autogen where the
// upstream tree ships no configure script, out-of-tree configure with a
// shared prefix, then make and make install.
type AutoTools struct {
	SourceDir  string
	buildDir   string
	installDir string
	env        map[string]string
}

var _ buildsys.BuildSystem = (*AutoTools)(nil)

// New creates a new AutoTools helper.
func New() *AutoTools {
	return &AutoTools{env: map[string]string{}}
}

func (a *AutoTools) Source(dir string) {
	a.SourceDir = dir
}

func (a *AutoTools) BuildDir(dir string) {
	a.buildDir = dir
}

func (a *AutoTools) InstallDir(dir string) {
	a.installDir = dir
}

func (a *AutoTools) Env(key, value string) {
	if a.env == nil {
		a.env = map[string]string{}
	}
	a.env[key] = value
	_ = os.Setenv(key, value)
}

// UsePrefix makes an installed prefix visible to configure and compile.
func (a *AutoTools) UsePrefix(dir string) {
	usePrefix(dir)
}

// Configure runs the source tree's configure script out-of-tree,
// generating it with autogen.sh first if upstream does not ship one.
func (a *AutoTools) Configure(args ...string) error {
	buildDir := a.buildDir
	if buildDir == "" {
		buildDir = "."
	}
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return err
	}

	script := filepath.Join(a.SourceDir, "configure")
	if _, err := os.Stat(script); os.IsNotExist(err) {
		log.Debugf("%s: no configure script, running autogen.sh", a.SourceDir)
		if err := run("./autogen.sh", nil, a.env, a.SourceDir); err != nil {
			return err
		}
	}

	configArgs := []string{}
	if a.installDir != "" {
		configArgs = append(configArgs,
			"--prefix="+a.installDir,
			"--exec-prefix="+a.installDir)
	}
	configArgs = append(configArgs, args...)

	return run(script, configArgs, a.env, buildDir)
}

// Build runs make in the build directory.
func (a *AutoTools) Build(args ...string) error {
	buildDir := a.buildDir
	if buildDir == "" {
		buildDir = "."
	}
	return run("make", args, a.env, buildDir)
}

// Install runs make install in the build directory.
func (a *AutoTools) Install(args ...string) error {
	buildDir := a.buildDir
	if buildDir == "" {
		buildDir = "."
	}
	cmdArgs := append([]string{"install"}, args...)
	return run("make", cmdArgs, a.env, buildDir)
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (a *AutoTools) OutputDir() string {
	if a.installDir != "" {
		return a.installDir
	}
	return a.buildDir
}

func run(bin string, args []string, env map[string]string, dir string) error {
	log.Debugf("run: %s %s", bin, strings.Join(args, " "))
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if dir != "" {
		cmd.Dir = dir
	}
	if len(env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), env)
	}
	return cmd.Run()
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}

// usePrefix points the build environment at an installed prefix.
func usePrefix(prefix string) {
	includeDir := filepath.Join(prefix, "include")
	libDir := filepath.Join(prefix, "lib")
	pkgconfigDir := filepath.Join(prefix, "lib", "pkgconfig")

	if _, err := os.Stat(pkgconfigDir); err == nil {
		prependEnv("PKG_CONFIG_PATH", pkgconfigDir)
	}
	if _, err := os.Stat(includeDir); err == nil {
		appendFlag("CPPFLAGS", "-I"+includeDir)
	}
	if _, err := os.Stat(libDir); err == nil {
		appendFlag("LDFLAGS", "-L"+libDir)
	}
}

// prependEnv prepends a value to an environment variable using the appropriate separator.
func prependEnv(key, value string) {
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	current := os.Getenv(key)
	if current == "" {
		os.Setenv(key, value)
	} else {
		os.Setenv(key, value+sep+current)
	}
}

// appendFlag appends a flag to an environment variable (space-separated).
func appendFlag(key, flag string) {
	current := os.Getenv(key)
	if current == "" {
		os.Setenv(key, flag)
	} else {
		os.Setenv(key, strings.TrimSpace(current+" "+flag))
	}
}
