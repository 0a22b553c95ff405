// Package launcher writes the executable stubs that start the
// installed simulator. Each stub execs its target (replacing the shell
// process) and forwards caller arguments unchanged, apart from the
// injected data-root flag on the simulator stub.
package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/qiniu/x/log"
	"golang.org/x/sys/unix"
)

type params struct {
	InstallRoot string
	DataDir     string
	SourceDir   string
}

var scripts = map[string]*template.Template{
	"run_fgfs.sh": tmpl(`#!/bin/sh
export LD_LIBRARY_PATH={{.InstallRoot}}/lib:{{.InstallRoot}}/lib64${LD_LIBRARY_PATH:+:$LD_LIBRARY_PATH}
exec {{.InstallRoot}}/bin/fgfs --fg-root={{.DataDir}} "$@"
`),
	"run_fgfs_debug.sh": tmpl(`#!/bin/sh
export LD_LIBRARY_PATH={{.InstallRoot}}/lib:{{.InstallRoot}}/lib64${LD_LIBRARY_PATH:+:$LD_LIBRARY_PATH}
exec gdb --directory={{.SourceDir}} --args {{.InstallRoot}}/bin/fgfs --fg-root={{.DataDir}} "$@"
`),
	"run_terrasync.sh": tmpl(`#!/bin/sh
export LD_LIBRARY_PATH={{.InstallRoot}}/lib:{{.InstallRoot}}/lib64${LD_LIBRARY_PATH:+:$LD_LIBRARY_PATH}
exec {{.InstallRoot}}/bin/terrasync "$@"
`),
}

func tmpl(s string) *template.Template {
	return template.Must(template.New("launcher").Parse(s))
}

// WriteScripts generates the three launcher stubs in installRoot.
// sourceDir is the simulator source checkout, registered with the
// debugger stub for symbol resolution; dataDir is the asset bundle.
func WriteScripts(installRoot, sourceDir, dataDir string) error {
	p := params{
		InstallRoot: installRoot,
		DataDir:     dataDir,
		SourceDir:   sourceDir,
	}
	for name, t := range scripts {
		path := filepath.Join(installRoot, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := t.Execute(f, p); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := unix.Access(path, unix.X_OK); err != nil {
			return fmt.Errorf("%s is not executable: %w", path, err)
		}
		log.Infof("wrote launcher %s", path)
	}
	return nil
}
