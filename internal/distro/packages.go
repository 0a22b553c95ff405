package distro

import (
	"context"
	"strings"

	"github.com/fgtools/fgbuild/internal/sudo"
	"github.com/qiniu/x/log"
)

var commonPackages = fields(`
	cvs subversion cmake make build-essential automake
	fluid gawk gettext scons git-core

	libalut0 libalut-dev
	libasound2 libasound2-dev
	libboost-dev
	libboost-serialization-dev
	libfltk1.3 libfltk1.3-dev
	libglew1.5-dev
	libhal-dev
	libjasper1 libjasper-dev
	libopenal1 libopenal-dev
	libopenexr-dev
	libpng12-0 libpng12-dev
	libqt4-dev
	libsvn-dev
	libwxgtk2.8-0 libwxgtk2.8-dev
	libxft2 libxft-dev
	libxi6 libxi-dev
	libxinerama1 libxinerama-dev
	libxmu6 libxmu-dev
	python-imaging-tk
	python-tk
	zlib1g zlib1g-dev
`)

var ubuntuPackages = concat(commonPackages, fields(`
	freeglut3-dev
	libapr1-dev
	libjpeg62 libjpeg62-dev
`))

var debianPackages = concat(commonPackages, fields(`
	freeglut3-dev
	libjpeg8 libjpeg8-dev
`))

func fields(s string) []string {
	return strings.Fields(s)
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// Packages returns the package list for the release. Anything that is
// not Ubuntu is assumed to be Debian or a derivative.
func Packages(r Release) []string {
	if r.Distro == "Ubuntu" {
		return ubuntuPackages
	}
	return debianPackages
}

// InstallPackages updates the package index and installs the build
// dependencies through the privilege runner.
func InstallPackages(ctx context.Context, run *sudo.Runner, r Release) error {
	log.Infof("installing %d packages for %s", len(Packages(r)), r)
	if err := run.Run(ctx, "apt-get", "update"); err != nil {
		return err
	}
	args := append([]string{"install", "-y"}, Packages(r)...)
	return run.Run(ctx, "apt-get", args...)
}
