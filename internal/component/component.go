// Copyright 2026 The fgbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package component declares the upstream components of the simulator
// stack and their on-disk layout. The order of Defaults is the build
// order: every component links against the install output of the ones
// before it.
package component

import (
	"fmt"
	"path/filepath"

	"github.com/fgtools/fgbuild/internal/vcs"
)

// BuildKind selects the native build system of a component.
type BuildKind int

const (
	// BuildNone marks data-only components that are checked out but
	// never configured or compiled.
	BuildNone BuildKind = iota
	BuildCMake
	BuildAutotools
)

// Component describes one upstream component: where its source lives,
// which revisions are considered stable and unstable, and how it is
// built. Descriptors are immutable for the duration of a run.
type Component struct {
	Name string
	VCS  vcs.Kind

	// Repo is the upstream location. UnstableRepo, when set, replaces
	// Repo in unstable mode (used where upstream publishes stability
	// lines as separate URLs rather than refs).
	Repo         string
	UnstableRepo string

	// StableRev is a fixed, tested reference (tag or pinned revision);
	// UnstableRev is a moving integration reference. Empty means the
	// newest content on the default branch.
	StableRev   string
	UnstableRev string

	Build         BuildKind
	ConfigureArgs []string
}

// Source returns the upstream location for the selected stability.
func (c Component) Source(stable bool) string {
	if !stable && c.UnstableRepo != "" {
		return c.UnstableRepo
	}
	return c.Repo
}

// Revision returns the revision specifier for the selected stability.
func (c Component) Revision(stable bool) string {
	if stable {
		return c.StableRev
	}
	return c.UnstableRev
}

// SourceDir returns the checkout path under the build root.
func (c Component) SourceDir(buildRoot string) string {
	return filepath.Join(buildRoot, "src", c.Name)
}

// BuildDir returns the out-of-tree build path under the build root.
func (c Component) BuildDir(buildRoot string) string {
	return filepath.Join(buildRoot, "build", c.Name)
}

// Defaults returns the component set in dependency order.
func Defaults() []Component {
	return []Component{
		{
			Name:      "plib",
			VCS:       vcs.Subversion,
			Repo:      "http://plib.svn.sourceforge.net/svnroot/plib/trunk",
			StableRev: "2172",
			Build:     BuildAutotools,
			ConfigureArgs: []string{
				"--disable-pw",
				"--disable-sl",
				"--disable-psl",
				"--disable-ssg",
				"--disable-ssgaux",
			},
		},
		{
			Name:         "osg",
			VCS:          vcs.Subversion,
			Repo:         "http://svn.openscenegraph.org/osg/OpenSceneGraph/tags/OpenSceneGraph-3.1.1/",
			UnstableRepo: "http://svn.openscenegraph.org/osg/OpenSceneGraph/tags/OpenSceneGraph-3.1.7/",
			Build:        BuildCMake,
		},
		{
			Name:        "openrti",
			VCS:         vcs.Git,
			Repo:        "git://gitorious.org/openrti/openrti.git",
			StableRev:   "OpenRTI-0.3.0",
			UnstableRev: "master",
			Build:       BuildCMake,
		},
		{
			Name:        "simgear",
			VCS:         vcs.Git,
			Repo:        "git://gitorious.org/fg/simgear.git",
			StableRev:   "version/2.10.0-final",
			UnstableRev: "remotes/origin/next",
			Build:       BuildCMake,
		},
		{
			Name:        "flightgear",
			VCS:         vcs.Git,
			Repo:        "git://gitorious.org/fg/flightgear.git",
			StableRev:   "version/2.10.0-final",
			UnstableRev: "remotes/origin/next",
			Build:       BuildCMake,
		},
		{
			Name:        "fgdata",
			VCS:         vcs.Git,
			Repo:        "git://gitorious.org/fg/fgdata.git",
			StableRev:   "version/2.10.0-final",
			UnstableRev: "master",
			Build:       BuildNone,
		},
	}
}

// Select returns the named components in canonical build order. With no
// names, the full set is returned.
func Select(names ...string) ([]Component, error) {
	all := Defaults()
	if len(names) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Component
	for _, c := range all {
		if want[c.Name] {
			out = append(out, c)
			delete(want, c.Name)
		}
	}
	for n := range want {
		return nil, fmt.Errorf("unknown component: %s", n)
	}
	return out, nil
}
