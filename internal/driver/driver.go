// Copyright 2026 The fgbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver runs the component sequence: for each component, in
// dependency order, reconcile the source checkout, configure, compile
// and install. The first failure stops the whole run; later components
// link against earlier ones' install output, so skipping ahead is
// never meaningful.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fgtools/fgbuild/internal/component"
	"github.com/fgtools/fgbuild/internal/config"
	"github.com/fgtools/fgbuild/internal/launcher"
	"github.com/fgtools/fgbuild/internal/vcs"
	"github.com/fgtools/fgbuild/pkgs/buildsys"
	"github.com/fgtools/fgbuild/pkgs/buildsys/autotools"
	"github.com/fgtools/fgbuild/pkgs/buildsys/cmake"
	"github.com/qiniu/x/log"
)

type Driver struct {
	cfg   *config.Config
	tools map[vcs.Kind]vcs.Tool

	// newBuild is replaceable in tests.
	newBuild func(c component.Component) buildsys.BuildSystem
}

func New(cfg *config.Config) *Driver {
	return &Driver{
		cfg: cfg,
		tools: map[vcs.Kind]vcs.Tool{
			vcs.Git:        vcs.NewGit(),
			vcs.Subversion: vcs.NewSubversion(),
		},
		newBuild: newBuildSystem,
	}
}

// newBuildSystem creates the component's build helper with the release
// profile fixed: optimization flags are not caller-configurable.
func newBuildSystem(c component.Component) buildsys.BuildSystem {
	switch c.Build {
	case component.BuildCMake:
		m := cmake.New()
		m.BuildType("Release")
		m.Define("CMAKE_CXX_FLAGS", "-O3 -D__STDC_CONSTANT_MACROS")
		m.Define("CMAKE_C_FLAGS", "-O3")
		return m
	case component.BuildAutotools:
		return autotools.New()
	}
	return nil
}

// Run builds the components strictly in order, stopping at the first
// failure.
func (d *Driver) Run(ctx context.Context, comps []component.Component) error {
	for _, c := range comps {
		if err := d.buildOne(ctx, c); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	return nil
}

// checkoutDir places buildable sources under the build root and data
// bundles inside the install tree, next to the binaries that load them.
func (d *Driver) checkoutDir(c component.Component) string {
	if c.Build == component.BuildNone {
		return filepath.Join(d.cfg.InstallRoot, c.Name)
	}
	return c.SourceDir(d.cfg.BuildRoot)
}

func (d *Driver) buildOne(ctx context.Context, c component.Component) error {
	log.Infof("Building %s", c.Name)

	tool, ok := d.tools[c.VCS]
	if !ok {
		return fmt.Errorf("no tool for %s", c.VCS)
	}
	src := d.checkoutDir(c)
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		return err
	}
	stable := d.cfg.Stable
	if err := vcs.Reconcile(ctx, tool, c.Source(stable), c.Revision(stable), src, d.cfg.Update); err != nil {
		return err
	}
	if c.Build == component.BuildNone {
		return nil
	}

	bld := c.BuildDir(d.cfg.BuildRoot)
	if err := os.MkdirAll(bld, 0o755); err != nil {
		return err
	}

	bs := d.newBuild(c)
	bs.Source(src)
	bs.BuildDir(bld)
	bs.InstallDir(d.cfg.InstallRoot)
	bs.UsePrefix(d.cfg.InstallRoot)

	if d.cfg.Reconfigure {
		log.Debugf("%s: configuring", c.Name)
		if err := bs.Configure(c.ConfigureArgs...); err != nil {
			return fmt.Errorf("configure: %w", err)
		}
	}
	log.Infof("%s: running build", c.Name)
	if err := bs.Build(d.cfg.MakeFlags...); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	log.Infof("%s: installing", c.Name)
	if err := bs.Install(); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	return d.postInstall(c)
}

func (d *Driver) postInstall(c component.Component) error {
	switch c.Name {
	case "osg":
		return ensureLibDir(d.cfg.InstallRoot)
	case "flightgear":
		dataDir := filepath.Join(d.cfg.InstallRoot, "fgdata")
		return launcher.WriteScripts(d.cfg.InstallRoot, c.SourceDir(d.cfg.BuildRoot), dataDir)
	}
	return nil
}

// ensureLibDir symlinks lib to lib64 when the install step produced
// only the latter, so a single library search path covers 64-bit
// layouts.
func ensureLibDir(installRoot string) error {
	libDir := filepath.Join(installRoot, "lib")
	lib64Dir := filepath.Join(installRoot, "lib64")
	if _, err := os.Stat(libDir); err == nil {
		return nil
	}
	if _, err := os.Stat(lib64Dir); err != nil {
		return nil
	}
	log.Debugf("symlinking %s -> %s", libDir, lib64Dir)
	return os.Symlink(lib64Dir, libDir)
}
