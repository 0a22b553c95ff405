// Package distro identifies the local Linux distribution and installs
// the native packages the simulator stack builds against.
package distro

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/fgtools/fgbuild/pkgs/gnu"
)

// Release identifies a distribution release.
type Release struct {
	Distro   string
	Release  string
	Codename string
}

func (r Release) String() string {
	return fmt.Sprintf("%s %s (%s)", r.Distro, r.Release, r.Codename)
}

// Identify probes the local distribution: lsb_release when available,
// falling back to /etc/os-release. If neither works the platform is
// unidentifiable and a hard error is returned.
func Identify(ctx context.Context) (Release, error) {
	r, lsbErr := lsbRelease(ctx)
	if lsbErr == nil {
		return r, nil
	}
	r, osErr := osReleaseFile("/etc/os-release")
	if osErr == nil {
		return r, nil
	}
	return Release{}, fmt.Errorf("cannot identify distribution: lsb_release: %v; os-release: %v", lsbErr, osErr)
}

func lsbRelease(ctx context.Context) (Release, error) {
	var r Release
	for _, probe := range []struct {
		flag string
		dst  *string
	}{
		{"-si", &r.Distro},
		{"-sr", &r.Release},
		{"-sc", &r.Codename},
	} {
		cmd := exec.CommandContext(ctx, "lsb_release", probe.flag)
		var out bytes.Buffer
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return Release{}, err
		}
		*probe.dst = strings.TrimSpace(out.String())
	}
	return r, nil
}

func osReleaseFile(path string) (Release, error) {
	f, err := os.Open(path)
	if err != nil {
		return Release{}, err
	}
	defer f.Close()
	return parseOSRelease(f)
}

// parseOSRelease reads the os-release key=value format, normalizing the
// lowercase ID field to the capitalized form lsb_release reports.
func parseOSRelease(r io.Reader) (Release, error) {
	var rel Release
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		key, val, ok := strings.Cut(line, "=")
		if !ok || strings.HasPrefix(line, "#") {
			continue
		}
		val = strings.Trim(val, `"`)
		switch key {
		case "ID":
			rel.Distro = capitalize(val)
		case "VERSION_ID":
			rel.Release = val
		case "VERSION_CODENAME":
			rel.Codename = val
		}
	}
	if err := sc.Err(); err != nil {
		return Release{}, err
	}
	if rel.Distro == "" {
		return Release{}, fmt.Errorf("os-release: missing ID field")
	}
	return rel, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// supported lists the known-good release series: distro and codename
// must match, and the release must be at least the listed one.
var supported = []Release{
	{"Debian", "7.0", "wheezy"},
}

// Supported reports whether the release is on the known-good list.
// Building on an unsupported distribution is allowed best-effort; the
// caller downgrades this to a warning.
func (r Release) Supported() bool {
	for _, s := range supported {
		if r.Distro == s.Distro && r.Codename == s.Codename &&
			gnu.Compare(r.Release, s.Release) >= 0 {
			return true
		}
	}
	return false
}
