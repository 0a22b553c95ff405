package distro

import (
	"strings"
	"testing"
)

func TestParseOSRelease(t *testing.T) {
	input := `PRETTY_NAME="Debian GNU/Linux 7 (wheezy)"
NAME="Debian GNU/Linux"
VERSION_ID="7.1"
VERSION="7.1 (wheezy)"
VERSION_CODENAME=wheezy
ID=debian
HOME_URL="https://www.debian.org/"
`
	r, err := parseOSRelease(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOSRelease failed: %v", err)
	}
	want := Release{Distro: "Debian", Release: "7.1", Codename: "wheezy"}
	if r != want {
		t.Errorf("parseOSRelease = %+v, want %+v", r, want)
	}
}

func TestParseOSReleaseMissingCodename(t *testing.T) {
	r, err := parseOSRelease(strings.NewReader("ID=ubuntu\nVERSION_ID=\"12.04\"\n"))
	if err != nil {
		t.Fatalf("parseOSRelease failed: %v", err)
	}
	if r.Distro != "Ubuntu" || r.Release != "12.04" || r.Codename != "" {
		t.Errorf("parseOSRelease = %+v", r)
	}
}

func TestParseOSReleaseMissingID(t *testing.T) {
	if _, err := parseOSRelease(strings.NewReader("VERSION_ID=7.1\n")); err == nil {
		t.Error("expected error when ID is missing")
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		r    Release
		want bool
	}{
		{Release{"Debian", "7.0", "wheezy"}, true},
		{Release{"Debian", "7.1", "wheezy"}, true},
		{Release{"Debian", "7.10", "wheezy"}, true},
		{Release{"Debian", "6.0", "squeeze"}, false},
		{Release{"Ubuntu", "12.04", "precise"}, false},
		{Release{"Fedora", "18", ""}, false},
	}
	for _, tt := range tests {
		if got := tt.r.Supported(); got != tt.want {
			t.Errorf("%v Supported() = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestPackagesSelection(t *testing.T) {
	ubuntu := Packages(Release{Distro: "Ubuntu"})
	debian := Packages(Release{Distro: "Debian"})

	if !contains(ubuntu, "libjpeg62-dev") {
		t.Error("ubuntu list missing libjpeg62-dev")
	}
	if !contains(debian, "libjpeg8-dev") {
		t.Error("debian list missing libjpeg8-dev")
	}
	for _, common := range []string{"cmake", "subversion", "git-core", "libopenal-dev"} {
		if !contains(ubuntu, common) || !contains(debian, common) {
			t.Errorf("common package %s missing from a list", common)
		}
	}
	// Unknown distros fall back to the Debian list.
	if got := Packages(Release{Distro: "Mint"}); !contains(got, "libjpeg8-dev") {
		t.Error("non-Ubuntu distro should use the Debian list")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
