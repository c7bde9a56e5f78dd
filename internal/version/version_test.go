package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCollectPrefersLdflags(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Collect()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Fatalf("info = %+v", info)
	}
}

func TestCollectEmptyVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = ""
	if got := Collect().Version; got != "dev" {
		t.Fatalf("version = %q", got)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	color.NoColor = true
	if got := Colored("0.1.0-dev"); got != "0.1.0-dev" {
		t.Fatalf("plain = %q", got)
	}
	color.NoColor = false
	if got := Colored("0.1.0-dev"); got == "0.1.0-dev" {
		t.Fatal("expected escape codes")
	}
	if got := Colored("nightly"); got != "nightly" {
		t.Fatalf("non-semver = %q", got)
	}
}
