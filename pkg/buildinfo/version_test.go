package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestResolveLdflags(t *testing.T) {
	origV, origC, origD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = origV, origC, origD })
	Version, Commit, Date = "v1.2.3", "abc123", "2024-02-01T00:00:00Z"
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}}, true)

	got := Resolve()
	want := Info{Version: "v1.2.3", Commit: "abc123", Date: "2024-02-01T00:00:00Z"}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveFallback(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2024-03-01T10:00:00Z"},
		},
	}, true)

	got := Resolve()
	if got.Version != "v0.4.0" || got.Commit != "deadbeef" || got.Date != "2024-03-01T10:00:00Z" {
		t.Errorf("Resolve() = %+v", got)
	}
}

func TestResolveDevel(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
	if got := Resolve().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
	stubBuildInfo(t, nil, false)
	if got := Resolve().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestTemplate(t *testing.T) {
	stubBuildInfo(t, nil, false)
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version dev") {
		t.Errorf("Template() = %q", tmpl)
	}
	if !strings.Contains(String(), "commit: none") {
		t.Errorf("String() = %q", String())
	}
}
