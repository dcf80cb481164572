package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestResolve(t *testing.T) {
	recorded := &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Main:      debug.Module{Path: "github.com/matzehuels/sysdesign", Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "9b1c0e7f2a"},
			{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
		},
	}
	tests := []struct {
		name  string
		stamp [3]string
		bi    *debug.BuildInfo
		want  Info
	}{
		{
			name:  "unstamped without build info",
			stamp: [3]string{"dev", "none", "unknown"},
			want:  Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name:  "unstamped falls back to recorded",
			stamp: [3]string{"dev", "none", "unknown"},
			bi:    recorded,
			want:  Info{Version: "v0.4.1", Commit: "9b1c0e7f2a", Date: "2026-09-30T12:00:00Z", GoVersion: "go1.24.0"},
		},
		{
			name:  "stamped wins",
			stamp: [3]string{"v1.0.0", "3f2a9c1d5e", "2026-10-01T08:00:00Z"},
			bi:    recorded,
			want:  Info{Version: "v1.0.0", Commit: "3f2a9c1d5e", Date: "2026-10-01T08:00:00Z", GoVersion: "go1.24.0"},
		},
		{
			name:  "devel module version ignored",
			stamp: [3]string{"dev", "none", "unknown"},
			bi:    &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want:  Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, tt.stamp[0], tt.stamp[1], tt.stamp[2])
			if got := resolve(tt.bi); got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v1.2.0", Commit: "3f2a9c1d5e8b"}, "v1.2.0 (3f2a9c1)"},
		{Info{Version: "dev", Commit: "none"}, "dev (none)"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	stamp(t, "v1.0.0", "3f2a9c1d5e", "2026-10-01T08:00:00Z")
	got := Template()
	for _, want := range []string{"{{.Name}} v1.0.0\n", "commit: 3f2a9c1d5e\n", "built: 2026-10-01T08:00:00Z\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
}
