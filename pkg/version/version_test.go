package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tests mutate package globals and do not run in parallel.

func reset(t *testing.T) {
	t.Helper()

	v, c, d := Version, Commit, Date
	Version, Commit, Date = "dev", "none", "unknown"

	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestApply_FillsDefaultsFromBuildInfo(t *testing.T) {
	reset(t)

	apply(&debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	assert.Equal(t, "v1.2.3", Version)
	assert.Equal(t, "abc123", Commit)
	assert.Equal(t, "2026-01-02T03:04:05Z", Date)
	assert.Equal(t, "v1.2.3 (commit: abc123, built: 2026-01-02T03:04:05Z)", String())
}

func TestApply_DevelBuild_KeepsDev(t *testing.T) {
	reset(t)

	apply(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	assert.Equal(t, "dev", Version)
	assert.Equal(t, "none", Commit)
}

func TestApply_LinkerValues_NotOverridden(t *testing.T) {
	reset(t)

	Version, Commit = "v9.0.0", "deadbeef"

	apply(&debug.BuildInfo{
		Main:     debug.Module{Version: "v1.0.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}},
	})

	assert.Equal(t, "v9.0.0", Version)
	assert.Equal(t, "deadbeef", Commit)
}
