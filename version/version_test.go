package version_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/commentspec/version"
)

func TestInfoString(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		info version.Info
		want string
	}{
		"minimal": {
			info: version.Info{
				Version:   "v1.2.0",
				Revision:  "abc123",
				GoVersion: "go1.25.0",
				Platform:  "linux/amd64",
			},
			want: "commentspec v1.2.0 (revision abc123, go1.25.0 linux/amd64)",
		},
		"full": {
			info: version.Info{
				Version:   "v1.2.0",
				Revision:  "abc123-dirty",
				Branch:    "main",
				BuildUser: "ci",
				BuildDate: "2026-01-02",
				GoVersion: "go1.25.0",
				Platform:  "darwin/arm64",
			},
			want: "commentspec v1.2.0 (revision abc123-dirty, branch main, built 2026-01-02 by ci, go1.25.0 darwin/arm64)",
		},
		"date without user": {
			info: version.Info{
				Version:   "devel",
				Revision:  "unknown",
				BuildDate: "2026-01-02",
				GoVersion: "go1.25.0",
				Platform:  "linux/arm64",
			},
			want: "commentspec devel (revision unknown, built 2026-01-02, go1.25.0 linux/arm64)",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.info.String())
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	info := version.Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Revision)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}
