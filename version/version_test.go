package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	tagged := Info{Version: "1.4.0", CommitHash: "0123456789abcdef", BuildTime: "2026-01-02"}
	assert.Equal(t, "dtypegen 1.4.0 (commit 0123456789abcdef, built 2026-01-02)", tagged.String())
	assert.Equal(t, "0123456", tagged.Short())
	assert.False(t, tagged.IsDev())

	dev := Info{Version: "dev", CommitHash: "abc", BuildTime: "unknown"}
	assert.Equal(t, "dtypegen dev (commit abc, built unknown)", dev.String())
	assert.Equal(t, "abc", dev.Short())
	assert.True(t, dev.IsDev())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}
