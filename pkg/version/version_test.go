package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
	assert.NotEmpty(t, GetCommit())
	assert.Contains(t, String(), GetVersion())
}

func TestIsRelease(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	tests := []struct {
		version string
		want    bool
	}{
		{"1.2.3", true},
		{"v1.0.0", true},
		{"0.1.0-dev", false},
		{"not-a-version", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			version = tt.version
			assert.Equal(t, tt.want, IsRelease())
		})
	}
}
