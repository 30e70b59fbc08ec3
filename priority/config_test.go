package priority

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	require.Equal(t, DefaultMaximumStreams, cfg.MaximumStreams)
	require.Nil(t, cfg.Logger)
	require.NoError(t, cfg.Validate())
}

func TestTreeConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       TreeConfig
		shouldErr bool
	}{
		{"positive cap", TreeConfig{MaximumStreams: 1}, false},
		{"zero cap", TreeConfig{MaximumStreams: 0}, true},
		{"negative cap", TreeConfig{MaximumStreams: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.shouldErr {
				require.Error(t, err)
				var treeErr *TreeError
				require.ErrorAs(t, err, &treeErr)
				require.Equal(t, ErrBadTreeConfig, treeErr.Kind)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewTreeRejectsBadConfig(t *testing.T) {
	_, err := NewTree(TreeConfig{MaximumStreams: 0})
	require.Error(t, err)

	tr, err := NewTree(DefaultTreeConfig())
	require.NoError(t, err)
	require.NotNil(t, tr)
}

func TestStreamOptionsDefaults(t *testing.T) {
	var opts StreamOptions
	require.Equal(t, DefaultWeight, opts.weightOrDefault())
	require.Equal(t, uint32(0), opts.dependsOnOrRoot())

	id := uint32(5)
	weight := 32
	opts = StreamOptions{DependsOn: &id, Weight: &weight}
	require.Equal(t, 32, opts.weightOrDefault())
	require.Equal(t, uint32(5), opts.dependsOnOrRoot())
}

func TestStreamOptionsExplicitZeroWeightIsNotDefaulted(t *testing.T) {
	zero := 0
	opts := StreamOptions{Weight: &zero}
	require.Equal(t, 0, opts.weightOrDefault(), "an explicit zero must not resolve to DefaultWeight")
}
