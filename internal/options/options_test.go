package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	value int
	name  string
}

func TestApply(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg,
		NoError(func(c *testConfig) { c.value = 42 }),
		NoError(func(c *testConfig) { c.name = "particles" }),
	)
	require.NoError(t, err)
	require.Equal(t, 42, cfg.value)
	require.Equal(t, "particles", cfg.name)
}

func TestApply_Error(t *testing.T) {
	boom := errors.New("boom")
	cfg := &testConfig{}

	err := Apply(cfg,
		NoError(func(c *testConfig) { c.value = 1 }),
		New(func(c *testConfig) error { return boom }),
		NoError(func(c *testConfig) { c.value = 2 }),
	)
	require.ErrorIs(t, err, boom)
	// Options after the failing one are not applied.
	require.Equal(t, 1, cfg.value)
}
