package cli

import (
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownFlag_ShowsHelpAndUsageError(t *testing.T) {
	t.Parallel()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--unknown-flag"})

	err := root.Execute()
	require.Error(t, err)
	assert.IsType(t, usageError{}, err)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "unknown flag")
	assert.Contains(t, err.Error(), "Usage:")
}

func TestUsageError_KeepsCause(t *testing.T) {
	t.Parallel()
	err := usageErrorf("read config file %q: %w", "x.yaml", fs.ErrNotExist)
	assert.ErrorIs(t, err, ErrUsage)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, `read config file "x.yaml": file does not exist`, err.Error())
}
