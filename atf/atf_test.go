package atf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempATF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.atf")
	require.NoError(t, os.WriteFile(path, []byte("dummy"), 0600))
	return path
}

func TestOpenCloseLifecycle(t *testing.T) {
	c := NewConverter(tempATF(t), "prog.ael", ModeBatch)
	assert.False(t, c.IsOpen())
	require.NoError(t, c.Open())
	assert.True(t, c.IsOpen())
	require.NoError(t, c.Close())
	assert.False(t, c.IsOpen())
}

func TestDoubleOpenIsError(t *testing.T) {
	c := NewConverter(tempATF(t), "prog.ael", ModeBatch)
	require.NoError(t, c.Open())
	defer c.Close()
	assert.Error(t, c.Open())
}

func TestCloseWithoutOpenIsError(t *testing.T) {
	c := NewConverter(tempATF(t), "prog.ael", ModeBatch)
	assert.Error(t, c.Close())
}

func TestOpenMissingFileIsError(t *testing.T) {
	c := NewConverter(filepath.Join(t.TempDir(), "missing.atf"), "prog.ael", ModeBatch)
	assert.Error(t, c.Open())
}

func TestConvertClosesEvenWhenBodyFails(t *testing.T) {
	path := tempATF(t)
	var sawOpen bool
	err := Convert(path, "prog.ael", ModeInteractive, func(c *Converter) error {
		sawOpen = c.IsOpen()
		return assert.AnError
	})
	assert.True(t, sawOpen)
	assert.ErrorIs(t, err, assert.AnError)

	// A fresh Converter must be able to open the same path again,
	// proving the previous session's handle was released.
	c2 := NewConverter(path, "prog.ael", ModeBatch)
	require.NoError(t, c2.Open())
	require.NoError(t, c2.Close())
}
