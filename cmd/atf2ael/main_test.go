package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVersionFlag(t *testing.T) {
	assert.Equal(t, 0, run([]string{"-version"}))
}

func TestRunMissingRequiredFlagsIsUsageError(t *testing.T) {
	assert.Equal(t, 2, run([]string{}))
	assert.Equal(t, 2, run([]string{"-In", "foo.ael"}))
}

func TestRunCompileFlowEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "prog.ael")
	require.NoError(t, os.WriteFile(inPath, []byte("x = 1;"), 0600))
	outPath := filepath.Join(dir, "prog.ael.out")

	code := run([]string{"-In", inPath, "-Out", outPath})
	assert.Equal(t, 0, code)
}

func TestRunCompileFlowBadSourceIsProcessingError(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "bad.ael")
	require.NoError(t, os.WriteFile(inPath, []byte("x = ;"), 0600))
	outPath := filepath.Join(dir, "bad.ael.out")

	code := run([]string{"-In", inPath, "-Out", outPath})
	assert.Equal(t, 1, code)
}
