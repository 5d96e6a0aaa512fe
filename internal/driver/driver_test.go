package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atf2ael/internal/config"
)

func TestResolveFlowByExtension(t *testing.T) {
	assert.Equal(t, FlowReconstruct, ResolveFlow("prog.atf"))
	assert.Equal(t, FlowReconstruct, ResolveFlow("prog.ATF"))
	assert.Equal(t, FlowCompile, ResolveFlow("prog.ael"))
	assert.Equal(t, FlowCompile, ResolveFlow("prog"))
}

func TestApplyFillsDefaultsWhenUnset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Emit.StrictPos = true

	opts := Options{In: "prog.ael"}
	opts.Apply(cfg)

	assert.Equal(t, FlowCompile, opts.Flow)
	assert.True(t, opts.StrictPos)
	assert.NotEmpty(t, opts.OutIr)
}

func TestApplyRespectsExplicitOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Emit.StrictPos = false

	opts := Options{In: "prog.ael", StrictPos: true, StrictPosSet: true, Flow: FlowReconstruct, FlowSet: true}
	opts.Apply(cfg)

	assert.True(t, opts.StrictPos)
	assert.Equal(t, FlowReconstruct, opts.Flow)
}

func TestRunCompileFlowProducesIrFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "prog.ael")
	require.NoError(t, os.WriteFile(inPath, []byte("x = 1;"), 0600))

	irPath := filepath.Join(dir, "prog.ir.txt")
	result := Run(Options{
		In:        inPath,
		Out:       filepath.Join(dir, "prog.ael.out"),
		OutIr:     irPath,
		EmitIr:    true,
		EmitIrSet: true,
		Flow:      FlowCompile,
		FlowSet:   true,
	})

	require.True(t, result.Success(), result.Diagnostic)
	assert.FileExists(t, irPath)
}

func TestRunCompileFlowRemovesTempIrByDefault(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "prog.ael")
	require.NoError(t, os.WriteFile(inPath, []byte("x = 1;"), 0600))

	irPath := filepath.Join(dir, "prog.ir.txt")
	result := Run(Options{
		In:      inPath,
		Out:     filepath.Join(dir, "prog.ael.out"),
		OutIr:   irPath,
		Flow:    FlowCompile,
		FlowSet: true,
	})

	require.True(t, result.Success(), result.Diagnostic)
	assert.NoFileExists(t, irPath)
}

func TestRunCompileFlowReportsParseFailure(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "bad.ael")
	require.NoError(t, os.WriteFile(inPath, []byte("x = ;"), 0600))

	result := Run(Options{
		In:      inPath,
		Out:     filepath.Join(dir, "bad.ael.out"),
		Flow:    FlowCompile,
		FlowSet: true,
	})

	assert.Equal(t, ResultParseFailure, result.Kind)
	assert.NotEmpty(t, result.Diagnostic)
}

func TestRunCompileFlowMissingInputIsIOFailure(t *testing.T) {
	dir := t.TempDir()
	result := Run(Options{
		In:      filepath.Join(dir, "missing.ael"),
		Out:     filepath.Join(dir, "missing.ael.out"),
		Flow:    FlowCompile,
		FlowSet: true,
	})

	assert.Equal(t, ResultIOFailure, result.Kind)
}

func TestRunReconstructFlowRoundTripsThroughBlankProgram(t *testing.T) {
	dir := t.TempDir()
	atfPath := filepath.Join(dir, "prog.atf")
	require.NoError(t, os.WriteFile(atfPath, []byte("dummy"), 0600))

	outPath := filepath.Join(dir, "prog.ael")
	irPath := filepath.Join(dir, "prog.ir.txt")
	result := Run(Options{
		In:      atfPath,
		Out:     outPath,
		OutIr:   irPath,
		Flow:    FlowReconstruct,
		FlowSet: true,
	})

	require.True(t, result.Success(), result.Diagnostic)
	assert.FileExists(t, outPath)
}
