package treechunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticDump_BeforeComputeShowsUnknownHash(t *testing.T) {
	c, err := NewEmpty(6)
	require.NoError(t, err)

	dump := c.DiagnosticDump()
	assert.Contains(t, dump, "level=6")
	assert.Contains(t, dump, "hash=<unknown>")
	assert.Contains(t, dump, strings.Repeat("Z", NumSlots))
}

func TestDiagnosticDump_AfterComputeShowsLayersAndNonZeroSlots(t *testing.T) {
	c, err := NewEmpty(0)
	require.NoError(t, err)
	c.MutateSlot(2, NewLeafSlot(randFea(1), randFea(2)))

	_, err = c.ComputeRoot()
	require.NoError(t, err)

	dump := c.DiagnosticDump()
	assert.NotContains(t, dump, "hash=<unknown>")
	assert.Contains(t, dump, "layer32:")
	assert.Contains(t, dump, "child1:")
	assert.Contains(t, dump, "[02] LEAF")
}

func TestDiagnosticDump_SkipsZeroSlotsInDetailListing(t *testing.T) {
	c, err := NewEmpty(0)
	require.NoError(t, err)
	c.MutateSlot(0, NewLeafSlot(randFea(1), randFea(2)))

	dump := c.DiagnosticDump()
	assert.NotContains(t, dump, "[01]")
	assert.Contains(t, dump, "[00] LEAF")
}
