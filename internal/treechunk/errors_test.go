package treechunk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkError_UnwrapsToSentinel(t *testing.T) {
	err := newChunkErr("decode", 6, ErrMalformedChunk)
	assert.True(t, errors.Is(err, ErrMalformedChunk))
	assert.False(t, errors.Is(err, ErrCapacityExceeded))
}

func TestChunkError_MessageIncludesOpAndLevel(t *testing.T) {
	err := newChunkErr("computeRoot", 12, ErrInvalidLevel)
	msg := err.Error()
	assert.Contains(t, msg, "computeRoot")
	assert.Contains(t, msg, "12")
}

func TestWrapStoreErr_UnwrapsToErrStoreAndCause(t *testing.T) {
	cause := errors.New("disk gone")
	err := wrapStoreErr("loadFromStore", 0, cause)
	assert.True(t, errors.Is(err, ErrStore))
	assert.Contains(t, err.Error(), "disk gone")
}
