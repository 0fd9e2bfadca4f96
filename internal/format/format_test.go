package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlign8(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0},
		{1, 8},
		{7, 8},
		{8, 8},
		{9, 16},
		{16, 16},
		{17, 24},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Align8(c.in), "Align8(%d)", c.in)
	}
}

func TestIsAligned8(t *testing.T) {
	assert.True(t, IsAligned8(0))
	assert.True(t, IsAligned8(16))
	assert.False(t, IsAligned8(7))
	assert.False(t, IsAligned8(12))
}

func TestEncodingRoundTrip(t *testing.T) {
	b := make([]byte, 16)

	PutU32(b, 0, TagUsed)
	assert.Equal(t, TagUsed, ReadU32(b, 0))

	PutI32(b, 4, NilOffset)
	assert.Equal(t, NilOffset, ReadI32(b, 4))

	PutI32(b, 8, 0x1234)
	assert.Equal(t, int32(0x1234), ReadI32(b, 8))
	// Little-endian byte order.
	assert.Equal(t, byte(0x34), b[8])
	assert.Equal(t, byte(0x12), b[9])
}

func TestHeaderGeometry(t *testing.T) {
	// Field offsets must stay inside their headers.
	assert.Less(t, BlockNextField+4, BlockHeaderSize+1)
	assert.Less(t, SlotNextField+4, SlotHeaderSize+1)
	assert.True(t, IsAligned8(BlockHeaderSize))
	assert.True(t, IsAligned8(SlotHeaderSize))
}
