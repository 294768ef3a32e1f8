package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	var f uint8
	Set(&f, Z, true)
	assert.True(t, Get(f, Z))
	assert.False(t, Get(f, N))

	Set(&f, Z, false)
	assert.False(t, Get(f, Z))
}

func TestMaskClearsLowNibble(t *testing.T) {
	assert.Equal(t, uint8(0xF0), Mask(0xFF))
	assert.Equal(t, uint8(0x80), Mask(0x8F))
}

func TestInvert(t *testing.T) {
	f := C
	Invert(&f, C)
	assert.Equal(t, uint8(0), f)
}

func TestUpdateCarryAddU8(t *testing.T) {
	tests := []struct {
		a, b     uint8
		wantH, wantC bool
	}{
		{0x0F, 0x01, true, false},
		{0xFF, 0x01, true, true},
		{0x01, 0x01, false, false},
	}
	for _, tc := range tests {
		var f uint8
		UpdateCarryAddU8(&f, tc.a, tc.b)
		assert.Equal(t, tc.wantH, Get(f, H), "H for %02X+%02X", tc.a, tc.b)
		assert.Equal(t, tc.wantC, Get(f, C), "C for %02X+%02X", tc.a, tc.b)
	}
}

func TestUpdateBorrowSubU8(t *testing.T) {
	var f uint8
	UpdateBorrowSubU8(&f, 0x00, 0x01)
	assert.True(t, Get(f, H))
	assert.True(t, Get(f, C))

	f = 0
	UpdateBorrowSubU8(&f, 0x10, 0x01)
	assert.True(t, Get(f, H))
	assert.False(t, Get(f, C))
}

func TestUpdateCarryAddU16(t *testing.T) {
	var f uint8
	UpdateCarryAddU16(&f, 0x0FFF, 0x0001)
	assert.True(t, Get(f, H))
	assert.False(t, Get(f, C))

	f = 0
	UpdateCarryAddU16(&f, 0xFFFF, 0x0001)
	assert.True(t, Get(f, H))
	assert.True(t, Get(f, C))
}
