package bits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReg16AsU16(t *testing.T) {
	var r Reg16
	r.SetHi(0x12)
	r.SetLo(0x34)
	assert.Equal(t, uint16(0x1234), r.AsU16())
	assert.Equal(t, uint8(0x12), r.Hi())
	assert.Equal(t, uint8(0x34), r.Lo())
}

func TestReg16SetU16(t *testing.T) {
	var r Reg16
	r.SetU16(0xBEEF)
	assert.Equal(t, uint8(0xBE), r.Hi())
	assert.Equal(t, uint8(0xEF), r.Lo())
	assert.Equal(t, uint16(0xBEEF), r.AsU16())
}

func TestReg16IncDecWraps(t *testing.T) {
	var r Reg16
	r.SetU16(0xFFFF)
	r.Inc()
	assert.Equal(t, uint16(0x0000), r.AsU16())

	r.SetU16(0x0000)
	r.Dec()
	assert.Equal(t, uint16(0xFFFF), r.AsU16())
}
