package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePPU struct {
	mode    uint8
	enabled bool
}

func (f *fakePPU) Mode() uint8       { return f.mode }
func (f *fakePPU) LCDEnabled() bool  { return f.enabled }

type fakeTimer struct{ resets int }

func (f *fakeTimer) ResetDivider() { f.resets++ }

func TestWriteThenReadWRAM(t *testing.T) {
	a := New()
	a.Write(WRAM0Start, 0x42)
	assert.Equal(t, byte(0x42), a.Read(WRAM0Start))
}

func TestWriteThenReadHRAM(t *testing.T) {
	a := New()
	a.Write(HRAMStart, 0x99)
	assert.Equal(t, byte(0x99), a.Read(HRAMStart))
}

func TestEchoMirrorsWRAM(t *testing.T) {
	a := New()
	a.WriteForce(WRAM0Start, 0x7A)
	assert.Equal(t, byte(0x7A), a.ReadForce(EchoStart))

	a.WriteForce(EchoStart+1, 0x11)
	assert.Equal(t, byte(0x11), a.ReadForce(WRAM0Start+1))
}

func TestVRAMBlockedInMode3(t *testing.T) {
	a := New()
	ppu := &fakePPU{enabled: true, mode: 0}
	a.AttachPPU(ppu)

	a.Write(VRAMStart, 0x55)
	require.Equal(t, byte(0x55), a.Read(VRAMStart))

	ppu.mode = 3
	assert.Equal(t, byte(0xFF), a.Read(VRAMStart))
	a.Write(VRAMStart, 0xAA) // dropped
	ppu.mode = 0
	assert.Equal(t, byte(0x55), a.Read(VRAMStart), "write during Mode 3 must be silently dropped")
}

func TestOAMBlockedInModes2And3(t *testing.T) {
	a := New()
	ppu := &fakePPU{enabled: true, mode: 0}
	a.AttachPPU(ppu)

	a.Write(OAMStart, 0x10)
	ppu.mode = 2
	assert.Equal(t, byte(0xFF), a.Read(OAMStart))
	ppu.mode = 3
	assert.Equal(t, byte(0xFF), a.Read(OAMStart))
	ppu.mode = 1
	assert.Equal(t, byte(0x10), a.Read(OAMStart))
}

func TestLCDDisabledAllowsEverything(t *testing.T) {
	a := New()
	ppu := &fakePPU{enabled: false, mode: 3}
	a.AttachPPU(ppu)
	a.Write(VRAMStart, 0x33)
	assert.Equal(t, byte(0x33), a.Read(VRAMStart))
}

func TestDividerWriteResetsTimer(t *testing.T) {
	a := New()
	timer := &fakeTimer{}
	a.AttachTimer(timer)

	a.Write(DividerAddr, 0x12)
	assert.Equal(t, 1, timer.resets)
}

func TestReadForceIdempotentAndBypassesGating(t *testing.T) {
	a := New()
	ppu := &fakePPU{enabled: true, mode: 3}
	a.AttachPPU(ppu)
	a.WriteForce(VRAMStart, 0x77)

	assert.Equal(t, byte(0x77), a.ReadForce(VRAMStart))
	assert.Equal(t, byte(0x77), a.ReadForce(VRAMStart))
	assert.Equal(t, byte(0xFF), a.Read(VRAMStart), "gated read differs from force read only where gating returns 0xFF")
}

func TestLoadROMSplitsBank0AndBank1(t *testing.T) {
	a := New()
	cart := make([]byte, 0x8000)
	cart[0] = 0xAA
	cart[len(cart)-1] = 0xBB
	a.LoadROM(cart)

	assert.Equal(t, byte(0xAA), a.ReadForce(ROM0Start))
	assert.Equal(t, byte(0xBB), a.ReadForce(ROM1End))
}

func TestReadU16LE(t *testing.T) {
	a := New()
	a.Write(WRAM0Start, 0x34)
	a.Write(WRAM0Start+1, 0x12)
	assert.Equal(t, uint16(0x1234), a.ReadU16LE(WRAM0Start))
}
