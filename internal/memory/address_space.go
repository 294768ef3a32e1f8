// Package memory implements the SM83 64 KiB address space: region routing,
// PPU-gated access, and the one MMIO side effect this core is responsible
// for (DIV resetting the internal timer counter). It generalizes the
// teacher's internal/bus and internal/memory packages, which perform the
// same range-switch routing for the GBA's much larger map.
package memory

import (
	"github.com/ljs360d/dmgcore/internal/dbg"
	"github.com/ljs360d/dmgcore/internal/interfaces"
)

// Region boundaries, inclusive, per spec §6.
const (
	ROM0Start  = 0x0000
	ROM0End    = 0x3FFF
	ROM1Start  = 0x4000
	ROM1End    = 0x7FFF
	VRAMStart  = 0x8000
	VRAMEnd    = 0x9FFF
	ERAMStart  = 0xA000
	ERAMEnd    = 0xBFFF
	WRAM0Start = 0xC000
	WRAM0End   = 0xCFFF
	WRAM1Start = 0xD000
	WRAM1End   = 0xDFFF
	EchoStart  = 0xE000
	EchoEnd    = 0xFDFF
	OAMStart   = 0xFE00
	OAMEnd     = 0xFE9F
	UnusedStart = 0xFEA0
	UnusedEnd   = 0xFEFF
	IOStart    = 0xFF00
	IOEnd      = 0xFF7F
	HRAMStart  = 0xFF80
	HRAMEnd    = 0xFFFE
	IEAddr     = 0xFFFF

	// DividerAddr is the DIV register's address within the I/O window.
	DividerAddr = 0xFF04
)

// AddressSpace is the SM83's 64 KiB memory map. Buffers are allocated once
// at construction and never reallocated, per the data model's lifecycle.
type AddressSpace struct {
	rom0 [ROM0End - ROM0Start + 1]byte
	rom1 [ROM1End - ROM1Start + 1]byte
	vram [VRAMEnd - VRAMStart + 1]byte
	eram [ERAMEnd - ERAMStart + 1]byte
	wram [WRAM1End - WRAM0Start + 1]byte // WRAM0 and WRAM1 share one contiguous buffer
	oam  [OAMEnd - OAMStart + 1]byte
	unused [UnusedEnd - UnusedStart + 1]byte
	io   [IOEnd - IOStart + 1]byte
	hram [HRAMEnd - HRAMStart + 1]byte
	ie   byte

	ppu   interfaces.PPUModeSource
	timer interfaces.DividerReset
}

// New returns an address space with all regions zeroed. Callers wire the PPU
// and timer collaborators with AttachPPU/AttachTimer before running the CPU.
func New() *AddressSpace {
	return &AddressSpace{}
}

// AttachPPU connects the PPU mode source used for VRAM/OAM gating.
func (a *AddressSpace) AttachPPU(p interfaces.PPUModeSource) { a.ppu = p }

// AttachTimer connects the timer whose internal counter DIV writes reset.
func (a *AddressSpace) AttachTimer(t interfaces.DividerReset) { a.timer = t }

// LoadROM copies cart into ROM bank 0 and bank 1. Only the first two 16 KiB
// banks are handled at this level; bank switching beyond that is an MBC
// collaborator's job and out of scope.
func (a *AddressSpace) LoadROM(cart []byte) {
	n := copy(a.rom0[:], cart)
	if n < len(a.rom0) {
		return
	}
	rest := cart[len(a.rom0):]
	copy(a.rom1[:], rest)
}

// accessible reports whether addr is currently readable/writable under PPU
// gating. Outside VRAM/OAM, or whenever the LCD is disabled, everything is
// accessible.
func (a *AddressSpace) accessible(addr uint16) bool {
	if a.ppu == nil || !a.ppu.LCDEnabled() {
		return true
	}
	switch {
	case addr >= VRAMStart && addr <= VRAMEnd:
		return a.ppu.Mode() != 3
	case addr >= OAMStart && addr <= OAMEnd:
		m := a.ppu.Mode()
		return m != 2 && m != 3
	default:
		return true
	}
}

// Read applies PPU gating; an inaccessible address reads as 0xFF.
func (a *AddressSpace) Read(addr uint16) byte {
	if !a.accessible(addr) {
		return 0xFF
	}
	return a.ReadForce(addr)
}

// Write applies PPU gating (a blocked write is silently dropped) and the
// DIV side effect. Writes to the ROM banks are dropped: there is no MBC.
func (a *AddressSpace) Write(addr uint16, v byte) {
	if !a.accessible(addr) {
		return
	}
	if addr <= ROM1End {
		dbg.Printf("memory: write to ROM 0x%04X ignored (no MBC)\n", addr)
		return
	}
	if addr == DividerAddr {
		if a.timer != nil {
			a.timer.ResetDivider()
		}
		v = 0 // DIV mirrors the high byte of the counter that was just reset
	}
	a.WriteForce(addr, v)
}

// ReadForce bypasses PPU gating; used by the PPU and timer internals, which
// must always see real memory.
func (a *AddressSpace) ReadForce(addr uint16) byte {
	switch {
	case addr <= ROM0End:
		return a.rom0[addr-ROM0Start]
	case addr <= ROM1End:
		return a.rom1[addr-ROM1Start]
	case addr <= VRAMEnd:
		return a.vram[addr-VRAMStart]
	case addr <= ERAMEnd:
		return a.eram[addr-ERAMStart]
	case addr <= WRAM1End:
		return a.wram[addr-WRAM0Start]
	case addr <= EchoEnd:
		return a.wram[addr-EchoStart]
	case addr <= OAMEnd:
		return a.oam[addr-OAMStart]
	case addr <= UnusedEnd:
		return a.unused[addr-UnusedStart]
	case addr <= IOEnd:
		return a.io[addr-IOStart]
	case addr <= HRAMEnd:
		return a.hram[addr-HRAMStart]
	case addr == IEAddr:
		return a.ie
	default:
		// Unreachable: the full 16-bit address space is always mapped.
		panic("memory: unmapped address 0x" + hex16(addr))
	}
}

// WriteForce bypasses PPU gating and the DIV side effect, and stores into the
// ROM banks as well; used internally by the PPU and timer to update
// registers they themselves own, and by the test-vector runner to seed
// memory at any address.
func (a *AddressSpace) WriteForce(addr uint16, v byte) {
	switch {
	case addr <= ROM0End:
		a.rom0[addr-ROM0Start] = v
	case addr <= ROM1End:
		a.rom1[addr-ROM1Start] = v
	case addr <= VRAMEnd:
		a.vram[addr-VRAMStart] = v
	case addr <= ERAMEnd:
		a.eram[addr-ERAMStart] = v
	case addr <= WRAM1End:
		a.wram[addr-WRAM0Start] = v
	case addr <= EchoEnd:
		a.wram[addr-EchoStart] = v
	case addr <= OAMEnd:
		a.oam[addr-OAMStart] = v
	case addr <= UnusedEnd:
		a.unused[addr-UnusedStart] = v
	case addr <= IOEnd:
		a.io[addr-IOStart] = v
	case addr <= HRAMEnd:
		a.hram[addr-HRAMStart] = v
	case addr == IEAddr:
		a.ie = v
	default:
		panic("memory: unmapped address 0x" + hex16(addr))
	}
}

// ReadU16LE performs two successive gated reads, little-endian.
func (a *AddressSpace) ReadU16LE(addr uint16) uint16 {
	lo := uint16(a.Read(addr))
	hi := uint16(a.Read(addr + 1))
	return hi<<8 | lo
}

func hex16(v uint16) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{
		digits[(v>>12)&0xF], digits[(v>>8)&0xF], digits[(v>>4)&0xF], digits[v&0xF],
	})
}
