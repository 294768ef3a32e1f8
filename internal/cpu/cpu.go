// Package cpu implements the SM83 processor: its registers, the operand
// variants of spec §4.4, the decoder of §4.5, the executor of §4.6, and the
// interrupt controller of §4.7. It generalizes the teacher's internal/cpu
// package (registers.go's typed accessor style, cpu.go's fetch-then-step
// loop) from the GBA's ARM7TDMI to the SM83.
package cpu

import (
	"fmt"

	"github.com/ljs360d/dmgcore/internal/bits"
	"github.com/ljs360d/dmgcore/internal/flags"
	"github.com/ljs360d/dmgcore/internal/memory"
)

// Interrupt vector addresses, in priority order, per spec §4.7.
const (
	VBlankVector = 0x40
	StatVector   = 0x48
	TimerVector  = 0x50
	SerialVector = 0x58
	JoypadVector = 0x60

	ifAddr = 0xFF0F
	ieAddr = memory.IEAddr

	bitVBlank = 1 << 0
	bitStat   = 1 << 1
	bitTimer  = 1 << 2
	bitSerial = 1 << 3
	bitJoypad = 1 << 4
)

// Systems is the set of collaborators a CPU step advances once its M-cycle
// cost is known: the PPU and timer, which must see every dot regardless of
// whether the CPU itself is halted.
type Systems interface {
	Step(dots int)
}

// CPU is the processor state described in spec §3: six 16-bit logical
// registers, the instruction register, the interrupt-enable bookkeeping,
// and the running M-cycle count.
type CPU struct {
	AF, BC, DE, HL, SP bits.Reg16
	PC                 uint16
	IR                 uint8

	IME        bool
	imeDelay   int // set to 2 by EI; IME is set when Step counts it down to 0, per spec §4.6
	LowPower   bool
	haltBug    bool
	CycleCount uint64

	// DoubleSpeed halves the dots-per-M-cycle distributed to the timer and
	// PPU, per spec §9's CGB "doubled dot rate flag" (Non-goals exclude any
	// fuller CGB speed-switch model, e.g. KEY1 armed/pending semantics).
	DoubleSpeed bool

	mem     *memory.AddressSpace
	systems []Systems
}

// New returns a CPU in the DMG power-on state of spec §6, fetched and ready
// to execute at the reset vector.
func New(mem *memory.AddressSpace) *CPU {
	c := &CPU{mem: mem}
	c.AF.SetU16(0x1180)
	c.BC.SetU16(0x0000)
	c.DE.SetU16(0xFF56)
	c.HL.SetU16(0x000D)
	c.SP.SetU16(0xFFFE)
	c.PC = 0x0100
	c.IR = mem.Read(c.PC)
	c.PC++
	return c
}

// RawState is a flat register snapshot matching the single-step test vector
// format of spec §6: eight 8-bit halves plus PC and SP.
type RawState struct {
	A, B, C, D, E, F, H, L uint8
	PC, SP                 uint16
}

// FromState builds a CPU from an explicit register snapshot rather than the
// DMG power-on state, for the opcode-conformance harness of
// internal/testvectors. IR is fetched from mem at PC, matching the
// single-step format's convention that PC addresses the not-yet-executed
// opcode.
func FromState(mem *memory.AddressSpace, s RawState) *CPU {
	c := &CPU{mem: mem}
	c.AF.SetHi(s.A)
	c.AF.SetLo(flags.Mask(s.F))
	c.BC.SetHi(s.B)
	c.BC.SetLo(s.C)
	c.DE.SetHi(s.D)
	c.DE.SetLo(s.E)
	c.HL.SetHi(s.H)
	c.HL.SetLo(s.L)
	c.PC = s.PC
	c.SP.SetU16(s.SP)
	c.IR = mem.Read(c.PC)
	c.PC++
	return c
}

// AttachSystems registers collaborators (PPU, timer) that receive every dot
// a step consumes, in the order given.
func (c *CPU) AttachSystems(systems ...Systems) {
	c.systems = append(c.systems, systems...)
}

// Memory exposes the address space for collaborators (the debugger, tests)
// that need raw access outside the fetch/decode/execute loop.
func (c *CPU) Memory() *memory.AddressSpace { return c.mem }

// F returns the flags byte (AF's low half).
func (c *CPU) F() uint8 { return c.AF.Lo() }

// SetF replaces the flags byte, masking bits 0-3 to zero per the data model.
func (c *CPU) SetF(v uint8) { c.AF.SetLo(flags.Mask(v)) }

func (c *CPU) interruptPending() bool {
	return c.mem.ReadForce(ieAddr)&c.mem.ReadForce(ifAddr)&0x1F != 0
}

// Step executes exactly one instruction (or one M-cycle of HALT/low-power wait),
// distributes its M-cycle cost to the attached systems, services any
// resulting interrupt, and fetches the next opcode. It returns the number of
// M-cycles consumed.
func (c *CPU) Step() int {
	if c.LowPower {
		c.tick(1)
		if c.interruptPending() {
			c.LowPower = false
			// IR already holds the byte after HALT/STOP, fetched by the
			// Step that entered low power.
			if c.IME {
				c.PC-- // that byte's address is the return address
				c.serviceInterrupt()
				c.fetchNext()
			}
		}
		return 1
	}

	ins, err := decode(c.IR, c.mem, &c.PC)
	if err != nil {
		panic(fmt.Sprintf("cpu: decode failure at PC=0x%04X opcode=0x%02X: %v", c.PC, c.IR, err))
	}

	cycles := c.execute(ins)
	if cycles == 0 {
		panic(fmt.Sprintf("cpu: executor returned zero cycles for opcode 0x%02X at PC=0x%04X", c.IR, c.PC))
	}
	c.CycleCount += uint64(cycles)
	c.tick(cycles)

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.IME = true
		}
	}

	c.serviceInterrupt()
	c.fetchNext()
	return cycles
}

func (c *CPU) tick(mCycles int) {
	dotsPerCycle := 4
	if c.DoubleSpeed {
		dotsPerCycle = 2
	}
	dots := mCycles * dotsPerCycle
	for _, s := range c.systems {
		s.Step(dots)
	}
}

// fetchNext loads IR with the byte at PC and advances PC, except when the
// HALT bug is armed: then PC is left untouched so the same byte is fetched
// (and, via the decoder, executed) a second time.
func (c *CPU) fetchNext() {
	c.IR = c.mem.Read(c.PC)
	if c.haltBug {
		c.haltBug = false
		return
	}
	c.PC++
}

// serviceInterrupt dispatches the highest-priority pending interrupt if IME
// is set, per spec §4.7.
func (c *CPU) serviceInterrupt() {
	if !c.IME {
		return
	}
	ie := c.mem.ReadForce(ieAddr)
	iff := c.mem.ReadForce(ifAddr)
	pending := ie & iff & 0x1F
	if pending == 0 {
		return
	}
	for _, line := range []struct {
		bit    uint8
		vector uint16
	}{
		{bitVBlank, VBlankVector},
		{bitStat, StatVector},
		{bitTimer, TimerVector},
		{bitSerial, SerialVector},
		{bitJoypad, JoypadVector},
	} {
		if pending&line.bit == 0 {
			continue
		}
		c.mem.WriteForce(ifAddr, iff&^line.bit)
		c.IME = false
		c.pushU16(c.PC)
		c.PC = line.vector
		c.CycleCount += 5
		return
	}
}
