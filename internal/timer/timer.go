// Package timer implements the DIV/TIMA/TMA/TAC timer described in spec §4.8:
// a free-running 16-bit counter whose high byte is DIV, and a TIMA register
// that increments on the falling edge of a TAC-selected counter bit.
package timer

import "github.com/ljs360d/dmgcore/internal/memory"

// Timer register addresses and the IF register, in the I/O window.
const (
	TIMAAddr = 0xFF05
	TMAAddr  = 0xFF06
	TACAddr  = 0xFF07
	IFAddr   = 0xFF0F

	timerIFBit = 1 << 2
)

// selectedBit maps TAC's 2-bit clock-select field to the internal counter
// bit TIMA increments on the falling edge of.
var selectedBit = [4]uint8{9, 3, 5, 7}

// Timer owns the internal 16-bit counter and the three MMIO timer registers.
// It reads/writes TIMA/TMA/TAC and the Timer bit of IF directly through the
// address space's force accessors, the way the PPU owns its own registers.
type Timer struct {
	mem     *memory.AddressSpace
	counter uint16
}

// New returns a Timer wired to mem for register and IF access.
func New(mem *memory.AddressSpace) *Timer {
	return &Timer{mem: mem}
}

// ResetDivider implements interfaces.DividerReset: any write to DIV zeroes
// the full internal counter.
func (t *Timer) ResetDivider() {
	t.counter = 0
}

// Div returns DIV, the high byte of the internal counter.
func (t *Timer) Div() uint8 { return uint8(t.counter >> 8) }

func (t *Timer) tac() uint8  { return t.mem.ReadForce(TACAddr) }
func (t *Timer) tima() uint8 { return t.mem.ReadForce(TIMAAddr) }
func (t *Timer) tma() uint8  { return t.mem.ReadForce(TMAAddr) }

func (t *Timer) setTIMA(v uint8) { t.mem.WriteForce(TIMAAddr, v) }

func (t *Timer) enabled() bool  { return t.tac()&0x04 != 0 }
func (t *Timer) clockBit() uint8 {
	return selectedBit[t.tac()&0x03]
}

func (t *Timer) bitValue() bool {
	return t.counter&(1<<t.clockBit()) != 0
}

// Step advances the internal counter by cycles dots and increments TIMA on
// every falling edge of the TAC-selected counter bit observed along the way,
// reloading from TMA and raising the Timer IF bit on overflow. DIV, the
// memory-mapped view of the counter's high byte, is synced once at the end
// rather than on every dot: nothing can observe it mid-Step.
func (t *Timer) Step(cycles int) {
	for i := 0; i < cycles; i++ {
		before := t.enabled() && t.bitValue()
		t.counter++
		after := t.enabled() && t.bitValue()
		if before && !after {
			t.tick()
		}
	}
	t.mem.WriteForce(memory.DividerAddr, t.Div())
}

func (t *Timer) tick() {
	v := t.tima()
	if v == 0xFF {
		t.setTIMA(t.tma())
		t.mem.WriteForce(IFAddr, t.mem.ReadForce(IFAddr)|timerIFBit)
		return
	}
	t.setTIMA(v + 1)
}
