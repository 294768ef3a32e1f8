package cpu

import "github.com/ljs360d/dmgcore/internal/flags"

// R8 identifies one of the eight 3-bit-encoded 8-bit operand positions:
// B, C, D, E, H, L, (HL), A.
type R8 uint8

const (
	R8_B R8 = iota
	R8_C
	R8_D
	R8_E
	R8_H
	R8_L
	R8_HLInd
	R8_A
)

// Read fetches the operand's value, routing (HL) through the gated address
// space.
func (r R8) Read(c *CPU) uint8 {
	switch r {
	case R8_B:
		return c.BC.Hi()
	case R8_C:
		return c.BC.Lo()
	case R8_D:
		return c.DE.Hi()
	case R8_E:
		return c.DE.Lo()
	case R8_H:
		return c.HL.Hi()
	case R8_L:
		return c.HL.Lo()
	case R8_HLInd:
		return c.mem.Read(c.HL.AsU16())
	default:
		return c.AF.Hi()
	}
}

// Write stores to the operand's location.
func (r R8) Write(c *CPU, v uint8) {
	switch r {
	case R8_B:
		c.BC.SetHi(v)
	case R8_C:
		c.BC.SetLo(v)
	case R8_D:
		c.DE.SetHi(v)
	case R8_E:
		c.DE.SetLo(v)
	case R8_H:
		c.HL.SetHi(v)
	case R8_L:
		c.HL.SetLo(v)
	case R8_HLInd:
		c.mem.Write(c.HL.AsU16(), v)
	default:
		c.AF.SetHi(v)
	}
}

// decodeR8 maps a 3-bit field to its R8 operand, per the fixed encoding
// order B,C,D,E,H,L,(HL),A used throughout the opcode table.
func decodeR8(bits uint8) R8 { return R8(bits & 0x07) }

// R16 identifies one of BC, DE, HL, SP.
type R16 uint8

const (
	R16_BC R16 = iota
	R16_DE
	R16_HL
	R16_SP
)

func decodeR16(bits uint8) R16 { return R16(bits & 0x03) }

func (r R16) Get(c *CPU) uint16 {
	switch r {
	case R16_BC:
		return c.BC.AsU16()
	case R16_DE:
		return c.DE.AsU16()
	case R16_HL:
		return c.HL.AsU16()
	default:
		return c.SP.AsU16()
	}
}

func (r R16) Set(c *CPU, v uint16) {
	switch r {
	case R16_BC:
		c.BC.SetU16(v)
	case R16_DE:
		c.DE.SetU16(v)
	case R16_HL:
		c.HL.SetU16(v)
	default:
		c.SP.SetU16(v)
	}
}

// R16Mem identifies BC, DE, HL+, HL- as used by LD (r16mem),A / LD A,(r16mem).
type R16Mem uint8

const (
	R16Mem_BC R16Mem = iota
	R16Mem_DE
	R16Mem_HLInc
	R16Mem_HLDec
)

func decodeR16Mem(bits uint8) R16Mem { return R16Mem(bits & 0x03) }

// Addr returns the memory address this variant targets, applying HL's
// post-increment/decrement as a side effect.
func (r R16Mem) Addr(c *CPU) uint16 {
	switch r {
	case R16Mem_BC:
		return c.BC.AsU16()
	case R16Mem_DE:
		return c.DE.AsU16()
	case R16Mem_HLInc:
		addr := c.HL.AsU16()
		c.HL.Inc()
		return addr
	default:
		addr := c.HL.AsU16()
		c.HL.Dec()
		return addr
	}
}

// R16Stk identifies BC, DE, HL, AF as used by PUSH/POP.
type R16Stk uint8

const (
	R16Stk_BC R16Stk = iota
	R16Stk_DE
	R16Stk_HL
	R16Stk_AF
)

func decodeR16Stk(bits uint8) R16Stk { return R16Stk(bits & 0x03) }

func (r R16Stk) Get(c *CPU) uint16 {
	switch r {
	case R16Stk_BC:
		return c.BC.AsU16()
	case R16Stk_DE:
		return c.DE.AsU16()
	case R16Stk_HL:
		return c.HL.AsU16()
	default:
		return c.AF.AsU16()
	}
}

// Set writes v into the pair; for AF, the low nibble of F is masked to zero.
func (r R16Stk) Set(c *CPU, v uint16) {
	switch r {
	case R16Stk_BC:
		c.BC.SetU16(v)
	case R16Stk_DE:
		c.DE.SetU16(v)
	case R16Stk_HL:
		c.HL.SetU16(v)
	default:
		c.AF.SetU16(v)
		c.AF.SetLo(flags.Mask(c.AF.Lo()))
	}
}

// Cond identifies one of the four branch conditions NZ, Z, NC, C.
type Cond uint8

const (
	CondNZ Cond = iota
	CondZ
	CondNC
	CondC
)

func decodeCond(bits uint8) Cond { return Cond(bits & 0x03) }

// Met evaluates the condition against the current flags.
func (cc Cond) Met(c *CPU) bool {
	switch cc {
	case CondNZ:
		return !flags.Get(c.F(), flags.Z)
	case CondZ:
		return flags.Get(c.F(), flags.Z)
	case CondNC:
		return !flags.Get(c.F(), flags.C)
	default:
		return flags.Get(c.F(), flags.C)
	}
}

// ALUOp identifies the eight block-10/block-11 ALU operations.
type ALUOp uint8

const (
	ALUAdd ALUOp = iota
	ALUAdc
	ALUSub
	ALUSbc
	ALUAnd
	ALUXor
	ALUOr
	ALUCp
)

func decodeALUOp(bits uint8) ALUOp { return ALUOp(bits & 0x07) }

// ShiftOp identifies the eight CB-prefixed rotate/shift operations.
type ShiftOp uint8

const (
	ShiftRLC ShiftOp = iota
	ShiftRRC
	ShiftRL
	ShiftRR
	ShiftSLA
	ShiftSRA
	ShiftSwap
	ShiftSRL
)

func decodeShiftOp(bits uint8) ShiftOp { return ShiftOp(bits & 0x07) }
