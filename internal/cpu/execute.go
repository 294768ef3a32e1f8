package cpu

import "github.com/ljs360d/dmgcore/internal/flags"

// execute runs ins against c and returns its exact M-cycle cost, per the
// semantics catalogued in spec §4.6. A returned cost of zero is treated by
// Step as a fatal decoder/executor bug.
func (c *CPU) execute(ins Instruction) int {
	switch ins.Kind {
	case KindNop:
		return 1

	case KindLDR16N16:
		ins.R16.Set(c, ins.Imm16)
		return 3

	case KindLDR16MemA:
		c.mem.Write(ins.R16M.Addr(c), c.AF.Hi())
		return 2

	case KindLDAR16Mem:
		c.AF.SetHi(c.mem.Read(ins.R16M.Addr(c)))
		return 2

	case KindLDN16SP:
		c.mem.Write(ins.Imm16, uint8(c.SP.AsU16()))
		c.mem.Write(ins.Imm16+1, uint8(c.SP.AsU16()>>8))
		return 5

	case KindIncR16:
		ins.R16.Set(c, ins.R16.Get(c)+1)
		return 2

	case KindDecR16:
		ins.R16.Set(c, ins.R16.Get(c)-1)
		return 2

	case KindAddHLR16:
		a, b := c.HL.AsU16(), ins.R16.Get(c)
		f := c.F()
		flags.UpdateCarryAddU16(&f, a, b)
		flags.Set(&f, flags.N, false)
		c.SetF(f)
		c.HL.SetU16(a + b)
		return 2

	case KindIncR8:
		v := ins.R8a.Read(c)
		r := v + 1
		f := c.F()
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, false)
		flags.Set(&f, flags.H, v&0x0F == 0x0F)
		c.SetF(f)
		ins.R8a.Write(c, r)
		return cost1or3(ins.R8a)

	case KindDecR8:
		v := ins.R8a.Read(c)
		r := v - 1
		f := c.F()
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, true)
		flags.Set(&f, flags.H, v&0x0F == 0x00)
		c.SetF(f)
		ins.R8a.Write(c, r)
		return cost1or3(ins.R8a)

	case KindLDR8N8:
		ins.R8a.Write(c, ins.Imm8)
		return cost2or3(ins.R8a)

	case KindLDR8R8:
		ins.R8a.Write(c, ins.R8b.Read(c))
		if ins.R8a == R8_HLInd || ins.R8b == R8_HLInd {
			return 2
		}
		return 1

	case KindRLCA:
		v := c.AF.Hi()
		carry := v&0x80 != 0
		r := v<<1 | btou8(carry)
		c.AF.SetHi(r)
		c.setFlagsShift(0, carry)
		return 1

	case KindRRCA:
		v := c.AF.Hi()
		carry := v&0x01 != 0
		r := v>>1 | (btou8(carry) << 7)
		c.AF.SetHi(r)
		c.setFlagsShift(0, carry)
		return 1

	case KindRLA:
		v := c.AF.Hi()
		oldCarry := flags.Get(c.F(), flags.C)
		carry := v&0x80 != 0
		r := v<<1 | btou8(oldCarry)
		c.AF.SetHi(r)
		c.setFlagsShift(0, carry)
		return 1

	case KindRRA:
		v := c.AF.Hi()
		oldCarry := flags.Get(c.F(), flags.C)
		carry := v&0x01 != 0
		r := v>>1 | (btou8(oldCarry) << 7)
		c.AF.SetHi(r)
		c.setFlagsShift(0, carry)
		return 1

	case KindDAA:
		c.execDAA()
		return 1

	case KindCPL:
		c.AF.SetHi(^c.AF.Hi())
		f := c.F()
		flags.Set(&f, flags.N, true)
		flags.Set(&f, flags.H, true)
		c.SetF(f)
		return 1

	case KindSCF:
		f := c.F()
		flags.Set(&f, flags.N, false)
		flags.Set(&f, flags.H, false)
		flags.Set(&f, flags.C, true)
		c.SetF(f)
		return 1

	case KindCCF:
		f := c.F()
		flags.Set(&f, flags.N, false)
		flags.Set(&f, flags.H, false)
		flags.Invert(&f, flags.C)
		c.SetF(f)
		return 1

	case KindJR:
		c.PC = applyOffset(c.PC, ins.Off8)
		return 3

	case KindJRCond:
		if ins.Cond.Met(c) {
			c.PC = applyOffset(c.PC, ins.Off8)
			return 3
		}
		return 2

	case KindStop:
		c.LowPower = true
		return 1

	case KindHalt:
		c.execHalt()
		return 1

	case KindALU:
		c.execALU(ins.ALUOp, ins.R8a.Read(c))
		if ins.R8a == R8_HLInd {
			return 2
		}
		return 1

	case KindALUImm:
		c.execALU(ins.ALUOp, ins.Imm8)
		return 2

	case KindRetCond:
		if ins.Cond.Met(c) {
			c.PC = c.popU16()
			return 5
		}
		return 2

	case KindRet:
		c.PC = c.popU16()
		return 4

	case KindRetI:
		c.PC = c.popU16()
		c.IME = true
		return 4

	case KindJPCond:
		if ins.Cond.Met(c) {
			c.PC = ins.Imm16
			return 4
		}
		return 3

	case KindJP:
		c.PC = ins.Imm16
		return 4

	case KindJPHL:
		c.PC = c.HL.AsU16()
		return 1

	case KindCallCond:
		if ins.Cond.Met(c) {
			c.pushU16(c.PC)
			c.PC = ins.Imm16
			return 6
		}
		return 3

	case KindCall:
		c.pushU16(c.PC)
		c.PC = ins.Imm16
		return 6

	case KindRST:
		c.pushU16(c.PC)
		c.PC = uint16(ins.Vec)
		return 4

	case KindPop:
		ins.R16S.Set(c, c.popU16())
		return 3

	case KindPush:
		c.pushU16(ins.R16S.Get(c))
		return 4

	case KindLDHCA:
		c.mem.Write(0xFF00+uint16(c.BC.Lo()), c.AF.Hi())
		return 2

	case KindLDHAC:
		c.AF.SetHi(c.mem.Read(0xFF00 + uint16(c.BC.Lo())))
		return 2

	case KindLDHN8A:
		c.mem.Write(0xFF00+uint16(ins.Imm8), c.AF.Hi())
		return 3

	case KindLDHAN8:
		c.AF.SetHi(c.mem.Read(0xFF00 + uint16(ins.Imm8)))
		return 3

	case KindLDN16A:
		c.mem.Write(ins.Imm16, c.AF.Hi())
		return 4

	case KindLDAN16:
		c.AF.SetHi(c.mem.Read(ins.Imm16))
		return 4

	case KindAddSPE8:
		c.SP.SetU16(c.spPlusE8(ins.Off8, true))
		return 4

	case KindLDHLSPE8:
		c.HL.SetU16(c.spPlusE8(ins.Off8, true))
		return 3

	case KindLDSPHL:
		c.SP.SetU16(c.HL.AsU16())
		return 2

	case KindDI:
		c.IME = false
		c.imeDelay = 0
		return 1

	case KindEI:
		c.imeDelay = 2
		return 1

	case KindShift:
		c.execShift(ins.ShiftOp, ins.R8a)
		if ins.R8a == R8_HLInd {
			return 4
		}
		return 2

	case KindBit:
		v := ins.R8a.Read(c)
		f := c.F()
		flags.Set(&f, flags.Z, v&(1<<ins.U3) == 0)
		flags.Set(&f, flags.N, false)
		flags.Set(&f, flags.H, true)
		c.SetF(f)
		if ins.R8a == R8_HLInd {
			return 3
		}
		return 2

	case KindRes:
		ins.R8a.Write(c, ins.R8a.Read(c)&^(1<<ins.U3))
		if ins.R8a == R8_HLInd {
			return 4
		}
		return 2

	case KindSet:
		ins.R8a.Write(c, ins.R8a.Read(c)|(1<<ins.U3))
		if ins.R8a == R8_HLInd {
			return 4
		}
		return 2
	}
	return 0
}

func cost1or3(r R8) int {
	if r == R8_HLInd {
		return 3
	}
	return 1
}

func cost2or3(r R8) int {
	if r == R8_HLInd {
		return 3
	}
	return 2
}

func btou8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// applyOffset computes PC +~ sign_extend(e8), per spec §4.4's e8 operand.
func applyOffset(base uint16, off int8) uint16 {
	return uint16(int32(base) + int32(off))
}

// setFlagsShift applies the common Z=0,N=0,H=0,C=carry pattern used by the
// accumulator rotates (RLCA/RRCA/RLA/RRA), which unlike their CB-prefixed
// counterparts always clear Z.
func (c *CPU) setFlagsShift(_ uint8, carry bool) {
	f := c.F()
	flags.Set(&f, flags.Z, false)
	flags.Set(&f, flags.N, false)
	flags.Set(&f, flags.H, false)
	flags.Set(&f, flags.C, carry)
	c.SetF(f)
}

func (c *CPU) execDAA() {
	a := c.AF.Hi()
	f := c.F()
	n := flags.Get(f, flags.N)
	h := flags.Get(f, flags.H)
	carry := flags.Get(f, flags.C)

	var adjust uint8
	setCarry := carry
	if n {
		if h {
			adjust |= 0x06
		}
		if carry {
			adjust |= 0x60
		}
		a -= adjust
	} else {
		if h || a&0x0F > 0x09 {
			adjust |= 0x06
		}
		if carry || a > 0x99 {
			adjust |= 0x60
			setCarry = true
		}
		a += adjust
	}

	flags.Set(&f, flags.Z, a == 0)
	flags.Set(&f, flags.H, false)
	flags.Set(&f, flags.C, setCarry)
	c.SetF(f)
	c.AF.SetHi(a)
}

func (c *CPU) execHalt() {
	pending := c.interruptPending()
	switch {
	case pending && !c.IME:
		// HALT bug: PC fails to advance for the next fetch, so the byte
		// following HALT is executed twice.
		c.haltBug = true
	case pending && c.IME:
		// The interrupt fires immediately; no actual halt occurs.
	default:
		c.LowPower = true
	}
}

func (c *CPU) execALU(op ALUOp, operand uint8) {
	a := c.AF.Hi()
	f := c.F()
	switch op {
	case ALUAdd:
		flags.UpdateCarryAddU8(&f, a, operand)
		r := a + operand
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, false)
		c.AF.SetHi(r)

	case ALUAdc:
		carryIn := btou8(flags.Get(f, flags.C))
		flags.UpdateCarryAddU8C(&f, a, operand, carryIn)
		r := a + operand + carryIn
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, false)
		c.AF.SetHi(r)

	case ALUSub:
		flags.UpdateBorrowSubU8(&f, a, operand)
		r := a - operand
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, true)
		c.AF.SetHi(r)

	case ALUSbc:
		borrowIn := btou8(flags.Get(f, flags.C))
		flags.UpdateBorrowSubU8C(&f, a, operand, borrowIn)
		r := a - operand - borrowIn
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, true)
		c.AF.SetHi(r)

	case ALUAnd:
		r := a & operand
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, false)
		flags.Set(&f, flags.H, true)
		flags.Set(&f, flags.C, false)
		c.AF.SetHi(r)

	case ALUXor:
		r := a ^ operand
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, false)
		flags.Set(&f, flags.H, false)
		flags.Set(&f, flags.C, false)
		c.AF.SetHi(r)

	case ALUOr:
		r := a | operand
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, false)
		flags.Set(&f, flags.H, false)
		flags.Set(&f, flags.C, false)
		c.AF.SetHi(r)

	case ALUCp:
		flags.UpdateBorrowSubU8(&f, a, operand)
		r := a - operand
		flags.Set(&f, flags.Z, r == 0)
		flags.Set(&f, flags.N, true)
		// A is left untouched; only flags are written.
	}
	c.SetF(f)
}

func (c *CPU) execShift(op ShiftOp, r R8) {
	v := r.Read(c)
	f := c.F()
	var result uint8
	var carry bool

	switch op {
	case ShiftRLC:
		carry = v&0x80 != 0
		result = v<<1 | btou8(carry)
	case ShiftRRC:
		carry = v&0x01 != 0
		result = v>>1 | (btou8(carry) << 7)
	case ShiftRL:
		carry = v&0x80 != 0
		result = v<<1 | btou8(flags.Get(f, flags.C))
	case ShiftRR:
		carry = v&0x01 != 0
		result = v>>1 | (btou8(flags.Get(f, flags.C)) << 7)
	case ShiftSLA:
		carry = v&0x80 != 0
		result = v << 1
	case ShiftSRA:
		carry = v&0x01 != 0
		result = v>>1 | (v & 0x80) // preserves bit 7
	case ShiftSwap:
		result = v<<4 | v>>4
		carry = false
	case ShiftSRL:
		carry = v&0x01 != 0
		result = v >> 1
	}

	flags.Set(&f, flags.Z, result == 0)
	flags.Set(&f, flags.N, false)
	flags.Set(&f, flags.H, false)
	flags.Set(&f, flags.C, carry)
	c.SetF(f)
	r.Write(c, result)
}

// spPlusE8 computes SP + sign_extend(e8), deriving H/C from the low byte of
// SP plus the unsigned byte cast of e8, per spec §4.6. zeroZN clears Z and N
// as both ADD SP,e8 and LD HL,SP+e8 require.
func (c *CPU) spPlusE8(off int8, zeroZN bool) uint16 {
	sp := c.SP.AsU16()
	f := c.F()
	lo := uint8(sp)
	u := uint8(off)
	flags.Set(&f, flags.H, (lo&0x0F)+(u&0x0F) > 0x0F)
	flags.Set(&f, flags.C, uint16(lo)+uint16(u) > 0xFF)
	if zeroZN {
		flags.Set(&f, flags.Z, false)
		flags.Set(&f, flags.N, false)
	}
	c.SetF(f)
	return applyOffset(sp, off)
}
