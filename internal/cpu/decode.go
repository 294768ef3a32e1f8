package cpu

import (
	"errors"
	"fmt"

	"github.com/ljs360d/dmgcore/internal/memory"
)

// ErrIllegalOpcode is returned for the handful of unofficial byte values
// that have no SM83 encoding.
var ErrIllegalOpcode = errors.New("illegal opcode")

func fetchU8(mem *memory.AddressSpace, pc *uint16) uint8 {
	v := mem.Read(*pc)
	*pc++
	return v
}

func fetchI8(mem *memory.AddressSpace, pc *uint16) int8 {
	return int8(fetchU8(mem, pc))
}

func fetchU16(mem *memory.AddressSpace, pc *uint16) uint16 {
	lo := uint16(fetchU8(mem, pc))
	hi := uint16(fetchU8(mem, pc))
	return hi<<8 | lo
}

// decode reads b, the already-fetched opcode byte, plus any immediate
// operands starting at *pc (advancing *pc past them), and returns the
// decoded Instruction. It is a pattern match over the eight bits of b, per
// spec §4.5 and §9: a dense dispatch table is permitted but a direct match
// is clearer and just as fast.
func decode(b uint8, mem *memory.AddressSpace, pc *uint16) (Instruction, error) {
	switch b >> 6 {
	case 0b00:
		return decodeBlock00(b, mem, pc)
	case 0b01:
		return decodeBlock01(b), nil
	case 0b10:
		return Instruction{Kind: KindALU, ALUOp: decodeALUOp(b >> 3), R8a: decodeR8(b)}, nil
	default:
		return decodeBlock11(b, mem, pc)
	}
}

func decodeBlock00(b uint8, mem *memory.AddressSpace, pc *uint16) (Instruction, error) {
	switch {
	case b == 0x00:
		return Instruction{Kind: KindNop}, nil
	case b&0xC7 == 0x04:
		return Instruction{Kind: KindIncR8, R8a: decodeR8(b >> 3)}, nil
	case b&0xC7 == 0x05:
		return Instruction{Kind: KindDecR8, R8a: decodeR8(b >> 3)}, nil
	case b&0xC7 == 0x06:
		return Instruction{Kind: KindLDR8N8, R8a: decodeR8(b >> 3), Imm8: fetchU8(mem, pc)}, nil
	case b&0xCF == 0x01:
		return Instruction{Kind: KindLDR16N16, R16: decodeR16(b >> 4), Imm16: fetchU16(mem, pc)}, nil
	case b&0xCF == 0x02:
		return Instruction{Kind: KindLDR16MemA, R16M: decodeR16Mem(b >> 4)}, nil
	case b&0xCF == 0x0A:
		return Instruction{Kind: KindLDAR16Mem, R16M: decodeR16Mem(b >> 4)}, nil
	case b == 0x08:
		return Instruction{Kind: KindLDN16SP, Imm16: fetchU16(mem, pc)}, nil
	case b&0xCF == 0x03:
		return Instruction{Kind: KindIncR16, R16: decodeR16(b >> 4)}, nil
	case b&0xCF == 0x0B:
		return Instruction{Kind: KindDecR16, R16: decodeR16(b >> 4)}, nil
	case b&0xCF == 0x09:
		return Instruction{Kind: KindAddHLR16, R16: decodeR16(b >> 4)}, nil
	case b == 0x07:
		return Instruction{Kind: KindRLCA}, nil
	case b == 0x0F:
		return Instruction{Kind: KindRRCA}, nil
	case b == 0x17:
		return Instruction{Kind: KindRLA}, nil
	case b == 0x1F:
		return Instruction{Kind: KindRRA}, nil
	case b == 0x27:
		return Instruction{Kind: KindDAA}, nil
	case b == 0x2F:
		return Instruction{Kind: KindCPL}, nil
	case b == 0x37:
		return Instruction{Kind: KindSCF}, nil
	case b == 0x3F:
		return Instruction{Kind: KindCCF}, nil
	case b == 0x18:
		return Instruction{Kind: KindJR, Off8: fetchI8(mem, pc)}, nil
	case b&0xE7 == 0x20:
		return Instruction{Kind: KindJRCond, Cond: decodeCond(b >> 3), Off8: fetchI8(mem, pc)}, nil
	case b == 0x10:
		fetchU8(mem, pc) // STOP is a two-byte encoding; the second byte is discarded.
		return Instruction{Kind: KindStop}, nil
	}
	return Instruction{}, fmt.Errorf("%w: 0x%02X", ErrIllegalOpcode, b)
}

func decodeBlock01(b uint8) Instruction {
	if b == 0x76 {
		return Instruction{Kind: KindHalt}
	}
	return Instruction{Kind: KindLDR8R8, R8a: decodeR8(b >> 3), R8b: decodeR8(b)}
}

func decodeBlock11(b uint8, mem *memory.AddressSpace, pc *uint16) (Instruction, error) {
	switch {
	case b == 0xCB:
		return decodeCB(fetchU8(mem, pc)), nil
	case b&0xE7 == 0xC0:
		return Instruction{Kind: KindRetCond, Cond: decodeCond(b >> 3)}, nil
	case b == 0xC9:
		return Instruction{Kind: KindRet}, nil
	case b == 0xD9:
		return Instruction{Kind: KindRetI}, nil
	case b&0xE7 == 0xC2:
		return Instruction{Kind: KindJPCond, Cond: decodeCond(b >> 3), Imm16: fetchU16(mem, pc)}, nil
	case b == 0xC3:
		return Instruction{Kind: KindJP, Imm16: fetchU16(mem, pc)}, nil
	case b == 0xE9:
		return Instruction{Kind: KindJPHL}, nil
	case b&0xE7 == 0xC4:
		return Instruction{Kind: KindCallCond, Cond: decodeCond(b >> 3), Imm16: fetchU16(mem, pc)}, nil
	case b == 0xCD:
		return Instruction{Kind: KindCall, Imm16: fetchU16(mem, pc)}, nil
	case b&0xC7 == 0xC7:
		return Instruction{Kind: KindRST, Vec: ((b >> 3) & 0x07) * 8}, nil
	case b&0xCF == 0xC1:
		return Instruction{Kind: KindPop, R16S: decodeR16Stk(b >> 4)}, nil
	case b&0xCF == 0xC5:
		return Instruction{Kind: KindPush, R16S: decodeR16Stk(b >> 4)}, nil
	case b == 0xE2:
		return Instruction{Kind: KindLDHCA}, nil
	case b == 0xE0:
		return Instruction{Kind: KindLDHN8A, Imm8: fetchU8(mem, pc)}, nil
	case b == 0xEA:
		return Instruction{Kind: KindLDN16A, Imm16: fetchU16(mem, pc)}, nil
	case b == 0xF2:
		return Instruction{Kind: KindLDHAC}, nil
	case b == 0xF0:
		return Instruction{Kind: KindLDHAN8, Imm8: fetchU8(mem, pc)}, nil
	case b == 0xFA:
		return Instruction{Kind: KindLDAN16, Imm16: fetchU16(mem, pc)}, nil
	case b == 0xE8:
		return Instruction{Kind: KindAddSPE8, Off8: fetchI8(mem, pc)}, nil
	case b == 0xF8:
		return Instruction{Kind: KindLDHLSPE8, Off8: fetchI8(mem, pc)}, nil
	case b == 0xF9:
		return Instruction{Kind: KindLDSPHL}, nil
	case b == 0xF3:
		return Instruction{Kind: KindDI}, nil
	case b == 0xFB:
		return Instruction{Kind: KindEI}, nil
	case b&0xC7 == 0xC6:
		return Instruction{Kind: KindALUImm, ALUOp: decodeALUOp(b >> 3), Imm8: fetchU8(mem, pc)}, nil
	}
	return Instruction{}, fmt.Errorf("%w: 0x%02X", ErrIllegalOpcode, b)
}

func decodeCB(cb uint8) Instruction {
	r8 := decodeR8(cb)
	switch cb >> 6 {
	case 0b00:
		return Instruction{Kind: KindShift, ShiftOp: decodeShiftOp(cb >> 3), R8a: r8}
	case 0b01:
		return Instruction{Kind: KindBit, U3: (cb >> 3) & 0x07, R8a: r8}
	case 0b10:
		return Instruction{Kind: KindRes, U3: (cb >> 3) & 0x07, R8a: r8}
	default:
		return Instruction{Kind: KindSet, U3: (cb >> 3) & 0x07, R8a: r8}
	}
}
