package cpu

// Kind tags the mnemonic family an Instruction belongs to. Go has no native
// sum type, so Instruction is a tagged struct switched on Kind, per spec §9
// ("use a tagged struct and a switch; avoid class hierarchies"). Operand
// fields are shared across kinds the way oisee-z80-optimizer's Instruction
// packs Op+Imm into one reusable shape rather than one struct per opcode.
type Kind uint8

const (
	KindNop Kind = iota
	KindLDR16N16
	KindLDR16MemA
	KindLDAR16Mem
	KindLDN16SP
	KindIncR16
	KindDecR16
	KindAddHLR16
	KindIncR8
	KindDecR8
	KindLDR8N8
	KindLDR8R8
	KindRLCA
	KindRRCA
	KindRLA
	KindRRA
	KindDAA
	KindCPL
	KindSCF
	KindCCF
	KindJR
	KindJRCond
	KindStop
	KindHalt
	KindALU
	KindALUImm
	KindRetCond
	KindRet
	KindRetI
	KindJPCond
	KindJP
	KindJPHL
	KindCallCond
	KindCall
	KindRST
	KindPop
	KindPush
	KindLDHCA
	KindLDHAC
	KindLDHN8A
	KindLDHAN8
	KindLDN16A
	KindLDAN16
	KindAddSPE8
	KindLDHLSPE8
	KindLDSPHL
	KindDI
	KindEI
	KindShift // CB-prefixed RLC/RRC/RL/RR/SLA/SRA/SWAP/SRL r8
	KindBit
	KindRes
	KindSet
)

// Instruction is the decoded, ready-to-execute form of one opcode. Only the
// fields relevant to Kind are meaningful; the rest are zero.
type Instruction struct {
	Kind Kind

	R8a, R8b R8
	R16      R16
	R16M     R16Mem
	R16S     R16Stk
	Cond     Cond
	ALUOp    ALUOp
	ShiftOp  ShiftOp

	Imm8  uint8
	Imm16 uint16
	Off8  int8
	U3    uint8
	Vec   uint8
}
