// Package testvectors loads and runs the public per-opcode single-step test
// format described in spec §6: an array of {name, initial, final, cycles}
// objects, each specifying a starting and ending CPU/memory state plus the
// M-cycle count the instruction should take. No third-party JSON/vector
// library appears anywhere in the retrieved corpus for this purpose (see
// DESIGN.md), so this package uses the standard library's encoding/json
// directly, the way spec §6 itself describes the format in plain JSON terms.
package testvectors

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ljs360d/dmgcore/internal/cpu"
	"github.com/ljs360d/dmgcore/internal/memory"
)

// RAMEntry is one [addr, value] pair in a vector's ram list.
type RAMEntry [2]int

// State is the initial or final register/memory snapshot of a vector.
type State struct {
	A, B, C, D, E, F, H, L uint8
	PC, SP                 uint16
	RAM                    []RAMEntry `json:"ram"`
}

// Vector is one test case: a named instruction run from Initial to Final,
// taking len(Cycles) M-cycles.
type Vector struct {
	Name    string    `json:"name"`
	Initial State     `json:"initial"`
	Final   State     `json:"final"`
	Cycles  []any     `json:"cycles"`
}

// Load parses a JSON array of Vectors from r.
func Load(r io.Reader) ([]Vector, error) {
	var vectors []Vector
	if err := json.NewDecoder(r).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("testvectors: decode: %w", err)
	}
	return vectors, nil
}

// Mismatch describes one field that differed between a vector's expected
// Final state and the state actually produced by running it.
type Mismatch struct {
	Field    string
	Expected uint64
	Actual   uint64
}

// Run builds a CPU from v.Initial, executes exactly one instruction, and
// compares the result against v.Final. It returns the mismatches found (nil
// on an exact match) and the number of M-cycles the step actually took.
func Run(v Vector) ([]Mismatch, int) {
	mem := memory.New()
	for _, entry := range v.Initial.RAM {
		mem.WriteForce(uint16(entry[0]), byte(entry[1]))
	}
	c := cpu.FromState(mem, cpu.RawState{
		A: v.Initial.A, B: v.Initial.B, C: v.Initial.C, D: v.Initial.D,
		E: v.Initial.E, F: v.Initial.F, H: v.Initial.H, L: v.Initial.L,
		PC: v.Initial.PC, SP: v.Initial.SP,
	})

	cycles := c.Step()

	var mismatches []Mismatch
	check := func(field string, expected, actual uint64) {
		if expected != actual {
			mismatches = append(mismatches, Mismatch{field, expected, actual})
		}
	}
	check("A", uint64(v.Final.A), uint64(c.AF.Hi()))
	check("F", uint64(v.Final.F), uint64(c.AF.Lo()))
	check("B", uint64(v.Final.B), uint64(c.BC.Hi()))
	check("C", uint64(v.Final.C), uint64(c.BC.Lo()))
	check("D", uint64(v.Final.D), uint64(c.DE.Hi()))
	check("E", uint64(v.Final.E), uint64(c.DE.Lo()))
	check("H", uint64(v.Final.H), uint64(c.HL.Hi()))
	check("L", uint64(v.Final.L), uint64(c.HL.Lo()))
	// CPU.Step always ends by pre-fetching the following opcode byte into IR,
	// advancing PC one past it (the same convention CPU.New/FromState apply
	// at construction). c.PC-1 recovers the vector format's plain "address of
	// the next instruction".
	check("PC", uint64(v.Final.PC), uint64(c.PC-1))
	check("SP", uint64(v.Final.SP), uint64(c.SP.AsU16()))

	for _, entry := range v.Final.RAM {
		addr, want := uint16(entry[0]), byte(entry[1])
		check(fmt.Sprintf("RAM[0x%04X]", addr), uint64(want), uint64(mem.ReadForce(addr)))
	}

	return mismatches, cycles
}
