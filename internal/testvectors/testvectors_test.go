package testvectors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljs360d/dmgcore/internal/flags"
)

const sampleJSON = `[
  {
    "name": "00 nop",
    "initial": {"a":0,"b":0,"c":0,"d":0,"e":0,"f":0,"h":0,"l":0,"pc":256,"sp":65534,"ram":[[256,0]]},
    "final":   {"a":0,"b":0,"c":0,"d":0,"e":0,"f":0,"h":0,"l":0,"pc":257,"sp":65534,"ram":[[256,0]]},
    "cycles": [[256, 0, "r-m"]]
  }
]`

func TestLoadParsesVectorArray(t *testing.T) {
	vectors, err := Load(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, "00 nop", vectors[0].Name)
	assert.Equal(t, uint16(0x0100), vectors[0].Initial.PC)
	assert.Equal(t, RAMEntry{0x0100, 0x00}, vectors[0].Initial.RAM[0])
}

func TestRunNopProducesNoMismatches(t *testing.T) {
	v := Vector{
		Name: "00 nop",
		Initial: State{
			PC: 0x0100, SP: 0xFFFE,
			RAM: []RAMEntry{{0x0100, 0x00}},
		},
		Final: State{
			PC: 0x0101, SP: 0xFFFE,
			RAM: []RAMEntry{{0x0100, 0x00}},
		},
	}

	mismatches, cycles := Run(v)
	assert.Empty(t, mismatches)
	assert.Equal(t, 1, cycles)
}

func TestRunIncBSetsHalfCarryAndAdvancesPC(t *testing.T) {
	v := Vector{
		Name: "04 inc b",
		Initial: State{
			B: 0x0F, PC: 0x0200, SP: 0xFFFE,
			RAM: []RAMEntry{{0x0200, 0x04}},
		},
		Final: State{
			B: 0x10, F: flags.H, PC: 0x0201, SP: 0xFFFE,
			RAM: []RAMEntry{{0x0200, 0x04}},
		},
	}

	mismatches, cycles := Run(v)
	assert.Empty(t, mismatches)
	assert.Equal(t, 1, cycles)
}

func TestRunReportsMismatchOnWrongExpectedPC(t *testing.T) {
	v := Vector{
		Name: "00 nop wrong expectation",
		Initial: State{
			PC: 0x0100, SP: 0xFFFE,
			RAM: []RAMEntry{{0x0100, 0x00}},
		},
		Final: State{
			PC: 0x0100, SP: 0xFFFE, // wrong: NOP always advances PC by one
			RAM: []RAMEntry{{0x0100, 0x00}},
		},
	}

	mismatches, _ := Run(v)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "PC", mismatches[0].Field)
	assert.Equal(t, uint64(0x0100), mismatches[0].Expected)
	assert.Equal(t, uint64(0x0101), mismatches[0].Actual)
}
