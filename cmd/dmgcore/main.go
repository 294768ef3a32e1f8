// Command dmgcore is the cobra-based front end for the SM83 core, grounded
// on oisee-z80-optimizer's cmd/z80opt/main.go (a root command with
// subcommand-scoped flags, RunE returning errors up to cobra's own exit
// handling) and the teacher's main.go (ROM loading, log.Fatal on failure,
// the first-frame PNG dump).
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ljs360d/dmgcore/internal/cartridge"
	"github.com/ljs360d/dmgcore/internal/cpu"
	"github.com/ljs360d/dmgcore/internal/debugger"
	"github.com/ljs360d/dmgcore/internal/memory"
	"github.com/ljs360d/dmgcore/internal/ppu"
	"github.com/ljs360d/dmgcore/internal/testvectors"
	"github.com/ljs360d/dmgcore/internal/timer"
)

// machine bundles the wired-together core, the way the teacher's main()
// wires bus/cpu/ppu/cartridge inline rather than through a god-object.
type machine struct {
	mem   *memory.AddressSpace
	cpu   *cpu.CPU
	ppu   *ppu.PPU
	timer *timer.Timer
}

func newMachine(cart *cartridge.Cartridge) *machine {
	mem := memory.New()
	mem.LoadROM(cart.ROM)

	t := timer.New(mem)
	p := ppu.New(mem)
	mem.AttachPPU(p)
	mem.AttachTimer(t)
	p.PowerOn()

	c := cpu.New(mem)
	c.AttachSystems(t, p)

	return &machine{mem: mem, cpu: c, ppu: p, timer: t}
}

// stepOnce runs one CPU instruction and returns its M-cycle cost.
func (m *machine) stepOnce() int { return m.cpu.Step() }

// runUntilFrame loops stepOnce until the PPU raises frame-ready, per spec
// §5's "advance until next frame" contract, then consumes and returns it.
func (m *machine) runUntilFrame() *[ppu.ScreenWidth * ppu.ScreenHeight]uint16 {
	for !m.ppu.FrameReady() {
		m.stepOnce()
	}
	return m.ppu.ConsumeFrame()
}

func main() {
	root := &cobra.Command{
		Use:   "dmgcore",
		Short: "SM83 CPU/memory/PPU core: run, step, and debug Game Boy ROMs",
	}

	root.AddCommand(runCmd(), stepCmd(), debugCmd(), vectorsCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runCmd() *cobra.Command {
	var frames int
	var dumpFirst string

	cmd := &cobra.Command{
		Use:   "run <rom>",
		Short: "Advance the core frame by frame until --frames is reached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := cartridge.Load(args[0])
			if err != nil {
				return err
			}
			m := newMachine(cart)

			for i := 0; i < frames; i++ {
				fb := m.runUntilFrame()
				if i == 0 && dumpFirst != "" {
					if err := dumpPNG(fb, dumpFirst); err != nil {
						return err
					}
				}
			}
			fmt.Printf("ran %d frames, %d M-cycles\n", frames, m.cpu.CycleCount)
			return nil
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 60, "number of frames to advance")
	cmd.Flags().StringVar(&dumpFirst, "dump-first", "", "write the first rendered frame to this PNG path")
	return cmd
}

func stepCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "step <rom>",
		Short: "Single-step the core N times and print a status line per step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := cartridge.Load(args[0])
			if err != nil {
				return err
			}
			m := newMachine(cart)
			for i := 0; i < n; i++ {
				pc := m.cpu.PC
				cycles := m.stepOnce()
				fmt.Printf("step %d: PC=0x%04X cycles=%d AF=0x%04X\n", i, pc, cycles, m.cpu.AF.AsU16())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 10, "number of instructions to step")
	return cmd
}

func debugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug <rom>",
		Short: "Launch the interactive single-step TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := cartridge.Load(args[0])
			if err != nil {
				return err
			}
			m := newMachine(cart)
			return debugger.Run(m.cpu)
		},
	}
}

func vectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vectors <file.json>",
		Short: "Run the public per-opcode single-step test vectors in file.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			vectors, err := testvectors.Load(f)
			if err != nil {
				return err
			}

			failed := 0
			for _, v := range vectors {
				mismatches, _ := testvectors.Run(v)
				if len(mismatches) > 0 {
					failed++
					fmt.Printf("FAIL %s:\n", v.Name)
					for _, mm := range mismatches {
						fmt.Printf("  %s: expected 0x%X, got 0x%X\n", mm.Field, mm.Expected, mm.Actual)
					}
				}
			}
			fmt.Printf("%d/%d vectors passed\n", len(vectors)-failed, len(vectors))
			if failed > 0 {
				return fmt.Errorf("%d vector(s) failed", failed)
			}
			return nil
		},
	}
	return cmd
}

func dumpPNG(fb *[ppu.ScreenWidth * ppu.ScreenHeight]uint16, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			c := fb[y*ppu.ScreenWidth+x]
			r := uint8(c&0x1F) << 3
			g := uint8((c>>5)&0x1F) << 3
			b := uint8((c>>10)&0x1F) << 3
			img.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
