// Package debugger is an interactive single-step TUI for the SM83 core,
// adapted from hejops-gone's cpu/debugger.go (bubbletea model, lipgloss
// panel layout, go-spew instruction dump) from its 6502 register set to
// the SM83's.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/ljs360d/dmgcore/internal/cpu"
)

type model struct {
	gb     *cpu.CPU
	offset uint16 // page-table scroll offset
	prevPC uint16
	steps  int
	err    error
}

// New returns a TUI model wired to gb, ready to be run with Run.
func New(gb *cpu.CPU) model {
	return model{gb: gb}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.gb.PC
			func() {
				defer func() {
					if r := recover(); r != nil {
						m.err = fmt.Errorf("%v", r)
					}
				}()
				m.gb.Step()
			}()
			m.steps++
			if m.err != nil {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// renderPage renders one 16-byte memory row as a line, highlighting PC.
func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04X | ", start)
	for i := 0; i < 16; i++ {
		addr := start + uint16(i)
		b := m.gb.Memory().ReadForce(addr)
		if addr == m.gb.PC {
			s += fmt.Sprintf("[%02X] ", b)
		} else {
			s += fmt.Sprintf(" %02X  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	header := "page | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01X  ", b)
	}
	lines := []string{header}
	base := m.gb.PC &^ 0x0F
	for i := -2; i <= 2; i++ {
		lines = append(lines, m.renderPage(base+uint16(i*16)))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	f := m.gb.F()
	flagChar := func(set bool, ch byte) byte {
		if set {
			return ch
		}
		return '-'
	}
	flags := []byte{
		flagChar(f&0x80 != 0, 'Z'),
		flagChar(f&0x40 != 0, 'N'),
		flagChar(f&0x20 != 0, 'H'),
		flagChar(f&0x10 != 0, 'C'),
	}
	return fmt.Sprintf(`
PC: %04X (was %04X)
SP: %04X
AF: %04X  %s
BC: %04X
DE: %04X
HL: %04X
IME: %v  steps: %d
`,
		m.gb.PC, m.prevPC,
		m.gb.SP.AsU16(),
		m.gb.AF.AsU16(), string(flags),
		m.gb.BC.AsU16(),
		m.gb.DE.AsU16(),
		m.gb.HL.AsU16(),
		m.gb.IME, m.steps,
	)
}

func (m model) View() string {
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.pageTable(),
		m.status(),
	)
	footer := spew.Sdump(struct {
		IR uint8
		PC uint16
	}{m.gb.IR, m.gb.PC})
	if m.err != nil {
		footer = "error: " + m.err.Error() + "\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", footer, "(space/j: step, q: quit)")
}

// Run starts the interactive TUI against gb and blocks until the user quits.
func Run(gb *cpu.CPU) error {
	_, err := tea.NewProgram(New(gb)).Run()
	return err
}
