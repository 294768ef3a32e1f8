package ppu

import "github.com/ljs360d/dmgcore/internal/memory"

// Screen dimensions and framebuffer pixel format, per spec §2/§4.10: a
// 160×144 grid of 15-bit BGR555 values (as produced by original_source's
// render.rs SCREEN_WIDTH/SCREEN_HEIGHT/RENDER_PIXEL_SIZE constants).
const (
	ScreenWidth  = 160
	ScreenHeight = 144

	scanlineDots = 456
	mode2Dots    = 80
	// mode3Dots is pinned to the hardware minimum rather than varying with
	// SCX/sprite count, per SPEC_FULL.md's Open Questions decision.
	mode3Dots = 172
	mode0Dots = scanlineDots - mode2Dots - mode3Dots

	vblankStartLine = ScreenHeight // 144
	lastLine        = 153
)

// PPU is the pixel-processing unit: the dot-clock scheduler of spec §4.9 and
// the BG/window/object compositor of §4.10, together with the register
// accessors of registers.go. It owns no pixel buffer state beyond the
// current frame, mirroring the teacher's PPU holding an *image.RGBA "Frame"
// rather than a host-side render target.
type PPU struct {
	mem *memory.AddressSpace

	dot        int // dots elapsed within the current scanline
	frameReady bool

	framebuffer [ScreenWidth * ScreenHeight]uint16 // 15-bit BGR555
}

// New returns a PPU wired to mem for register and VRAM/OAM access. Callers
// must call mem.AttachPPU(p) to complete the gating wiring.
func New(mem *memory.AddressSpace) *PPU {
	return &PPU{mem: mem}
}

// PowerOn writes the DMG defaults for the registers this PPU owns, per
// spec §6: LCDC = 0x91, STAT = 0x85.
func (p *PPU) PowerOn() {
	p.mem.WriteForce(LCDCAddr, 0x91)
	p.mem.WriteForce(STATAddr, 0x85)
}

// Step advances the scheduler by dots dot-clocks, per spec §4.9, performing
// mode transitions, LY increments, LYC comparison, STAT interrupt requests,
// and scanline rendering as each boundary is crossed.
func (p *PPU) Step(dots int) {
	if !p.LCDEnabled() {
		return
	}
	p.updateLYC() // LYC may have been written since the last Step
	for i := 0; i < dots; i++ {
		p.stepOne()
	}
}

func (p *PPU) stepOne() {
	p.dot++

	line := p.ly()
	switch {
	case line < vblankStartLine:
		switch {
		case p.dot == 1:
			p.setMode(2)
		case p.dot == mode2Dots+1:
			p.setMode(3)
			p.renderScanline(line)
		case p.dot == mode2Dots+mode3Dots+1:
			p.setMode(0)
		}
	default:
		if p.dot == 1 && line == vblankStartLine {
			p.setMode(1)
			p.frameReady = true
			p.requestVBlank()
		}
	}

	if p.dot >= scanlineDots {
		p.dot = 0
		p.advanceLine()
	}
}

func (p *PPU) advanceLine() {
	next := p.ly() + 1
	if next > lastLine {
		next = 0
	}
	p.setLY(next)
	p.updateLYC()
}

// FrameReady reports whether a full frame has been produced since the last
// ConsumeFrame call, per spec §7's "advance until next frame" contract.
func (p *PPU) FrameReady() bool { return p.frameReady }

// ConsumeFrame clears the frame-ready flag and returns the completed
// framebuffer. The host is expected to call this exactly once per raised
// frame, per spec §7.
func (p *PPU) ConsumeFrame() *[ScreenWidth * ScreenHeight]uint16 {
	p.frameReady = false
	return &p.framebuffer
}
