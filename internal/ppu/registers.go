// Package ppu implements the pixel-processing unit described in spec §4.9:
// the dot-clock mode scheduler, LY/LYC/STAT bookkeeping, and the BG/window/
// object tile decode and compositing of §4.10. It generalizes the teacher's
// internal/ppu package (register-byte-backed PPU struct wired to a Bus, an
// explicit Tick(cycles) advancing a scanline counter) from the GBA's
// DISPCNT/VCOUNT model to the DMG's LCDC/STAT/LY state machine, and adopts
// the typed bit-flag accessor style of original_source's control_registers
// (RegisterLCDC, RegisterSTAT) in place of raw shifts at every call site.
package ppu

// MMIO register addresses within the I/O window, per spec §6.
const (
	LCDCAddr = 0xFF40
	STATAddr = 0xFF41
	SCYAddr  = 0xFF42
	SCXAddr  = 0xFF43
	LYAddr   = 0xFF44
	LYCAddr  = 0xFF45
	BGPAddr  = 0xFF47
	OBP0Addr = 0xFF48
	OBP1Addr = 0xFF49
	WYAddr   = 0xFF4A
	WXAddr   = 0xFF4B

	ifAddr   = 0xFF0F
	lcdIFBit = 1 << 1
)

// LCDC bit masks, per original_source's control_registers/lcdc.rs.
const (
	lcdcLCDEnable    = 0b1000_0000
	lcdcWinTileMap   = 0b0100_0000
	lcdcWinEnable    = 0b0010_0000
	lcdcBGWinTiles   = 0b0001_0000
	lcdcBGTileMap    = 0b0000_1000
	lcdcObjSize      = 0b0000_0100
	lcdcObjEnable    = 0b0000_0010
	lcdcBGWinEnable  = 0b0000_0001
)

// STAT bit masks, per original_source's control_registers/lcd_status.rs.
const (
	statLYCIntSelect  = 0b0100_0000
	statMode2IntSelect = 0b0010_0000
	statMode1IntSelect = 0b0001_0000
	statMode0IntSelect = 0b0000_1000
	statLYCEqualsLY    = 0b0000_0100
	statModeMask       = 0b0000_0011
)

// lcdc reads the LCDC register directly from the owning address space.
func (p *PPU) lcdc() uint8 { return p.mem.ReadForce(LCDCAddr) }

// LCDEnabled implements interfaces.PPUModeSource.
func (p *PPU) LCDEnabled() bool { return p.lcdc()&lcdcLCDEnable != 0 }

func (p *PPU) bgWinEnabled() bool  { return p.lcdc()&lcdcBGWinEnable != 0 }
func (p *PPU) winEnabled() bool    { return p.lcdc()&lcdcWinEnable != 0 }
func (p *PPU) objEnabled() bool    { return p.lcdc()&lcdcObjEnable != 0 }
func (p *PPU) objTallSprites() bool { return p.lcdc()&lcdcObjSize != 0 }

// bgTileMapBase returns 0x9800 or 0x9C00 per LCDC bit 3.
func (p *PPU) bgTileMapBase() uint16 {
	if p.lcdc()&lcdcBGTileMap != 0 {
		return 0x9C00
	}
	return 0x9800
}

// winTileMapBase returns 0x9800 or 0x9C00 per LCDC bit 6.
func (p *PPU) winTileMapBase() uint16 {
	if p.lcdc()&lcdcWinTileMap != 0 {
		return 0x9C00
	}
	return 0x9800
}

// bgWinUnsignedTiles reports whether BG/window tiles are indexed against
// the unsigned $8000 block (LCDC bit 4 set) rather than the signed $8800
// block based at $9000.
func (p *PPU) bgWinUnsignedTiles() bool { return p.lcdc()&lcdcBGWinTiles != 0 }

func (p *PPU) stat() uint8      { return p.mem.ReadForce(STATAddr) }
func (p *PPU) setStat(v uint8)  { p.mem.WriteForce(STATAddr, v) }
func (p *PPU) scy() uint8       { return p.mem.ReadForce(SCYAddr) }
func (p *PPU) scx() uint8       { return p.mem.ReadForce(SCXAddr) }
func (p *PPU) ly() uint8        { return p.mem.ReadForce(LYAddr) }
func (p *PPU) setLY(v uint8)    { p.mem.WriteForce(LYAddr, v) }
func (p *PPU) lyc() uint8       { return p.mem.ReadForce(LYCAddr) }
func (p *PPU) bgp() uint8       { return p.mem.ReadForce(BGPAddr) }
func (p *PPU) obp0() uint8      { return p.mem.ReadForce(OBP0Addr) }
func (p *PPU) obp1() uint8      { return p.mem.ReadForce(OBP1Addr) }
func (p *PPU) wy() uint8        { return p.mem.ReadForce(WYAddr) }
func (p *PPU) wx() uint8        { return p.mem.ReadForce(WXAddr) }

// Mode implements interfaces.PPUModeSource, returning the PPU_MODE field of
// STAT.
func (p *PPU) Mode() uint8 { return p.stat() & statModeMask }

// setMode writes the PPU_MODE field of STAT and requests a STAT interrupt if
// the corresponding "int select" bit for the new mode is set. Mode 3 has no
// int-select bit of its own.
func (p *PPU) setMode(mode uint8) {
	s := p.stat()&^statModeMask | mode
	p.setStat(s)

	var want bool
	switch mode {
	case 0:
		want = s&statMode0IntSelect != 0
	case 1:
		want = s&statMode1IntSelect != 0
	case 2:
		want = s&statMode2IntSelect != 0
	}
	if want {
		p.requestSTAT()
	}
}

// updateLYC refreshes STAT's LYC==LY bit and requests a STAT interrupt on
// the bit's rising edge, if enabled.
func (p *PPU) updateLYC() {
	s := p.stat()
	equal := p.ly() == p.lyc()
	was := s&statLYCEqualsLY != 0
	if equal {
		s |= statLYCEqualsLY
	} else {
		s &^= statLYCEqualsLY
	}
	p.setStat(s)
	if equal && !was && s&statLYCIntSelect != 0 {
		p.requestSTAT()
	}
}

func (p *PPU) requestSTAT() {
	p.mem.WriteForce(ifAddr, p.mem.ReadForce(ifAddr)|lcdIFBit)
}

func (p *PPU) requestVBlank() {
	const vblankIFBit = 1 << 0
	p.mem.WriteForce(ifAddr, p.mem.ReadForce(ifAddr)|vblankIFBit)
}
