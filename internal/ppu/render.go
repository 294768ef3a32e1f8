package ppu

// Tile decode and BG/window/object scanline compositing, per spec §4.10.
// Grounded on original_source's rendering/tile.rs (Tile.read, the unsigned-
// vs-signed tile-index addressing split of read_bg_tile) and rendering/
// render.rs (get_bg_tile_index walking a 32×32 tilemap), adapted from that
// whole-background-at-once model to a per-scanline compositor driven by the
// dot-clock scheduler in scheduler.go.

const (
	tileWidth  = 8
	tileHeight = 8
	tileBytes  = 16 // 2 bytes per row, 8 rows

	tileMapWidth  = 32
	tileDataBlock0 = 0x8000 // unsigned-index block, also used by objects
	tileDataBlock1 = 0x8800 // signed-index block (base $9000, offsets -128..-1)
	tileSignedBase = 0x9000
)

// tileRow decodes one 8-pixel row of a tile into 2-bit palette indices,
// high bit taken from the second byte of the pair per spec §4.10.
func (p *PPU) tileRow(tileAddr uint16, row uint8) [tileWidth]uint8 {
	lo := p.mem.ReadForce(tileAddr + uint16(row)*2)
	hi := p.mem.ReadForce(tileAddr + uint16(row)*2 + 1)
	var out [tileWidth]uint8
	for bit := 0; bit < tileWidth; bit++ {
		shift := 7 - bit
		lobit := (lo >> shift) & 1
		hibit := (hi >> shift) & 1
		out[bit] = hibit<<1 | lobit
	}
	return out
}

// bgWinTileAddr resolves a BG/window tile index to its tile-data address
// using the addressing mode selected by LCDC bit 4.
func (p *PPU) bgWinTileAddr(index uint8) uint16 {
	if p.bgWinUnsignedTiles() {
		return tileDataBlock0 + uint16(index)*tileBytes
	}
	signed := int8(index)
	return uint16(int32(tileSignedBase) + int32(signed)*tileBytes)
}

// objTileAddr resolves an object tile index; objects always use the
// unsigned $8000 addressing mode regardless of LCDC bit 4.
func objTileAddr(index uint8) uint16 {
	return tileDataBlock0 + uint16(index)*tileBytes
}

// applyPalette maps a 2-bit color index through a BGP/OBP0/OBP1-style
// palette byte to a DMG shade (0 = lightest, 3 = darkest).
func applyPalette(palette uint8, index uint8) uint8 {
	return (palette >> (index * 2)) & 0x03
}

// shadeColor maps a DMG shade to a 15-bit BGR555 framebuffer value.
func shadeColor(shade uint8) uint16 {
	switch shade {
	case 0:
		return 0x7FFF // white
	case 1:
		return 0x56B5 // light gray
	case 2:
		return 0x2D6B // dark gray
	default:
		return 0x0000 // black
	}
}

// renderScanline fills one row of the framebuffer, compositing background,
// window, and objects in hardware priority order (objects with priority=0
// drawn above BG/window; priority=1 drawn below non-zero BG/window pixels).
func (p *PPU) renderScanline(line uint8) {
	var bgIndex [ScreenWidth]uint8
	if p.bgWinEnabled() {
		p.renderBackground(line, &bgIndex)
		p.renderWindow(line, &bgIndex)
	}

	bgp := p.bgp()
	row := line
	for x := 0; x < ScreenWidth; x++ {
		shade := applyPalette(bgp, bgIndex[x])
		p.framebuffer[int(row)*ScreenWidth+x] = shadeColor(shade)
	}

	if p.objEnabled() {
		p.renderObjects(line, &bgIndex)
	}
}

func (p *PPU) renderBackground(line uint8, out *[ScreenWidth]uint8) {
	mapBase := p.bgTileMapBase()
	scy, scx := p.scy(), p.scx()
	y := line + scy

	for x := 0; x < ScreenWidth; x++ {
		px := uint8(x) + scx
		tileCol := uint16(px) / tileWidth
		tileRowIdx := uint16(y) / tileHeight
		mapAddr := mapBase + tileRowIdx*tileMapWidth + tileCol
		tileIndex := p.mem.ReadForce(mapAddr)

		tileAddr := p.bgWinTileAddr(tileIndex)
		rowPixels := p.tileRow(tileAddr, y%tileHeight)
		out[x] = rowPixels[px%tileWidth]
	}
}

func (p *PPU) renderWindow(line uint8, out *[ScreenWidth]uint8) {
	if !p.winEnabled() {
		return
	}
	wy, wx := p.wy(), p.wx()
	if line < wy || wx > 166 {
		return
	}
	mapBase := p.winTileMapBase()
	winLine := line - wy

	for x := 0; x < ScreenWidth; x++ {
		winX := int(x) - (int(wx) - 7)
		if winX < 0 {
			continue
		}
		tileCol := uint16(winX) / tileWidth
		tileRowIdx := uint16(winLine) / tileHeight
		mapAddr := mapBase + tileRowIdx*tileMapWidth + tileCol
		tileIndex := p.mem.ReadForce(mapAddr)

		tileAddr := p.bgWinTileAddr(tileIndex)
		rowPixels := p.tileRow(tileAddr, winLine%tileHeight)
		out[x] = rowPixels[uint16(winX)%tileWidth]
	}
}

func (p *PPU) renderObjects(line uint8, bg *[ScreenWidth]uint8) {
	sprites := p.scanLineSprites(line)
	height := p.spriteHeight()

	// Overlapping sprites are resolved by OAM index alone (X position is not
	// considered): iterate in reverse so earlier entries overwrite later ones.
	for i := len(sprites) - 1; i >= 0; i-- {
		o := sprites[i]
		spriteLine := int(line) - (int(o.y) - 16)
		if o.yFlip {
			spriteLine = int(height) - 1 - spriteLine
		}

		tile := o.tile
		if height == 16 {
			tile &^= 0x01
			if spriteLine >= tileHeight {
				tile |= 0x01
				spriteLine -= tileHeight
			}
		}

		rowPixels := p.tileRow(objTileAddr(tile), uint8(spriteLine))
		palette := p.obp0()
		if o.useOBP1 {
			palette = p.obp1()
		}

		for col := 0; col < tileWidth; col++ {
			srcCol := col
			if o.xFlip {
				srcCol = tileWidth - 1 - col
			}
			colorIndex := rowPixels[srcCol]
			if colorIndex == 0 {
				continue // transparent
			}
			screenX := int(o.x) - 8 + col
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			if o.priority && bg[screenX] != 0 {
				continue // BG/window priority over object
			}
			shade := applyPalette(palette, colorIndex)
			p.framebuffer[int(line)*ScreenWidth+screenX] = shadeColor(shade)
		}
	}
}
