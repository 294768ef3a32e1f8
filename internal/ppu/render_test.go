package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ljs360d/dmgcore/internal/memory"
)

func TestTileRowDecodesTwoBPP(t *testing.T) {
	mem := memory.New()
	p := New(mem)
	mem.WriteForce(0x8000, 0b1010_1010) // low bitplane
	mem.WriteForce(0x8001, 0b1100_1100) // high bitplane

	row := p.tileRow(0x8000, 0)
	// pixel 0: lo=1,hi=1 -> index 3; pixel 1: lo=0,hi=1 -> index 2
	assert.Equal(t, uint8(3), row[0])
	assert.Equal(t, uint8(2), row[1])
	assert.Equal(t, uint8(1), row[2])
	assert.Equal(t, uint8(0), row[3])
}

func TestBgWinTileAddrUnsignedVsSigned(t *testing.T) {
	mem := memory.New()
	p := New(mem)
	mem.WriteForce(LCDCAddr, lcdcBGWinTiles)
	assert.Equal(t, uint16(tileDataBlock0+5*tileBytes), p.bgWinTileAddr(5))

	mem.WriteForce(LCDCAddr, 0) // signed mode
	assert.Equal(t, uint16(tileSignedBase-tileBytes), p.bgWinTileAddr(0xFF), "index 0xFF (-1) addresses the tile just below $9000")
}

func TestRenderScanlineAppliesBGPPalette(t *testing.T) {
	mem := memory.New()
	p := New(mem)
	mem.WriteForce(LCDCAddr, lcdcBGWinEnable|lcdcBGWinTiles|lcdcLCDEnable)
	mem.WriteForce(BGPAddr, 0b11_10_01_00) // index 3->shade3, 2->shade2, 1->shade1, 0->shade0

	mem.WriteForce(0x9800, 0x01) // tile index 1 at map (0,0)
	tileAddr := uint16(tileDataBlock0 + 1*tileBytes)
	mem.WriteForce(tileAddr, 0xFF) // lo bitplane all set
	mem.WriteForce(tileAddr+1, 0xFF) // hi bitplane all set -> every pixel index 3

	p.renderScanline(0)
	assert.Equal(t, shadeColor(3), p.framebuffer[0])
}

func TestRenderObjectsRespectTransparency(t *testing.T) {
	mem := memory.New()
	p := New(mem)
	mem.WriteForce(LCDCAddr, lcdcObjEnable|lcdcLCDEnable)
	mem.WriteForce(OBP0Addr, 0b11_10_01_00)

	// sprite 0 at OAM: Y=16 (top of screen row0), X=8 (left edge col0), tile 0
	mem.WriteForce(OAMStart, 16)
	mem.WriteForce(OAMStart+1, 8)
	mem.WriteForce(OAMStart+2, 0)
	mem.WriteForce(OAMStart+3, 0) // no flags

	mem.WriteForce(0x8000, 0b1000_0000) // leftmost pixel index1 (lo=1,hi=0), rest 0
	mem.WriteForce(0x8001, 0x00)

	var bg [ScreenWidth]uint8
	p.renderObjects(0, &bg)
	assert.Equal(t, shadeColor(1), p.framebuffer[0], "leftmost pixel of the sprite tile is opaque index 1")
	assert.Equal(t, uint16(0), p.framebuffer[1], "transparent pixels (index 0) are never drawn")
}

func TestScanLineSpritesCapsAtTen(t *testing.T) {
	mem := memory.New()
	p := New(mem)
	mem.WriteForce(LCDCAddr, lcdcObjEnable|lcdcLCDEnable)

	for i := 0; i < 15; i++ {
		base := uint16(OAMStart + i*oamEntrySize)
		mem.WriteForce(base, 16) // Y so that line 0 intersects an 8px sprite
		mem.WriteForce(base+1, uint8(8+i))
		mem.WriteForce(base+2, uint8(i))
		mem.WriteForce(base+3, 0)
	}

	found := p.scanLineSprites(0)
	assert.Len(t, found, maxSpritesPerLine)
}

func TestScanLineSpritesEmptyWhenObjectsDisabled(t *testing.T) {
	mem := memory.New()
	p := New(mem)
	mem.WriteForce(LCDCAddr, lcdcLCDEnable) // OBJ enable bit clear

	mem.WriteForce(OAMStart, 16)
	mem.WriteForce(OAMStart+1, 8)

	assert.Empty(t, p.scanLineSprites(0))
}
