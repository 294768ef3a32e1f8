// Package cartridge loads a ROM image and exposes its header fields, per
// spec §6. It generalizes the teacher's rom package (a bare os.ReadFile
// wrapper) and its cartridge package (an opaque ROM/SRAM byte-slice holder)
// into one type that also decodes the header spec §6 enumerates; mapper
// (MBC) bank switching beyond the fixed bank-0/bank-1 load is an explicit
// Non-goal and is left to an external collaborator.
package cartridge

import (
	"fmt"
	"os"
)

// Header offsets within ROM bank 0, per spec §6. The core does not validate
// any of these fields; it only exposes them.
const (
	titleOffset       = 0x134
	titleLength       = 10
	cgbFlagOffset     = 0x143
	sgbFlagOffset     = 0x146
	cartTypeOffset    = 0x147
	romSizeOffset     = 0x148
	ramSizeOffset     = 0x149
	headerChecksumOff = 0x14D
	globalChecksumOff = 0x14E

	minHeaderSize = 0x150
)

// Header holds the cartridge header fields enumerated in spec §6.
type Header struct {
	Title          string
	CGBFlag        byte
	SGBFlag        byte
	CartridgeType  byte
	ROMSizeCode    byte
	RAMSizeCode    byte
	HeaderChecksum byte
	GlobalChecksum uint16
}

// Cartridge is an opaque ROM image plus its decoded header.
type Cartridge struct {
	ROM    []byte
	Header Header
}

// Load reads path as a raw ROM image and decodes its header.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: unable to read ROM file: %w", err)
	}
	return FromBytes(data)
}

// FromBytes wraps an in-memory ROM image, decoding its header.
func FromBytes(data []byte) (*Cartridge, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cartridge: ROM image is empty")
	}
	if len(data) < minHeaderSize {
		return nil, fmt.Errorf("cartridge: ROM image too small to contain a header (%d bytes)", len(data))
	}
	return &Cartridge{ROM: data, Header: parseHeader(data)}, nil
}

func parseHeader(data []byte) Header {
	title := data[titleOffset : titleOffset+titleLength]
	end := len(title)
	for end > 0 && title[end-1] == 0 {
		end--
	}
	return Header{
		Title:          string(title[:end]),
		CGBFlag:        data[cgbFlagOffset],
		SGBFlag:        data[sgbFlagOffset],
		CartridgeType:  data[cartTypeOffset],
		ROMSizeCode:    data[romSizeOffset],
		RAMSizeCode:    data[ramSizeOffset],
		HeaderChecksum: data[headerChecksumOff],
		GlobalChecksum: uint16(data[globalChecksumOff])<<8 | uint16(data[globalChecksumOff+1]),
	}
}

// IsCGB reports whether the CGB flag byte marks this title as CGB-aware
// (0x80 = enhanced but DMG-compatible, 0xC0 = CGB-only).
func (h Header) IsCGB() bool {
	return h.CGBFlag == 0x80 || h.CGBFlag == 0xC0
}
