package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeROM(title string, cgbFlag byte) []byte {
	data := make([]byte, minHeaderSize)
	copy(data[titleOffset:], title)
	data[cgbFlagOffset] = cgbFlag
	data[cartTypeOffset] = 0x01
	data[romSizeOffset] = 0x02
	data[ramSizeOffset] = 0x03
	data[globalChecksumOff] = 0xBE
	data[globalChecksumOff+1] = 0xEF
	return data
}

func TestFromBytesParsesHeader(t *testing.T) {
	cart, err := FromBytes(fakeROM("TESTGAME", 0x00))
	require.NoError(t, err)
	assert.Equal(t, "TESTGAME", cart.Header.Title)
	assert.Equal(t, byte(0x01), cart.Header.CartridgeType)
	assert.Equal(t, byte(0x02), cart.Header.ROMSizeCode)
	assert.Equal(t, byte(0x03), cart.Header.RAMSizeCode)
	assert.Equal(t, uint16(0xBEEF), cart.Header.GlobalChecksum)
}

func TestFromBytesTrimsTrailingNULFromTitle(t *testing.T) {
	cart, err := FromBytes(fakeROM("ABC", 0x00))
	require.NoError(t, err)
	assert.Equal(t, "ABC", cart.Header.Title)
}

func TestFromBytesRejectsEmptyData(t *testing.T) {
	_, err := FromBytes(nil)
	assert.Error(t, err)
}

func TestFromBytesRejectsTooSmall(t *testing.T) {
	_, err := FromBytes(make([]byte, minHeaderSize-1))
	assert.Error(t, err)
}

func TestIsCGBRecognizesBothFlagValues(t *testing.T) {
	dmgOnly, _ := FromBytes(fakeROM("X", 0x00))
	enhanced, _ := FromBytes(fakeROM("X", 0x80))
	cgbOnly, _ := FromBytes(fakeROM("X", 0xC0))

	assert.False(t, dmgOnly.Header.IsCGB())
	assert.True(t, enhanced.Header.IsCGB())
	assert.True(t, cgbOnly.Header.IsCGB())
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/path/to/rom.gb")
	assert.Error(t, err)
}
