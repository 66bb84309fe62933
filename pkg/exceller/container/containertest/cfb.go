// Package containertest writes compound-file fixtures for tests.
package containertest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

const (
	cfbSector     = 512
	cfbFreeSect   = 0xFFFFFFFF
	cfbEndOfChain = 0xFFFFFFFE
	cfbFatSect    = 0xFFFFFFFD
	cfbNoStream   = 0xFFFFFFFF
)

var signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Stream is a named stream under the root storage.
type Stream struct {
	Name string
	Data []byte
}

// WriteCFB writes a version 3 compound file with one FAT sector, one
// directory sector and the given streams under the root storage. Stream data
// must be empty or at least 4096 bytes so no mini stream is needed.
func WriteCFB(t testing.TB, streams ...Stream) string {
	t.Helper()
	require.LessOrEqual(t, len(streams), 3, "one directory sector holds three streams")

	fat := make([]uint32, cfbSector/4)
	for i := range fat {
		fat[i] = cfbFreeSect
	}
	fat[0] = cfbFatSect
	fat[1] = cfbEndOfChain

	next := uint32(2)
	starts := make([]uint32, len(streams))
	var data []byte
	for i, s := range streams {
		if len(s.Data) == 0 {
			starts[i] = cfbEndOfChain
			continue
		}
		require.GreaterOrEqual(t, len(s.Data), 4096)
		n := (len(s.Data) + cfbSector - 1) / cfbSector
		starts[i] = next
		for j := 0; j < n; j++ {
			sect := next + uint32(j)
			if j == n-1 {
				fat[sect] = cfbEndOfChain
			} else {
				fat[sect] = sect + 1
			}
		}
		padded := make([]byte, n*cfbSector)
		copy(padded, s.Data)
		data = append(data, padded...)
		next += uint32(n)
	}

	header := make([]byte, cfbSector)
	copy(header, signature)
	binary.LittleEndian.PutUint16(header[24:], 0x003E)
	binary.LittleEndian.PutUint16(header[26:], 0x0003)
	binary.LittleEndian.PutUint16(header[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(header[30:], 0x0009)
	binary.LittleEndian.PutUint16(header[32:], 0x0006)
	binary.LittleEndian.PutUint32(header[44:], 1)
	binary.LittleEndian.PutUint32(header[48:], 1)
	binary.LittleEndian.PutUint32(header[56:], 4096)
	binary.LittleEndian.PutUint32(header[60:], cfbEndOfChain)
	binary.LittleEndian.PutUint32(header[68:], cfbEndOfChain)
	binary.LittleEndian.PutUint32(header[76:], 0)
	for off := 80; off < cfbSector; off += 4 {
		binary.LittleEndian.PutUint32(header[off:], cfbFreeSect)
	}

	fatSector := make([]byte, cfbSector)
	for i, v := range fat {
		binary.LittleEndian.PutUint32(fatSector[i*4:], v)
	}

	dir := make([]byte, cfbSector)
	rootChild := uint32(cfbNoStream)
	if len(streams) > 0 {
		rootChild = 1
	}
	putDirEntry(dir[0:128], "Root Entry", 5, cfbNoStream, rootChild, cfbEndOfChain, 0)
	for i, s := range streams {
		right := uint32(cfbNoStream)
		if i+1 < len(streams) {
			right = uint32(i + 2)
		}
		putDirEntry(dir[(i+1)*128:(i+2)*128], s.Name, 2, right, cfbNoStream, starts[i], uint32(len(s.Data)))
	}

	file := append(append(append(header, fatSector...), dir...), data...)
	path := filepath.Join(t.TempDir(), "legacy.xls")
	require.NoError(t, os.WriteFile(path, file, 0o644))
	return path
}

func putDirEntry(b []byte, name string, objectType byte, right, child, start, size uint32) {
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(b[i*2:], u)
	}
	binary.LittleEndian.PutUint16(b[64:], uint16((len(units)+1)*2))
	b[66] = objectType
	b[67] = 1
	binary.LittleEndian.PutUint32(b[68:], cfbNoStream)
	binary.LittleEndian.PutUint32(b[72:], right)
	binary.LittleEndian.PutUint32(b[76:], child)
	binary.LittleEndian.PutUint32(b[116:], start)
	binary.LittleEndian.PutUint32(b[120:], size)
}

// SummaryInformation returns a 4096 byte property-set stream holding a
// windows-1252 Title.
func SummaryInformation(title string) []byte {
	b := make([]byte, 4096)
	binary.LittleEndian.PutUint16(b[0:], 0xFFFE)
	binary.LittleEndian.PutUint32(b[24:], 1)
	// FMTID_SummaryInformation {F29F85E0-4FF9-1068-AB91-08002B27B3D9}
	copy(b[28:], []byte{0xE0, 0x85, 0x9F, 0xF2, 0xF9, 0x4F, 0x68, 0x10, 0xAB, 0x91, 0x08, 0x00, 0x2B, 0x27, 0xB3, 0xD9})
	binary.LittleEndian.PutUint32(b[44:], 48)

	set := b[48:]
	binary.LittleEndian.PutUint32(set[4:], 2)
	binary.LittleEndian.PutUint32(set[8:], 1)
	binary.LittleEndian.PutUint32(set[12:], 24)
	binary.LittleEndian.PutUint32(set[16:], 2)
	binary.LittleEndian.PutUint32(set[20:], 32)

	// CodePage: VT_I2 1252
	binary.LittleEndian.PutUint16(set[24:], 0x0002)
	binary.LittleEndian.PutUint16(set[28:], 1252)

	// Title: VT_LPSTR
	binary.LittleEndian.PutUint16(set[32:], 0x001E)
	binary.LittleEndian.PutUint32(set[36:], uint32(len(title)+1))
	copy(set[40:], title)

	size := 40 + len(title) + 1
	size += (4 - size%4) % 4
	binary.LittleEndian.PutUint32(set[0:], uint32(size))
	return b
}
