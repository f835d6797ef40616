package pt3

import (
	"encoding/binary"
	"testing"
)

// testSong describes a module to be assembled by build
type testSong struct {
	delay     uint8
	loop      uint8
	positions []uint8
	patterns  [][3][]byte
	samples   [32][]byte
	ornaments [16][]byte
}

// square is a one frame sample: full amplitude, tone on, noise masked
var square = []byte{0, 1, 0x00, 0x8F, 0x00, 0x00}

// rest is channel data holding for rows rows without playing anything
func rest(rows uint8) []byte {
	return []byte{0xB1, rows, 0xD0}
}

// build assembles a complete PT3 file with the text header
func (ts testSong) build() []byte {
	buf := make([]byte, offsetPositions)
	copy(buf, "ProTracker 3.5 compilation of ")
	for i := offsetTitle; i < offsetAuthor+nameLength; i++ {
		buf[i] = ' '
	}
	copy(buf[offsetTitle:], "test song")
	copy(buf[offsetTitle+nameLength:], " by ")
	copy(buf[offsetAuthor:], "tester")
	buf[offsetNoteTable] = 2
	buf[offsetDelay] = ts.delay
	buf[offsetNumPositions] = uint8(len(ts.positions))
	buf[offsetLoop] = ts.loop

	for _, pattern := range ts.positions {
		buf = append(buf, pattern*3)
	}
	buf = append(buf, positionEnd)

	patternTable := len(buf)
	binary.LittleEndian.PutUint16(buf[offsetPatterns:], uint16(patternTable))
	buf = append(buf, make([]byte, 6*len(ts.patterns))...)
	for i, pattern := range ts.patterns {
		for ch := 0; ch < 3; ch++ {
			binary.LittleEndian.PutUint16(buf[patternTable+i*6+ch*2:], uint16(len(buf)))
			buf = append(buf, pattern[ch]...)
		}
	}

	for i, data := range ts.samples {
		if data == nil {
			continue
		}
		binary.LittleEndian.PutUint16(buf[offsetSamples+i*2:], uint16(len(buf)))
		buf = append(buf, data...)
	}

	ornaments := ts.ornaments
	if ornaments[0] == nil {
		ornaments[0] = []byte{0, 1, 0}
	}
	for i, data := range ornaments {
		if data == nil {
			continue
		}
		binary.LittleEndian.PutUint16(buf[offsetOrnaments+i*2:], uint16(len(buf)))
		buf = append(buf, data...)
	}
	return buf
}

// start parses the song and initialises an MSX player with it
func (ts testSong) start(t *testing.T, loop bool) *Player {
	t.Helper()
	m, err := ParseModule(ts.build())
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	p := NewPlayer(MSX)
	if err := p.InitSong(m, loop); err != nil {
		t.Fatalf("InitSong: %v", err)
	}
	return p
}

// twoRowSong plays row1 for 50 ticks and then row2, both on channel A
func twoRowSong(row1, row2 []byte) testSong {
	a := append([]byte{0xB1, 1}, row1...)
	a = append(a, row2...)
	a = append(a, 0x00)
	ts := testSong{
		delay:     50,
		positions: []uint8{0},
		patterns:  [][3][]byte{{a, rest(2), rest(2)}},
	}
	ts.samples[1] = square
	return ts
}

func run(p *Player, ticks int) {
	for i := 0; i < ticks; i++ {
		p.Decode()
	}
}

type regWrite struct {
	reg   uint8
	value uint8
}

type recordingWriter struct {
	writes []regWrite
}

func (w *recordingWriter) WriteRegister(reg uint8, value uint8) {
	w.writes = append(w.writes, regWrite{reg, value})
}
