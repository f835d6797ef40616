package pt3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrInvalidModule is returned when a module's tables point outside its data
	ErrInvalidModule = errors.New("invalid PT3 module")
	// ErrNoModuleLoaded is returned when a song is started without module data
	ErrNoModuleLoaded = errors.New("no module loaded")
)

// Fixed offsets of the PT3 header, relative to the start of the file
const (
	headerSize         = 100
	offsetNoteTable    = 99
	offsetDelay        = 100
	offsetNumPositions = 101
	offsetLoop         = 102
	offsetPatterns     = 103
	offsetSamples      = 105
	offsetOrnaments    = 169
	offsetPositions    = 201

	offsetTitle  = 0x1E
	offsetAuthor = 0x42
	nameLength   = 32

	positionEnd = 0xFF
)

// emptySampleOrnament doubles as ornament 0 (loop 0, length 1, delta 0) and
// as a silent sample whose only frame masks tone and noise.
var emptySampleOrnament = []byte{0, 1, 0, 0x90, 0, 0}

var signatures = []string{"ProTracker 3.", "Vortex Tracker II"}

// Module is a parsed PT3 song. The data is addressed by file offset, so a
// headerless module is padded back to the file layout.
type Module struct {
	Title         string
	Author        string
	Version       byte
	NoteTableID   uint8
	Delay         uint8
	NumPositions  uint8
	LoopPosition  int
	Positions     []uint8
	HasHeader     bool
	data          []byte
	patternTable  int
	emptyOffset   int
	moduleDataLen int
}

// ParseModule parses a PT3 module. Data that starts with a tracker signature
// is treated as a complete file, anything else as a module with its 100 byte
// text header stripped.
func ParseModule(data []byte) (*Module, error) {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, []byte(sig)) {
			return parse(data, 0)
		}
	}
	return ParseHeaderless(data)
}

// ParseHeaderless parses module data whose first 100 bytes were removed
func ParseHeaderless(data []byte) (*Module, error) {
	return parse(data, headerSize)
}

// LoadModule reads a module and initialises the player with it
func (p *Player) LoadModule(f io.Reader, loop bool) error {
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	m, err := ParseModule(data)
	if err != nil {
		return err
	}
	return p.InitSong(m, loop)
}

func parse(data []byte, origin int) (*Module, error) {
	if len(data) == 0 {
		return nil, ErrNoModuleLoaded
	}
	if origin+len(data) <= offsetPositions {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrInvalidModule, len(data))
	}

	size := origin + len(data)
	mem := make([]byte, size, size+len(emptySampleOrnament))
	copy(mem[origin:], data)
	mem = append(mem, emptySampleOrnament...)

	m := &Module{
		NoteTableID:   mem[offsetNoteTable],
		Delay:         mem[offsetDelay],
		NumPositions:  mem[offsetNumPositions],
		LoopPosition:  int(mem[offsetLoop]),
		HasHeader:     origin == 0,
		data:          mem,
		patternTable:  int(binary.LittleEndian.Uint16(mem[offsetPatterns:])),
		emptyOffset:   size,
		moduleDataLen: size,
	}
	if m.HasHeader {
		m.Version = mem[13]
		m.Title = strings.Trim(string(mem[offsetTitle:offsetTitle+nameLength]), " \x00")
		m.Author = strings.Trim(string(mem[offsetAuthor:offsetAuthor+nameLength]), " \x00")
	}

	for off := offsetPositions; ; off++ {
		if off >= size {
			return nil, fmt.Errorf("%w: position list is not terminated", ErrInvalidModule)
		}
		v := mem[off]
		if v == positionEnd {
			break
		}
		if err := m.checkPattern(v); err != nil {
			return nil, err
		}
		m.Positions = append(m.Positions, v/3)
	}
	if len(m.Positions) == 0 {
		return nil, fmt.Errorf("%w: empty position list", ErrInvalidModule)
	}
	if m.LoopPosition >= len(m.Positions) {
		return nil, fmt.Errorf("%w: loop position %d outside %d positions", ErrInvalidModule, m.LoopPosition, len(m.Positions))
	}
	return m, nil
}

// checkPattern validates the three channel pointers a position entry selects
func (m *Module) checkPattern(entry uint8) error {
	row := m.patternTable + int(entry)*2
	if row < offsetPositions || row+6 > m.moduleDataLen {
		return fmt.Errorf("%w: pattern table entry %d at offset %d out of range", ErrInvalidModule, entry/3, row)
	}
	for ch := 0; ch < 3; ch++ {
		ptr := int(binary.LittleEndian.Uint16(m.data[row+ch*2:]))
		if ptr < offsetPositions || ptr >= m.moduleDataLen {
			return fmt.Errorf("%w: pattern %d channel %c data at offset %d out of range", ErrInvalidModule, entry/3, 'A'+ch, ptr)
		}
	}
	return nil
}

// byteAt returns the byte at a module offset, zero outside the data
func (m *Module) byteAt(off int) uint8 {
	if off < 0 || off >= len(m.data) {
		return 0
	}
	return m.data[off]
}

// wordAt returns the little endian word at a module offset
func (m *Module) wordAt(off int) uint16 {
	return uint16(m.byteAt(off)) | uint16(m.byteAt(off+1))<<8
}

// pointer resolves a sample or ornament table entry. Unused or broken entries
// fall back to the built-in silent sample/ornament.
func (m *Module) pointer(table int, index uint8) int {
	ptr := int(m.wordAt(table + int(index)))
	if ptr == 0 || ptr+2 > m.moduleDataLen {
		return m.emptyOffset
	}
	return ptr
}

// patternPointers returns the channel A, B and C data offsets for a position entry
func (m *Module) patternPointers(entry uint8) [3]int {
	row := m.patternTable + int(entry)*2
	return [3]int{
		int(m.wordAt(row)),
		int(m.wordAt(row + 2)),
		int(m.wordAt(row + 4)),
	}
}

// Size returns the length of the module data including the restored header area
func (m *Module) Size() int {
	return m.moduleDataLen
}

// SampleNumber returns the number of the sample stored at offset, -1 for the
// built-in silent sample
func (m *Module) SampleNumber(offset int) int {
	return m.tableIndex(offsetSamples, 32, offset)
}

// OrnamentNumber returns the number of the ornament stored at offset, -1 for
// the built-in empty ornament
func (m *Module) OrnamentNumber(offset int) int {
	return m.tableIndex(offsetOrnaments, 16, offset)
}

func (m *Module) tableIndex(table, entries, offset int) int {
	if offset == m.emptyOffset {
		return -1
	}
	for i := 0; i < entries; i++ {
		if m.pointer(table, uint8(i*2)) == offset {
			return i
		}
	}
	return -1
}
