package pt3

import "fmt"

// NoteNames are the names of the 12 semitones, note 0 is C-1
var NoteNames = []string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// NoteName returns the tracker style name of a note index
func NoteName(note uint8) string {
	if note > 95 {
		return "---"
	}
	return fmt.Sprintf("%s%d", NoteNames[note%12], note/12+1)
}

var noteTables = map[Platform]*[96]uint16{
	MSX: {
		0xD5D, 0xC9C, 0xBE7, 0xB3C, 0xA9B, 0xA02, 0x973, 0x8EB, 0x86B, 0x7F2, 0x780, 0x714,
		0x6AE, 0x64E, 0x5F4, 0x59E, 0x54D, 0x501, 0x4B9, 0x475, 0x435, 0x3F9, 0x3C0, 0x38A,
		0x357, 0x327, 0x2FA, 0x2CF, 0x2A7, 0x281, 0x25D, 0x23B, 0x21B, 0x1FC, 0x1E0, 0x1C5,
		0x1AC, 0x194, 0x17D, 0x168, 0x153, 0x140, 0x12E, 0x11D, 0x10D, 0x0FE, 0x0F0, 0x0E2,
		0x0D6, 0x0CA, 0x0BE, 0x0B4, 0x0AA, 0x0A0, 0x097, 0x08F, 0x087, 0x07F, 0x078, 0x071,
		0x06B, 0x065, 0x05F, 0x05A, 0x055, 0x050, 0x04C, 0x047, 0x043, 0x040, 0x03C, 0x039,
		0x035, 0x032, 0x030, 0x02D, 0x02A, 0x028, 0x026, 0x024, 0x022, 0x020, 0x01E, 0x01C,
		0x01B, 0x019, 0x018, 0x016, 0x015, 0x014, 0x013, 0x012, 0x011, 0x010, 0x00F, 0x00E,
	},
	Spectrum: {
		0xD3D, 0xC7F, 0xBCC, 0xB22, 0xA82, 0x9EB, 0x95D, 0x8D6, 0x857, 0x7DF, 0x76E, 0x703,
		0x69F, 0x640, 0x5E6, 0x591, 0x541, 0x4F6, 0x4AE, 0x46B, 0x42C, 0x3F0, 0x3B7, 0x382,
		0x34F, 0x320, 0x2F3, 0x2C9, 0x2A1, 0x27B, 0x257, 0x236, 0x216, 0x1F8, 0x1DC, 0x1C1,
		0x1A8, 0x190, 0x179, 0x164, 0x150, 0x13D, 0x12C, 0x11B, 0x10B, 0x0FC, 0x0EE, 0x0E0,
		0x0D4, 0x0C8, 0x0BD, 0x0B2, 0x0A8, 0x09F, 0x096, 0x08D, 0x085, 0x07E, 0x077, 0x070,
		0x06A, 0x064, 0x05E, 0x059, 0x054, 0x04F, 0x04B, 0x047, 0x043, 0x03F, 0x03B, 0x038,
		0x035, 0x032, 0x02F, 0x02D, 0x02A, 0x028, 0x025, 0x023, 0x021, 0x01F, 0x01E, 0x01C,
		0x01A, 0x019, 0x018, 0x016, 0x015, 0x014, 0x013, 0x012, 0x011, 0x010, 0x00F, 0x00E,
	},
	CPC: {
		0x777, 0x70C, 0x6A7, 0x647, 0x5ED, 0x598, 0x547, 0x4FC, 0x4B4, 0x470, 0x431, 0x3F4,
		0x3BC, 0x386, 0x353, 0x324, 0x2F6, 0x2CC, 0x2A4, 0x27E, 0x25A, 0x238, 0x218, 0x1FA,
		0x1DE, 0x1C3, 0x1AA, 0x192, 0x17B, 0x166, 0x152, 0x13F, 0x12D, 0x11C, 0x10C, 0x0FD,
		0x0EF, 0x0E1, 0x0D5, 0x0C9, 0x0BE, 0x0B3, 0x0A9, 0x09F, 0x096, 0x08E, 0x086, 0x07F,
		0x077, 0x071, 0x06A, 0x064, 0x05F, 0x059, 0x054, 0x050, 0x04B, 0x047, 0x043, 0x03F,
		0x03C, 0x038, 0x035, 0x032, 0x02F, 0x02D, 0x02A, 0x028, 0x026, 0x024, 0x022, 0x020,
		0x01E, 0x01C, 0x01B, 0x019, 0x018, 0x016, 0x015, 0x014, 0x013, 0x012, 0x011, 0x010,
		0x00F, 0x00E, 0x00D, 0x00D, 0x00C, 0x00B, 0x00B, 0x00A, 0x009, 0x009, 0x008, 0x008,
	},
}

// NoteTable returns the tone periods used for the platform. Unknown
// platforms get the MSX table.
func NoteTable(pl Platform) *[96]uint16 {
	if t, ok := noteTables[pl]; ok {
		return t
	}
	return noteTables[MSX]
}

// buildVolumeTable generates the Vortex Tracker II / PT3.5 volume table.
// Row v-1 holds the scaled amplitudes for channel volume v; the step of each
// row grows by 0x11 with a one off bump after row 7.
func buildVolumeTable(t *[15][16]uint8) {
	step := uint16(0)
	for row := range t {
		step += 0x11
		acc := uint16(0)
		for amp := range t[row] {
			// round to nearest, the low byte's top bit carries into the high byte
			t[row][amp] = uint8(acc>>8) + uint8(acc>>7)&1
			acc += step
		}
		if step&0xFF == 0x77 {
			step++
		}
	}
}

// volume scales a 4 bit sample amplitude by a 4 bit channel volume
func (p *Player) volume(vol uint8, amp uint8) uint8 {
	if vol == 0 {
		return 0
	}
	return p.volumeTable[vol-1][amp&0x0F]
}
