package pt3

import "testing"

func TestVolumeTable(t *testing.T) {
	p := NewPlayer(MSX)

	for amp := uint8(0); amp < 16; amp++ {
		if got := p.volume(0, amp); got != 0 {
			t.Fatalf("volume 0 amplitude %d = %d", amp, got)
		}
		if got := p.volume(15, amp); got != amp {
			t.Fatalf("volume 15 amplitude %d = %d", amp, got)
		}
	}

	want := map[uint8][16]uint8{
		1: {0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1},
		8: {0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8},
	}
	for vol, row := range want {
		for amp, v := range row {
			if got := p.volume(vol, uint8(amp)); got != v {
				t.Errorf("volume %d amplitude %d = %d, want %d", vol, amp, got, v)
			}
		}
	}

	for vol := uint8(1); vol < 16; vol++ {
		for amp := uint8(1); amp < 16; amp++ {
			if p.volume(vol, amp) < p.volume(vol, amp-1) || p.volume(vol, amp) < p.volume(vol-1, amp) {
				t.Fatalf("volume table not monotonic at volume %d amplitude %d", vol, amp)
			}
		}
	}
}

func TestNoteTables(t *testing.T) {
	for _, pl := range []Platform{MSX, Spectrum, CPC} {
		nt := NoteTable(pl)
		for i := 1; i < len(nt); i++ {
			if nt[i] > nt[i-1] {
				t.Fatalf("%s: note %d period %#x above note %d", pl, i, nt[i], i-1)
			}
		}
		if nt[0] > 0x0FFF {
			t.Fatalf("%s: lowest note does not fit 12 bits", pl)
		}
	}
	if NoteTable("C64") != NoteTable(MSX) {
		t.Fatalf("unknown platform did not fall back to MSX")
	}
}

func TestNoteName(t *testing.T) {
	tests := map[uint8]string{0: "C-1", 13: "C#2", 95: "B-8", 96: "---"}
	for note, want := range tests {
		if got := NoteName(note); got != want {
			t.Errorf("NoteName(%d) = %q, want %q", note, got, want)
		}
	}
}

func TestPlatform(t *testing.T) {
	if MSX.FrameRate() != 60 || Spectrum.FrameRate() != 50 || CPC.FrameRate() != 50 {
		t.Fatalf("frame rates")
	}
	if CPC.ChipClock() != 1000000 || Spectrum.ChipClock() != 1773400 {
		t.Fatalf("chip clocks")
	}
	p := NewPlayer(MSX)
	p.SetPlatform(CPC)
	if p.noteTable != NoteTable(CPC) {
		t.Fatalf("SetPlatform did not switch the note table")
	}
}
