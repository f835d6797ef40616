package jukebox

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/zeozeozeo/gopt3play/pkg/ay"
	"github.com/zeozeozeo/gopt3play/pkg/pt3"
)

// buildTune assembles a one pattern module playing C-1 on channel A
func buildTune(t *testing.T, delay uint8) *pt3.Module {
	t.Helper()
	buf := make([]byte, 201)
	copy(buf, "ProTracker 3.6 compilation of ")
	buf[100] = delay
	buf[101] = 1
	buf = append(buf, 0x00, 0xFF)

	table := len(buf)
	binary.LittleEndian.PutUint16(buf[103:], uint16(table))
	buf = append(buf, make([]byte, 6)...)
	channels := [][]byte{
		{0xB1, 1, 0xD1, 0xCF, 0x50, 0x00},
		{0xB1, 1, 0xD0},
		{0xB1, 1, 0xD0},
	}
	for ch, data := range channels {
		binary.LittleEndian.PutUint16(buf[table+ch*2:], uint16(len(buf)))
		buf = append(buf, data...)
	}
	binary.LittleEndian.PutUint16(buf[105+2:], uint16(len(buf)))
	buf = append(buf, 0, 1, 0x00, 0x8F, 0x00, 0x00)

	m, err := pt3.ParseModule(buf)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	return m
}

func newJukebox() (*Jukebox, *ay.Chip) {
	chip := ay.NewChip(pt3.MSX)
	return New(pt3.NewPlayer(pt3.MSX), chip), chip
}

func TestSelectMusicPlays(t *testing.T) {
	j, chip := newJukebox()
	frames := 0
	j.OnFrame = func() { frames++ }

	j.Step()
	if chip.Writes() != 0 || frames != 0 {
		t.Fatalf("interrupt touched the chip before a tune was selected")
	}

	if err := j.SelectMusic(buildTune(t, 3)); err != nil {
		t.Fatal(err)
	}
	if !j.Enabled() {
		t.Fatalf("audio gate closed after SelectMusic")
	}
	j.Step()
	regs := chip.Registers()
	if regs[pt3.RegAmpA] != 15 {
		t.Fatalf("amplitude A = %d, want 15", regs[pt3.RegAmpA])
	}
	if frames != 1 {
		t.Fatalf("OnFrame ran %d times", frames)
	}
	j.Do(func(p *pt3.Player) {
		if !p.Looping() || p.Status() != pt3.Playing {
			t.Fatalf("looping %v status %v", p.Looping(), p.Status())
		}
	})
}

func TestSelectSameTuneIsIgnored(t *testing.T) {
	j, _ := newJukebox()
	tune := buildTune(t, 3)
	if err := j.SelectMusic(tune); err != nil {
		t.Fatal(err)
	}
	j.Step()
	j.Step()

	var before pt3.PlayerState
	j.Do(func(p *pt3.Player) { before = *p.State })

	if err := j.SelectMusic(tune); err != nil {
		t.Fatal(err)
	}
	j.Do(func(p *pt3.Player) {
		if p.State.DelayCounter != before.DelayCounter || p.State.Position != before.Position {
			t.Fatalf("reselecting the playing tune restarted it")
		}
	})

	other := buildTune(t, 5)
	if err := j.SelectMusic(other); err != nil {
		t.Fatal(err)
	}
	if j.Current() != other {
		t.Fatalf("current tune not switched")
	}
	j.Do(func(p *pt3.Player) {
		if p.State.Delay != 5 || p.PositionIndex() != -1 {
			t.Fatalf("new tune not started from the top")
		}
	})
}

func TestStopAndStartMusic(t *testing.T) {
	j, chip := newJukebox()
	if err := j.SelectMusic(buildTune(t, 3)); err != nil {
		t.Fatal(err)
	}
	j.Step()

	j.StopMusic()
	if j.Enabled() {
		t.Fatalf("gate still open")
	}
	if chip.Registers()[pt3.RegAmpA] != 0 {
		t.Fatalf("stop did not silence the chip")
	}
	writes := chip.Writes()
	j.Step()
	if chip.Writes() != writes {
		t.Fatalf("interrupt wrote registers while stopped")
	}

	j.StartMusic()
	j.Step()
	if chip.Registers()[pt3.RegAmpA] != 15 {
		t.Fatalf("no sound after StartMusic")
	}

	j.Toggle()
	if j.Enabled() {
		t.Fatalf("Toggle did not stop")
	}
	j.Toggle()
	if !j.Enabled() {
		t.Fatalf("Toggle did not restart")
	}
}

func TestSelectMusicWithoutModule(t *testing.T) {
	j, _ := newJukebox()
	if err := j.SelectMusic(nil); !errors.Is(err, pt3.ErrNoModuleLoaded) {
		t.Fatalf("err = %v", err)
	}
	if j.Enabled() || j.Current() != nil {
		t.Fatalf("failed selection left the gate open")
	}
	j.Toggle()
	if j.Enabled() {
		t.Fatalf("Toggle started without a tune")
	}
}

func TestSetPlatform(t *testing.T) {
	j, _ := newJukebox()
	if err := j.SetPlatform(pt3.CPC); err != nil {
		t.Fatal(err)
	}
	j.Do(func(p *pt3.Player) {
		if p.Platform != pt3.CPC {
			t.Fatalf("platform = %s", p.Platform)
		}
	})
}

func TestRunsFromInterrupt(t *testing.T) {
	j, chip := newJukebox()
	if err := j.SelectMusic(buildTune(t, 3)); err != nil {
		t.Fatal(err)
	}
	if err := j.Start(); err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	deadline := time.Now().Add(2 * time.Second)
	for chip.Writes() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("interrupt never fired")
		}
		time.Sleep(time.Millisecond)
	}
	if j.Ticks() == 0 {
		t.Fatalf("no ticks counted")
	}
}
