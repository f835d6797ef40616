package ay

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/zeozeozeo/gopt3play/pkg/pt3"
)

type out struct {
	port  uint16
	value uint8
}

type busLog []out

func (b *busLog) Out(port uint16, value uint8) {
	*b = append(*b, out{port, value})
}

func TestPortSequences(t *testing.T) {
	tests := []struct {
		platform pt3.Platform
		want     []out
	}{
		{pt3.MSX, []out{{0xA0, 7}, {0xA1, 0x38}}},
		{pt3.Spectrum, []out{{0xFFFD, 7}, {0xBFFD, 0x38}}},
		{pt3.CPC, []out{
			{0xF400, 7}, {0xF6C0, 0xC0}, {0xF600, 0},
			{0xF400, 0x38}, {0xF680, 0x80}, {0xF600, 0},
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			var log busLog
			NewPortWriter(tt.platform, &log).WriteRegister(7, 0x38)
			if len(log) != len(tt.want) {
				t.Fatalf("got %d port writes, want %d: %v", len(log), len(tt.want), log)
			}
			for i := range log {
				if log[i] != tt.want[i] {
					t.Fatalf("write %d = %#04x<-%#02x, want %#04x<-%#02x", i, log[i].port, log[i].value, tt.want[i].port, tt.want[i].value)
				}
			}
		})
	}
}

func TestChipDecodesPortTraffic(t *testing.T) {
	for _, pl := range []pt3.Platform{pt3.MSX, pt3.Spectrum, pt3.CPC} {
		t.Run(string(pl), func(t *testing.T) {
			chip := NewChip(pl)
			w := NewPortWriter(pl, chip)
			for reg := uint8(0); reg < 14; reg++ {
				w.WriteRegister(reg, 0x10+reg)
			}
			regs := chip.Registers()
			for reg := uint8(0); reg < 14; reg++ {
				if regs[reg] != 0x10+reg {
					t.Fatalf("register %d = %#x, want %#x", reg, regs[reg], 0x10+reg)
				}
			}
			if chip.Writes() != 14 || chip.EnvelopeRestarts() != 1 {
				t.Fatalf("writes %d restarts %d", chip.Writes(), chip.EnvelopeRestarts())
			}

			chip.Reset()
			if chip.Writes() != 0 || chip.Registers()[pt3.RegMixer] != 0x3F {
				t.Fatalf("reset left state behind")
			}
		})
	}
}

func TestChipIgnoresOtherPorts(t *testing.T) {
	chip := NewChip(pt3.Spectrum)
	chip.Out(0xFFFD, 2)
	chip.Out(0x00FE, 0x55)
	chip.Out(0xBFFF, 0x66)
	if chip.Writes() != 0 {
		t.Fatalf("non PSG port reached the chip")
	}
	chip.Out(0xBFFD, 0x77)
	if chip.Registers()[2] != 0x77 {
		t.Fatalf("data write lost")
	}
}

func TestToneHz(t *testing.T) {
	chip := NewChip(pt3.CPC)
	if chip.ToneHz(0) != 0 {
		t.Fatalf("silent channel has a frequency")
	}
	// 1 MHz / (16 * 0x8E) is A-4 on the CPC table
	chip.WriteRegister(2, 0x8E)
	if hz := chip.ToneHz(1); hz < 440 || hz > 441 {
		t.Fatalf("ToneHz = %f, want about 440", hz)
	}
}

func TestMultiWriter(t *testing.T) {
	a, b := NewChip(pt3.MSX), NewRecorder(pt3.MSX)
	MultiWriter{a, b}.WriteRegister(pt3.RegEnvShape, 10)
	b.EndFrame()
	if a.Registers()[pt3.RegEnvShape] != 10 || b.frames[0][pt3.RegEnvShape] != 10 {
		t.Fatalf("write not duplicated")
	}
}

func TestRecorderYM6(t *testing.T) {
	r := NewRecorder(pt3.Spectrum)
	r.Title = "song"
	r.Author = "me"

	r.WriteRegister(0, 0x11)
	r.WriteRegister(pt3.RegEnvShape, 0x0A)
	r.EndFrame()
	r.MarkLoop()
	r.WriteRegister(0, 0x22)
	r.EndFrame()

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if n != int64(len(data)) {
		t.Fatalf("WriteTo reported %d bytes, wrote %d", n, len(data))
	}
	if string(data[:12]) != "YM6!LeOnArD!" || string(data[len(data)-4:]) != "End!" {
		t.Fatalf("bad framing: %q ... %q", data[:12], data[len(data)-4:])
	}
	if frames := binary.BigEndian.Uint32(data[12:]); frames != 2 {
		t.Fatalf("frames = %d", frames)
	}
	if attrs := binary.BigEndian.Uint32(data[16:]); attrs != ymInterleaved {
		t.Fatalf("attributes = %#x", attrs)
	}
	if clock := binary.BigEndian.Uint32(data[22:]); clock != 1773400 {
		t.Fatalf("clock = %d", clock)
	}
	if rate := binary.BigEndian.Uint16(data[26:]); rate != 50 {
		t.Fatalf("frame rate = %d", rate)
	}
	if loop := binary.BigEndian.Uint32(data[28:]); loop != 1 {
		t.Fatalf("loop frame = %d", loop)
	}

	body := data[34:]
	if !bytes.HasPrefix(body, []byte("song\x00me\x00\x00")) {
		t.Fatalf("strings = %q", body[:9])
	}
	regs := body[9 : len(body)-4]
	if len(regs) != 2*ymFrameRegisters {
		t.Fatalf("register data is %d bytes", len(regs))
	}
	if regs[0] != 0x11 || regs[1] != 0x22 {
		t.Fatalf("register 0 column = % x", regs[:2])
	}
	if shape := regs[2*pt3.RegEnvShape:]; shape[0] != 0x0A || shape[1] != 0xFF {
		t.Fatalf("shape column = % x", shape[:2])
	}
}

func TestRecorderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewRecorder(pt3.MSX).WriteTo(&buf); err != ErrNoFrames {
		t.Fatalf("err = %v", err)
	}
}
