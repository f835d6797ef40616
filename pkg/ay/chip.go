package ay

import (
	"sync"

	"github.com/zeozeozeo/gopt3play/pkg/pt3"
)

// NumRegisters is the size of the PSG register file, including the two I/O ports
const NumRegisters = 16

// Chip is an AY-3-8910 register file. It can be written directly or decoded
// from the port traffic of a PortWriter on the same platform.
type Chip struct {
	Platform pt3.Platform

	mu       sync.Mutex
	regs     [NumRegisters]uint8
	selected uint8
	latch    uint8
	writes   int
	restarts int
}

// NewChip creates a silent chip: all tones and noise disabled in the mixer
func NewChip(platform pt3.Platform) *Chip {
	c := &Chip{Platform: platform}
	c.regs[pt3.RegMixer] = 0x3F
	return c
}

// WriteRegister stores value in reg. Writes to the envelope shape restart the envelope.
func (c *Chip) WriteRegister(reg uint8, value uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write(reg, value)
}

func (c *Chip) write(reg uint8, value uint8) {
	if reg >= NumRegisters {
		return
	}
	c.regs[reg] = value
	c.writes++
	if reg == pt3.RegEnvShape {
		c.restarts++
	}
}

// Out decodes a port write the way the platform's PSG wiring does
func (c *Chip) Out(port uint16, value uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.Platform {
	case pt3.Spectrum:
		// only A15 and A1 are decoded
		if port&0x0002 != 0 {
			return
		}
		if port&0xC000 == 0xC000 {
			c.selected = value
		} else if port&0x8000 != 0 {
			c.write(c.selected, value)
		}
	case pt3.CPC:
		switch port & 0xFF00 {
		case CPCPortA:
			c.latch = value
		case CPCPortC:
			switch value & 0xC0 {
			case CPCSelect:
				c.selected = c.latch
			case CPCWrite:
				c.write(c.selected, c.latch)
			}
		}
	default:
		switch port & 0xFF {
		case MSXSelect:
			c.selected = value
		case MSXData:
			c.write(c.selected, value)
		}
	}
}

// Registers returns a copy of the register file
func (c *Chip) Registers() [NumRegisters]uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs
}

// Writes returns the number of register writes received
func (c *Chip) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// EnvelopeRestarts returns how many times the envelope shape was written
func (c *Chip) EnvelopeRestarts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restarts
}

// Reset silences the chip and clears its counters
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs = [NumRegisters]uint8{}
	c.regs[pt3.RegMixer] = 0x3F
	c.selected, c.latch = 0, 0
	c.writes, c.restarts = 0, 0
}

// ToneHz converts a tone period of channel ch to a frequency, 0 when silent
func (c *Chip) ToneHz(ch int) float64 {
	regs := c.Registers()
	period := uint16(regs[ch*2]) | uint16(regs[ch*2+1]&0x0F)<<8
	if period == 0 {
		return 0
	}
	return float64(c.Platform.ChipClock()) / (16 * float64(period))
}

// MultiWriter duplicates register writes to all writers, like io.MultiWriter
type MultiWriter []pt3.RegisterWriter

// WriteRegister forwards the write to every writer in order
func (m MultiWriter) WriteRegister(reg uint8, value uint8) {
	for _, w := range m {
		w.WriteRegister(reg, value)
	}
}
