package pt3

// AY-3-8910 register indices
const (
	RegToneA     = 0
	RegToneB     = 2
	RegToneC     = 4
	RegNoise     = 6
	RegMixer     = 7
	RegAmpA      = 8
	RegAmpB      = 9
	RegAmpC      = 10
	RegEnvPeriod = 11
	RegEnvShape  = 13

	// NumRegisters is the size of the register image
	NumRegisters = 14
)

// Mixer bits, a set bit disables the source
const (
	MixerToneA  uint8 = 1 << 0
	MixerNoiseA uint8 = 1 << 3
)

// NoShapeChange in the envelope shape register means the shape is not rewritten this tick
const NoShapeChange uint8 = 0xFF

// Registers is the AY register image
type Registers [NumRegisters]uint8

// Tone returns the 12 bit tone period of channel 0-2
func (r Registers) Tone(ch int) uint16 {
	return uint16(r[RegToneA+ch*2]) | uint16(r[RegToneA+ch*2+1])<<8
}

func (r *Registers) setTone(ch int, period uint16) {
	period &= 0x0FFF
	r[RegToneA+ch*2] = uint8(period)
	r[RegToneA+ch*2+1] = uint8(period >> 8)
}

// Amplitude returns the 4 bit amplitude of channel 0-2
func (r Registers) Amplitude(ch int) uint8 {
	return r[RegAmpA+ch] & 0x0F
}

// UsesEnvelope reports whether channel 0-2 is driven by the envelope generator
func (r Registers) UsesEnvelope(ch int) bool {
	return r[RegAmpA+ch]&envelopeOn != 0
}

// ToneEnabled reports whether the mixer lets channel 0-2's square wave through
func (r Registers) ToneEnabled(ch int) bool {
	return r[RegMixer]&(MixerToneA<<ch) == 0
}

// NoiseEnabled reports whether the mixer lets noise through on channel 0-2
func (r Registers) NoiseEnabled(ch int) bool {
	return r[RegMixer]&(MixerNoiseA<<ch) == 0
}

// EnvelopePeriod returns the 16 bit envelope period
func (r Registers) EnvelopePeriod() uint16 {
	return uint16(r[RegEnvPeriod]) | uint16(r[RegEnvPeriod+1])<<8
}

func (r *Registers) setEnvelopePeriod(period uint16) {
	r[RegEnvPeriod] = uint8(period)
	r[RegEnvPeriod+1] = uint8(period >> 8)
}

// RegisterWriter receives register writes, normally the sound chip
type RegisterWriter interface {
	WriteRegister(reg uint8, value uint8)
}

// CopyRegisters sends the register image to the chip. It does nothing while
// muted. The envelope shape is only written when an envelope command set it
// this tick, since rewriting it restarts the envelope.
func (p *Player) CopyRegisters(w RegisterWriter) {
	if p.status&stateMute != 0 || p.State == nil {
		return
	}
	regs := &p.State.Registers
	for reg := uint8(0); reg < RegEnvShape; reg++ {
		w.WriteRegister(reg, regs[reg])
	}
	if regs[RegEnvShape]&0x80 == 0 {
		w.WriteRegister(RegEnvShape, regs[RegEnvShape])
	}
}
