package pt3

// Platform selects the note table, AY clock and frame rate of a target machine
type Platform string

const (
	// MSX uses the 1.79 MHz AY clock and a 60 Hz interrupt
	MSX Platform = "MSX"
	// Spectrum is the ZX Spectrum 128 with a 1.77 MHz AY clock
	Spectrum Platform = "ZX"
	// CPC is the Amstrad CPC with a 1 MHz AY clock
	CPC Platform = "CPC"
)

var chipClock = map[Platform]uint32{
	MSX:      1789773,
	Spectrum: 1773400,
	CPC:      1000000,
}

var frameRate = map[Platform]int{
	MSX:      60,
	Spectrum: 50,
	CPC:      50,
}

// ChipClock returns the AY clock in Hz
func (pl Platform) ChipClock() uint32 {
	return chipClock[pl]
}

// FrameRate returns how many interrupts per second drive the player
func (pl Platform) FrameRate() int {
	return frameRate[pl]
}

// Status is the externally visible state of the tick scheduler
type Status int

const (
	// Stopped means no song has been initialised
	Stopped Status = iota
	// Playing means every Decode advances the song
	Playing
	// Paused means Decode is a no-op until Resume
	Paused
	// Ended means a non-looping song reached its last position
	Ended
)

func (s Status) String() string {
	return [...]string{"Stopped", "Playing", "Paused", "Ended"}[s]
}

// state bits, kept at the same positions as the Z80 replayer's switch byte
const (
	stateEnabled uint8 = 1 << 1
	stateMute    uint8 = 1 << 2
	stateLoop    uint8 = 1 << 4
	stateEnded   uint8 = 1 << 7
)

// channel flag bits
const (
	flagNoteOn uint8 = 1 << 0
	flagGlide  uint8 = 1 << 2
)

// envelopeOn is OR'd into an amplitude register to hand it to the envelope generator
const envelopeOn uint8 = 0x10

// Player is the PT3 replayer. All state is owned by the player; it is not safe
// for concurrent use and is meant to be driven from a single interrupt handler.
type Player struct {
	Platform    Platform
	Module      *Module
	State       *PlayerState
	noteTable   *[96]uint16
	volumeTable [15][16]uint8
	status      uint8
}

// PlayerState holds everything the scheduler mutates between ticks
type PlayerState struct {
	Channels [3]ChannelState
	// Registers is the AY register image produced by the last tick
	Registers Registers

	// Delay is the number of ticks per pattern row
	Delay        uint8
	DelayCounter uint8

	// Position is the module offset of the current position list entry
	Position     int
	LoopPosition int
	// Cursors are the module offsets of the next pattern byte for channels A, B and C
	Cursors [3]int

	prevNote  uint8
	prevSlide int16

	noiseBase     uint8
	addToNoise    uint8
	addToEnvelope uint8

	envelopeBase       uint16
	envelopeSlide      uint16
	envelopeSlideCount uint8
	envelopeSlideDelay uint8
	envelopeSlideAdd   uint16

	pending [maxPendingEffects]Effect
}

// ChannelState is the per channel record of the replayer
type ChannelState struct {
	OrnamentPos    uint8
	SamplePos      uint8
	AmpSlide       int8
	NoiseSlide     uint8
	EnvelopeSlide  uint8
	ToneSlideCount uint8
	ToneSlide      int16
	ToneAcc        int16
	OnOffCount     uint8
	OnDuration     uint8
	OffDuration    uint8
	Ornament       int
	Sample         int
	NoteSkip       uint8
	Note           uint8
	SlideTarget    uint8
	EnvelopeEnable uint8
	Flags          uint8
	ToneSlideDelay uint8
	ToneSlideStep  int16
	ToneDelta      int16
	NoteSkipCount  uint8
	Volume         uint8
}

// NoteOn reports whether the channel is currently sounding
func (c *ChannelState) NoteOn() bool {
	return c.Flags&flagNoteOn != 0
}

// resetEffects clears the per note effect state. The off duration of the
// on/off effect survives a new note.
func (c *ChannelState) resetEffects() {
	c.OrnamentPos = 0
	c.SamplePos = 0
	c.AmpSlide = 0
	c.NoiseSlide = 0
	c.EnvelopeSlide = 0
	c.ToneSlideCount = 0
	c.ToneSlide = 0
	c.ToneAcc = 0
	c.OnOffCount = 0
	c.OnDuration = 0
}
