package pt3

// Command is the category of a pattern byte
type Command uint8

const (
	// CmdEffect (0x00-0x0F) queues a special effect whose parameters follow the row's note
	CmdEffect Command = iota
	// CmdEnvelopeSample (0x10-0x1F) sets or clears the envelope, then selects a sample
	CmdEnvelopeSample
	// CmdNoise (0x20-0x3F) sets the noise base
	CmdNoise
	// CmdOrnament (0x40-0x4F) selects an ornament
	CmdOrnament
	// CmdNote (0x50-0xAF) plays a note and ends the row
	CmdNote
	// CmdEnvelopeOff (0xB0) disables the envelope
	CmdEnvelopeOff
	// CmdSkip (0xB1) sets the number of rows each following row lasts
	CmdSkip
	// CmdEnvelope (0xB2-0xBF) sets envelope shape and period
	CmdEnvelope
	// CmdRelease (0xC0) stops the note and ends the row
	CmdRelease
	// CmdVolume (0xC1-0xCF) sets the channel volume
	CmdVolume
	// CmdEnd (0xD0) ends the row without touching the note
	CmdEnd
	// CmdSample (0xD1-0xEF) selects a sample
	CmdSample
	// CmdOrnamentSample (0xF0-0xFF) disables the envelope, selects an ornament and a sample
	CmdOrnamentSample
)

var commandNames = [...]string{
	"Effect", "EnvelopeSample", "Noise", "Ornament", "Note", "EnvelopeOff", "Skip",
	"Envelope", "Release", "Volume", "End", "Sample", "OrnamentSample",
}

func (c Command) String() string {
	return commandNames[c]
}

// Classify splits a pattern byte into its command and the argument encoded in it
func Classify(b uint8) (Command, uint8) {
	switch {
	case b >= 0xF0:
		return CmdOrnamentSample, b - 0xF0
	case b > 0xD0:
		return CmdSample, b - 0xD0
	case b == 0xD0:
		return CmdEnd, 0
	case b > 0xC0:
		return CmdVolume, b - 0xC0
	case b == 0xC0:
		return CmdRelease, 0
	case b == 0xB1:
		return CmdSkip, 0
	case b > 0xB1:
		return CmdEnvelope, b - 0xB1
	case b == 0xB0:
		return CmdEnvelopeOff, 0
	case b >= 0x50:
		return CmdNote, b - 0x50
	case b >= 0x40:
		return CmdOrnament, b - 0x40
	case b >= 0x20:
		return CmdNoise, b - 0x20
	case b >= 0x10:
		return CmdEnvelopeSample, b - 0x10
	default:
		return CmdEffect, b
	}
}

// patternReader walks the byte code of one channel
type patternReader struct {
	m   *Module
	pos int
}

func (r *patternReader) next() uint8 {
	b := r.m.byteAt(r.pos)
	r.pos++
	return b
}

// exhausted reports whether the cursor ran off the module data
func (r *patternReader) exhausted() bool {
	return r.pos >= r.m.moduleDataLen
}

func (r *patternReader) skip(n int) {
	r.pos += n
}

// word reads a little endian word
func (r *patternReader) word() uint16 {
	lo := r.next()
	return uint16(lo) | uint16(r.next())<<8
}

// wordBE reads a big endian word, as stored for envelope periods
func (r *patternReader) wordBE() uint16 {
	hi := r.next()
	return uint16(hi)<<8 | uint16(r.next())
}

// decodeChannel interprets one row of a channel: any number of setup
// commands up to a note, release or end byte, followed by the parameters of
// the effects queued on the way. Effects run last-queued first. A channel
// whose data runs off the module is released and parked at the end.
func (p *Player) decodeChannel(idx int) {
	s := p.State
	ch := &s.Channels[idx]
	r := patternReader{m: p.Module, pos: s.Cursors[idx]}

	s.prevNote = ch.Note
	s.prevSlide = ch.ToneSlide

	queued := 0
row:
	for {
		if r.exhausted() {
			if debugEnabled {
				logf("channel %c: pattern data runs past the module end", 'A'+idx)
			}
			ch.Flags &^= flagNoteOn
			ch.resetEffects()
			queued = 0
			r.pos = r.m.moduleDataLen
			break row
		}
		cmd, arg := Classify(r.next())
		switch cmd {
		case CmdOrnamentSample:
			ch.EnvelopeEnable = 0
			p.setOrnament(ch, arg)
			p.setSample(ch, r.next()&0xFE)
		case CmdSample:
			p.setSample(ch, arg*2)
		case CmdEnd:
			break row
		case CmdVolume:
			ch.Volume = arg
		case CmdRelease:
			ch.Flags &^= flagNoteOn
			ch.resetEffects()
			break row
		case CmdEnvelopeOff:
			ch.EnvelopeEnable = 0
			ch.OrnamentPos = 0
		case CmdSkip:
			ch.NoteSkip = r.next()
		case CmdEnvelope:
			p.setEnvelope(ch, arg, &r)
		case CmdNote:
			ch.Note = arg
			ch.Flags |= flagNoteOn
			ch.resetEffects()
			break row
		case CmdOrnament:
			p.setOrnament(ch, arg)
		case CmdNoise:
			s.noiseBase = arg
		case CmdEnvelopeSample:
			ch.EnvelopeEnable = 0
			ch.OrnamentPos = 0
			if arg != 0 {
				p.setEnvelope(ch, arg, &r)
			}
			p.setSample(ch, r.next())
		case CmdEffect:
			if queued < len(s.pending) {
				s.pending[queued] = Effect(arg)
				queued++
			} else if debugEnabled {
				logf("channel %c: dropped effect %d, queue full", 'A'+idx, arg)
			}
		}
	}

	ch.NoteSkipCount = ch.NoteSkip
	for i := queued - 1; i >= 0; i-- {
		p.applyEffect(ch, s.pending[i], &r)
	}
	s.Cursors[idx] = r.pos
}

func (p *Player) setOrnament(ch *ChannelState, ornament uint8) {
	ch.OrnamentPos = 0
	ch.Ornament = p.Module.pointer(offsetOrnaments, ornament*2)
}

// setSample takes the byte offset of the sample in the pointer table
func (p *Player) setSample(ch *ChannelState, offset uint8) {
	ch.Sample = p.Module.pointer(offsetSamples, offset)
}

func (p *Player) setEnvelope(ch *ChannelState, shape uint8, r *patternReader) {
	s := p.State
	ch.EnvelopeEnable = envelopeOn
	s.Registers[RegEnvShape] = shape
	s.envelopeBase = r.wordBE()
	ch.OrnamentPos = 0
	s.envelopeSlideCount = 0
	s.envelopeSlide = 0
}
