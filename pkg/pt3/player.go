package pt3

// NewPlayer creates a player for the given platform with its volume table built
func NewPlayer(platform Platform) *Player {
	p := Player{}
	p.SetPlatform(platform)
	p.Init()
	return &p
}

// SetPlatform selects the note table. It may be changed while playing.
func (p *Player) SetPlatform(platform Platform) {
	p.Platform = platform
	p.noteTable = NoteTable(platform)
}

// Init builds the volume table and clears the player state and register image
func (p *Player) Init() {
	buildVolumeTable(&p.volumeTable)
	if p.noteTable == nil {
		p.SetPlatform(MSX)
	}
	p.status = 0
	p.Module = nil
	p.State = &PlayerState{}
}

// InitSong resets every channel and starts the module from its first position
func (p *Player) InitSong(m *Module, loop bool) error {
	if m == nil || len(m.data) == 0 {
		return ErrNoModuleLoaded
	}
	if p.State == nil {
		p.Init()
	}

	p.status = stateEnabled
	if loop {
		p.status |= stateLoop
	}
	p.Module = m

	s := p.State
	*s = PlayerState{
		Delay:        m.Delay,
		DelayCounter: 1,
		Position:     offsetPositions - 1,
		LoopPosition: offsetPositions + m.LoopPosition,
	}
	for idx := range s.Channels {
		ch := &s.Channels[idx]
		ch.NoteSkipCount = 1
		ch.Volume = 0x0F
		ch.Ornament = m.emptyOffset
		ch.Sample = m.emptyOffset
	}
	// the empty sample starts with a zero byte, which reads as end of pattern
	s.Cursors[0] = m.emptyOffset

	if debugEnabled {
		logf("init %q by %q: delay %d, %d positions, loop to %d", m.Title, m.Author, m.Delay, len(m.Positions), m.LoopPosition)
	}
	return nil
}

// Decode runs one tick: pattern rows are interpreted when the row delay
// expires, then the register image is rebuilt for all three channels.
func (p *Player) Decode() {
	if p.Module == nil || p.status&stateEnabled == 0 {
		return
	}
	s := p.State
	m := p.Module

	s.addToEnvelope = 0
	s.Registers[RegMixer] = 0
	s.Registers[RegEnvShape] = NoShapeChange

	s.DelayCounter--
	if s.DelayCounter == 0 {
		for idx := range s.Channels {
			ch := &s.Channels[idx]
			ch.NoteSkipCount--
			if ch.NoteSkipCount != 0 {
				continue
			}
			// channel A drives the position list
			if idx == 0 && m.byteAt(s.Cursors[0]) == 0 {
				s.noiseBase = 0
				p.nextPosition()
			}
			p.decodeChannel(idx)
		}
		s.DelayCounter = s.Delay
	}

	for idx := range s.Channels {
		p.synthesize(idx)
	}

	// the noise period register is 5 bits wide
	s.Registers[RegNoise] = (s.noiseBase + s.addToNoise) & 0x1F
	s.Registers.setEnvelopePeriod(s.envelopeBase + uint16(int8(s.addToEnvelope)) + s.envelopeSlide)

	if s.envelopeSlideCount != 0 {
		s.envelopeSlideCount--
		if s.envelopeSlideCount == 0 {
			s.envelopeSlideCount = s.envelopeSlideDelay
			s.envelopeSlide += s.envelopeSlideAdd
		}
	}

	if p.status&stateEnabled == 0 {
		p.silence()
	}
}

// nextPosition moves to the next entry of the position list and points the
// three channel cursors at its pattern
func (p *Player) nextPosition() {
	s := p.State
	m := p.Module

	pos := s.Position + 1
	entry := m.byteAt(pos)
	if entry == positionEnd {
		p.checkLoop()
		pos = s.LoopPosition
		entry = m.byteAt(pos)
	}
	s.Position = pos
	s.Cursors = m.patternPointers(entry)

	if debugEnabled {
		logf("position %d: pattern %d", pos-offsetPositions, entry/3)
	}
}

// checkLoop stops a song without loop at its end. The loop position is still
// decoded so the last tick leaves the channels in a defined state.
func (p *Player) checkLoop() {
	if p.status&stateLoop != 0 {
		return
	}
	p.status &^= stateEnabled
	p.status |= stateEnded
}

// synthesize walks the channel's ornament and sample one step and writes its
// tone and amplitude registers and mixer bits
func (p *Player) synthesize(idx int) {
	s := p.State
	m := p.Module
	ch := &s.Channels[idx]

	amp := uint8(0)
	mixer := (MixerToneA | MixerNoiseA) << idx

	if ch.Flags&flagNoteOn != 0 {
		orn := ch.Ornament
		note := int(ch.Note) + int(int8(m.byteAt(orn+2+int(ch.OrnamentPos))))
		ch.OrnamentPos = advance(ch.OrnamentPos, m.byteAt(orn), m.byteAt(orn+1))
		if note < 0 {
			note = 0
		}
		if note > 95 {
			note = 95
		}

		smp := ch.Sample
		frame := smp + 2 + int(ch.SamplePos)*4
		ctrl := m.byteAt(frame)
		mix := m.byteAt(frame + 1)
		toneOffset := int16(m.wordAt(frame + 2))
		ch.SamplePos = advance(ch.SamplePos, m.byteAt(smp), m.byteAt(smp+1))

		tone := toneOffset + ch.ToneAcc
		if mix&0x40 != 0 {
			ch.ToneAcc = tone
		}
		s.Registers.setTone(idx, p.noteTable[note]+uint16(tone)+uint16(ch.ToneSlide))

		p.slideTone(ch)
		amp = p.amplitude(ch, ctrl, mix)

		if mix&0x80 != 0 {
			// noise is masked, so the slide bits move the envelope period
			delta := uint8(int8(ctrl<<2) >> 3)
			v := delta + ch.EnvelopeSlide
			if mix&0x20 != 0 {
				ch.EnvelopeSlide = v
			}
			// 8 bit like the tracker, see DESIGN.md
			s.addToEnvelope += v
		} else {
			v := ctrl>>1 + ch.NoiseSlide
			s.addToNoise = v
			if mix&0x20 != 0 {
				ch.NoiseSlide = v
			}
		}

		mixer = 0
		if mix&0x10 != 0 {
			mixer |= MixerToneA << idx
		}
		if mix&0x80 != 0 {
			mixer |= MixerNoiseA << idx
		}
	}

	s.Registers[RegAmpA+idx] = amp
	s.Registers[RegMixer] |= mixer
	toggleOnOff(ch)
}

// advance steps a sample or ornament position, wrapping to the loop point
func advance(pos, loop, length uint8) uint8 {
	next := pos + 1
	if next >= length {
		next = loop
		if next >= length {
			next = 0
		}
	}
	return next
}

// slideTone applies the tone slide step when its counter runs out. The step
// shows up in the tone register from the next tick on.
func (p *Player) slideTone(ch *ChannelState) {
	if ch.ToneSlideCount == 0 {
		return
	}
	ch.ToneSlideCount--
	if ch.ToneSlideCount != 0 {
		return
	}
	ch.ToneSlideCount = ch.ToneSlideDelay
	ch.ToneSlide += ch.ToneSlideStep
	if ch.Flags&flagGlide != 0 {
		return
	}

	var remaining int16
	if uint16(ch.ToneSlideStep)>>8 == 0 {
		remaining = ch.ToneSlide - ch.ToneDelta
	} else {
		remaining = ch.ToneDelta - ch.ToneSlide
	}
	if remaining >= 0 {
		ch.Note = ch.SlideTarget
		ch.ToneSlideCount = 0
		ch.ToneSlide = 0
	}
}

func (p *Player) amplitude(ch *ChannelState, ctrl, mix uint8) uint8 {
	if ctrl&0x80 != 0 {
		if ctrl&0x40 != 0 {
			if ch.AmpSlide != 15 {
				ch.AmpSlide++
			}
		} else if ch.AmpSlide != -15 {
			ch.AmpSlide--
		}
	}

	a := int(mix&0x0F) + int(ch.AmpSlide)
	if a < 0 {
		a = 0
	}
	if a > 15 {
		a = 15
	}

	out := p.volume(ch.Volume, uint8(a))
	if ctrl&0x01 == 0 {
		out |= ch.EnvelopeEnable
	}
	return out
}

// toggleOnOff flips the note between sounding and silent for the on/off effect
func toggleOnOff(ch *ChannelState) {
	if ch.OnOffCount == 0 {
		return
	}
	ch.OnOffCount--
	if ch.OnOffCount != 0 {
		return
	}
	ch.Flags ^= flagNoteOn
	if ch.Flags&flagNoteOn != 0 {
		ch.OnOffCount = ch.OnDuration
	} else {
		ch.OnOffCount = ch.OffDuration
	}
}

// silence zeroes the amplitudes, leaving tone, noise and envelope in place
func (p *Player) silence() {
	regs := &p.State.Registers
	regs[RegAmpA] = 0
	regs[RegAmpB] = 0
	regs[RegAmpC] = 0
}

// Pause stops the scheduler and silences the channels
func (p *Player) Pause() {
	p.status &^= stateEnabled
	if p.State != nil {
		p.silence()
	}
}

// Resume restarts a paused song. A song that has ended stays ended.
func (p *Player) Resume() {
	if p.status&stateEnded != 0 {
		return
	}
	p.status |= stateEnabled
}

// SetLoop chooses whether the song restarts at its loop position or ends
func (p *Player) SetLoop(loop bool) {
	if loop {
		p.status |= stateLoop
	} else {
		p.status &^= stateLoop
	}
}

// Looping reports whether the song will loop
func (p *Player) Looping() bool {
	return p.status&stateLoop != 0
}

// SetMute stops CopyRegisters from touching the chip while the song keeps running
func (p *Player) SetMute(mute bool) {
	if mute {
		p.status |= stateMute
	} else {
		p.status &^= stateMute
	}
}

// Muted reports whether register output is suppressed
func (p *Player) Muted() bool {
	return p.status&stateMute != 0
}

// IsEnded reports whether a non-looping song has played its last position
func (p *Player) IsEnded() bool {
	return p.status&stateEnded != 0
}

// Status returns the scheduler state
func (p *Player) Status() Status {
	switch {
	case p.Module == nil:
		return Stopped
	case p.status&stateEnded != 0:
		return Ended
	case p.status&stateEnabled != 0:
		return Playing
	default:
		return Paused
	}
}

// Registers returns a copy of the current register image
func (p *Player) Registers() Registers {
	if p.State == nil {
		return Registers{}
	}
	return p.State.Registers
}

// PositionIndex returns the index of the current position list entry, -1
// before the first tick
func (p *Player) PositionIndex() int {
	if p.State == nil || p.Module == nil {
		return -1
	}
	return p.State.Position - offsetPositions
}
