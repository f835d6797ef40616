package pt3

// Effect is a special command queued while decoding a row
type Effect uint8

const maxPendingEffects = 16

// Special commands. Gaps in the numbering are no-ops.
const (
	EffectNone             Effect = 0
	EffectToneSlide        Effect = 1
	EffectPortamento       Effect = 2
	EffectSamplePosition   Effect = 3
	EffectOrnamentPosition Effect = 4
	EffectOnOff            Effect = 5
	EffectEnvelopeSlide    Effect = 8
	EffectDelay            Effect = 9
)

func (p *Player) applyEffect(ch *ChannelState, effect Effect, r *patternReader) {
	s := p.State

	switch effect {
	case EffectToneSlide:
		// fixed step slide, never stops on its own
		ch.Flags |= flagGlide
		delay := r.next()
		ch.ToneSlideDelay = delay
		ch.ToneSlideCount = delay
		ch.ToneSlideStep = int16(r.word())
		ch.OnOffCount = 0
	case EffectPortamento:
		ch.Flags &^= flagGlide
		delay := r.next()
		// the tracker's precalculated delta is stale after compilation
		r.skip(2)
		ch.ToneSlideDelay = delay
		ch.ToneSlideCount = delay
		ch.SlideTarget = ch.Note
		target := p.noteTable[ch.Note%96]
		ch.Note = s.prevNote
		ch.ToneDelta = int16(target - p.noteTable[ch.Note%96])
		ch.ToneSlide = s.prevSlide
		lo := r.next()
		ch.ToneSlideStep = portamentoStep(lo, r.next(), ch.ToneDelta, s.prevSlide)
		ch.OnOffCount = 0
	case EffectSamplePosition:
		ch.SamplePos = r.next()
	case EffectOrnamentPosition:
		ch.OrnamentPos = r.next()
	case EffectOnOff:
		ch.OnDuration = r.next()
		ch.OnOffCount = ch.OnDuration
		ch.OffDuration = r.next()
		ch.ToneSlideCount = 0
		ch.ToneSlide = 0
	case EffectEnvelopeSlide:
		s.envelopeSlideDelay = r.next()
		s.envelopeSlideCount = s.envelopeSlideDelay
		s.envelopeSlideAdd = r.word()
	case EffectDelay:
		s.Delay = r.next()
	default:
		if debugEnabled && effect != EffectNone {
			logf("ignoring special command %d", effect)
		}
	}
}

// portamentoStep orients the stored step towards the target. A non-zero high
// byte marks a step stored as negative. The flip negates the bytes
// separately, exactly like the tracker does, so a step with a zero low byte
// comes out 256 short.
func portamentoStep(lo, hi uint8, delta, slide int16) int16 {
	var distance int16
	if hi == 0 {
		distance = delta - slide
	} else {
		distance = slide - delta
	}
	if distance < 0 {
		hi = ^hi
		lo = -lo
	}
	return int16(uint16(hi)<<8 | uint16(lo))
}
