package ay

import "github.com/zeozeozeo/gopt3play/pkg/pt3"

// Bus is the Z80 I/O space the sound chip is wired to
type Bus interface {
	Out(port uint16, value uint8)
}

// I/O ports of the PSG on each machine
const (
	MSXSelect = 0xA0
	MSXData   = 0xA1

	SpectrumSelect = 0xFFFD
	SpectrumData   = 0xBFFD

	// CPCPortA is the PPI port A carrying register numbers and values
	CPCPortA = 0xF400
	// CPCPortC drives the PSG BDIR/BC1 lines through PPI port C
	CPCPortC = 0xF600
)

// PSG function codes written to CPC PPI port C
const (
	CPCInactive uint8 = 0x00
	CPCWrite    uint8 = 0x80
	CPCSelect   uint8 = 0xC0
)

// PortWriter turns register writes into the OUT sequence a machine needs to
// reach its PSG
type PortWriter struct {
	Platform pt3.Platform
	bus      Bus
}

// NewPortWriter creates a register writer driving bus the way platform expects
func NewPortWriter(platform pt3.Platform, bus Bus) *PortWriter {
	return &PortWriter{Platform: platform, bus: bus}
}

// WriteRegister selects reg and stores value in it
func (w *PortWriter) WriteRegister(reg uint8, value uint8) {
	switch w.Platform {
	case pt3.Spectrum:
		w.bus.Out(SpectrumSelect, reg)
		w.bus.Out(SpectrumData, value)
	case pt3.CPC:
		// the PSG sits behind the PPI, so both bytes go through port A and are
		// latched by strobing port C
		w.bus.Out(CPCPortA, reg)
		w.bus.Out(CPCPortC|uint16(CPCSelect), CPCSelect)
		w.bus.Out(CPCPortC, CPCInactive)
		w.bus.Out(CPCPortA, value)
		w.bus.Out(CPCPortC|uint16(CPCWrite), CPCWrite)
		w.bus.Out(CPCPortC, CPCInactive)
	default:
		w.bus.Out(MSXSelect, reg)
		w.bus.Out(MSXData, value)
	}
}
