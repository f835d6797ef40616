package ay

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/zeozeozeo/gopt3play/pkg/pt3"
)

// ErrNoFrames is returned when an empty recording is written
var ErrNoFrames = errors.New("ym: no frames recorded")

const (
	ymFrameRegisters = 16
	ymInterleaved    = 0x01
)

// Recorder captures the register stream one frame per interrupt and writes
// it out as an uncompressed YM6 file
type Recorder struct {
	Title    string
	Author   string
	Comment  string
	Platform pt3.Platform

	regs   [ymFrameRegisters]uint8
	shape  uint8
	frames [][ymFrameRegisters]uint8
	loop   int
}

// NewRecorder creates a recorder tagged with the platform's clock and frame rate
func NewRecorder(platform pt3.Platform) *Recorder {
	return &Recorder{Platform: platform, shape: pt3.NoShapeChange}
}

// WriteRegister updates the frame being recorded
func (r *Recorder) WriteRegister(reg uint8, value uint8) {
	if reg >= ymFrameRegisters {
		return
	}
	if reg == pt3.RegEnvShape {
		r.shape = value
		return
	}
	r.regs[reg] = value
}

// EndFrame stores the current register state as a frame. The envelope shape
// is 0xFF unless it was written since the last frame.
func (r *Recorder) EndFrame() {
	frame := r.regs
	frame[pt3.RegEnvShape] = r.shape
	r.frames = append(r.frames, frame)
	r.shape = pt3.NoShapeChange
}

// MarkLoop makes the next frame the loop start
func (r *Recorder) MarkLoop() {
	r.loop = len(r.frames)
}

// Frames returns the number of recorded frames
func (r *Recorder) Frames() int {
	return len(r.frames)
}

// WriteTo writes the recording as a YM6 file with interleaved registers
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	if len(r.frames) == 0 {
		return 0, ErrNoFrames
	}
	bw := bufio.NewWriter(w)
	cw := &countWriter{w: bw}

	header := struct {
		Frames    uint32
		Attrs     uint32
		Drums     uint16
		Clock     uint32
		FrameRate uint16
		Loop      uint32
		AddData   uint16
	}{
		Frames:    uint32(len(r.frames)),
		Attrs:     ymInterleaved,
		Clock:     r.Platform.ChipClock(),
		FrameRate: uint16(r.Platform.FrameRate()),
		Loop:      uint32(r.loop),
	}

	io.WriteString(cw, "YM6!LeOnArD!")
	binary.Write(cw, binary.BigEndian, header)
	for _, s := range []string{r.Title, r.Author, r.Comment} {
		io.WriteString(cw, s)
		cw.Write([]byte{0})
	}
	for reg := 0; reg < ymFrameRegisters; reg++ {
		column := make([]byte, len(r.frames))
		for i := range r.frames {
			column[i] = r.frames[i][reg]
		}
		cw.Write(column)
	}
	io.WriteString(cw, "End!")

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, bw.Flush()
}

// countWriter remembers the first error so the serializer can write blindly
type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
