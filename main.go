package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/zeozeozeo/gopt3play/pkg/ay"
	"github.com/zeozeozeo/gopt3play/pkg/jukebox"
	"github.com/zeozeozeo/gopt3play/pkg/pt3"
)

var backgroundColour = tcell.GetColor("#282a36")
var effectColour = tcell.GetColor("#88DEEB")
var songColour = tcell.GetColor("#F879C0")
var noteColour = tcell.GetColor("#F879C0")
var valueColour = tcell.GetColor("#ffb86c")

var listBgColour = tcell.GetColor("#282a36")
var listFgColour = tcell.GetColor("#626A86")
var highlightBgColour = tcell.GetColor("#526A9E")
var highlightFgColour = tcell.GetColor("#bc91f3")

var boxBgColour = tcell.GetColor("#282a36")
var boxFgColour = tcell.GetColor("#526A9E")

var meterColour = tcell.GetColor("#50FA7B")
var envelopeMeterColour = tcell.GetColor("#E1FA8C")

var defStyle = tcell.StyleDefault.Background(backgroundColour).Foreground(tcell.ColorReset)
var titleStyle = tcell.StyleDefault.Background(backgroundColour).Bold(true).Foreground(songColour)
var labelStyle = defStyle.Foreground(listFgColour).Bold(true)
var listStyle = tcell.StyleDefault.Background(listBgColour).Foreground(listFgColour)
var highlightStyle = tcell.StyleDefault.Background(highlightBgColour).Foreground(highlightFgColour).Bold(true)

var platforms = []pt3.Platform{pt3.MSX, pt3.Spectrum, pt3.CPC}

func parsePlatform(name string) (pt3.Platform, error) {
	switch strings.ToLower(name) {
	case "msx":
		return pt3.MSX, nil
	case "zx", "spectrum":
		return pt3.Spectrum, nil
	case "cpc", "amstrad":
		return pt3.CPC, nil
	}
	return "", fmt.Errorf("unknown platform %q (msx, zx or cpc)", name)
}

func nextPlatform(pl pt3.Platform) pt3.Platform {
	for i, p := range platforms {
		if p == pl {
			return platforms[(i+1)%len(platforms)]
		}
	}
	return platforms[0]
}

func loadModule(path string) (*pt3.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := pt3.ParseModule(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// snapshot is what the screen shows, copied out with the interrupt held off
type snapshot struct {
	module   *pt3.Module
	platform pt3.Platform
	status   pt3.Status
	loop     bool
	mute     bool
	position int
	delay    uint8
	channels [3]pt3.ChannelState
	regs     pt3.Registers
	chip     [ay.NumRegisters]uint8
	hz       [3]float64
	ticks    uint64
}

// statusLine keeps the last log message for the header
type statusLine struct {
	mu   sync.Mutex
	text string
}

func (l *statusLine) Write(p []byte) (int, error) {
	l.mu.Lock()
	l.text = strings.TrimSpace(string(p))
	l.mu.Unlock()
	return len(p), nil
}

func (l *statusLine) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

type app struct {
	jb     *jukebox.Jukebox
	chip   *ay.Chip
	writer *ay.PortWriter
	status *statusLine
}

func (a *app) snapshot() snapshot {
	var snap snapshot
	a.jb.Do(func(p *pt3.Player) {
		snap.module = p.Module
		snap.platform = p.Platform
		snap.status = p.Status()
		snap.loop = p.Looping()
		snap.mute = p.Muted()
		snap.position = p.PositionIndex()
		snap.regs = p.Registers()
		if p.State != nil {
			snap.channels = p.State.Channels
			snap.delay = p.State.Delay
		}
		snap.chip = a.chip.Registers()
		for ch := range snap.hz {
			snap.hz[ch] = a.chip.ToneHz(ch)
		}
	})
	snap.ticks = a.jb.Ticks()
	return snap
}

func (a *app) open(path string, loop, mute bool) error {
	m, err := loadModule(path)
	if err != nil {
		return err
	}
	if err := a.jb.SelectMusic(m); err != nil {
		return err
	}
	a.jb.Do(func(p *pt3.Player) {
		p.SetLoop(loop)
		p.SetMute(mute)
	})
	return nil
}

func (a *app) toggleMute() {
	a.jb.Do(func(p *pt3.Player) {
		mute := !p.Muted()
		p.SetMute(mute)
		if mute {
			// the chip keeps playing its last registers otherwise
			for reg := uint8(pt3.RegAmpA); reg <= pt3.RegAmpC; reg++ {
				a.writer.WriteRegister(reg, 0)
			}
		}
	})
}

func (a *app) switchPlatform() {
	var pl pt3.Platform
	a.jb.Do(func(p *pt3.Player) { pl = nextPlatform(p.Platform) })
	if err := a.jb.SetPlatform(pl); err != nil {
		log.Printf("%v", err)
		return
	}
	a.jb.Do(func(*pt3.Player) {
		a.chip.Platform = pl
		a.writer.Platform = pl
	})
	log.Printf("platform %s, %d Hz interrupt", pl, pl.FrameRate())
}

func drawPositions(s tcell.Screen, snap snapshot) {
	xPos, yPos := 1, 1
	width, height := 27, 21
	drawBox(s, xPos, yPos, xPos+width, yPos+height)
	xPos++
	yPos++

	m := snap.module
	drawText(s, xPos, yPos, width-2, 1, titleStyle, m.Title)
	yPos++
	drawText(s, xPos, yPos, width-2, 1, listStyle, m.Author)
	yPos++

	rows := height - 4
	first := 0
	if snap.position >= rows/2 {
		first = snap.position - rows/2
	}
	for row := 0; row < rows && first+row < len(m.Positions); row++ {
		idx := first + row
		style := listStyle
		if idx == snap.position {
			style = highlightStyle
		}
		marker := " "
		if idx == m.LoopPosition {
			marker = "↺"
		}
		drawText(s, xPos, yPos, width-2, 1, style, fmt.Sprintf("%s %03d  pattern %02d", marker, idx, m.Positions[idx]))
		yPos++
	}
}

func drawChannels(s tcell.Screen, snap snapshot) {
	x, y := 33, 1
	width, height := 94, 11
	drawBox(s, x, y, x+width, y+height)

	head := fmt.Sprintf("%-4s %-4s %-4s %-4s %-4s %-7s %-10s %-5s %-6s %s", "ch", "note", "vol", "smp", "orn", "tone", "freq", "mix", "slide", "flags")
	drawText(s, x+2, y+1, width-3, 1, labelStyle, head)

	for idx, ch := range snap.channels {
		yPos := y + 3 + idx*3
		style := listStyle
		noteStyle := style
		if ch.NoteOn() {
			noteStyle = style.Foreground(noteColour).Bold(true)
		}

		note := "---"
		if ch.NoteOn() {
			note = pt3.NoteName(ch.Note)
		}
		number := func(n int) string {
			if n < 0 {
				return ".."
			}
			return fmt.Sprintf("%02d", n)
		}
		mix := ""
		if snap.regs.ToneEnabled(idx) {
			mix += "T"
		} else {
			mix += "."
		}
		if snap.regs.NoiseEnabled(idx) {
			mix += "N"
		} else {
			mix += "."
		}
		if snap.regs.UsesEnvelope(idx) {
			mix += "E"
		} else {
			mix += "."
		}
		flags := ""
		if ch.OnOffCount != 0 {
			flags += "on/off "
		}
		if ch.ToneSlideCount != 0 {
			flags += "slide "
		}

		xPos := x + 2
		drawText(s, xPos, yPos, 4, 1, labelStyle, string(rune('A'+idx)))
		xPos += 5
		drawText(s, xPos, yPos, 4, 1, noteStyle, note)
		xPos += 5
		drawText(s, xPos, yPos, 4, 1, style.Foreground(valueColour), fmt.Sprintf("%X", ch.Volume))
		xPos += 5
		drawText(s, xPos, yPos, 4, 1, style.Foreground(valueColour), number(snap.module.SampleNumber(ch.Sample)))
		xPos += 5
		drawText(s, xPos, yPos, 4, 1, style.Foreground(valueColour), number(snap.module.OrnamentNumber(ch.Ornament)))
		xPos += 5
		drawText(s, xPos, yPos, 7, 1, style.Foreground(effectColour), fmt.Sprintf("%03X", snap.regs.Tone(idx)))
		xPos += 8
		drawText(s, xPos, yPos, 10, 1, style.Foreground(effectColour), fmt.Sprintf("%8.1fHz", snap.hz[idx]))
		xPos += 11
		drawText(s, xPos, yPos, 5, 1, style, mix)
		xPos += 6
		drawText(s, xPos, yPos, 6, 1, style, fmt.Sprintf("%+d", ch.ToneSlide))
		xPos += 7
		drawText(s, xPos, yPos, 20, 1, style.Foreground(effectColour), flags)
	}
}

var registerNames = []string{"TA lo", "TA hi", "TB lo", "TB hi", "TC lo", "TC hi", "noise", "mixer", "amp A", "amp B", "amp C", "E lo", "E hi", "shape"}

func drawRegisters(s tcell.Screen, snap snapshot) {
	x, y := 33, 13
	width, height := 94, 9
	drawBox(s, x, y, x+width, y+height)

	for reg, name := range registerNames {
		col := reg / 5
		row := reg % 5
		xPos := x + 2 + col*30
		yPos := y + 1 + row
		drawText(s, xPos, yPos, 10, 1, labelStyle, fmt.Sprintf("R%-2d %s", reg, name))
		xPos += 10
		style := listStyle.Foreground(valueColour)
		if snap.regs[reg] != snap.chip[reg] && !(reg == pt3.RegEnvShape && snap.regs[reg] == pt3.NoShapeChange) {
			// chip not updated yet, or muted
			style = listStyle.Foreground(effectColour)
		}
		drawText(s, xPos, yPos, 12, 1, style, fmt.Sprintf("%02X  chip %02X", snap.regs[reg], snap.chip[reg]))
	}
	period := snap.regs.EnvelopePeriod()
	drawText(s, x+2, y+7, width-3, 1, labelStyle, fmt.Sprintf("envelope period %04X   noise period %02X   delay %d   tick %d", period, snap.regs[pt3.RegNoise], snap.delay, snap.ticks))
}

func drawMeters(s tcell.Screen, snap snapshot) {
	x, y := 1, 23
	width, height := 126, 4
	drawBox(s, x, y, x+width, y+height)

	for ch := 0; ch < 3; ch++ {
		style := defStyle.Foreground(meterColour)
		level := float64(snap.chip[pt3.RegAmpA+ch]&0x0F) / 15
		if snap.chip[pt3.RegAmpA+ch]&0x10 != 0 {
			style = defStyle.Foreground(envelopeMeterColour)
			level = 1
		}
		drawText(s, x+2, y+1+ch, 2, 1, labelStyle, string(rune('A'+ch)))
		drawBar(s, x+4, y+1+ch, width-5, style, level)
	}
}

func drawHeader(s tcell.Screen, snap snapshot, status string) {
	xPos, yPos := 2, 0
	drawText(s, 0, yPos, 127, 1, defStyle, "")
	xPos = drawLabel(s, xPos, yPos, true, "Platform", string(snap.platform), defStyle.Foreground(effectColour))
	xPos = drawLabel(s, xPos, yPos, true, "Loop", onOff(snap.loop), defStyle.Foreground(effectColour))
	xPos = drawLabel(s, xPos, yPos, true, "Mute", onOff(snap.mute), defStyle.Foreground(effectColour))
	xPos = drawLabel(s, xPos, yPos, false, "Status", snap.status.String(), defStyle.Foreground(valueColour))
	xPos = drawLabel(s, xPos, yPos, false, "Position", fmt.Sprintf("%d/%d", snap.position+1, len(snap.module.Positions)), defStyle.Foreground(valueColour))
	if room := 126 - xPos; room > 0 {
		if len(status) > room {
			status = status[:room]
		}
		drawText(s, xPos, yPos, room, 1, defStyle.Foreground(listFgColour), status)
	}

	drawText(s, 2, 28, 124, 1, defStyle.Foreground(listFgColour), "space pause/resume   O open   P platform   L loop   M mute   Q/Esc quit")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func runUI(a *app, s tcell.Screen, path, dir string, loop, mute bool) {
	if path == "" {
		var ok bool
		if path, ok = browse(s, dir); !ok {
			return
		}
	}
	if err := a.open(path, loop, mute); err != nil {
		s.Fini()
		log.SetOutput(os.Stderr)
		log.Fatalf("%v", err)
	}
	if err := a.jb.Start(); err != nil {
		s.Fini()
		log.SetOutput(os.Stderr)
		log.Fatalf("%v", err)
	}
	defer a.jb.Close()

	var browsing int32
	quit := make(chan struct{})
	defer close(quit)

	s.Clear()
	go func() {
		ticker := time.NewTicker(time.Second / 30)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
			}
			if atomic.LoadInt32(&browsing) != 0 {
				continue
			}
			snap := a.snapshot()
			if snap.module == nil {
				continue
			}
			drawHeader(s, snap, a.status.String())
			drawPositions(s, snap)
			drawChannels(s, snap)
			drawRegisters(s, snap)
			drawMeters(s, snap)
			s.Show()
		}
	}()

	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return
			}
			switch ev.Rune() {
			case ' ':
				a.jb.Toggle()
			case 'l', 'L':
				a.jb.Do(func(p *pt3.Player) { p.SetLoop(!p.Looping()) })
			case 'm', 'M':
				a.toggleMute()
			case 'p', 'P':
				a.switchPlatform()
			case 'o', 'O':
				atomic.StoreInt32(&browsing, 1)
				if next, ok := browse(s, dir); ok {
					var loop, mute bool
					a.jb.Do(func(p *pt3.Player) { loop, mute = p.Looping(), p.Muted() })
					if err := a.open(next, loop, mute); err != nil {
						log.Printf("%v", err)
					}
				}
				s.Clear()
				atomic.StoreInt32(&browsing, 0)
			case 'q', 'Q':
				return
			}
		}
	}
}

func main() {
	platformName := flag.String("platform", "msx", "target machine: msx, zx or cpc")
	loop := flag.Bool("loop", true, "restart the song at its loop position")
	headless := flag.Bool("headless", false, "print register frames instead of the terminal UI")
	frames := flag.Int("frames", 0, "headless: number of frames to render, 0 plays in real time")
	ymPath := flag.String("ym", "", "headless: record the register stream to a YM6 file")
	mute := flag.Bool("mute", false, "start with register output muted")
	dir := flag.String("dir", "./pt3files", "directory the file browser opens in")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file.pt3]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	platform, err := parsePlatform(*platformName)
	if err != nil {
		log.Fatalf("%v", err)
	}
	path := flag.Arg(0)

	if *headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		if path == "" {
			log.Fatalf("headless mode needs a module file")
		}
		opts := headlessOptions{
			platform: platform,
			loop:     *loop,
			mute:     *mute,
			frames:   *frames,
			ymPath:   *ymPath,
		}
		if err := runHeadless(os.Stdout, path, opts); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	chip := ay.NewChip(platform)
	writer := ay.NewPortWriter(platform, chip)
	a := &app{
		jb:     jukebox.New(pt3.NewPlayer(platform), writer),
		chip:   chip,
		writer: writer,
		status: &statusLine{},
	}

	s, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if err := s.Init(); err != nil {
		log.Fatalf("%+v", err)
	}
	s.SetStyle(defStyle)
	log.SetFlags(0)
	log.SetOutput(a.status)

	runUI(a, s, path, *dir, *loop, *mute)
	s.Fini()
}
