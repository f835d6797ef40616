package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/zeozeozeo/gopt3play/pkg/ay"
	"github.com/zeozeozeo/gopt3play/pkg/jukebox"
	"github.com/zeozeozeo/gopt3play/pkg/pt3"
)

type headlessOptions struct {
	platform pt3.Platform
	loop     bool
	mute     bool
	frames   int
	ymPath   string
}

// runHeadless plays path without a screen, printing one line of registers
// per frame. With a frame count the frames are rendered as fast as possible,
// otherwise the interrupt runs in real time until the song ends or the
// process is interrupted.
func runHeadless(w io.Writer, path string, opts headlessOptions) error {
	m, err := loadModule(path)
	if err != nil {
		return err
	}

	player := pt3.NewPlayer(opts.platform)
	chip := ay.NewChip(opts.platform)
	writers := ay.MultiWriter{ay.NewPortWriter(opts.platform, chip)}

	var rec *ay.Recorder
	if opts.ymPath != "" {
		rec = ay.NewRecorder(opts.platform)
		rec.Title = m.Title
		rec.Author = m.Author
		rec.Comment = "recorded by gopt3play"
		writers = append(writers, rec)
	}

	jb := jukebox.New(player, writers)
	if err := jb.SelectMusic(m); err != nil {
		return err
	}
	jb.Do(func(p *pt3.Player) {
		p.SetLoop(opts.loop)
		p.SetMute(opts.mute)
	})

	out := bufio.NewWriter(w)
	defer out.Flush()
	fmt.Fprintf(out, "# %s / %s, %s, %d bytes, %d positions, delay %d\n", m.Title, m.Author, opts.platform, m.Size(), len(m.Positions), m.Delay)

	ended := make(chan struct{})
	frame := 0
	loopMarked := false
	jb.OnFrame = func() {
		// runs inside the interrupt, so the player is ours
		regs := player.Registers()
		fmt.Fprintf(out, "%05d %03d % X\n", frame, player.PositionIndex(), regs[:])
		frame++
		if rec != nil {
			if !loopMarked && player.PositionIndex() == m.LoopPosition {
				rec.MarkLoop()
				loopMarked = true
			}
			rec.EndFrame()
		}
		if player.IsEnded() {
			select {
			case <-ended:
			default:
				close(ended)
			}
		}
	}

	if opts.frames > 0 {
		for i := 0; i < opts.frames; i++ {
			jb.Step()
			if player.IsEnded() {
				break
			}
		}
	} else {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		defer signal.Stop(sig)

		if err := jb.Start(); err != nil {
			return err
		}
		select {
		case <-ended:
		case <-sig:
		}
		jb.Close()
	}
	jb.StopMusic()

	if rec != nil {
		if err := writeYM(opts.ymPath, rec); err != nil {
			return err
		}
		log.Printf("wrote %d frames to %s", rec.Frames(), opts.ymPath)
	}
	return nil
}

func writeYM(path string, rec *ay.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := rec.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
