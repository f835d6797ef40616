// Package jukebox runs a PT3 player from a frame interrupt, the way a game
// hooks the replayer into its vertical blank handler.
package jukebox

import (
	"log"

	"github.com/zeozeozeo/gopt3play/pkg/irq"
	"github.com/zeozeozeo/gopt3play/pkg/pt3"
)

// Jukebox owns a player, the chip it feeds and the interrupt driving both.
// Every method is safe to call while the interrupt is running.
type Jukebox struct {
	player  *pt3.Player
	out     pt3.RegisterWriter
	timer   *irq.Timer
	current *pt3.Module
	enabled bool

	// OnFrame runs inside the interrupt after the registers went out
	OnFrame func()
}

// New creates a jukebox whose interrupt fires at the player's frame rate
func New(player *pt3.Player, out pt3.RegisterWriter) *Jukebox {
	j := &Jukebox{player: player, out: out}
	j.timer = irq.New(player.Platform.FrameRate(), j.interrupt)
	return j
}

func (j *Jukebox) interrupt() {
	if !j.enabled {
		return
	}
	j.player.Decode()
	j.player.CopyRegisters(j.out)
	if j.OnFrame != nil {
		j.OnFrame()
	}
}

// Start begins raising interrupts
func (j *Jukebox) Start() error {
	return j.timer.Start()
}

// Close stops the interrupt
func (j *Jukebox) Close() {
	j.timer.Stop()
}

// Step runs a single interrupt synchronously
func (j *Jukebox) Step() {
	j.timer.Fire()
}

// Ticks returns the number of interrupts so far
func (j *Jukebox) Ticks() uint64 {
	return j.timer.Ticks()
}

// SelectMusic switches to m and plays it looped. Selecting the tune that is
// already playing leaves it undisturbed.
func (j *Jukebox) SelectMusic(m *pt3.Module) error {
	var err error
	j.timer.Do(func() {
		if j.enabled {
			if m == j.current {
				return
			}
			j.stop()
		}
		j.player.Init()
		if err = j.player.InitSong(m, true); err != nil {
			j.current = nil
			return
		}
		j.player.SetLoop(true)
		j.current = m
		j.start()
		log.Printf("playing %q by %q", m.Title, m.Author)
	})
	return err
}

// StartMusic resumes the player and opens the audio gate
func (j *Jukebox) StartMusic() {
	j.timer.Do(j.start)
}

// StopMusic closes the audio gate, pauses the player and silences the chip
func (j *Jukebox) StopMusic() {
	j.timer.Do(j.stop)
}

func (j *Jukebox) start() {
	j.player.Resume()
	j.enabled = true
}

func (j *Jukebox) stop() {
	j.enabled = false
	j.player.Pause()
	j.player.CopyRegisters(j.out)
}

// Toggle pauses a playing tune or resumes a stopped one
func (j *Jukebox) Toggle() {
	j.timer.Do(func() {
		if j.enabled {
			j.stop()
		} else if j.current != nil {
			j.start()
		}
	})
}

// SetPlatform switches note table and interrupt rate
func (j *Jukebox) SetPlatform(platform pt3.Platform) error {
	j.timer.Do(func() {
		j.player.SetPlatform(platform)
	})
	return j.timer.SetRate(platform.FrameRate())
}

// Enabled reports whether the audio gate is open
func (j *Jukebox) Enabled() bool {
	enabled := false
	j.timer.Do(func() { enabled = j.enabled })
	return enabled
}

// Current returns the selected tune
func (j *Jukebox) Current() *pt3.Module {
	var m *pt3.Module
	j.timer.Do(func() { m = j.current })
	return m
}

// Do runs f on the player with the interrupt held off
func (j *Jukebox) Do(f func(p *pt3.Player)) {
	j.timer.Do(func() { f(j.player) })
}
