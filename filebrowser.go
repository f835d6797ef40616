package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/zeozeozeo/gopt3play/pkg/pt3"

	"github.com/gdamore/tcell/v2"
)

var fileStyle = tcell.StyleDefault.Background(listBgColour).Foreground(listFgColour)
var fileHighlightStyle = tcell.StyleDefault.Background(highlightBgColour).Foreground(highlightFgColour).Bold(true)
var pt3Regexp = regexp.MustCompile(`(?i)\.pt3$`)

type file struct {
	name  string
	isDir bool
	size  int64
	title string
}

// parseDir lists the subdirectories and PT3 modules of path. Modules are
// parsed so the browser can show their titles.
func parseDir(path string) ([]file, error) {
	var matchingFiles []file

	if abs, err := filepath.Abs(path); err != nil || filepath.Dir(abs) != abs {
		matchingFiles = append(matchingFiles, file{name: "../", isDir: true})
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.IsDir() {
			matchingFiles = append(matchingFiles, file{name: e.Name() + "/", isDir: true})
			continue
		}
		name := e.Name()
		if !pt3Regexp.MatchString(name) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		f := file{name: name, size: info.Size()}
		if data, err := os.ReadFile(filepath.Join(path, name)); err == nil {
			if m, err := pt3.ParseModule(data); err == nil {
				f.title = m.Title
				if m.Author != "" {
					f.title += " / " + m.Author
				}
			} else {
				f.title = "(invalid)"
			}
		}
		matchingFiles = append(matchingFiles, f)
	}

	return matchingFiles, nil
}

type browser struct {
	dir     string
	idx     int
	entries []file
}

func (b *browser) changeDir(dir string) error {
	dir, err := filepath.Abs(filepath.Join(b.dir, dir))
	if err != nil {
		return err
	}
	entries, err := parseDir(dir)
	if err != nil {
		return err
	}
	b.dir = dir
	b.idx = 0
	b.entries = entries
	return nil
}

func (b *browser) draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()
	drawBox(s, 0, 0, w-1, h-1)
	drawText(s, 2, 0, w-4, 1, titleStyle, " "+b.dir+" ")

	// keep the selection on screen
	rows := h - 2
	first := 0
	if b.idx >= rows {
		first = b.idx - rows + 1
	}
	for row := 0; row < rows && first+row < len(b.entries); row++ {
		idx := first + row
		f := b.entries[idx]
		style := fileStyle
		if idx == b.idx {
			style = fileHighlightStyle
		}

		xPos, yPos := 1, row+1
		drawText(s, xPos, yPos, 32, 1, style, fmt.Sprintf("%-31s", f.name))
		xPos += 32
		if f.isDir {
			drawText(s, xPos, yPos, 9, 1, style, "<dir>")
			continue
		}
		drawText(s, xPos, yPos, 9, 1, style, fmt.Sprintf("%-8d", f.size))
		xPos += 9
		drawText(s, xPos, yPos, w-xPos-2, 1, style, f.title)
	}
	s.Show()
}

// browse lets the user pick a module below dir. It returns false when the
// browser was left with Escape.
func browse(s tcell.Screen, dir string) (string, bool) {
	b := &browser{}
	if err := b.changeDir(dir); err != nil {
		// fall back to the working directory
		if err := b.changeDir("."); err != nil {
			return "", false
		}
	}

	for {
		b.draw(s)
		switch ev := s.PollEvent().(type) {
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyDown:
				if b.idx < len(b.entries)-1 {
					b.idx++
				} else {
					b.idx = 0
				}
			case tcell.KeyUp:
				if b.idx > 0 {
					b.idx--
				} else {
					b.idx = len(b.entries) - 1
				}
			case tcell.KeyHome:
				b.idx = 0
			case tcell.KeyEnd:
				b.idx = len(b.entries) - 1
			case tcell.KeyEscape:
				return "", false
			case tcell.KeyEnter:
				if len(b.entries) == 0 {
					continue
				}
				f := b.entries[b.idx]
				if !f.isDir {
					return filepath.Join(b.dir, f.name), true
				}
				if err := b.changeDir(f.name); err != nil {
					log.Printf("%v", err)
				}
			}
		}
	}
}
