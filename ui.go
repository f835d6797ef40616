package main

import (
	"github.com/gdamore/tcell/v2"
)

func drawBox(s tcell.Screen, x1, y1, x2, y2 int) {
	style := tcell.StyleDefault.Background(boxBgColour).Foreground(boxFgColour)

	// Fill background
	for row := y1; row <= y2; row++ {
		for col := x1; col <= x2; col++ {
			s.SetContent(col, row, ' ', nil, style)
		}
	}

	// Draw borders
	for col := x1; col <= x2; col++ {
		s.SetContent(col, y1, '─', nil, style)
		s.SetContent(col, y2, '─', nil, style)
	}

	for row := y1 + 1; row < y2; row++ {
		s.SetContent(x1, row, tcell.RuneVLine, nil, style)
		s.SetContent(x2, row, tcell.RuneVLine, nil, style)
	}

	// Only draw corners if necessary
	if y1 != y2 && x1 != x2 {
		s.SetContent(x1, y1, '╭', nil, style)
		s.SetContent(x2, y1, '╮', nil, style)
		s.SetContent(x1, y2, '╰', nil, style)
		s.SetContent(x2, y2, '╯', nil, style)
	}
}

func drawText(s tcell.Screen, x, y, width, height int, style tcell.Style, text string) {
	xPos := x
	yPos := y
	for _, r := range []rune(text) {
		s.SetContent(xPos, yPos, r, nil, style)
		xPos++
		if xPos > x+width {
			yPos++
			xPos = x
		}
		if yPos > y+height {
			return
		}
	}

	for yPos < y+height {
		for xPos < x+width {
			s.SetContent(xPos, yPos, ' ', nil, style)
			xPos++
		}
		yPos++
		xPos = x
	}
}

var meterRunes = []rune{'▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// drawBar fills a width cell bar to fraction (0-1) using eighth blocks
func drawBar(s tcell.Screen, x, y, width int, style tcell.Style, fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	length := float64(width) * fraction
	full := int(length)
	for i := 0; i < width; i++ {
		r := ' '
		if i < full {
			r = meterRunes[7]
		} else if i == full {
			if idx := int((length-float64(full))*8) - 1; idx >= 0 {
				r = meterRunes[idx]
			}
		}
		s.SetContent(x+i, y, r, nil, style)
	}
}

// drawLabel draws a bold label whose first letter is underlined when it is a
// hotkey, then the value. It returns the column after the value.
func drawLabel(s tcell.Screen, x, y int, hotkey bool, label, value string, valueStyle tcell.Style) int {
	style := labelStyle
	if hotkey {
		drawText(s, x, y, 1, 1, style.Underline(true), label[:1])
		x++
		label = label[1:]
	}
	drawText(s, x, y, len(label)+1, 1, style, label+":")
	x += len(label) + 2
	drawText(s, x, y, len(value)+1, 1, valueStyle, value)
	return x + len(value) + 2
}
