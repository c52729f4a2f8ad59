package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles is the default terminal palette.
var Styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Plain renders every role unstyled, for pipes and tests.
var Plain = &Palette{
	title: lipgloss.NewStyle(),
	ok:    lipgloss.NewStyle(),
	err:   lipgloss.NewStyle(),
	warn:  lipgloss.NewStyle(),
	help:  lipgloss.NewStyle(),
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func (p *Palette) Title(s string) string   { return p.title.Render(s) }
func (p *Palette) Success(s string) string { return p.ok.Render(s) }
func (p *Palette) Failure(s string) string { return p.err.Render(s) }
func (p *Palette) Warning(s string) string { return p.warn.Render(s) }
func (p *Palette) Muted(s string) string   { return p.help.Render(s) }

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
