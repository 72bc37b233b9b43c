package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// terminalProgress draws a single updating progress line. It only redraws
// when the whole percentage changes, since the engine reports every block.
type terminalProgress struct {
	w     io.Writer
	bar   progress.Model
	label lipgloss.Style
	total int64
	last  int
}

func newTerminalProgress(w io.Writer) *terminalProgress {
	return &terminalProgress{
		w:     w,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		label: lipgloss.NewStyle().Faint(true),
		last:  -1,
	}
}

func (p *terminalProgress) percent(pos int64) int {
	if p.total <= 0 {
		return 100
	}
	return int(min(pos, p.total) * 100 / p.total)
}

func (p *terminalProgress) draw(pos int64) {
	pos = min(pos, p.total)
	p.last = p.percent(pos)
	fmt.Fprintf(p.w, "\r%s %s", p.bar.ViewAs(float64(p.last)/100),
		p.label.Render(fmt.Sprintf("%s / %s", humanize.Bytes(uint64(pos)), humanize.Bytes(uint64(p.total)))))
}

func (p *terminalProgress) Start(total int64) {
	p.total = total
	p.draw(0)
}

func (p *terminalProgress) Update(pos int64) {
	if p.percent(pos) != p.last {
		p.draw(pos)
	}
}

func (p *terminalProgress) Finish() {
	p.draw(p.total)
	fmt.Fprintln(p.w)
}
