package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/wavesrx/internal/player"
)

var (
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(9).
			Foreground(lipgloss.Color("39"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	readyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	boundaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// printer writes one line per stream element. Elements arrive from the
// player's clock goroutine as well as the caller's, so writes are serialized.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) line(label, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, labelStyle.Render(label)+" "+value)
}

func (p *printer) header(path string, info *player.TrackInfo) {
	title := filepath.Base(path)
	var duration time.Duration
	if info != nil {
		title = info.Title
		if info.Artist != "" {
			title = info.Artist + " - " + title
		}
		duration = info.Duration
	}
	details := []string{formatPosition(duration)}
	if fi, err := os.Stat(path); err == nil {
		details = append(details, humanize.Bytes(uint64(fi.Size()))) //nolint:gosec // file sizes are non-negative
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, headerStyle.Render(title)+" "+
		mutedStyle.Render("["+strings.Join(details, ", ")+"]"))
}

func (p *printer) rate(r float64) {
	v := humanize.Ftoa(r) + "x"
	if r == 0 {
		v = mutedStyle.Render(v + " (paused)")
	} else {
		v = valueStyle.Render(v)
	}
	p.line("rate", v)
}

func (p *printer) status(s player.Status) {
	style := mutedStyle
	switch s {
	case player.StatusReadyToPlay:
		style = readyStyle
	case player.StatusFailed:
		style = errorStyle
	case player.StatusUnknown:
	}
	p.line("status", style.Render(s.String()))
}

func (p *printer) err(err error) {
	if err == nil {
		p.line("error", mutedStyle.Render("none"))
		return
	}
	p.line("error", errorStyle.Render(err.Error()))
}

func (p *printer) tick(t time.Duration) {
	p.line("time", valueStyle.Render(formatPosition(t)))
}

func (p *printer) boundary(pos time.Duration) {
	p.line("boundary", boundaryStyle.Render("crossed at "+formatPosition(pos)))
}

// formatPosition renders d as m:ss, or h:mm:ss past an hour.
func formatPosition(d time.Duration) string {
	d = max(d, 0).Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
