package pipeline

import (
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/katalvlaran/cloudlap/config"
)

// ProgressReporter receives one tick per completed unit of work.
type ProgressReporter interface {
	Start(total int, desc string)
	Increment()
	Finish()
}

// BarProgress draws a progress bar on stderr.
type BarProgress struct {
	bar *progressbar.ProgressBar
}

// NewProgress returns a stderr bar for mode "always", for "auto" when
// stderr is a terminal, and nil otherwise.
func NewProgress(mode string) ProgressReporter {
	switch mode {
	case config.ProgressAlways:
	case config.ProgressAuto:
		if !StderrIsTerminal() {
			return nil
		}
	default:
		return nil
	}

	return &BarProgress{}
}

// StderrIsTerminal reports whether stderr is attached to a terminal.
func StderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Start implements ProgressReporter.
func (p *BarProgress) Start(total int, desc string) {
	if total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Increment implements ProgressReporter.
func (p *BarProgress) Increment() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// Finish implements ProgressReporter.
func (p *BarProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}
