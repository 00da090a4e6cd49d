package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Progress counts finished items on a terminal bar.
type Progress struct {
	bar   *progressbar.ProgressBar
	done  int
	total int
}

// NewProgress draws a bar of total steps on w. A hidden bar tracks state
// without writing anything.
func NewProgress(w io.Writer, total int, label string, visible bool) *Progress {
	return &Progress{total: total, bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan]"+label+"[reset]"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]#[reset]",
			SaucerPadding: ".",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)}
}

// Step advances the bar by one item.
func (p *Progress) Step() {
	p.done++
	_ = p.bar.Add(1)
}

// Done completes and clears the bar.
func (p *Progress) Done() {
	_ = p.bar.Finish()
}

// Finished reports whether every step has completed.
func (p *Progress) Finished() bool {
	return p.done >= p.total && p.bar.IsFinished()
}
