package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Phase represents a stage of a name-recon run
type Phase string

const (
	PhaseLoading   Phase = "Loading"
	PhaseIndexing  Phase = "Indexing"
	PhaseProposing Phase = "Proposing"
	PhaseExporting Phase = "Exporting"
)

// ProgressBar shows the progress of one phase. The description carries the
// item being worked on.
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase Phase

	mu    sync.Mutex
	total int
	done  int
}

func newBar(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetPredictTime(true),
	)
	return &ProgressBar{bar: bar, phase: phase, total: total}
}

// Increment advances the bar by one
func (pb *ProgressBar) Increment() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.done++
	pb.bar.Add(1)
}

// Step names the item about to be processed, then advances past the previous one
func (pb *ProgressBar) Step(item string) {
	pb.Describe(item)
	pb.Increment()
}

// SetTotal changes the number of items of the phase
func (pb *ProgressBar) SetTotal(total int) {
	pb.total = total
	pb.bar.ChangeMax(total)
}

// Describe shows the item being processed next to the phase name
func (pb *ProgressBar) Describe(item string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, item))
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Callback returns an index progress function safe for concurrent use.
// Reports that arrive out of order never move the bar backwards.
func (pb *ProgressBar) Callback() func(done, total int, class string) {
	return func(done, total int, class string) {
		pb.mu.Lock()
		defer pb.mu.Unlock()
		if total != pb.total {
			pb.SetTotal(total)
		}
		if done > pb.done {
			pb.done = done
			pb.Describe(class)
			pb.bar.Set(done)
		}
	}
}

// Pipeline hands out one progress bar per phase
type Pipeline struct {
	phases   []Phase
	current  int
	bars     []*ProgressBar
	disabled bool
	output   io.Writer
}

// NewPipeline creates a pipeline writing its bars to output
func NewPipeline(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{
		phases:  phases,
		current: -1,
		bars:    make([]*ProgressBar, 0, len(phases)),
		output:  output,
	}
}

// Disable sends every bar to io.Discard
func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase finishes the current bar and returns the bar of the next phase,
// or nil after the last one
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()

	p.current++
	if p.current >= len(p.phases) {
		return nil
	}

	output := p.output
	if p.disabled {
		output = io.Discard
	}
	bar := newBar(p.phases[p.current], total, output)
	p.bars = append(p.bars, bar)
	return bar
}

// Finish completes the bar of the current phase
func (p *Pipeline) Finish() {
	if p.current >= 0 && p.current < len(p.bars) {
		p.bars[p.current].Finish()
	}
}

// PrintSummary prints the closing line of a run
func (p *Pipeline) PrintSummary(message string) {
	if !p.disabled {
		fmt.Fprintln(p.output, message)
	}
}
