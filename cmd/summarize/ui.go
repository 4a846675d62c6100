package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"docsummary/internal/domain"
)

// renderer draws the progress stream: a spinner for stage events, a bar for
// chunk events and the colored result at the end. Chunks without progress come
// from a live vendor stream and are printed as they arrive.
type renderer struct {
	out     io.Writer
	errOut  io.Writer
	raw     bool
	spinner *spinner.Spinner
	bar     *progressbar.ProgressBar
	relayed bool
}

func newRenderer(out, errOut io.Writer, raw bool) *renderer {
	return &renderer{out: out, errOut: errOut, raw: raw}
}

// Handle renders one event.
func (r *renderer) Handle(e domain.ProgressEvent) error {
	if r.raw {
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.out, string(b))
		return err
	}

	switch {
	case e.IsTerminal():
		r.stopProgress()
		return r.printResult(e)
	case e.Chunk != "":
		r.stopSpinner()
		done, total, ok := parseProgress(e.Progress)
		if !ok {
			r.relayed = true
			_, err := fmt.Fprint(r.out, e.Chunk)
			return err
		}
		if r.bar == nil {
			r.bar = newBar(r.errOut, total)
		}
		return r.bar.Set(done)
	default:
		r.spin(fmt.Sprintf("[%s] %s", e.Stage, e.Message))
		return nil
	}
}

// Close stops any running animation.
func (r *renderer) Close() {
	r.stopProgress()
}

func (r *renderer) spin(msg string) {
	if r.spinner == nil {
		r.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		r.spinner.Writer = r.errOut
		r.spinner.Suffix = " " + msg
		r.spinner.Start()
		return
	}
	r.spinner.Lock()
	r.spinner.Suffix = " " + msg
	r.spinner.Unlock()
}

func (r *renderer) stopSpinner() {
	if r.spinner != nil {
		r.spinner.Stop()
		r.spinner = nil
	}
}

func (r *renderer) stopProgress() {
	r.stopSpinner()
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

func (r *renderer) printResult(e domain.ProgressEvent) error {
	if r.relayed {
		// the text is already on out
		if _, err := fmt.Fprintln(r.out); err != nil {
			return err
		}
	}
	if e.Status == domain.StatusError {
		_, err := fmt.Fprintf(r.errOut, "%s %s\n", color.RedString("✗"), e.SummaryText())
		return err
	}
	if _, err := fmt.Fprintf(r.errOut, "%s %s (%.1fs)\n", color.GreenString("✓"), e.Message, e.Timestamp); err != nil {
		return err
	}
	if r.relayed {
		return nil
	}
	_, err := fmt.Fprintln(r.out, e.SummaryText())
	return err
}

func newBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("generating"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}

// parseProgress splits a "<done>/<total>" progress field.
func parseProgress(s string) (done, total int, ok bool) {
	d, t, found := strings.Cut(s, "/")
	if !found {
		return 0, 0, false
	}
	done, err := strconv.Atoi(d)
	if err != nil {
		return 0, 0, false
	}
	total, err = strconv.Atoi(t)
	if err != nil || total <= 0 || done < 0 || done > total {
		return 0, 0, false
	}
	return done, total, true
}
