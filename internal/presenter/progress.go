package presenter

import (
	"fmt"
	"io"
)

// Progress reports per-repository progress as plain lines.
type Progress struct {
	w io.Writer
}

func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Report matches usecase.ProgressFunc.
func (p *Progress) Report(done, total int) {
	fmt.Fprintf(p.w, "Processing repository %d of %d (%d%%)\n", done, total, done*100/total)
}

func (p *Progress) Done() {
	fmt.Fprintln(p.w, "Processing complete!")
}
