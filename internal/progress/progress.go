package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Indicator is a console spinner for a stream of unknown length. A nil
// *Indicator, or one built disabled, accepts every call and prints nothing.
type Indicator struct {
	bar *progressbar.ProgressBar
}

func New(w io.Writer, enabled bool) *Indicator {
	if !enabled || w == nil || w == io.Discard {
		return &Indicator{}
	}

	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("validating"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("batches"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	return &Indicator{bar: bar}
}

func (i *Indicator) Enabled() bool {
	return i != nil && i.bar != nil
}

// Advance adds n drained batches and shows the running record count.
func (i *Indicator) Advance(batches int, records int64) {
	if !i.Enabled() {
		return
	}
	i.bar.Describe(fmt.Sprintf("validating (%d records)", records))
	_ = i.bar.Add(batches)
}

func (i *Indicator) Finish() {
	if !i.Enabled() {
		return
	}
	_ = i.bar.Finish()
}
