// SPDX-License-Identifier: EPL-2.0

package compress

// ProgressFunc receives completion percentages in [0, 100].
type ProgressFunc func(percent float64)

// Tracker forwards progress to a ProgressFunc, dropping values that would
// go backwards and everything after the first 100.
type Tracker struct {
	fn   ProgressFunc
	last float64
	done bool
}

func NewTracker(fn ProgressFunc) *Tracker {
	return &Tracker{fn: fn, last: -1}
}

func (t *Tracker) Report(percent float64) {
	if t.done {
		return
	}

	percent = min(100, max(0, percent))
	if percent <= t.last {
		return
	}

	t.last = percent
	t.done = percent == 100
	if t.fn != nil {
		t.fn(percent)
	}
}

// Done reports 100 unless it was already reported.
func (t *Tracker) Done() { t.Report(100) }

// Finished reports whether 100 has been emitted.
func (t *Tracker) Finished() bool { return t.done }

// Func adapts the tracker to a ProgressFunc for nested stages.
func (t *Tracker) Func() ProgressFunc { return t.Report }
