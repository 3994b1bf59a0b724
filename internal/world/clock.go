package world

import (
	"sort"
	"time"
)

// timer is a callback due at a point on the arena clock.
type timer struct {
	due     time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// Stop implements Timer.
func (t *timer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now implements Scheduler.
func (a *Arena) Now() time.Time {
	return a.clock
}

// After implements Scheduler. The callback runs inside Advance once the
// clock reaches the due time; callbacks due together run in schedule order.
func (a *Arena) After(d time.Duration, fn func()) Timer {
	a.timerSeq++
	t := &timer{due: a.clock.Add(d), seq: a.timerSeq, fn: fn}
	a.timers = append(a.timers, t)
	return t
}

// PendingTimers returns the number of scheduled callbacks not yet run.
func (a *Arena) PendingTimers() int {
	n := 0
	for _, t := range a.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (a *Arena) fireTimers() {
	for {
		due := a.dueTimers()
		if len(due) == 0 {
			return
		}
		for _, t := range due {
			if t.stopped {
				continue
			}
			t.fired = true
			t.fn()
		}
	}
}

// dueTimers removes and returns timers due at the current clock, ordered.
func (a *Arena) dueTimers() []*timer {
	var due, rest []*timer
	for _, t := range a.timers {
		switch {
		case t.stopped || t.fired:
		case !a.clock.Before(t.due):
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	a.timers = rest

	sort.Slice(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].seq < due[j].seq
	})
	return due
}
