package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/timeledger/internal/chime"
	"github.com/sadopc/timeledger/internal/ledger"
)

// dayClock follows today's start/end markers and drives the chime.
type dayClock struct {
	sched    *chime.Scheduler
	notifier chime.Notifier
	enabled  bool
	interval time.Duration
}

func newDayClock(enabled bool, interval time.Duration, n chime.Notifier) dayClock {
	if n == nil || !enabled {
		n = chime.Silent{}
	}
	return dayClock{
		sched:    chime.NewScheduler(interval),
		notifier: n,
		enabled:  enabled,
		interval: interval,
	}
}

// sync arms the scheduler while today has been started and not ended.
func (c dayClock) sync(today ledger.Day) {
	if c.enabled && today.Started() {
		c.sched.Arm(*today.StartTS)
		return
	}
	c.sched.Disarm()
}

// check returns a command that sounds the chime when a boundary passed.
func (c dayClock) check(now time.Time) tea.Cmd {
	if !c.enabled {
		return nil
	}
	n, ok := c.sched.Due(now)
	if !ok {
		return nil
	}
	msg := chime.Message(n, c.interval)
	notifier := c.notifier
	return func() tea.Msg {
		return chimeDoneMsg{text: msg, err: notifier.Notify("TimeLedger", msg)}
	}
}

func (c dayClock) armed() bool {
	return c.enabled && c.sched.Armed()
}

// dayElapsed is the time since the day's start marker, up to its end marker
// or now.
func dayElapsed(d ledger.Day, now time.Time) time.Duration {
	if d.StartTS == nil {
		return 0
	}
	end := now
	if d.EndTS != nil {
		end = time.UnixMilli(*d.EndTS)
	}
	return max(0, end.Sub(time.UnixMilli(*d.StartTS)))
}
