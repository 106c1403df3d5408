// Package chime reminds the user, at a fixed interval, that a day has been
// started and not yet ended.
package chime

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/sadopc/timeledger/internal/log"
)

// Scheduler tracks the next chime boundary for one started day. It is not
// safe for concurrent use; the TUI drives it from its update loop.
type Scheduler struct {
	interval time.Duration
	start    time.Time
	next     time.Time
	armed    bool
}

func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{interval: interval}
}

// Arm schedules the first chime one interval after startTS (Unix millis).
// Re-arming with the same start keeps the current position.
func (s *Scheduler) Arm(startTS int64) {
	start := time.UnixMilli(startTS)
	if s.armed && s.start.Equal(start) {
		return
	}
	s.start = start
	s.next = start.Add(s.interval)
	s.armed = true
}

func (s *Scheduler) Disarm() {
	s.armed = false
}

func (s *Scheduler) Armed() bool {
	return s.armed
}

// Next returns the upcoming boundary; zero when disarmed.
func (s *Scheduler) Next() time.Time {
	if !s.armed {
		return time.Time{}
	}
	return s.next
}

// Due reports whether a boundary has passed and, if so, how many whole
// intervals have elapsed since the start. Missed boundaries collapse into a
// single chime.
func (s *Scheduler) Due(now time.Time) (int, bool) {
	if !s.armed || now.Before(s.next) {
		return 0, false
	}
	elapsed := int(now.Sub(s.start) / s.interval)
	s.next = s.start.Add(time.Duration(elapsed+1) * s.interval)
	return elapsed, true
}

// Message is the notification body for elapsed intervals.
func Message(elapsed int, interval time.Duration) string {
	total := time.Duration(elapsed) * interval
	if interval%time.Hour == 0 {
		return fmt.Sprintf("%d h since you started the day", int(total.Hours()))
	}
	return fmt.Sprintf("%s since you started the day", total)
}

// Notifier delivers a chime.
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier shows a desktop alert and falls back to a plain beep.
type DesktopNotifier struct {
	log *log.Logger
}

func NewDesktopNotifier(l *log.Logger) *DesktopNotifier {
	if l == nil {
		l = log.Discard()
	}
	beeep.AppName = "TimeLedger"
	return &DesktopNotifier{log: l.WithComponent(log.ComponentChime)}
}

func (n *DesktopNotifier) Notify(title, message string) error {
	err := beeep.Alert(title, message, "")
	if err == nil {
		n.log.Debug("chime sent", log.FieldOperation, log.OpChime)
		return nil
	}
	n.log.Warn("desktop alert failed, beeping", log.FieldOperation, log.OpChime, log.FieldError, err)
	if berr := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); berr != nil {
		return fmt.Errorf("chime: %w", berr)
	}
	return nil
}

// Silent is a Notifier that does nothing, used when chimes are disabled.
type Silent struct{}

func (Silent) Notify(string, string) error { return nil }
