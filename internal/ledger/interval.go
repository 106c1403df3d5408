package ledger

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseTime parses "H:MM" or "HH:MM" into a minute of the day.
func ParseTime(text string) (int, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(text), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	h, err := parseClockPart(hs)
	if err != nil || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	m, err := parseClockPart(ms)
	if err != nil || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	return h*60 + m, nil
}

func parseClockPart(s string) (int, error) {
	if len(s) == 0 || len(s) > 2 {
		return 0, strconv.ErrSyntax
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// FormatTime renders a minute of the day as zero-padded "HH:MM".
func FormatTime(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// FormatHM renders a duration in minutes as "H:MM".
func FormatHM(mins int) string {
	return fmt.Sprintf("%d:%02d", mins/60, mins%60)
}

// Duration returns the length of the interval in minutes, never negative.
func (iv Interval) Duration() int {
	return max(0, iv.EndMin-iv.StartMin)
}

// NewInterval validates raw input and builds an interval with a fresh id.
func NewInterval(in IntervalInput) (Interval, error) {
	iv, err := buildInterval(in)
	if err != nil {
		return Interval{}, err
	}
	iv.ID = uuid.NewString()
	return iv, nil
}

func buildInterval(in IntervalInput) (Interval, error) {
	start, err := ParseTime(in.Start)
	if err != nil {
		return Interval{}, fmt.Errorf("start: %w", err)
	}
	end, err := ParseTime(in.End)
	if err != nil {
		return Interval{}, fmt.Errorf("end: %w", err)
	}
	if end <= start {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, FormatTime(start), FormatTime(end))
	}
	return Interval{
		StartMin:  start,
		EndMin:    end,
		AccountID: in.AccountID,
		Text:      strings.TrimSpace(in.Text),
		IsBreak:   in.IsBreak,
	}, nil
}

// SortIntervals orders by start minute; ties keep insertion order.
func SortIntervals(ivs []Interval) {
	slices.SortStableFunc(ivs, func(a, b Interval) int {
		return a.StartMin - b.StartMin
	})
}
