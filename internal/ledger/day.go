package ledger

// BreakMinutes sums the durations of break intervals.
func (d Day) BreakMinutes() int {
	total := 0
	for _, iv := range d.Intervals {
		if iv.IsBreak {
			total += iv.Duration()
		}
	}
	return total
}

// WorkMinutes sums the durations of non-break intervals.
func (d Day) WorkMinutes() int {
	total := 0
	for _, iv := range d.Intervals {
		if !iv.IsBreak {
			total += iv.Duration()
		}
	}
	return total
}

// Started reports whether the day has a start marker and no end marker.
func (d Day) Started() bool {
	return d.StartTS != nil && d.EndTS == nil
}

// NextStartSuggestion returns the end of the latest-ending interval as
// "HH:MM", or "" for an empty day.
func (d Day) NextStartSuggestion() string {
	if len(d.Intervals) == 0 {
		return ""
	}
	last := 0
	for _, iv := range d.Intervals {
		last = max(last, iv.EndMin)
	}
	return FormatTime(last)
}
