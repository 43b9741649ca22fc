package gates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HourWindow is an inclusive range of UTC hours.
type HourWindow struct {
	FromHour int
	ToHour   int
}

// ClockWindow is an inclusive range of UTC minutes-of-day.
type ClockWindow struct {
	FromMinute int
	ToMinute   int
}

// ParseClock converts "HH:MM" to a minute-of-day.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("clock %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q: bad minute", s)
	}
	return h*60 + m, nil
}

// ParseClockWindow converts an inclusive ["HH:MM","HH:MM"] pair.
func ParseClockWindow(from, to string) (ClockWindow, error) {
	f, err := ParseClock(from)
	if err != nil {
		return ClockWindow{}, err
	}
	t, err := ParseClock(to)
	if err != nil {
		return ClockWindow{}, err
	}
	if t < f {
		return ClockWindow{}, fmt.Errorf("clock window %s-%s: end before start", from, to)
	}
	return ClockWindow{FromMinute: f, ToMinute: t}, nil
}

// Evaluator decides whether a given wall-clock instant is tradeable. It is a
// pure function of its inputs; the caller supplies the clock.
type Evaluator struct {
	sessions []HourWindow
	news     []ClockWindow
}

// New creates a gate evaluator from the configured windows.
func New(sessions []HourWindow, news []ClockWindow) *Evaluator {
	return &Evaluator{sessions: sessions, news: news}
}

// SessionOpen reports whether t falls inside any trading session window.
// With no sessions configured the gate is always open.
func (e *Evaluator) SessionOpen(t time.Time) bool {
	if len(e.sessions) == 0 {
		return true
	}
	hour := t.UTC().Hour()
	for _, w := range e.sessions {
		if hour >= w.FromHour && hour <= w.ToHour {
			return true
		}
	}
	return false
}

// NewsBlackout reports whether t falls inside a scheduled-news window.
func (e *Evaluator) NewsBlackout(t time.Time) bool {
	u := t.UTC()
	minute := u.Hour()*60 + u.Minute()
	for _, w := range e.news {
		if minute >= w.FromMinute && minute <= w.ToMinute {
			return true
		}
	}
	return false
}

// Check runs both gates and returns (allowed, reason). The reason is only
// meaningful when allowed is false.
func (e *Evaluator) Check(t time.Time) (bool, string) {
	if !e.SessionOpen(t) {
		return false, "outside trading session"
	}
	if e.NewsBlackout(t) {
		return false, "news blackout window"
	}
	return true, ""
}
