// Package market decides when bulk refreshes are allowed to run. Each
// window spans ~80 minutes so a scheduler firing at a fixed UTC time
// still lands inside it across DST transitions.
package market

import (
	"fmt"
	"time"

	"github.com/scmhub/calendar"
	"go.uber.org/zap"
)

const (
	OccasionOpen  = "open"
	OccasionClose = "close"
)

// Minute-of-day boundaries in exchange-local civil time.
const (
	sessionStartMin = 9*60 + 30  // 09:30 nominal open
	sessionEndMin   = 16 * 60    // 16:00 nominal close
	windowMinutes   = 80
)

// Gate is the time-zone-aware predicate for scheduled refreshes. It
// rejects non-trading days (weekends, and exchange holidays when the
// calendar is available) and accepts only minutes inside the occasion's
// window.
type Gate struct {
	cal *calendar.Calendar
	loc *time.Location
	now func() time.Time
}

type Option func(*Gate)

// WithNow replaces the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate builds a gate for the exchange identified by its MIC code,
// falling back to a plain Mon-Fri rule in tz when no calendar is found.
func NewGate(mic, tz string, log *zap.Logger, opts ...Option) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gate{now: time.Now}

	if cal := calendar.GetCalendar(mic); cal != nil {
		g.cal = cal
		g.loc = cal.Loc
	} else {
		log.Warn("exchange_calendar_unavailable", zap.String("mic", mic))
	}
	if g.loc == nil {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn("market_tz_load_failed", zap.String("tz", tz), zap.Error(err))
			loc = time.UTC
		}
		g.loc = loc
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TradingDay reports whether t falls on a day the exchange trades.
func (g *Gate) TradingDay(t time.Time) bool {
	t = t.In(g.loc)
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if g.cal != nil {
		return g.cal.IsBusinessDay(t)
	}
	return true
}

// AllowsNow reports whether a scheduled refresh tagged with occasion may
// proceed right now, with a human-readable reason when it may not.
func (g *Gate) AllowsNow(occasion string) (bool, string) {
	t := g.now().In(g.loc)
	if !g.TradingDay(t) {
		return false, "not a trading day"
	}

	mins := t.Hour()*60 + t.Minute()
	var start int
	switch occasion {
	case OccasionOpen:
		start = sessionStartMin
	case OccasionClose:
		start = sessionEndMin
	default:
		return false, fmt.Sprintf("unknown occasion %q", occasion)
	}
	if mins < start || mins >= start+windowMinutes {
		return false, fmt.Sprintf("outside %s window", occasion)
	}
	return true, ""
}

// OpenNow reports whether the exchange is trading at this instant
// (trading day, inside regular session hours).
func (g *Gate) OpenNow() bool {
	t := g.now().In(g.loc)
	if !g.TradingDay(t) {
		return false
	}
	mins := t.Hour()*60 + t.Minute()
	return mins >= sessionStartMin && mins < sessionEndMin
}
