package dashboard

import (
	"errors"
	"time"
)

// Reporting periods accepted by the dashboard endpoint.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// ErrUnknownPeriod is returned for a period selector outside the known set.
var ErrUnknownPeriod = errors.New("unknown reporting period")

// Window is a half-open date range [From, To) spanning Days whole days.
type Window struct {
	From time.Time
	To   time.Time
	Days int
}

// PeriodPolicy maps period selectors to window lengths in days. Zero values
// fall back to the stock 7/30 policy.
type PeriodPolicy struct {
	WeekDays  int
	MonthDays int
}

func (p PeriodPolicy) days(period string) (int, error) {
	switch period {
	case PeriodWeek:
		if p.WeekDays > 0 {
			return p.WeekDays, nil
		}
		return 7, nil
	case PeriodMonth:
		if p.MonthDays > 0 {
			return p.MonthDays, nil
		}
		return 30, nil
	}
	return 0, ErrUnknownPeriod
}

// ResolveWindow turns a period selector into the current reporting window and
// the immediately preceding window of identical length. Windows are aligned
// to UTC day boundaries; To is the start of tomorrow so today's samples are
// included.
func ResolveWindow(period string, now time.Time, policy PeriodPolicy) (Window, Window, error) {
	days, err := policy.days(period)
	if err != nil {
		return Window{}, Window{}, err
	}

	to := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -days)
	cur := Window{From: from, To: to, Days: days}
	prev := Window{From: from.AddDate(0, 0, -days), To: from, Days: days}
	return cur, prev, nil
}
