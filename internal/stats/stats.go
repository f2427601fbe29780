// Package stats aggregates rolling time-windowed statistics over the
// submission ledger: totals, unique senders, trailing-window counts, and a
// per-day histogram feeding the /stats chart.
package stats

import (
	"sort"
	"time"

	"github.com/suggestbot/go-suggest-backend/internal/ledger"
)

// dateLayout is the calendar-day bucket key (local time).
const dateLayout = "2006-01-02"

// Summary holds the counters reported by the /stats command.
type Summary struct {
	Total       int `json:"total"`
	UniqueUsers int `json:"unique_users"`
	Last24h     int `json:"last_24h"`
	Last7d      int `json:"last_7d"`
	Last30d     int `json:"last_30d"`
}

// DayCount is one calendar-day bucket of the histogram.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Aggregator computes statistics over a ledger snapshot.
type Aggregator struct {
	Ledger *ledger.Ledger
}

// Summarize returns total, unique-user, and trailing-window counts as of now.
// A submission counts toward a window when now - timestamp < window.
func (a *Aggregator) Summarize(now time.Time) Summary {
	recs := a.Ledger.Snapshot()

	users := make(map[int64]struct{}, len(recs))
	s := Summary{Total: len(recs)}
	for _, r := range recs {
		users[r.UserID] = struct{}{}
		age := now.Sub(r.Timestamp)
		if age < 24*time.Hour {
			s.Last24h++
		}
		if age < 7*24*time.Hour {
			s.Last7d++
		}
		if age < 30*24*time.Hour {
			s.Last30d++
		}
	}
	s.UniqueUsers = len(users)
	return s
}

// DailyHistogram buckets submissions from the trailing daysBack days by local
// calendar date, ascending. The result is never empty: with no submissions in
// the window it contains a single zero bucket for the current date, so the
// chart renderer always has at least one bar.
func (a *Aggregator) DailyHistogram(now time.Time, daysBack int) []DayCount {
	if daysBack <= 0 {
		daysBack = 7
	}
	cutoff := now.Add(-time.Duration(daysBack) * 24 * time.Hour)

	counts := make(map[string]int)
	for _, r := range a.Ledger.Snapshot() {
		if r.Timestamp.After(cutoff) || r.Timestamp.Equal(cutoff) {
			counts[r.Timestamp.Local().Format(dateLayout)]++
		}
	}

	if len(counts) == 0 {
		return []DayCount{{Date: now.Local().Format(dateLayout), Count: 0}}
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DayCount, 0, len(dates))
	for _, d := range dates {
		out = append(out, DayCount{Date: d, Count: counts[d]})
	}
	return out
}
