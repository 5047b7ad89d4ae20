package journal

import (
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Entry mirrors a record in the application's "entries" object store.
// CreatedAt is the store's key path.
type Entry struct {
	Date       string            `json:"date"`
	Theme      string            `json:"theme"`
	Responses  map[string]string `json:"responses"`
	ActionItem string            `json:"actionItem"`
	CreatedAt  string            `json:"createdAt"`
}

// Validate checks the fields the application keys and groups on.
func (e Entry) Validate() error {
	if _, err := time.Parse(dateLayout, e.Date); err != nil {
		return fmt.Errorf("entry date %q: %w", e.Date, err)
	}
	if _, err := time.Parse(time.RFC3339, e.CreatedAt); err != nil {
		return fmt.Errorf("entry createdAt %q: %w", e.CreatedAt, err)
	}
	if e.Responses == nil {
		return fmt.Errorf("entry %s: responses must be an object, not null", e.CreatedAt)
	}
	return nil
}

// Fixtures returns the seeded entries: three in January 2026 over two
// distinct days, one in December 2025.
func Fixtures() []Entry {
	return []Entry{
		{Date: "2026-01-01", Theme: "Health/Fitness", Responses: map[string]string{}, ActionItem: "Run", CreatedAt: "2026-01-01T10:00:00Z"},
		{Date: "2026-01-01", Theme: "Faith", Responses: map[string]string{}, ActionItem: "Pray", CreatedAt: "2026-01-01T12:00:00Z"},
		{Date: "2026-01-05", Theme: "Career", Responses: map[string]string{}, ActionItem: "Work", CreatedAt: "2026-01-05T10:00:00Z"},
		{Date: "2025-12-31", Theme: "Reflection", Responses: map[string]string{}, ActionItem: "Reflect", CreatedAt: "2025-12-31T10:00:00Z"},
	}
}

// MonthCount is the number of distinct entry dates in one calendar month.
type MonthCount struct {
	Year  int
	Month time.Month
	Days  int
}

// Label renders the month the way the statistics card does, e.g. "January 2026".
func (m MonthCount) Label() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// DaysLabel renders "1 day" or "<N> days".
func (m MonthCount) DaysLabel() string {
	if m.Days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", m.Days)
}

// MonthlyConsistency groups entries by calendar month and counts unique
// dates, newest month first. Entries with an unparseable date are skipped.
func MonthlyConsistency(entries []Entry) []MonthCount {
	type monthKey struct {
		year  int
		month time.Month
	}
	days := make(map[monthKey]map[string]struct{})
	for _, e := range entries {
		d, err := time.Parse(dateLayout, e.Date)
		if err != nil {
			continue
		}
		k := monthKey{d.Year(), d.Month()}
		if days[k] == nil {
			days[k] = make(map[string]struct{})
		}
		days[k][e.Date] = struct{}{}
	}

	out := make([]MonthCount, 0, len(days))
	for k, set := range days {
		out = append(out, MonthCount{Year: k.year, Month: k.month, Days: len(set)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out
}

// ExpectedCardText lists the strings the "Monthly Consistency" card must
// contain for the given entries: each month label followed by its day count.
func ExpectedCardText(entries []Entry) []string {
	months := MonthlyConsistency(entries)
	texts := make([]string, 0, 2*len(months))
	for _, m := range months {
		texts = append(texts, m.Label(), m.DaysLabel())
	}
	return texts
}
