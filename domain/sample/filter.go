package sample

import (
	"strings"
	"time"
)

// DateRange selects samples by entry date relative to today
type DateRange string

const (
	DateRangeAll   DateRange = "All"
	DateRangeToday DateRange = "Today"
	DateRangeWeek  DateRange = "Week"
	DateRangeMonth DateRange = "Month"
)

// Filter mirrors the list view's search bar. Zero values match everything.
type Filter struct {
	Search    string    `json:"search" form:"search"`
	Category  Category  `json:"category" form:"category"`
	Platform  Platform  `json:"platform" form:"platform"`
	DateRange DateRange `json:"date_range" form:"date_range"`
}

// Matches reports whether s passes every active criterion
func (f Filter) Matches(s *Sample, now time.Time) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		fields := []string{s.Name, s.BrandName, s.LocationCode, s.Mechanism, s.Specs}
		found := false
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Category != "" && f.Category != "All" && s.Category != f.Category {
		return false
	}
	if f.Platform != "" && f.Platform != "All" && !s.HasPlatform(f.Platform) {
		return false
	}

	today := DateOf(now)
	switch f.DateRange {
	case DateRangeToday:
		return s.EntryDate == today
	case DateRangeWeek:
		return !s.EntryDate.Before(today.AddDays(-7))
	case DateRangeMonth:
		return !s.EntryDate.Before(today.AddDays(-30))
	}
	return true
}

// Apply returns the samples matching f, preserving order
func (f Filter) Apply(samples []Sample, now time.Time) []Sample {
	out := make([]Sample, 0, len(samples))
	for i := range samples {
		if f.Matches(&samples[i], now) {
			out = append(out, samples[i])
		}
	}
	return out
}
