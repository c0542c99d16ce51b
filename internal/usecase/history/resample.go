package history

import (
	"sort"

	"github.com/simaogato/networth-backend/internal/domain"
)

const (
	// DefaultPeriodDays is the fortnightly granularity used by the history view
	DefaultPeriodDays = 14
	// MaxPeriodDays bounds a window to ten years
	MaxPeriodDays = 3650
)

// Resample downsamples snapshots to one point per periodDays window.
// Windows are anchored at the earliest snapshot's date; each emitted point carries the
// window's last calendar day and the last value observed inside the window.
// Windows without observations are skipped. periodDays is clamped to [1, MaxPeriodDays].
func Resample(snapshots []*domain.NetWorthSnapshot, periodDays int) []domain.ResamplePoint {
	if len(snapshots) == 0 {
		return []domain.ResamplePoint{}
	}
	if periodDays < 1 {
		periodDays = 1
	}
	if periodDays > MaxPeriodDays {
		periodDays = MaxPeriodDays
	}

	sorted := make([]*domain.NetWorthSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return domain.Day(sorted[i].Date).Before(domain.Day(sorted[j].Date))
	})

	start := domain.Day(sorted[0].Date)

	points := make([]domain.ResamplePoint, 0)
	window := -1
	for _, s := range sorted {
		// Day returns midnight UTC, so the difference is a whole number of days
		days := int(domain.Day(s.Date).Sub(start).Hours() / 24)
		w := days / periodDays
		if w != window {
			window = w
			points = append(points, domain.ResamplePoint{
				PeriodEnd: start.AddDate(0, 0, (w+1)*periodDays-1),
			})
		}
		points[len(points)-1].Value = s.Total
	}
	return points
}
