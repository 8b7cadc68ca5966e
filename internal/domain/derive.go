package domain

import "math"

// Rank tiers, lowest to highest, keyed on weekly study hours.
const (
	RankBaus        = "Baus"
	RankSherm       = "Sherm"
	RankSquid       = "Squid"
	RankFrenchMouse = "French Mouse"
	RankTaus        = "Taus"
)

// RankTier maps weekly hours to a tier. Intervals are left-closed,
// right-open with boundaries at 5, 10, 20 and 30; the top tier is
// unbounded.
func RankTier(weeklyHours float64) string {
	switch {
	case weeklyHours < 5:
		return RankBaus
	case weeklyHours < 10:
		return RankSherm
	case weeklyHours < 20:
		return RankSquid
	case weeklyHours < 30:
		return RankFrenchMouse
	default:
		return RankTaus
	}
}

// XP grants 1 XP per 3 full minutes studied.
func XP(durationMs int64) int64 {
	return durationMs / 180_000
}

// Minutes truncates a millisecond duration to whole minutes.
func Minutes(durationMs int64) int64 {
	return durationMs / 60_000
}

// Hours converts a millisecond duration to hours, rounded to one decimal.
func Hours(durationMs int64) float64 {
	return math.Round(float64(durationMs)/3_600_000*10) / 10
}

// RoundedMinutes converts a millisecond duration to minutes, rounded to
// the nearest whole minute.
func RoundedMinutes(durationMs int64) int64 {
	return int64(math.Round(float64(durationMs) / 60_000))
}
