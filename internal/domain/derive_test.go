package domain

import "testing"

func TestRankTierBoundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{0, RankBaus},
		{4.9, RankBaus},
		{5, RankSherm},
		{9.99, RankSherm},
		{10, RankSquid},
		{19.5, RankSquid},
		{20, RankFrenchMouse},
		{29.9, RankFrenchMouse},
		{30, RankTaus},
		{1000, RankTaus},
	}
	for _, c := range cases {
		if got := RankTier(c.hours); got != c.want {
			t.Errorf("RankTier(%v) = %q, want %q", c.hours, got, c.want)
		}
	}
}

func TestRankTierMonotonic(t *testing.T) {
	order := map[string]int{
		RankBaus:        0,
		RankSherm:       1,
		RankSquid:       2,
		RankFrenchMouse: 3,
		RankTaus:        4,
	}
	prev := -1
	for h := 0.0; h <= 40; h += 0.5 {
		cur := order[RankTier(h)]
		if cur < prev {
			t.Fatalf("rank decreased at %v hours", h)
		}
		prev = cur
	}
}

func TestXP(t *testing.T) {
	cases := []struct {
		minutes int64
		want    int64
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{9, 3},
		{10, 3},
		{100, 33},
	}
	for _, c := range cases {
		if got := XP(c.minutes * 60_000); got != c.want {
			t.Errorf("XP(%d min) = %d, want %d", c.minutes, got, c.want)
		}
	}
}

func TestMinutesTruncates(t *testing.T) {
	if got := Minutes(119_999); got != 1 {
		t.Fatalf("Minutes(119999) = %d, want 1", got)
	}
	if got := RoundedMinutes(119_999); got != 2 {
		t.Fatalf("RoundedMinutes(119999) = %d, want 2", got)
	}
}

func TestHoursRounding(t *testing.T) {
	// 45 minutes is 0.75 hours, rounded to 0.8.
	if got := Hours(45 * 60_000); got != 0.8 {
		t.Fatalf("Hours(45min) = %v, want 0.8", got)
	}
}

func TestUserNameFallback(t *testing.T) {
	u := User{Username: "sam"}
	if u.Name() != "sam" {
		t.Fatalf("expected username fallback, got %q", u.Name())
	}
	u.DisplayName = "Sam S"
	if u.Name() != "Sam S" {
		t.Fatalf("expected display name, got %q", u.Name())
	}
}
