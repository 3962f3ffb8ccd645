package campaign

import "testing"

func TestUnlockedPercent(t *testing.T) {
	const start int64 = 1_700_000_000
	day := SecondsPerDay
	tests := []struct {
		name   string
		scheme UnlockScheme
		now    int64
		want   uint64
	}{
		{name: "immediate before start", scheme: SchemeImmediate, now: start - 1, want: 0},
		{name: "immediate at start", scheme: SchemeImmediate, now: start, want: 100},
		{name: "immediate later", scheme: SchemeImmediate, now: start + 400*day, want: 100},
		{name: "gradual at start", scheme: SchemeGradual, now: start, want: 40},
		{name: "gradual day 29", scheme: SchemeGradual, now: start + 29*day, want: 40},
		{name: "gradual day 31", scheme: SchemeGradual, now: start + 31*day, want: 52},
		{name: "gradual day 61", scheme: SchemeGradual, now: start + 61*day, want: 64},
		{name: "gradual day 150", scheme: SchemeGradual, now: start + 150*day, want: 100},
		{name: "gradual far future", scheme: SchemeGradual, now: start + 3650*day, want: 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := UnlockedPercent(tc.scheme, start, tc.now); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
	if got := UnlockedPercent(SchemeImmediate, 0, start); got != 0 {
		t.Fatalf("unset unlock start should unlock nothing, got %d", got)
	}
}

func TestScheduleSumsToHundred(t *testing.T) {
	for _, scheme := range []UnlockScheme{SchemeImmediate, SchemeGradual} {
		var total int
		for _, m := range Schedule(scheme) {
			total += int(m.Percent)
		}
		if total != 100 {
			t.Fatalf("%s schedule sums to %d", scheme, total)
		}
	}
}

func TestMonthlyUnlocked(t *testing.T) {
	const month int64 = 30 * 86_400
	const start int64 = 1_000
	cases := []struct {
		now  int64
		want uint64
	}{
		{now: start, want: 0},
		{now: start + month - 1, want: 0},
		{now: start + month, want: 100},
		{now: start + 5*month + 10, want: 500},
		{now: start + 12*month, want: 1200},
		{now: start + 40*month, want: 1200},
	}
	for _, tc := range cases {
		got, err := monthlyUnlocked(1200, 12, start, tc.now, month)
		if err != nil {
			t.Fatalf("monthly unlocked: %v", err)
		}
		if got != tc.want {
			t.Fatalf("now=%d: expected %d, got %d", tc.now, tc.want, got)
		}
	}
	if _, err := monthlyUnlocked(1200, 0, start, start, month); err != ErrInvalidUnlockMonths {
		t.Fatalf("expected invalid months, got %v", err)
	}
}
