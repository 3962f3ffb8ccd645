package campaign

// SecondsPerDay is the day length used by milestone offsets.
const SecondsPerDay int64 = 86_400

// Milestone unlocks Percent of an entitlement OffsetDays after unlock start.
type Milestone struct {
	OffsetDays uint32
	Percent    uint8
}

var (
	immediateSchedule = []Milestone{{OffsetDays: 0, Percent: 100}}
	gradualSchedule   = []Milestone{
		{OffsetDays: 0, Percent: 40},
		{OffsetDays: 30, Percent: 12},
		{OffsetDays: 60, Percent: 12},
		{OffsetDays: 90, Percent: 12},
		{OffsetDays: 120, Percent: 12},
		{OffsetDays: 150, Percent: 12},
	}
)

// Schedule returns the milestone table bound to the scheme.
func Schedule(scheme UnlockScheme) []Milestone {
	switch scheme {
	case SchemeGradual:
		return append([]Milestone(nil), gradualSchedule...)
	default:
		return append([]Milestone(nil), immediateSchedule...)
	}
}

// UnlockedPercent sums the milestones whose unlock time has passed at now,
// capped at 100. Nothing unlocks before unlockStart or when it is unset.
func UnlockedPercent(scheme UnlockScheme, unlockStart, now int64) uint64 {
	if unlockStart <= 0 || now < unlockStart {
		return 0
	}
	elapsed := now - unlockStart
	var pct uint64
	for _, m := range Schedule(scheme) {
		if elapsed >= int64(m.OffsetDays)*SecondsPerDay {
			pct += uint64(m.Percent)
		}
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// monthlyUnlocked returns total*min(elapsedMonths, months)/months for a
// linear monthly schedule starting at start.
func monthlyUnlocked(total uint64, months uint8, start, now, secondsPerMonth int64) (uint64, error) {
	if months == 0 {
		return 0, ErrInvalidUnlockMonths
	}
	if secondsPerMonth <= 0 || now < start {
		return 0, nil
	}
	elapsed := uint64((now - start) / secondsPerMonth)
	if elapsed > uint64(months) {
		elapsed = uint64(months)
	}
	return mulDiv(total, elapsed, uint64(months))
}
