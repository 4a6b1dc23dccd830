package habit

// SkippedDayReason is reported when a toggle would mark a day that lies
// before an already marked day.
const SkippedDayReason = "Skipped days cannot be toggled after subsequent days are marked."

// Decision is the outcome of CanToggle.
type Decision struct {
	Allow  bool
	Reason string
}

// CheckDay returns a DAY_OUT_OF_RANGE error unless day is in [0, 6].
func CheckDay(day int) error {
	if day < 0 || day >= DaysPerWeek {
		return NewRangeError(day)
	}
	return nil
}

// CanToggle applies the day lock. Marking day is refused while any later day
// is already marked; unmarking is always allowed. day must already be in
// range (see CheckDay).
func CanToggle(days Grid, day int) Decision {
	if days[day] {
		return Decision{Allow: true}
	}
	for i := day + 1; i < DaysPerWeek; i++ {
		if days[i] {
			return Decision{Allow: false, Reason: SkippedDayReason}
		}
	}
	return Decision{Allow: true}
}
