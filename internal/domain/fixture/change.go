package fixture

// ShouldReplace decides whether a freshly normalized collection replaces the
// held one. Non-silent fetches always replace. Silent fetches replace only
// when the id order changed or a visible field of some fixture changed.
func ShouldReplace(prev, next []Fixture, silent bool) bool {
	if !silent {
		return true
	}
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if prev[i].ID != next[i].ID {
			return true
		}
	}
	for i := range prev {
		if visiblyChanged(prev[i], next[i]) {
			return true
		}
	}
	return false
}

func visiblyChanged(prev, next Fixture) bool {
	return !prev.Score.Equal(next.Score) ||
		prev.StatusKind != next.StatusKind ||
		prev.StatusRaw != next.StatusRaw ||
		prev.IsLive != next.IsLive ||
		!equalIntPtr(prev.ElapsedMinutes, next.ElapsedMinutes)
}
