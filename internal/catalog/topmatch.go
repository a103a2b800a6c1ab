package catalog

// TopMatch returns the highest-scoring match, or nil for an empty list. Ties
// keep the earliest entry so repeated runs over the same results are stable.
func TopMatch(matches []Match) *Match {
	if len(matches) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[best].Score {
			best = i
		}
	}
	top := matches[best]
	return &top
}
