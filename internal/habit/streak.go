package habit

// LongestRun returns the longest contiguous run of completed days in the
// grid, scanning Sunday to Saturday. The result is in [0, 7] and equals 7 only
// when every day is complete.
func LongestRun(days Grid) int {
	run, best := 0, 0
	for _, done := range days {
		if !done {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}
