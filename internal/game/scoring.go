package game

// Award computes the points for a correct answer in the flags and capitals
// games. Free-text mode (variantCount 0) pays like a ten-option board; every
// hint taken halves, thirds, ... the award. All divisions floor.
func Award(difficulty, variantCount, hintCount int) int64 {
	options := variantCount
	if options == 0 {
		options = 10
	}
	return int64(difficulty * options / 4 / (hintCount + 1))
}

// AwardHotCold computes the points for solving the hot-cold game on the given
// 1-based attempt. Later attempts and hints both shrink the award, hints
// twice as fast.
func AwardHotCold(difficulty, attempt, hintCount int) int64 {
	return int64(difficulty * 50 / (attempt + hintCount*2))
}
