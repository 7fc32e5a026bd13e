package sim

import "math"

// fractionTolerance is how far the fraction sum may drift from 1 before the
// partition reports a correction.
const fractionTolerance = 1e-6

// Partition splits total agents across populations by fraction. All but the
// last population get their rounded share of total (never more than what
// remains); the last gets the exact remainder, so the counts always sum to
// total. corrected reports fractions that do not sum to 1, in which case the
// remainder absorbs the difference.
func Partition(total int, fractions []float64) (counts []int, corrected bool) {
	n := len(fractions)
	counts = make([]int, n)
	if n == 0 {
		return counts, false
	}

	var sum float64
	for _, f := range fractions {
		sum += f
	}
	corrected = math.Abs(sum-1) > fractionTolerance

	remaining := total
	for i := 0; i < n-1; i++ {
		c := int(math.Round(fractions[i] * float64(total)))
		c = max(0, min(c, remaining))
		counts[i] = c
		remaining -= c
	}
	counts[n-1] = remaining
	return counts, corrected
}
