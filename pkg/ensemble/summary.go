package ensemble

import "github.com/recom-ensemble/pkg/election"

// Summary derives distributional statistics from a completed ensemble. The
// ensemble itself is never mutated.
type Summary struct {
	MinWins        int
	MaxWins        int
	WinCounts      map[int]int // seat count -> number of plans, dense over [0, MaxWins]
	EfficiencyGaps []float64   // raw sequence, chain order
}

func Summarize(samples []election.Result) *Summary {
	s := &Summary{WinCounts: make(map[int]int)}
	if len(samples) == 0 {
		return s
	}

	s.MinWins = samples[0].RepWins
	s.MaxWins = samples[0].RepWins
	for _, r := range samples {
		if r.RepWins < s.MinWins {
			s.MinWins = r.RepWins
		}
		if r.RepWins > s.MaxWins {
			s.MaxWins = r.RepWins
		}
		s.WinCounts[r.RepWins]++
		s.EfficiencyGaps = append(s.EfficiencyGaps, r.EfficiencyGap)
	}

	for wins := 0; wins <= s.MaxWins; wins++ {
		if _, ok := s.WinCounts[wins]; !ok {
			s.WinCounts[wins] = 0
		}
	}

	return s
}

// Merge folds another summary into this one, so summaries from independent
// chains can be combined.
func (s *Summary) Merge(other *Summary) {
	if len(other.EfficiencyGaps) == 0 {
		return
	}

	if len(s.EfficiencyGaps) == 0 {
		s.MinWins = other.MinWins
		s.MaxWins = other.MaxWins
	} else {
		if other.MinWins < s.MinWins {
			s.MinWins = other.MinWins
		}
		if other.MaxWins > s.MaxWins {
			s.MaxWins = other.MaxWins
		}
	}

	for wins, count := range other.WinCounts {
		s.WinCounts[wins] += count
	}
	for wins := 0; wins <= s.MaxWins; wins++ {
		if _, ok := s.WinCounts[wins]; !ok {
			s.WinCounts[wins] = 0
		}
	}

	s.EfficiencyGaps = append(s.EfficiencyGaps, other.EfficiencyGaps...)
}

// SeatWins returns the per-sample seat-win sequence in chain order.
func SeatWins(samples []election.Result) []int {
	wins := make([]int, len(samples))
	for i, r := range samples {
		wins[i] = r.RepWins
	}
	return wins
}
