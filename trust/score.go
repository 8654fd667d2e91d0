package trust

// Facts are the aggregate inputs a trust score is derived from. They are a
// snapshot of the business's current state; the score depends on nothing else.
type Facts struct {
	Verified    bool
	Banned      bool
	Ratings     []int
	OpenReports int
}

const (
	baseScore     = 50
	verifiedBonus = 30
	reportPenalty = 10
)

// Score maps aggregate facts to a trust score in [0,100].
//
// A banned business scores exactly 0; the ban overrides every other input
// rather than acting as one more penalty. With no reviews the rating term is
// skipped entirely. The clamp is applied once, after all terms.
func Score(f Facts) int {
	if f.Banned {
		return 0
	}

	score := baseScore
	if f.Verified {
		score += verifiedBonus
	}

	if len(f.Ratings) > 0 {
		total := 0
		for _, r := range f.Ratings {
			total += r
		}
		avg := float64(total) / float64(len(f.Ratings))
		switch {
		case avg >= 4.5:
			score += 20
		case avg >= 4.0:
			score += 15
		case avg >= 3.0:
			score += 5
		default:
			score -= 20
		}
	}

	score -= reportPenalty * f.OpenReports

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
