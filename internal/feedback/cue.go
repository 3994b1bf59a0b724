package feedback

// Cue is the announcement played for a capture.
type Cue int

const (
	CueScores        Cue = iota // Scoring team still trails or is now tied
	CueTakesLead                // Scoring team is now exactly one ahead
	CueIncreasesLead            // Scoring team was already ahead
	CueDominating               // Scoring team is five or more ahead
	CueWinsMatch                // Win count reached
)

// String returns the cue name used in sound paths.
func (c Cue) String() string {
	switch c {
	case CueScores:
		return "scores"
	case CueTakesLead:
		return "takes_lead"
	case CueIncreasesLead:
		return "increases_lead"
	case CueDominating:
		return "dominating"
	case CueWinsMatch:
		return "wins_match"
	default:
		return "unknown"
	}
}

// SelectCue picks the capture announcement from the scores after the
// increment. Reaching winCount wins before any lead comparison.
func SelectCue(score, opponent, winCount int) Cue {
	lead := score - opponent
	switch {
	case winCount > 0 && score >= winCount:
		return CueWinsMatch
	case lead <= 0:
		return CueScores
	case lead == 1:
		return CueTakesLead
	case lead >= 5:
		return CueDominating
	default:
		return CueIncreasesLead
	}
}
