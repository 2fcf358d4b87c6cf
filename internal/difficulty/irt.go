// Package difficulty estimates learner ability with a two-parameter IRT
// model and adapts per-learner puzzle difficulty (beta) from it. Theta
// (ability) lives in [-3, 3], beta in [0.1, 1.0].
package difficulty

import "math"

const (
	ThetaMin = -3.0
	ThetaMax = 3.0
	BetaMin  = 0.1
	BetaMax  = 1.0

	// Beta cut points for the coarse labels used by puzzle generation.
	easyMax   = 0.3
	mediumMax = 0.6
)

// Model holds the IRT tuning parameters. The zero value is not usable;
// construct with NewModel.
type Model struct {
	// D scales the theta-beta gap before the logistic squash.
	D float64
	// DecayRate erodes ability per session of inactivity.
	DecayRate float64
	// Alpha is the smoothing factor applied between estimates.
	Alpha float64
}

func NewModel() *Model {
	return &Model{D: 1.7, DecayRate: 0.01, Alpha: 0.3}
}

// Snapshot is the per-learner IRT output the adjuster consumes.
type Snapshot struct {
	Probability float64
	Theta       float64
	Confidence  float64
	Rank        string
}

func sigmoid(x float64) float64 {
	if x < -20 {
		return 0.0
	}
	if x > 20 {
		return 1.0
	}
	return 0.5 * (1.0 + math.Tanh(x/2.0))
}

// ClampTheta keeps ability in the valid range.
func ClampTheta(theta float64) float64 {
	return math.Max(ThetaMin, math.Min(ThetaMax, theta))
}

// ClampBeta keeps difficulty in the valid range.
func ClampBeta(beta float64) float64 {
	return math.Max(BetaMin, math.Min(BetaMax, beta))
}

// LabelFromBeta maps a beta value to the difficulty label used by
// levels and socket generation.
func LabelFromBeta(beta float64) string {
	if beta < easyMax {
		return "Easy"
	}
	if beta < mediumMax {
		return "Medium"
	}
	return "Hard"
}

// Probability predicts the chance of a successful solve for a learner
// of ability theta on a puzzle of difficulty beta.
func (m *Model) Probability(theta, beta float64) float64 {
	return round4(sigmoid(m.D * (theta - beta)))
}

// UpdateAbility nudges theta toward the observed success ratio. A ratio
// above one half raises ability, below lowers it.
func (m *Model) UpdateAbility(theta float64, successCount, failCount int) float64 {
	const learningRate = 0.05
	total := successCount + failCount
	if total == 0 {
		return theta
	}
	ratio := float64(successCount) / float64(total)
	return ClampTheta(theta + (ratio-0.5)*learningRate)
}

// Confidence measures how consistent recent performance is. Near-equal
// success and fail rates mean volatile play and a low score.
func (m *Model) Confidence(successRate, failRate float64) float64 {
	c := 1.0 - math.Abs(successRate-failRate)
	return round3(math.Max(0.0, math.Min(c, 1.0)))
}

// ApplyDecay erodes a stale ability estimate after inactivity.
func (m *Model) ApplyDecay(theta float64, sessionsPlayed int) float64 {
	return round3(ClampTheta(theta * (1 - m.DecayRate*float64(sessionsPlayed))))
}

// Smooth blends the new estimate with the previous one to avoid spikes.
func (m *Model) Smooth(current, previous float64) float64 {
	return round3(m.Alpha*current + (1-m.Alpha)*previous)
}

// Evaluate runs the full pipeline for one learner: base probability,
// ability update from counts, rank and achievement bonuses, confidence
// weighting, decay, and smoothing against the previous theta when one
// is known. exp is total experience (points earned); achievements is
// the count of completed achievements.
func (m *Model) Evaluate(theta, beta float64, successCount, failCount, sessionsPlayed, exp, achievements int, prevTheta *float64) Snapshot {
	theta = ClampTheta(theta)
	beta = ClampBeta(beta)
	if successCount < 0 {
		successCount = 0
	}
	if failCount < 0 {
		failCount = 0
	}
	if sessionsPlayed < 1 {
		sessionsPlayed = 1
	}

	rank, rankBonus := RankFromEXP(exp)
	_, successRate, successBias := SuccessRate(successCount)
	_, failRate, failPenalty := FailRate(failCount)

	probability := m.Probability(theta, beta)

	adjusted := m.UpdateAbility(theta, successCount, failCount)
	adjusted += rankBonus + successBias - failPenalty
	adjusted += AchievementBonus(achievements)

	confidence := m.Confidence(successRate, failRate)
	adjusted *= confidence

	adjusted = m.ApplyDecay(adjusted, sessionsPlayed)
	if prevTheta != nil {
		adjusted = ClampTheta(m.Smooth(adjusted, *prevTheta))
	}

	return Snapshot{
		Probability: probability,
		Theta:       adjusted,
		Confidence:  confidence,
		Rank:        rank,
	}
}
