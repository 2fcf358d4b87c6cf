package difficulty

import "math"

// MaxEXP caps the experience scale; points beyond it stop moving the
// rank.
const MaxEXP = 10000

// rankPower bends the ladder so higher ranks need disproportionately
// more experience. 1.0 would be linear.
const rankPower = 1.6

// rankLevels is the ladder from fresh account to endgame, lowest
// first.
var rankLevels = []string{
	"novice",
	"apprentice",
	"bronze_coder",
	"silver_coder",
	"gold_developer",
	"platinum_engineer",
	"diamond_hacker",
	"master_coder",
	"grandmaster_dev",
	"code_overlord",
}

// rankBias is the theta bonus (or handicap, for the low ranks) each
// rank contributes to the ability estimate, indexed like rankLevels.
var rankBias = []float64{
	-0.05, -0.05, -0.03, 0.0, 0.0, 0.03, 0.03, 0.05, 0.06, 0.07,
}

// rankThresholds holds the normalized EXP floor of each rank.
var rankThresholds = func() []float64 {
	top := float64(len(rankLevels) - 1)
	t := make([]float64, len(rankLevels))
	for i := 1; i < len(rankLevels); i++ {
		t[i] = round4(math.Pow(float64(i)/top, rankPower))
	}
	return t
}()

// NormalizeEXP maps total experience onto [0, 1].
func NormalizeEXP(exp int) float64 {
	if exp < 0 {
		exp = 0
	}
	if exp > MaxEXP {
		exp = MaxEXP
	}
	return float64(exp) / MaxEXP
}

// RankFromEXP returns the rank name and its theta bias for a total
// experience value.
func RankFromEXP(exp int) (string, float64) {
	v := NormalizeEXP(exp)
	for i := len(rankThresholds) - 1; i >= 0; i-- {
		if v >= rankThresholds[i] {
			return rankLevels[i], rankBias[i]
		}
	}
	return rankLevels[0], rankBias[0]
}

// AchievementBonus converts an achievement count into a capped theta
// bonus: one percent per achievement, at most 0.1.
func AchievementBonus(completed int) float64 {
	if completed < 0 {
		completed = 0
	}
	return math.Min(float64(completed)*0.01, 0.1)
}
