package difficulty

import (
	"math"
	"testing"
)

func TestProbability(t *testing.T) {
	m := NewModel()

	tests := []struct {
		name  string
		theta float64
		beta  float64
		check func(p float64) bool
	}{
		{"ability above difficulty", 1.0, 0.5, func(p float64) bool { return p > 0.5 }},
		{"ability below difficulty", -1.0, 0.5, func(p float64) bool { return p < 0.5 }},
		{"matched", 0.5, 0.5, func(p float64) bool { return p == 0.5 }},
		{"extreme ability", 3.0, 0.1, func(p float64) bool { return p > 0.9 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := m.Probability(tt.theta, tt.beta)
			if p < 0 || p > 1 {
				t.Fatalf("probability %v out of range", p)
			}
			if !tt.check(p) {
				t.Errorf("Probability(%v, %v) = %v", tt.theta, tt.beta, p)
			}
		})
	}
}

func TestUpdateAbility(t *testing.T) {
	m := NewModel()

	tests := []struct {
		name      string
		theta     float64
		successes int
		fails     int
		want      func(out, in float64) bool
	}{
		{"no attempts leaves theta alone", 0.4, 0, 0, func(out, in float64) bool { return out == in }},
		{"mostly successful raises", 0.0, 8, 2, func(out, in float64) bool { return out > in }},
		{"mostly failing lowers", 0.0, 2, 8, func(out, in float64) bool { return out < in }},
		{"balanced holds", 0.0, 5, 5, func(out, in float64) bool { return out == in }},
		{"clamped at ceiling", 3.0, 10, 0, func(out, in float64) bool { return out == ThetaMax }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.UpdateAbility(tt.theta, tt.successes, tt.fails)
			if !tt.want(out, tt.theta) {
				t.Errorf("UpdateAbility(%v, %d, %d) = %v", tt.theta, tt.successes, tt.fails, out)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	m := NewModel()

	if got := m.Confidence(0.8, 0.1); got != 0.3 {
		t.Errorf("consistent play: got %v, want 0.3", got)
	}
	if got := m.Confidence(0.5, 0.5); got != 1.0 {
		t.Errorf("identical rates: got %v, want 1.0", got)
	}
}

func TestSuccessRateTiers(t *testing.T) {
	tests := []struct {
		count     int
		wantLevel string
	}{
		{0, "Beginner"},
		{2, "Beginner"},
		{4, "Newbie"},
		{25, "Intermediate"},
		{75, "Pro"},
		{500, "Pro"},
		{-3, "Beginner"},
	}

	for _, tt := range tests {
		level, rate, bias := SuccessRate(tt.count)
		if level != tt.wantLevel {
			t.Errorf("SuccessRate(%d) level = %q, want %q", tt.count, level, tt.wantLevel)
		}
		if rate < 0 || rate > 1 {
			t.Errorf("SuccessRate(%d) rate %v out of range", tt.count, rate)
		}
		if bias < 0 {
			t.Errorf("SuccessRate(%d) bias %v negative", tt.count, bias)
		}
	}
}

func TestFailRateTiers(t *testing.T) {
	level, rate, penalty := FailRate(10)
	if level != "Moderate Failure" {
		t.Errorf("FailRate(10) level = %q", level)
	}
	if rate != 0.1 {
		t.Errorf("FailRate(10) rate = %v, want 0.1", rate)
	}
	if penalty <= 0.05 {
		t.Errorf("FailRate(10) penalty = %v, want tier penalty plus scaling", penalty)
	}
}

func TestLabelFromBeta(t *testing.T) {
	tests := []struct {
		beta float64
		want string
	}{
		{0.1, "Easy"},
		{0.29, "Easy"},
		{0.3, "Medium"},
		{0.59, "Medium"},
		{0.6, "Hard"},
		{1.0, "Hard"},
	}

	for _, tt := range tests {
		if got := LabelFromBeta(tt.beta); got != tt.want {
			t.Errorf("LabelFromBeta(%v) = %q, want %q", tt.beta, got, tt.want)
		}
	}
}

func TestEvaluateBounds(t *testing.T) {
	m := NewModel()
	prev := 0.2

	snap := m.Evaluate(5.0, 2.0, -1, -1, 0, -50, -3, &prev)
	if snap.Theta < ThetaMin || snap.Theta > ThetaMax {
		t.Errorf("theta %v out of range", snap.Theta)
	}
	if snap.Probability < 0 || snap.Probability > 1 {
		t.Errorf("probability %v out of range", snap.Probability)
	}
	if snap.Confidence < 0 || snap.Confidence > 1 {
		t.Errorf("confidence %v out of range", snap.Confidence)
	}
	if snap.Rank != "novice" {
		t.Errorf("rank = %q, want novice for zero experience", snap.Rank)
	}
}

func TestRankFromEXP(t *testing.T) {
	tests := []struct {
		exp      int
		wantRank string
	}{
		{-10, "novice"},
		{0, "novice"},
		{200, "novice"},
		{MaxEXP, "code_overlord"},
		{MaxEXP * 2, "code_overlord"},
	}

	for _, tt := range tests {
		rank, _ := RankFromEXP(tt.exp)
		if rank != tt.wantRank {
			t.Errorf("RankFromEXP(%d) = %q, want %q", tt.exp, rank, tt.wantRank)
		}
	}

	// The ladder is monotone: more experience never demotes, and the
	// bias never shrinks on promotion.
	prevRank, prevBias := RankFromEXP(0)
	prevIdx := 0
	for exp := 0; exp <= MaxEXP; exp += 100 {
		rank, bias := RankFromEXP(exp)
		idx := rankIndex(t, rank)
		if idx < prevIdx {
			t.Fatalf("exp %d demoted %q -> %q", exp, prevRank, rank)
		}
		if idx > prevIdx && bias < prevBias {
			t.Fatalf("promotion to %q lowered bias %v -> %v", rank, prevBias, bias)
		}
		prevRank, prevBias, prevIdx = rank, bias, idx
	}
}

func rankIndex(t *testing.T, name string) int {
	t.Helper()
	for i, r := range rankLevels {
		if r == name {
			return i
		}
	}
	t.Fatalf("unknown rank %q", name)
	return -1
}

func TestRankThresholdsSkew(t *testing.T) {
	// The power curve must make each rank's EXP band wider than the one
	// below it, so high ranks take longer to reach.
	for i := 2; i < len(rankThresholds); i++ {
		lower := rankThresholds[i-1] - rankThresholds[i-2]
		upper := rankThresholds[i] - rankThresholds[i-1]
		if upper <= lower {
			t.Errorf("band %d (%v) not wider than band %d (%v)", i, upper, i-1, lower)
		}
	}
}

func TestAchievementBonus(t *testing.T) {
	tests := []struct {
		completed int
		want      float64
	}{
		{-1, 0.0},
		{0, 0.0},
		{3, 0.03},
		{10, 0.1},
		{50, 0.1},
	}

	for _, tt := range tests {
		if got := AchievementBonus(tt.completed); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AchievementBonus(%d) = %v, want %v", tt.completed, got, tt.want)
		}
	}
}

func TestEvaluateRankBonusRaisesTheta(t *testing.T) {
	m := NewModel()

	low := m.Evaluate(0.5, 0.5, 20, 5, 1, 0, 0, nil)
	high := m.Evaluate(0.5, 0.5, 20, 5, 1, MaxEXP, 0, nil)
	if high.Theta <= low.Theta {
		t.Errorf("top-rank theta %v not above novice theta %v", high.Theta, low.Theta)
	}

	none := m.Evaluate(0.5, 0.5, 20, 5, 1, 5000, 0, nil)
	achieved := m.Evaluate(0.5, 0.5, 20, 5, 1, 5000, 10, nil)
	if achieved.Theta <= none.Theta {
		t.Errorf("achievement theta %v not above base %v", achieved.Theta, none.Theta)
	}
}

func TestAdjustStabilityGate(t *testing.T) {
	a := NewAdjuster()

	// Performance already on target: the gate zeroes the adjustment and
	// momentum has nothing to contribute yet.
	out := a.Adjust(0.5, Snapshot{Probability: TargetPerformance, Theta: 0.0}, 10, 3)
	if out.BetaNew != 0.5 {
		t.Errorf("on-target adjust moved beta to %v", out.BetaNew)
	}
}

func TestAdjustDirection(t *testing.T) {
	// Beta moves with the sign of the performance gap: measured success
	// above target pulls beta down, below target pushes it up.
	above := NewAdjuster().Adjust(0.4, Snapshot{Probability: 0.95, Theta: 1.0}, 20, 2)
	if above.BetaNew >= 0.4 {
		t.Errorf("success above target: beta %v -> %v, want lower",
			above.BetaOld, above.BetaNew)
	}

	below := NewAdjuster().Adjust(0.8, Snapshot{Probability: 0.2, Theta: -1.0}, 2, 20)
	if below.BetaNew <= 0.8 {
		t.Errorf("success below target: beta %v -> %v, want higher",
			below.BetaOld, below.BetaNew)
	}
}

func TestAdjustStepCap(t *testing.T) {
	a := NewAdjuster()

	// Repeated large gaps must never move beta more than the cap in one
	// step, and beta stays inside its bounds throughout.
	beta := 0.1
	for i := 0; i < 20; i++ {
		out := a.Adjust(beta, Snapshot{Probability: 0.05, Theta: -2.0}, 1, 30)
		if math.Abs(out.BetaNew-beta) > maxBetaStep+1e-9 {
			t.Fatalf("step %d exceeded cap: %v -> %v", i, beta, out.BetaNew)
		}
		if out.BetaNew < BetaMin || out.BetaNew > BetaMax {
			t.Fatalf("step %d left bounds: %v", i, out.BetaNew)
		}
		beta = out.BetaNew
	}
}

func TestAdjustPreservesPerfectPerformance(t *testing.T) {
	a := NewAdjuster()
	a.momentum = -2.0 // force a strong downward pull

	out := a.Adjust(0.6, Snapshot{Probability: 1.0, Theta: 3.0}, 60, 0)
	if out.BetaNew < 0.6 {
		t.Errorf("perfect performance at beta 0.6 dropped to %v", out.BetaNew)
	}
}

func TestAdjusterRestore(t *testing.T) {
	a := NewAdjuster()
	a.Restore(0.45, 0.02)
	if a.Momentum() != 0.02 {
		t.Errorf("momentum = %v after restore", a.Momentum())
	}

	// A restored previous beta close to the current one slows the next
	// adjustment, same as if the adjuster had never left memory.
	snap := Snapshot{Probability: 0.2, Theta: 0.0}
	slowed := a.Adjust(0.46, snap, 5, 15)
	fresh := NewAdjuster().Adjust(0.46, snap, 5, 15)
	if math.Abs(slowed.Applied) >= math.Abs(fresh.Applied) {
		t.Errorf("restored adjuster not slowed: %v vs %v", slowed.Applied, fresh.Applied)
	}
}
