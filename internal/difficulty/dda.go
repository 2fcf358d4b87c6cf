package difficulty

import "math"

const (
	// TargetPerformance is the success probability the adjuster steers
	// each learner toward.
	TargetPerformance = 0.7

	adjustmentRate     = 0.1
	stabilityThreshold = 0.05
	momentumFactor     = 0.6
	// maxBetaStep caps the per-adjustment beta change to avoid
	// oscillating a learner between difficulty bands.
	maxBetaStep = 0.15
)

// Adjuster tunes beta toward the target success probability. It keeps
// momentum across calls, so use one adjuster per learner and feed it
// adjustments in order. Not safe for concurrent use.
type Adjuster struct {
	prevBeta    float64
	hasPrevBeta bool
	momentum    float64
}

func NewAdjuster() *Adjuster {
	return &Adjuster{}
}

// Restore primes the adjuster with persisted state so that momentum
// survives across processes.
func (a *Adjuster) Restore(prevBeta, momentum float64) {
	a.prevBeta = ClampBeta(prevBeta)
	a.hasPrevBeta = true
	a.momentum = momentum
}

// Momentum exposes the internal EMA for persistence.
func (a *Adjuster) Momentum() float64 {
	return a.momentum
}

// Adjustment reports what a single Adjust call decided.
type Adjustment struct {
	BetaOld        float64
	BetaNew        float64
	Label          string
	Applied        float64
	BehaviorWeight float64
	Momentum       float64
}

// Adjust produces the next beta from the current one, the learner's
// IRT snapshot and the raw success/fail counts.
func (a *Adjuster) Adjust(betaOld float64, snap Snapshot, successCount, failCount int) Adjustment {
	betaOld = ClampBeta(betaOld)
	if successCount < 0 {
		successCount = 0
	}
	if failCount < 0 {
		failCount = 0
	}

	_, successRate, successBias := SuccessRate(successCount)
	_, _, failPenalty := FailRate(failCount)
	consistency := round3(math.Min(1.0, successRate+successBias))

	gap := TargetPerformance - snap.Probability
	sensitivity := 1 - ClampTheta(snap.Theta)/6.0
	adj := adjustmentRate * gap * sensitivity

	behaviorWeight := 0.6*successRate + 0.4*consistency - 0.5*failPenalty
	adj *= 1 + behaviorWeight*0.3

	if math.Abs(gap) < stabilityThreshold {
		adj = 0.0
	}

	a.momentum = momentumFactor*a.momentum + (1-momentumFactor)*adj
	adj += a.momentum * 0.5

	if a.hasPrevBeta && math.Abs(betaOld-a.prevBeta) < stabilityThreshold {
		adj *= 0.4
	}

	proposed := ClampBeta(betaOld + math.Tanh(adj)*0.8)
	betaNew := capStep(betaOld, proposed)

	// A learner solving everything at a meaningful difficulty keeps it;
	// lowering beta there would only remove challenge.
	if snap.Probability >= 0.99 && betaNew < betaOld && betaOld >= 0.5 {
		betaNew = betaOld
	}

	a.prevBeta = betaNew
	a.hasPrevBeta = true

	return Adjustment{
		BetaOld:        betaOld,
		BetaNew:        round3(betaNew),
		Label:          LabelFromBeta(betaNew),
		Applied:        round3(betaNew - betaOld),
		BehaviorWeight: round3(behaviorWeight),
		Momentum:       round3(a.momentum),
	}
}

func capStep(betaOld, proposed float64) float64 {
	if math.Abs(proposed-betaOld) > maxBetaStep {
		direction := 1.0
		if proposed < betaOld {
			direction = -1.0
		}
		return ClampBeta(betaOld + direction*maxBetaStep)
	}
	return ClampBeta(proposed)
}
