package difficulty

import "math"

// Attempt counts are normalized against a rolling window of 100; beyond
// that extra attempts stop moving the rate.
const maxAttempts = 100

type tier struct {
	min, max int
	level    string
	value    float64
	bias     float64
}

var successTiers = []tier{
	{3, 5, "Newbie", 0.25, 0.02},
	{6, 50, "Intermediate", 0.60, 0.05},
	{51, 100, "Pro", 0.90, 0.10},
}

var defaultSuccessTier = tier{level: "Beginner", value: 0.10, bias: 0.00}

var failTiers = []tier{
	{3, 5, "Low Failure", 0.30, 0.02},
	{6, 50, "Moderate Failure", 0.60, 0.05},
	{51, 100, "High Failure", 0.90, 0.10},
}

var defaultFailTier = tier{level: "Minimal Failure", value: 0.10, bias: 0.00}

func classify(count int, tiers []tier, fallback tier) (tier, float64) {
	if count < 0 {
		count = 0
	}
	normalized := math.Min(float64(count)/maxAttempts, 1.0)
	equiv := int(normalized * maxAttempts)
	for _, t := range tiers {
		if equiv >= t.min && equiv <= t.max {
			return t, normalized
		}
	}
	return fallback, normalized
}

// SuccessRate maps a raw success count to a tier label, a normalized
// rate in [0,1] and a bias that grows with the square root of the rate.
func SuccessRate(successCount int) (level string, rate, bias float64) {
	t, normalized := classify(successCount, successTiers, defaultSuccessTier)
	return t.level, round4(normalized), round4(t.bias + math.Sqrt(normalized)*0.02)
}

// FailRate is the failure-side counterpart of SuccessRate. The third
// return value is a penalty rather than a bonus.
func FailRate(failCount int) (level string, rate, penalty float64) {
	t, normalized := classify(failCount, failTiers, defaultFailTier)
	return t.level, round4(normalized), round4(t.bias + math.Sqrt(normalized)*0.02)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
