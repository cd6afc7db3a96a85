package feeband

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
)

// PolicyName selects one of the historical derivation formulas.
type PolicyName string

const (
	// Threshold gates derivation on a minimum base fee and resets to a floor band below it.
	Threshold PolicyName = "threshold"

	// Unconditional always derives from the base fee with wider multipliers.
	Unconditional PolicyName = "unconditional"
)

// Policy derives a new band from the stored band and the live base fee.
type Policy struct {
	name PolicyName

	averageMultiplier math.LegacyDec
	highMultiplier    math.LegacyDec

	// When set, a base fee below threshold resets the band to floor.
	threshold *math.LegacyDec
	floor     GasPriceStep
}

// ThresholdPolicy is the formula the service runs by default.
func ThresholdPolicy() *Policy {
	threshold := math.LegacyMustNewDecFromStr("0.025")
	return &Policy{
		name:              Threshold,
		averageMultiplier: math.LegacyMustNewDecFromStr("1.2"),
		highMultiplier:    math.LegacyMustNewDecFromStr("1.5"),
		threshold:         &threshold,
		floor: GasPriceStep{
			Low:     0.0025,
			Average: 0.025,
			High:    0.04,
		},
	}
}

// UnconditionalPolicy is the alternate formula: average = baseFee * 1.1, high = baseFee * 2, no floor.
func UnconditionalPolicy() *Policy {
	return &Policy{
		name:              Unconditional,
		averageMultiplier: math.LegacyMustNewDecFromStr("1.1"),
		highMultiplier:    math.LegacyNewDec(2),
	}
}

// PolicyByName resolves a configured policy name. An empty name selects the threshold policy.
func PolicyByName(name string) (*Policy, error) {
	switch PolicyName(strings.ToLower(strings.TrimSpace(name))) {
	case "", Threshold:
		return ThresholdPolicy(), nil
	case Unconditional:
		return UnconditionalPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown fee band policy %q, expected %q or %q", name, Threshold, Unconditional)
	}
}

func (p *Policy) Name() PolicyName {
	return p.name
}

func (p *Policy) AverageMultiplier() math.LegacyDec {
	return p.averageMultiplier
}

func (p *Policy) HighMultiplier() math.LegacyDec {
	return p.highMultiplier
}

// Derive computes the candidate band. Low is kept, average is floored at low, then high is floored at the new average.
func (p *Policy) Derive(current GasPriceStep, baseFee math.LegacyDec) (GasPriceStep, error) {
	if baseFee.IsNil() || baseFee.IsNegative() {
		return GasPriceStep{}, fmt.Errorf("base fee must be a non-negative decimal")
	}

	if p.threshold != nil && baseFee.LT(*p.threshold) {
		return p.floor, nil
	}

	low, err := ToDec(current.Low)
	if err != nil {
		return GasPriceStep{}, err
	}

	average := math.LegacyMaxDec(low, baseFee.Mul(p.averageMultiplier))
	high := math.LegacyMaxDec(average, baseFee.Mul(p.highMultiplier))

	newAverage, err := FromDec(average)
	if err != nil {
		return GasPriceStep{}, err
	}
	newHigh, err := FromDec(high)
	if err != nil {
		return GasPriceStep{}, err
	}

	return GasPriceStep{
		Low:     current.Low,
		Average: newAverage,
		High:    newHigh,
	}, nil
}
