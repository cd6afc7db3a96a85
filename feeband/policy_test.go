package feeband_test

import (
	"fmt"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/feeband-go/feeband"
	"pgregory.net/rapid"
)

func dec(t require.TestingT, s string) math.LegacyDec {
	d, err := math.LegacyNewDecFromStr(s)
	require.NoError(t, err)
	return d
}

// Variant under test: threshold policy (threshold 0.025, x1.2 / x1.5, floor {0.0025, 0.025, 0.04}).
func TestThresholdPolicyScenarios(t *testing.T) {
	policy := feeband.ThresholdPolicy()
	require.Equal(t, feeband.Threshold, policy.Name())

	testCases := []struct {
		name     string
		stored   feeband.GasPriceStep
		baseFee  string
		expected feeband.GasPriceStep
		update   bool
	}{
		{
			name:     "raises band above threshold",
			stored:   feeband.GasPriceStep{Low: 0.0025, Average: 0.025, High: 0.04},
			baseFee:  "0.03",
			expected: feeband.GasPriceStep{Low: 0.0025, Average: 0.036, High: 0.045},
			update:   true,
		},
		{
			name:     "resets to floor below threshold",
			stored:   feeband.GasPriceStep{Low: 0.0025, Average: 0.03, High: 0.05},
			baseFee:  "0.01",
			expected: feeband.GasPriceStep{Low: 0.0025, Average: 0.025, High: 0.04},
			update:   true,
		},
		{
			name:     "no change when already derived",
			stored:   feeband.GasPriceStep{Low: 0.0025, Average: 0.036, High: 0.045},
			baseFee:  "0.03",
			expected: feeband.GasPriceStep{Low: 0.0025, Average: 0.036, High: 0.045},
			update:   false,
		},
		{
			name:     "threshold is inclusive",
			stored:   feeband.GasPriceStep{Low: 0.0025, Average: 0.025, High: 0.04},
			baseFee:  "0.025",
			expected: feeband.GasPriceStep{Low: 0.0025, Average: 0.03, High: 0.0375},
			update:   true,
		},
		{
			name:     "average floored at low and high floored at raised average",
			stored:   feeband.GasPriceStep{Low: 0.05, Average: 0.05, High: 0.05},
			baseFee:  "0.03",
			expected: feeband.GasPriceStep{Low: 0.05, Average: 0.05, High: 0.05},
			update:   false,
		},
		{
			name:     "high floored at average when low dominates",
			stored:   feeband.GasPriceStep{Low: 0.04, Average: 0.04, High: 0.1},
			baseFee:  "0.025",
			expected: feeband.GasPriceStep{Low: 0.04, Average: 0.04, High: 0.04},
			update:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			derived, err := policy.Derive(tc.stored, dec(t, tc.baseFee))
			require.NoError(t, err)
			require.Equal(t, tc.expected, derived)
			require.Equal(t, tc.update, feeband.NeedsUpdate(tc.stored, derived))
		})
	}
}

// Variant under test: unconditional policy (x1.1 / x2, no floor).
func TestUnconditionalPolicyScenarios(t *testing.T) {
	policy := feeband.UnconditionalPolicy()
	require.Equal(t, feeband.Unconditional, policy.Name())

	derived, err := policy.Derive(feeband.GasPriceStep{Low: 0.0025, Average: 0.025, High: 0.04}, dec(t, "0.01"))
	require.NoError(t, err)
	require.Equal(t, feeband.GasPriceStep{Low: 0.0025, Average: 0.011, High: 0.02}, derived)

	derived, err = policy.Derive(feeband.GasPriceStep{Low: 0.02, Average: 0.025, High: 0.04}, dec(t, "0.01"))
	require.NoError(t, err)
	require.Equal(t, feeband.GasPriceStep{Low: 0.02, Average: 0.02, High: 0.02}, derived)
}

func TestVariantsDiverge(t *testing.T) {
	stored := feeband.GasPriceStep{Low: 0.0025, Average: 0.025, High: 0.04}
	baseFee := dec(t, "0.03")

	threshold, err := feeband.ThresholdPolicy().Derive(stored, baseFee)
	require.NoError(t, err)
	unconditional, err := feeband.UnconditionalPolicy().Derive(stored, baseFee)
	require.NoError(t, err)

	require.NotEqual(t, threshold, unconditional)
}

func TestDeriveRejectsNegativeBaseFee(t *testing.T) {
	_, err := feeband.ThresholdPolicy().Derive(feeband.GasPriceStep{}, dec(t, "-0.1"))
	require.Error(t, err)

	_, err = feeband.UnconditionalPolicy().Derive(feeband.GasPriceStep{}, math.LegacyDec{})
	require.Error(t, err)
}

func TestPolicyByName(t *testing.T) {
	for _, name := range []string{"", "threshold", " Threshold "} {
		policy, err := feeband.PolicyByName(name)
		require.NoError(t, err)
		require.Equal(t, feeband.Threshold, policy.Name())
	}

	policy, err := feeband.PolicyByName("unconditional")
	require.NoError(t, err)
	require.Equal(t, feeband.Unconditional, policy.Name())

	_, err = feeband.PolicyByName("geometric")
	require.Error(t, err)
}

func TestNeedsUpdateIgnoresLow(t *testing.T) {
	previous := feeband.GasPriceStep{Low: 0.001, Average: 0.036, High: 0.045}
	next := feeband.GasPriceStep{Low: 0.0025, Average: 0.036, High: 0.045}
	require.False(t, feeband.NeedsUpdate(previous, next))

	next.High = 0.046
	require.True(t, feeband.NeedsUpdate(previous, next))
}

// drawDec draws a non-negative decimal with at most six fractional digits.
func drawDec(t *rapid.T, label string) math.LegacyDec {
	units := rapid.Int64Range(0, 10_000_000).Draw(t, label)
	return math.LegacyNewDecWithPrec(units, 6)
}

func drawStep(t *rapid.T) feeband.GasPriceStep {
	low, err := feeband.FromDec(drawDec(t, "low"))
	if err != nil {
		t.Fatal(err)
	}
	average, err := feeband.FromDec(drawDec(t, "average"))
	if err != nil {
		t.Fatal(err)
	}
	high, err := feeband.FromDec(drawDec(t, "high"))
	if err != nil {
		t.Fatal(err)
	}
	return feeband.GasPriceStep{Low: low, Average: average, High: high}
}

func TestDerivationProperties(t *testing.T) {
	for _, policy := range []*feeband.Policy{feeband.ThresholdPolicy(), feeband.UnconditionalPolicy()} {
		policy := policy
		t.Run(fmt.Sprintf("variant=%s", policy.Name()), func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				stored := drawStep(t)
				baseFee := drawDec(t, "baseFee")

				derived, err := policy.Derive(stored, baseFee)
				if err != nil {
					t.Fatal(err)
				}

				// High never drops below average.
				if derived.High < derived.Average {
					t.Fatalf("high %v below average %v", derived.High, derived.Average)
				}

				// Deriving again from the output is a fixed point.
				again, err := policy.Derive(derived, baseFee)
				if err != nil {
					t.Fatal(err)
				}
				if again != derived {
					t.Fatalf("derivation is not idempotent: %s then %s", derived, again)
				}
				if feeband.NeedsUpdate(derived, again) {
					t.Fatalf("fixed point reported as needing an update")
				}

				if policy.Name() == feeband.Threshold && baseFee.LT(math.LegacyMustNewDecFromStr("0.025")) {
					return
				}

				// Average is exactly baseFee * multiplier unless low dominates.
				low, err := feeband.ToDec(stored.Low)
				if err != nil {
					t.Fatal(err)
				}
				scaled := baseFee.Mul(policy.AverageMultiplier())
				expected := stored.Low
				if scaled.GTE(low) {
					expected, err = feeband.FromDec(scaled)
					if err != nil {
						t.Fatal(err)
					}
				}
				if derived.Average != expected {
					t.Fatalf("expected average %v, got %v", expected, derived.Average)
				}
				if derived.Low != stored.Low {
					t.Fatalf("low changed from %v to %v", stored.Low, derived.Low)
				}
			})
		})
	}
}
