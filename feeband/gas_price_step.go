package feeband

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
)

// GasPriceStep is the {low, average, high} gas price guidance attached to a fee currency.
type GasPriceStep struct {
	Low     float64 `json:"low"`
	Average float64 `json:"average"`
	High    float64 `json:"high"`
}

func (g GasPriceStep) String() string {
	return fmt.Sprintf("{low: %s, average: %s, high: %s}", formatFloat(g.Low), formatFloat(g.Average), formatFloat(g.High))
}

// NeedsUpdate reports whether next differs from previous. Low is never changed by derivation, so it is not compared.
func NeedsUpdate(previous, next GasPriceStep) bool {
	return previous.Average != next.Average || previous.High != next.High
}

// ToDec converts a stored JSON number into a decimal without going through binary arithmetic.
func ToDec(value float64) (math.LegacyDec, error) {
	dec, err := math.LegacyNewDecFromStr(formatFloat(value))
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("unable to convert %v to a decimal: %w", value, err)
	}
	return dec, nil
}

// FromDec converts a decimal into the shortest float64 that round trips.
func FromDec(value math.LegacyDec) (float64, error) {
	converted, err := strconv.ParseFloat(value.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("unable to convert %s to a number: %w", value.String(), err)
	}
	return converted, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
