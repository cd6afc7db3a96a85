package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/tessellated-io/feeband-go/feeband"
)

const (
	feeCurrenciesKey    = "feeCurrencies"
	coinMinimalDenomKey = "coinMinimalDenom"
	gasPriceStepKey     = "gasPriceStep"
)

var (
	ErrFeeCurrencyNotFound  = errors.New("fee currency not found")
	ErrGasPriceStepNotFound = errors.New("fee currency has no gas price step")
)

// Document is a chain info file. Key order and fields this service does not know about survive a round trip.
type Document struct {
	root *orderedmap.OrderedMap
}

// ParseDocument decodes a JSON object into a Document.
func ParseDocument(data []byte) (*Document, error) {
	root := orderedmap.New()
	// Nested objects inherit the setting while decoding.
	root.SetEscapeHTML(false)

	err := json.Unmarshal(data, root)
	if err != nil {
		return nil, fmt.Errorf("unable to parse chain info: %w", err)
	}

	return &Document{root: root}, nil
}

// Encode renders the document with two space indentation and a trailing newline.
func (d *Document) Encode() ([]byte, error) {
	compact, err := d.root.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("unable to encode chain info: %w", err)
	}

	var out bytes.Buffer
	err = json.Indent(&out, compact, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to indent chain info: %w", err)
	}
	out.WriteByte('\n')

	return out.Bytes(), nil
}

// ChainInfo decodes the typed view of the document.
func (d *Document) ChainInfo() (*ChainInfo, error) {
	compact, err := d.root.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var chainInfo ChainInfo
	err = json.Unmarshal(compact, &chainInfo)
	if err != nil {
		return nil, fmt.Errorf("unable to decode chain info: %w", err)
	}
	return &chainInfo, nil
}

// FeeCurrency returns the fee currency whose coinMinimalDenom matches denom.
func (d *Document) FeeCurrency(denom string) (*FeeCurrency, error) {
	_, entry, err := d.findFeeCurrency(denom)
	if err != nil {
		return nil, err
	}

	raw, err := entry.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var feeCurrency FeeCurrency
	err = json.Unmarshal(raw, &feeCurrency)
	if err != nil {
		return nil, fmt.Errorf("unable to decode fee currency %s: %w", denom, err)
	}
	return &feeCurrency, nil
}

// GasPriceStep returns the gas price step of the fee currency matching denom.
func (d *Document) GasPriceStep(denom string) (feeband.GasPriceStep, error) {
	feeCurrency, err := d.FeeCurrency(denom)
	if err != nil {
		return feeband.GasPriceStep{}, err
	}
	if feeCurrency.GasPriceStep == nil {
		return feeband.GasPriceStep{}, fmt.Errorf("%w: %s", ErrGasPriceStepNotFound, denom)
	}
	return *feeCurrency.GasPriceStep, nil
}

// WithGasPriceStep returns a copy of the document where only the gas price step of the fee currency matching denom
// is replaced. Existing keys keep their position.
func (d *Document) WithGasPriceStep(denom string, step feeband.GasPriceStep) (*Document, error) {
	copied, err := d.Clone()
	if err != nil {
		return nil, err
	}

	index, entry, err := copied.findFeeCurrency(denom)
	if err != nil {
		return nil, err
	}

	gasPriceStep := orderedmap.New()
	gasPriceStep.SetEscapeHTML(false)
	if existing, ok := entry.Get(gasPriceStepKey); ok {
		if existingMap, ok := asOrderedMap(existing); ok {
			gasPriceStep = existingMap
		}
	}
	gasPriceStep.Set("low", step.Low)
	gasPriceStep.Set("average", step.Average)
	gasPriceStep.Set("high", step.High)
	entry.Set(gasPriceStepKey, *gasPriceStep)

	feeCurrencies, _ := copied.feeCurrencies()
	feeCurrencies[index] = *entry
	copied.root.Set(feeCurrenciesKey, feeCurrencies)

	return copied, nil
}

// Clone deep copies the document.
func (d *Document) Clone() (*Document, error) {
	raw, err := d.root.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return ParseDocument(raw)
}

func (d *Document) feeCurrencies() ([]interface{}, error) {
	value, ok := d.root.Get(feeCurrenciesKey)
	if !ok {
		return nil, fmt.Errorf("chain info has no %s", feeCurrenciesKey)
	}
	feeCurrencies, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("chain info %s is not a list", feeCurrenciesKey)
	}
	return feeCurrencies, nil
}

func (d *Document) findFeeCurrency(denom string) (int, *orderedmap.OrderedMap, error) {
	feeCurrencies, err := d.feeCurrencies()
	if err != nil {
		return 0, nil, err
	}

	for index, value := range feeCurrencies {
		entry, ok := asOrderedMap(value)
		if !ok {
			continue
		}
		minimalDenom, ok := entry.Get(coinMinimalDenomKey)
		if !ok {
			continue
		}
		if minimalDenom == denom {
			return index, entry, nil
		}
	}

	return 0, nil, fmt.Errorf("%w: %s", ErrFeeCurrencyNotFound, denom)
}

func asOrderedMap(value interface{}) (*orderedmap.OrderedMap, bool) {
	switch typed := value.(type) {
	case orderedmap.OrderedMap:
		return &typed, true
	case *orderedmap.OrderedMap:
		return typed, true
	default:
		return nil, false
	}
}
