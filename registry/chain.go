package registry

import (
	"github.com/tessellated-io/feeband-go/feeband"
)

// Currency mirrors the currency objects of a Keplr chain info file.
type Currency struct {
	CoinDenom        string `json:"coinDenom"`
	CoinMinimalDenom string `json:"coinMinimalDenom"`
	CoinDecimals     int    `json:"coinDecimals"`
	CoinGeckoID      string `json:"coinGeckoId,omitempty"`
	CoinImageURL     string `json:"coinImageUrl,omitempty"`
}

// FeeCurrency is a typed, read-only view of one element of feeCurrencies.
type FeeCurrency struct {
	Currency

	GasPriceStep *feeband.GasPriceStep `json:"gasPriceStep,omitempty"`
}

// ChainInfo is a typed, read-only view of the fields this service looks at.
type ChainInfo struct {
	ChainID       string        `json:"chainId"`
	ChainName     string        `json:"chainName"`
	RPC           string        `json:"rpc"`
	REST          string        `json:"rest"`
	StakeCurrency *Currency     `json:"stakeCurrency,omitempty"`
	Currencies    []Currency    `json:"currencies"`
	FeeCurrencies []FeeCurrency `json:"feeCurrencies"`
	Features      []string      `json:"features,omitempty"`
}
