package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cosmossdk.io/math"
	"github.com/tessellated-io/feeband-go/log"
)

const (
	DefaultEndpoint = "https://lcd-osmosis.keplr.app"
	DefaultPath     = "/osmosis/txfees/v1beta1/cur_eip_base_fee"
)

type baseFeeResponse struct {
	BaseFee string `json:"base_fee"`
}

// BaseFeeClient reads the current EIP-1559 base fee from a chain's txfees module.
type BaseFeeClient struct {
	url string

	httpClient *http.Client
	logger     *log.Logger
}

func NewBaseFeeClient(endpoint, path string, httpClient *http.Client, logger *log.Logger) *BaseFeeClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if path == "" {
		path = DefaultPath
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &BaseFeeClient{
		url: fmt.Sprintf("%s/%s", strings.TrimSuffix(endpoint, "/"), strings.TrimPrefix(path, "/")),

		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *BaseFeeClient) FetchBaseFee(ctx context.Context) (math.LegacyDec, error) {
	bytes, err := c.makeRequest(ctx)
	if err != nil {
		return math.LegacyDec{}, err
	}

	var response baseFeeResponse
	err = json.Unmarshal(bytes, &response)
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("unable to parse base fee response: %w", err)
	}
	if response.BaseFee == "" {
		return math.LegacyDec{}, fmt.Errorf("base fee response has no base_fee")
	}

	baseFee, err := math.LegacyNewDecFromStr(response.BaseFee)
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("unable to parse base fee %q: %w", response.BaseFee, err)
	}
	if baseFee.IsNegative() {
		return math.LegacyDec{}, fmt.Errorf("base fee %s is negative", baseFee)
	}

	c.logger.Debug().Str("base_fee", baseFee.String()).Msg("fetched base fee")
	return baseFee, nil
}

func (c *BaseFeeClient) makeRequest(ctx context.Context) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return data, nil
	} else {
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
}
