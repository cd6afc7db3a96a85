package health

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tessellated-io/feeband-go/log"
)

const DefaultBaseURL = "https://hc-ping.com"

type PingType string

const (
	Start   PingType = "start"
	Fail    PingType = "fail"
	Success PingType = "success"
)

// HealthCheckClient talks to HealthChecks.io
type HealthCheckClient struct {
	network string
	baseURL string
	uuid    string

	httpClient *http.Client
	log        *log.Logger
}

func NewHealthCheckClient(network, baseURL, uuid string, httpClient *http.Client, log *log.Logger) *HealthCheckClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HealthCheckClient{
		network: network,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		uuid:    uuid,

		httpClient: httpClient,
		log:        log,
	}
}

func (hm *HealthCheckClient) Start(ctx context.Context, message string) error {
	hm.log.Debug().Str("network", hm.network).Msg("🩺 Starting health")
	return hm.ping(ctx, Start, message)
}

func (hm *HealthCheckClient) Success(ctx context.Context, message string) error {
	hm.log.Debug().Str("network", hm.network).Msg("❤️  Health success")
	return hm.ping(ctx, Success, message)
}

func (hm *HealthCheckClient) Failed(ctx context.Context, message string) error {
	hm.log.Debug().Str("network", hm.network).Msg("❤️‍🩹  Health failed")
	return hm.ping(ctx, Fail, message)
}

func (hm *HealthCheckClient) ping(ctx context.Context, ptype PingType, message string) error {
	url := fmt.Sprintf("%s/%s", hm.baseURL, hm.uuid)
	if ptype == Fail || ptype == Start {
		url = fmt.Sprintf("%s/%s/%s", hm.baseURL, hm.uuid, ptype)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "text/plain")

	resp, err := hm.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to post health ping: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		hm.log.Error().Str("network", hm.network).Str("ping type", string(ptype)).Int("response code", resp.StatusCode).Msg("‍ Health failed")
		return fmt.Errorf("health ping %s received non-OK HTTP status: %d", ptype, resp.StatusCode)
	}
	return nil
}
