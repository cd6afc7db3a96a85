package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/tessellated-io/feeband-go/credentials"
	"github.com/tessellated-io/feeband-go/log"
	"github.com/tessellated-io/feeband-go/metrics"
	"github.com/tessellated-io/feeband-go/sleep"
)

// HealthReporter receives a heartbeat for every run.
type HealthReporter interface {
	Start(ctx context.Context, message string) error
	Success(ctx context.Context, message string) error
	Failed(ctx context.Context, message string) error
}

// Scheduler runs the Reconciler on a fixed interval.
type Scheduler struct {
	name     string
	interval time.Duration

	reconciler  *Reconciler
	credentials credentials.Provider
	logger      *log.Logger

	// Optional
	metrics *metrics.Metrics
	health  HealthReporter
}

func NewScheduler(
	name string,
	interval time.Duration,
	reconciler *Reconciler,
	credentials credentials.Provider,
	logger *log.Logger,
	metrics *metrics.Metrics,
	health HealthReporter,
) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}
	if reconciler == nil || credentials == nil {
		return nil, fmt.Errorf("a reconciler and a credential provider are required")
	}

	return &Scheduler{
		name:     name,
		interval: interval,

		reconciler:  reconciler,
		credentials: credentials,
		logger:      logger,

		metrics: metrics,
		health:  health,
	}, nil
}

// Start loops until ctx is done, which returns nil. A missing credential stops the loop with
// credentials.ErrMissingCredential before any network call is made.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		_, err := s.RunOnce(ctx)
		if err != nil {
			return err
		}

		s.logger.Info().Str("sleep", s.interval.String()).Msg("finished run, sleeping until next round")
		if !sleep.Sleep(ctx, s.interval) {
			s.logger.Info().Msg("stopping")
			return nil
		}
	}
}

// RunOnce checks the credential, then runs a single reconciliation and reports it.
func (s *Scheduler) RunOnce(ctx context.Context) (*Result, error) {
	token, err := s.credentials.Token()
	if err != nil {
		s.logger.Error().Err(err).Msg(s.credentials.Guidance())
		return nil, err
	}

	if s.health != nil {
		s.pingHealth(s.health.Start(ctx, fmt.Sprintf("reconciling %s", s.name)))
	}

	result := s.reconciler.Reconcile(ctx, token)
	s.report(ctx, result)

	return result, nil
}

func (s *Scheduler) report(ctx context.Context, result *Result) {
	switch result.Outcome {
	case Updated:
		event := s.logger.Info().Str("base_fee", result.BaseFee.String()).Stringer("previous", result.Previous).Stringer("updated", result.Derived)
		if result.DryRun {
			event.Msg(fmt.Sprintf("✅ %s: gas price step would be updated (dry run)", s.name))
		} else {
			event.Msg(fmt.Sprintf("✅ %s: updated gas price step", s.name))
		}
	case NoOpNeeded:
		s.logger.Info().Str("base_fee", result.BaseFee.String()).Stringer("gas_price_step", result.Previous).Msg(fmt.Sprintf("✅ %s: no need to update", s.name))
	default:
		s.logger.Error().Err(result.Err).Msg(fmt.Sprintf("❌ %s: failure", s.name))
	}

	if s.metrics != nil {
		s.recordMetrics(result)
	}

	if s.health != nil {
		if result.Succeeded() {
			s.pingHealth(s.health.Success(ctx, string(result.Outcome)))
		} else {
			s.pingHealth(s.health.Failed(ctx, result.Err.Error()))
		}
	}
}

func (s *Scheduler) recordMetrics(result *Result) {
	s.metrics.Runs.WithLabelValues(string(result.Outcome)).Inc()
	s.metrics.RunDuration.Observe(result.Duration.Seconds())
	s.metrics.LastRun.SetToCurrentTime()

	if !result.BaseFee.IsNil() {
		if baseFee, err := result.BaseFee.Float64(); err == nil {
			s.metrics.BaseFee.Set(baseFee)
		}
	}

	if result.Outcome == Updated && !result.DryRun {
		s.metrics.Writes.Inc()
	}

	current := result.Previous
	if result.Outcome == Updated && !result.DryRun {
		current = result.Derived
	}
	if result.Succeeded() && current != nil {
		s.metrics.GasPriceStep.WithLabelValues("low").Set(current.Low)
		s.metrics.GasPriceStep.WithLabelValues("average").Set(current.Average)
		s.metrics.GasPriceStep.WithLabelValues("high").Set(current.High)
	}
}

// Health pings never affect the run.
func (s *Scheduler) pingHealth(err error) {
	if err != nil {
		s.logger.Warn().Err(err).Msg("unable to deliver health ping")
	}
}
