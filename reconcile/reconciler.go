package reconcile

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"
	"github.com/tessellated-io/feeband-go/feeband"
	"github.com/tessellated-io/feeband-go/github"
	"github.com/tessellated-io/feeband-go/log"
	"github.com/tessellated-io/feeband-go/registry"
)

// DocumentStore reads and conditionally writes a chain info file. Write must reject a stale sha.
type DocumentStore interface {
	Read(ctx context.Context, path string) (*registry.Document, github.Sha, error)
	Write(ctx context.Context, path string, document *registry.Document, sha github.Sha, message string) error
}

// DocumentStoreFactory binds a DocumentStore to the credential read for the current run.
type DocumentStoreFactory func(token string) (DocumentStore, error)

// BaseFeeOracle reports the live base fee.
type BaseFeeOracle interface {
	FetchBaseFee(ctx context.Context) (math.LegacyDec, error)
}

// Reconciler performs one read, derive, compare, write pass.
type Reconciler struct {
	documentPath  string
	denom         string
	commitMessage string
	dryRun        bool

	policy       *feeband.Policy
	storeFactory DocumentStoreFactory
	oracle       BaseFeeOracle
	logger       *log.Logger
}

func NewReconciler(
	documentPath string,
	denom string,
	commitMessage string,
	dryRun bool,

	policy *feeband.Policy,
	storeFactory DocumentStoreFactory,
	oracle BaseFeeOracle,
	logger *log.Logger,
) (*Reconciler, error) {
	if policy == nil {
		return nil, fmt.Errorf("no fee band policy provided")
	}
	if storeFactory == nil || oracle == nil {
		return nil, fmt.Errorf("a document store and a base fee oracle are required")
	}

	return &Reconciler{
		documentPath:  documentPath,
		denom:         denom,
		commitMessage: commitMessage,
		dryRun:        dryRun,

		policy:       policy,
		storeFactory: storeFactory,
		oracle:       oracle,
		logger:       logger,
	}, nil
}

// Reconcile runs once with token. Errors never escape: they are reported as a TransientFailure result.
func (r *Reconciler) Reconcile(ctx context.Context, token string) *Result {
	start := time.Now()
	result := &Result{DryRun: r.dryRun}

	err := r.reconcile(ctx, token, result)
	if err != nil {
		result.Outcome = TransientFailure
		result.Err = err
	}

	result.Duration = time.Since(start)
	return result
}

func (r *Reconciler) reconcile(ctx context.Context, token string, result *Result) error {
	store, err := r.storeFactory(token)
	if err != nil {
		return err
	}

	document, sha, err := store.Read(ctx, r.documentPath)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", r.documentPath, err)
	}

	previous, err := document.GasPriceStep(r.denom)
	if err != nil {
		return err
	}
	result.Previous = &previous

	baseFee, err := r.oracle.FetchBaseFee(ctx)
	if err != nil {
		return fmt.Errorf("unable to fetch base fee: %w", err)
	}
	result.BaseFee = baseFee

	derived, err := r.policy.Derive(previous, baseFee)
	if err != nil {
		return err
	}
	result.Derived = &derived

	r.logger.Debug().
		Str("policy", string(r.policy.Name())).
		Str("base_fee", baseFee.String()).
		Stringer("stored", previous).
		Stringer("derived", derived).
		Msg("derived gas price step")

	if !feeband.NeedsUpdate(previous, derived) {
		result.Outcome = NoOpNeeded
		return nil
	}

	updated, err := document.WithGasPriceStep(r.denom, derived)
	if err != nil {
		return err
	}

	if r.dryRun {
		r.logger.Info().Str("path", r.documentPath).Msg("dry run, not writing new gas price step")
		result.Outcome = Updated
		return nil
	}

	err = store.Write(ctx, r.documentPath, updated, sha, r.commitMessage)
	if err != nil {
		return fmt.Errorf("unable to write %s: %w", r.documentPath, err)
	}

	result.Outcome = Updated
	return nil
}
