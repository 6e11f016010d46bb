package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"cipherhaven/internal/events"
	"cipherhaven/internal/models"
	"cipherhaven/internal/repositories"
)

// MetadataReconciler pushes the profile metadata captured at registration to the
// provider once the session for a flow is active.
type MetadataReconciler interface {
	Reconcile(ctx context.Context, flow *models.SignUpFlow) error
}

type ReconcilerConfig struct {
	GrantAdmin     bool
	MaxAttempts    uint
	InitialBackoff time.Duration
}

type metadataReconciler struct {
	identity IdentityProvider
	flows    repositories.FlowRepository
	accounts repositories.AccountRepository
	events   events.Publisher
	reporter ErrorReporter
	logger   *zap.Logger
	cfg      ReconcilerConfig
	now      func() time.Time
}

func NewMetadataReconciler(
	identity IdentityProvider,
	flows repositories.FlowRepository,
	accounts repositories.AccountRepository,
	publisher events.Publisher,
	reporter ErrorReporter,
	logger *zap.Logger,
	cfg ReconcilerConfig,
) MetadataReconciler {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &metadataReconciler{
		identity: identity,
		flows:    flows,
		accounts: accounts,
		events:   publisher,
		reporter: reporter,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Reconcile is a no-op unless the flow has an active session and an update pending.
// On exhaustion the flag stays set and ErrMetadataPending is returned.
func (r *metadataReconciler) Reconcile(ctx context.Context, flow *models.SignUpFlow) error {
	if flow == nil || !flow.SessionActive() || !flow.PendingMetadataUpdate {
		return nil
	}
	metadata := map[string]any{
		"phone":   flow.PhoneNumber,
		"isAdmin": r.cfg.GrantAdmin,
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialBackoff

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := r.identity.UpdateUserMetadata(ctx, flow.UserID, metadata)
		if err == nil {
			return struct{}{}, nil
		}
		var perr *models.ProviderErrors
		if errors.As(err, &perr) && perr.Permanent() {
			return struct{}{}, backoff.Permanent(err)
		}
		r.logger.Warn("[signup][metadata] update failed, will retry",
			zap.String("flow_id", flow.ID), zap.Int("attempt", attempts), zap.Error(err))
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(r.cfg.MaxAttempts))

	if err != nil {
		r.fail(ctx, flow, attempts, err)
		return fmt.Errorf("%w: %v", ErrMetadataPending, err)
	}

	flow.PendingMetadataUpdate = false
	flow.UpdatedAt = r.now()
	if err := r.flows.Save(ctx, flow); err != nil {
		return fmt.Errorf("save flow after metadata update: %w", err)
	}
	if flow.AccountID != 0 {
		if err := r.accounts.MarkMetadataSynced(ctx, flow.AccountID); err != nil {
			r.logger.Error("[signup][metadata] mark synced failed",
				zap.Int64("account_id", flow.AccountID), zap.Error(err))
		}
	}
	r.logger.Info("[signup][metadata] profile metadata updated",
		zap.String("flow_id", flow.ID), zap.Int("attempts", attempts))
	return nil
}

func (r *metadataReconciler) fail(ctx context.Context, flow *models.SignUpFlow, attempts int, err error) {
	r.logger.Error("[signup][metadata] giving up",
		zap.String("flow_id", flow.ID), zap.String("user_id", flow.UserID),
		zap.Int("attempts", attempts), zap.Error(err))
	if r.reporter != nil {
		r.reporter.CaptureException(err, map[string]string{"component": "signup", "step": "metadata"})
	}
	evt := events.Event{
		Type:           events.TypeSignUpMetadataFailed,
		FlowID:         flow.ID,
		AccountID:      flow.AccountID,
		ProviderUserID: flow.UserID,
		Reason:         err.Error(),
	}
	if perr := r.events.Publish(ctx, evt); perr != nil {
		r.logger.Warn("[signup][metadata] publish failed", zap.Error(perr))
	}
}
