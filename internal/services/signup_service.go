package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cipherhaven/internal/authz"
	"cipherhaven/internal/events"
	"cipherhaven/internal/models"
	"cipherhaven/internal/repositories"
	"cipherhaven/internal/utils"
)

// IdentityProvider is the remote identity service that owns credentials and sessions.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, params models.CreateAccountParams) (*models.SignUpAttempt, error)
	PrepareEmailVerification(ctx context.Context, signUpID string) error
	AttemptEmailVerification(ctx context.Context, signUpID, code string) (*models.SignUpAttempt, error)
	ActivateSession(ctx context.Context, sessionID string) (*models.Session, error)
	UpdateUserMetadata(ctx context.Context, userID string, metadata map[string]any) error
}

type ErrorReporter interface {
	CaptureException(err error, tags map[string]string)
}

type SessionIssuer interface {
	Issue(acc *models.Account, sessionID string) (string, error)
}

type WelcomeMailer interface {
	SendWelcomeEmail(email, name string) error
}

type SignUpService interface {
	// StartFlow mounts a new flow in Collecting and returns it with its one-time token.
	StartFlow(ctx context.Context) (*models.SignUpFlow, string, error)
	GetFlow(ctx context.Context, flowID, token string) (*models.SignUpFlow, error)
	Register(ctx context.Context, flowID, token string, draft models.RegistrationDraft) (*models.SignUpFlow, error)
	Verify(ctx context.Context, flowID, token string, attempt models.VerificationAttempt) (*models.VerifyResult, error)
	RetryMetadata(ctx context.Context, flowID, token string) (*models.SignUpFlow, error)
}

type SignUpDeps struct {
	Flows      repositories.FlowRepository
	Accounts   repositories.AccountRepository
	Identity   IdentityProvider
	Sessions   SessionIssuer
	Reconciler MetadataReconciler
	Mailer     WelcomeMailer
	Events     events.Publisher
	Reporter   ErrorReporter
	Logger     *zap.Logger

	GrantAdmin bool
	LockTTL    time.Duration
	// TokenCost is the bcrypt cost for flow tokens; bcrypt.DefaultCost when zero.
	TokenCost int
}

type signUpService struct {
	flows      repositories.FlowRepository
	accounts   repositories.AccountRepository
	identity   IdentityProvider
	sessions   SessionIssuer
	reconciler MetadataReconciler
	mailer     WelcomeMailer
	events     events.Publisher
	reporter   ErrorReporter
	logger     *zap.Logger
	grantAdmin bool
	lockTTL    time.Duration
	tokenCost  int
	now        func() time.Time
}

func NewSignUpService(d SignUpDeps) SignUpService {
	s := &signUpService{
		flows:      d.Flows,
		accounts:   d.Accounts,
		identity:   d.Identity,
		sessions:   d.Sessions,
		reconciler: d.Reconciler,
		mailer:     d.Mailer,
		events:     d.Events,
		reporter:   d.Reporter,
		logger:     d.Logger,
		grantAdmin: d.GrantAdmin,
		lockTTL:    d.LockTTL,
		tokenCost:  d.TokenCost,
		now:        time.Now,
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.lockTTL <= 0 {
		s.lockTTL = 30 * time.Second
	}
	if s.tokenCost == 0 {
		s.tokenCost = bcrypt.DefaultCost
	}
	return s
}

func (s *signUpService) StartFlow(ctx context.Context) (*models.SignUpFlow, string, error) {
	token, err := utils.NewOpaqueToken(32)
	if err != nil {
		return nil, "", fmt.Errorf("generate flow token: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), s.tokenCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash flow token: %w", err)
	}
	now := s.now()
	flow := &models.SignUpFlow{
		ID:        uuid.NewString(),
		State:     models.FlowCollecting,
		TokenHash: string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.flows.Save(ctx, flow); err != nil {
		return nil, "", fmt.Errorf("save flow: %w", err)
	}
	s.logger.Info("[signup][start] flow created", zap.String("flow_id", flow.ID))
	return flow, token, nil
}

func (s *signUpService) GetFlow(ctx context.Context, flowID, token string) (*models.SignUpFlow, error) {
	return s.authorize(ctx, flowID, token)
}

func (s *signUpService) Register(ctx context.Context, flowID, token string, draft models.RegistrationDraft) (*models.SignUpFlow, error) {
	if verr := ValidateDraft(draft); verr != nil {
		return nil, verr
	}

	release, err := s.lock(ctx, flowID)
	if err != nil {
		return nil, err
	}
	defer release()

	flow, err := s.authorize(ctx, flowID, token)
	if err != nil {
		return nil, err
	}
	if flow.State != models.FlowCollecting {
		return nil, ErrAlreadyRegistered
	}

	// A previous submit may have created the account but failed to prepare
	// verification. Resume only when the same details are resubmitted.
	first, last := SplitName(draft.FullName)
	if flow.SignUpID != "" && !sameDraft(flow, draft, first, last) {
		s.logger.Info("[signup][register] draft changed, creating a new sign-up",
			zap.String("flow_id", flow.ID), zap.String("previous_sign_up_id", flow.SignUpID))
		flow.SignUpID = ""
	}
	if flow.SignUpID == "" {
		attempt, err := s.identity.CreateAccount(ctx, models.CreateAccountParams{
			Username:     draft.Username,
			EmailAddress: draft.Email,
			Password:     draft.Password,
			UnsafeMetadata: map[string]any{
				"firstName":   first,
				"lastName":    last,
				"phoneNumber": draft.PhoneNumber,
			},
		})
		if err != nil {
			return nil, s.providerFailure("register", flow, err, ErrProviderUnavailable)
		}
		flow.SignUpID = attempt.ID
		flow.Username = draft.Username
		flow.Email = draft.Email
		flow.FirstName = first
		flow.LastName = last
		flow.PhoneNumber = draft.PhoneNumber
		flow.UpdatedAt = s.now()
		if err := s.flows.Save(ctx, flow); err != nil {
			return nil, fmt.Errorf("save flow: %w", err)
		}
	}

	if err := s.identity.PrepareEmailVerification(ctx, flow.SignUpID); err != nil {
		return nil, s.providerFailure("register", flow, err, ErrProviderUnavailable)
	}

	flow.State = models.FlowVerifying
	flow.UpdatedAt = s.now()
	if err := s.flows.Save(ctx, flow); err != nil {
		return nil, fmt.Errorf("save flow: %w", err)
	}
	s.logger.Info("[signup][register] verification code sent",
		zap.String("flow_id", flow.ID), zap.String("sign_up_id", flow.SignUpID))
	return flow, nil
}

func sameDraft(flow *models.SignUpFlow, draft models.RegistrationDraft, first, last string) bool {
	return flow.Username == draft.Username &&
		flow.Email == draft.Email &&
		flow.FirstName == first &&
		flow.LastName == last &&
		flow.PhoneNumber == draft.PhoneNumber
}

func (s *signUpService) Verify(ctx context.Context, flowID, token string, attempt models.VerificationAttempt) (*models.VerifyResult, error) {
	if verr := ValidateAttempt(&attempt); verr != nil {
		return nil, verr
	}

	release, err := s.lock(ctx, flowID)
	if err != nil {
		return nil, err
	}
	defer release()

	flow, err := s.authorize(ctx, flowID, token)
	if err != nil {
		return nil, err
	}
	switch flow.State {
	case models.FlowCompleted:
		return nil, ErrFlowCompleted
	case models.FlowCollecting:
		return nil, ErrNotVerifying
	}

	// The session survives a failure further down; resume from it instead of
	// replaying a code the provider already consumed.
	if !flow.SessionActive() {
		res, err := s.identity.AttemptEmailVerification(ctx, flow.SignUpID, attempt.Code)
		if err != nil {
			return nil, s.providerFailure("verify", flow, err, ErrVerificationFailed)
		}
		if res.Status != models.SignUpStatusComplete {
			s.logger.Warn("[signup][verify] sign-up not complete",
				zap.String("flow_id", flow.ID), zap.String("status", res.Status),
				zap.Strings("missing_fields", res.MissingFields),
				zap.Strings("unverified_fields", res.UnverifiedFields))
			return nil, &IncompleteVerificationError{
				Status:           res.Status,
				MissingFields:    res.MissingFields,
				UnverifiedFields: res.UnverifiedFields,
			}
		}

		sess, err := s.identity.ActivateSession(ctx, res.CreatedSessionID)
		if err != nil {
			return nil, s.providerFailure("verify", flow, err, ErrVerificationFailed)
		}
		userID := res.CreatedUserID
		if userID == "" {
			userID = sess.UserID
		}
		if sess.ID == "" || userID == "" {
			return nil, s.providerFailure("verify", flow, errors.New("completed sign-up without session or user id"), ErrVerificationFailed)
		}
		flow.SessionID = sess.ID
		flow.UserID = userID
		flow.PendingMetadataUpdate = true
		flow.UpdatedAt = s.now()
		if err := s.flows.Save(ctx, flow); err != nil {
			return nil, fmt.Errorf("save flow: %w", err)
		}
	}

	return s.complete(ctx, flow)
}

func (s *signUpService) complete(ctx context.Context, flow *models.SignUpFlow) (*models.VerifyResult, error) {
	acc := &models.Account{
		ProviderUserID: flow.UserID,
		Username:       flow.Username,
		Email:          flow.Email,
		FirstName:      flow.FirstName,
		LastName:       flow.LastName,
		PhoneNumber:    flow.PhoneNumber,
		RoleID:         s.signUpRole(),
	}
	if err := s.accounts.Upsert(ctx, acc); err != nil {
		s.logger.Error("[signup][verify] account upsert failed",
			zap.String("flow_id", flow.ID), zap.Error(err))
		s.report(err, "account")
		return nil, fmt.Errorf("%w: %v", ErrAccountPersist, err)
	}
	flow.AccountID = acc.ID

	accessToken, err := s.sessions.Issue(acc, flow.SessionID)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	if s.reconciler != nil {
		if err := s.reconciler.Reconcile(ctx, flow); err != nil {
			// the flag stays set; the client may retry through RetryMetadata
			s.logger.Warn("[signup][verify] metadata still pending",
				zap.String("flow_id", flow.ID), zap.Error(err))
		}
	}

	flow.State = models.FlowCompleted
	flow.UpdatedAt = s.now()
	if err := s.flows.Save(ctx, flow); err != nil {
		return nil, fmt.Errorf("save flow: %w", err)
	}

	if s.mailer != nil && flow.Email != "" {
		if err := s.mailer.SendWelcomeEmail(flow.Email, flow.FirstName); err != nil {
			s.logger.Warn("[signup][verify] welcome email failed",
				zap.String("email", flow.Email), zap.Error(err))
		}
	}

	evt := events.Event{
		Type:           events.TypeSignUpCompleted,
		FlowID:         flow.ID,
		AccountID:      acc.ID,
		ProviderUserID: acc.ProviderUserID,
		Attributes:     map[string]string{"role": authz.RoleName(acc.RoleID)},
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("[signup][verify] publish failed", zap.Error(err))
	}

	s.logger.Info("[signup][verify] sign-up complete",
		zap.String("flow_id", flow.ID), zap.Int64("account_id", acc.ID),
		zap.Bool("metadata_pending", flow.PendingMetadataUpdate))
	return &models.VerifyResult{
		Flow:            flow,
		Status:          models.SignUpStatusComplete,
		AccessToken:     accessToken,
		Redirect:        "/",
		MetadataPending: flow.PendingMetadataUpdate,
	}, nil
}

func (s *signUpService) RetryMetadata(ctx context.Context, flowID, token string) (*models.SignUpFlow, error) {
	release, err := s.lock(ctx, flowID)
	if err != nil {
		return nil, err
	}
	defer release()

	flow, err := s.authorize(ctx, flowID, token)
	if err != nil {
		return nil, err
	}
	if !flow.PendingMetadataUpdate {
		return flow, nil
	}
	if !flow.SessionActive() {
		return nil, ErrNotVerifying
	}
	if s.reconciler == nil {
		return flow, ErrMetadataPending
	}
	if err := s.reconciler.Reconcile(ctx, flow); err != nil {
		return flow, err
	}
	return flow, nil
}

func (s *signUpService) authorize(ctx context.Context, flowID, token string) (*models.SignUpFlow, error) {
	if flowID == "" {
		return nil, ErrFlowNotFound
	}
	flow, err := s.flows.Get(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("load flow: %w", err)
	}
	if flow == nil {
		return nil, ErrFlowNotFound
	}
	if token == "" || bcrypt.CompareHashAndPassword([]byte(flow.TokenHash), []byte(token)) != nil {
		return nil, ErrInvalidFlowToken
	}
	return flow, nil
}

func (s *signUpService) lock(ctx context.Context, flowID string) (func(), error) {
	release, ok, err := s.flows.AcquireLock(ctx, flowID, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire flow lock: %w", err)
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	return release, nil
}

// providerFailure keeps provider error arrays intact for the notification mapper and
// wraps anything else in the given sentinel after reporting it.
func (s *signUpService) providerFailure(step string, flow *models.SignUpFlow, err, sentinel error) error {
	var perr *models.ProviderErrors
	if errors.As(err, &perr) {
		s.logger.Info("[signup]["+step+"] provider rejected request",
			zap.String("flow_id", flow.ID), zap.Int("status", perr.StatusCode), zap.Error(err))
		return perr
	}
	s.logger.Error("[signup]["+step+"] unexpected provider failure",
		zap.String("flow_id", flow.ID), zap.Error(err))
	s.report(err, step)
	return fmt.Errorf("%w: %v", sentinel, err)
}

func (s *signUpService) report(err error, step string) {
	if s.reporter != nil {
		s.reporter.CaptureException(err, map[string]string{"component": "signup", "step": step})
	}
}

func (s *signUpService) signUpRole() int {
	if s.grantAdmin {
		return authz.RoleAdmin
	}
	return authz.RoleMember
}
