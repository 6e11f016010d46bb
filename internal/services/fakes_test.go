package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cipherhaven/internal/events"
	"cipherhaven/internal/models"
)

type memFlows struct {
	mu    sync.Mutex
	flows map[string]models.SignUpFlow
	locks map[string]bool
	saves int
}

func newMemFlows() *memFlows {
	return &memFlows{flows: map[string]models.SignUpFlow{}, locks: map[string]bool{}}
}

func (m *memFlows) Save(_ context.Context, flow *models.SignUpFlow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[flow.ID] = *flow
	m.saves++
	return nil
}

func (m *memFlows) Get(_ context.Context, id string) (*models.SignUpFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m *memFlows) AcquireLock(_ context.Context, id string, _ time.Duration) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[id] {
		return nil, false, nil
	}
	m.locks[id] = true
	return func() {
		m.mu.Lock()
		delete(m.locks, id)
		m.mu.Unlock()
	}, true, nil
}

func (m *memFlows) stored(id string) models.SignUpFlow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flows[id]
}

type memAccounts struct {
	mu     sync.Mutex
	nextID int64
	byUser map[string]*models.Account
	synced map[int64]bool
	err    error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byUser: map[string]*models.Account{}, synced: map[int64]bool{}}
}

func (m *memAccounts) Upsert(_ context.Context, acc *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if existing, ok := m.byUser[acc.ProviderUserID]; ok {
		acc.ID = existing.ID
		acc.RoleID = existing.RoleID
		return nil
	}
	m.nextID++
	acc.ID = m.nextID
	cp := *acc
	m.byUser[acc.ProviderUserID] = &cp
	return nil
}

func (m *memAccounts) MarkMetadataSynced(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synced[id] = true
	return nil
}

func (m *memAccounts) List(_ context.Context, limit, offset int) ([]*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Account, 0, len(m.byUser))
	for _, a := range m.byUser {
		out = append(out, a)
	}
	return out, nil
}

type fakeIdentity struct {
	mu sync.Mutex

	createErr   error
	prepareErr  error
	attemptErr  error
	activateErr error
	attempt     *models.SignUpAttempt
	session     *models.Session
	metadataErr []error // consumed one per call; nil once exhausted

	createCalls   int
	prepareCalls  int
	attemptCalls  int
	activateCalls int
	metadataCalls int
	lastCreate    models.CreateAccountParams
	lastPrepared  string
	lastCode      string
	lastMetadata  map[string]any
	lastMetaUser  string
}

func (f *fakeIdentity) CreateAccount(_ context.Context, p models.CreateAccountParams) (*models.SignUpAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastCreate = p
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.SignUpAttempt{ID: fmt.Sprintf("sua_%d", f.createCalls), Status: "missing_requirements"}, nil
}

func (f *fakeIdentity) PrepareEmailVerification(_ context.Context, signUpID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepareCalls++
	f.lastPrepared = signUpID
	return f.prepareErr
}

func (f *fakeIdentity) AttemptEmailVerification(_ context.Context, signUpID, code string) (*models.SignUpAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attemptCalls++
	f.lastCode = code
	if f.attemptErr != nil {
		return nil, f.attemptErr
	}
	if f.attempt != nil {
		return f.attempt, nil
	}
	return &models.SignUpAttempt{
		ID:               signUpID,
		Status:           models.SignUpStatusComplete,
		CreatedSessionID: "sess_1",
		CreatedUserID:    "user_1",
	}, nil
}

func (f *fakeIdentity) ActivateSession(_ context.Context, sessionID string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activateCalls++
	if f.activateErr != nil {
		return nil, f.activateErr
	}
	if f.session != nil {
		return f.session, nil
	}
	return &models.Session{ID: sessionID, UserID: "user_1", Status: "active"}, nil
}

func (f *fakeIdentity) UpdateUserMetadata(_ context.Context, userID string, metadata map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadataCalls++
	f.lastMetaUser = userID
	f.lastMetadata = metadata
	if len(f.metadataErr) == 0 {
		return nil
	}
	err := f.metadataErr[0]
	f.metadataErr = f.metadataErr[1:]
	return err
}

func (f *fakeIdentity) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls + f.prepareCalls + f.attemptCalls + f.activateCalls + f.metadataCalls
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(acc *models.Account, sessionID string) (string, error) {
	return "jwt-for-" + acc.ProviderUserID, nil
}

type fakeReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *fakeReporter) CaptureException(err error, _ map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendWelcomeEmail(email, name string) error {
	m.sent = append(m.sent, email)
	return m.err
}

var errBoom = errors.New("boom")
