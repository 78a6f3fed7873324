package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"patient-portal/internal/model"
	"patient-portal/internal/store"
)

// ErrSuperseded is returned when a newer login, register or logout started
// before this request completed.
var ErrSuperseded = errors.New("superseded by a newer request")

// Manager is the session state machine for a single client: who is signed
// in, whether the persisted session has been read yet, and whether a
// login or register is in flight.
//
// Every login, register and logout takes a new request token. A login or
// register only touches the session if its token is still the latest when
// it completes, so a slow earlier attempt cannot overwrite a newer result.
type Manager struct {
	dir   *Directory
	kv    store.KV
	delay time.Duration

	mu      sync.Mutex
	session *model.User
	ready   bool
	loading bool
	latest  uint64
}

// NewManager builds a manager over dir. delay simulates network latency
// before each login and register resolves.
func NewManager(dir *Directory, kv store.KV, delay time.Duration) *Manager {
	return &Manager{dir: dir, kv: kv, delay: delay}
}

// Init loads the persisted session. A missing or malformed record means
// logged out. Ready reports true afterwards.
func (m *Manager) Init(ctx context.Context) error {
	u, ok, err := store.Load[model.User](ctx, m.kv, store.KeySession)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ok && u.ID != "" {
		m.session = &u
	} else {
		m.session = nil
	}
	m.ready = true
	return nil
}

func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) Session() (model.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return model.User{}, false
	}
	return *m.session, true
}

// Login resolves after the configured delay. A successful login that was
// superseded by a newer request returns ErrSuperseded.
func (m *Manager) Login(ctx context.Context, email, password string) (model.LoginOutcome, error) {
	tok := m.begin()
	if err := m.wait(ctx); err != nil {
		m.settle(tok)
		return "", err
	}

	u, outcome, err := m.dir.Authenticate(ctx, email, password)
	if err != nil {
		m.settle(tok)
		return "", err
	}
	if outcome != model.LoginSuccess {
		m.settle(tok)
		return outcome, nil
	}
	applied, err := m.finish(ctx, tok, &u)
	if err != nil {
		return "", err
	}
	if !applied {
		return "", ErrSuperseded
	}
	return model.LoginSuccess, nil
}

// Register reports false when the email is already taken. If a newer
// request superseded this one the account is still created, but the session
// is left alone and ErrSuperseded is returned.
func (m *Manager) Register(ctx context.Context, reg model.Registration) (bool, error) {
	tok := m.begin()
	if err := m.wait(ctx); err != nil {
		m.settle(tok)
		return false, err
	}

	u, err := m.dir.Register(ctx, reg)
	if errors.Is(err, ErrEmailTaken) {
		m.settle(tok)
		return false, nil
	}
	if err != nil {
		m.settle(tok)
		return false, err
	}
	applied, err := m.finish(ctx, tok, &u)
	if err != nil {
		return false, err
	}
	if !applied {
		return false, ErrSuperseded
	}
	return true, nil
}

// Logout clears the session. Calling it while signed out is a no-op apart
// from discarding any in-flight login.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest++
	m.loading = false
	m.session = nil
	return m.kv.Remove(ctx, store.KeySession)
}

func (m *Manager) IsEmailRegistered(ctx context.Context, email string) (bool, error) {
	return m.dir.IsEmailRegistered(ctx, email)
}

func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest++
	m.loading = true
	return m.latest
}

func (m *Manager) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// settle clears the loading flag for a request that produced no session.
func (m *Manager) settle(tok uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tok == m.latest {
		m.loading = false
	}
}

// finish applies u as the new session if tok is still the latest request.
func (m *Manager) finish(ctx context.Context, tok uint64, u *model.User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tok != m.latest {
		return false, nil
	}
	m.loading = false
	if err := store.Save(ctx, m.kv, store.KeySession, u); err != nil {
		return false, err
	}
	m.session = u
	return true, nil
}
