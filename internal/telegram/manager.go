package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/celestix/gotgproto"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram/auth/qrlogin"

	"github.com/blockedby/crypto-digest/internal/config"
	"github.com/blockedby/crypto-digest/internal/logger"
)

// ErrNoSession is returned when there is no stored session and no way to log in.
var ErrNoSession = errors.New("no telegram session: run tg-auth or set TG_PHONE")

// Status represents the Telegram client status.
type Status string

// Status constants define the possible states of the Telegram client.
const (
	StatusInitializing Status = "INITIALIZING"
	StatusReady        Status = "READY"
	StatusUnauthorized Status = "UNAUTHORIZED"
	StatusStopped      Status = "STOPPED"
)

// ClientFactory creates the protocol client.
type ClientFactory func(ctx context.Context, cfg *config.Config) (*gotgproto.Client, error)

// QRClientFactory creates a raw telegram client for QR auth.
type QRClientFactory func(cfg *config.Config) (*QRClientBundle, error)

// Manager handles the Telegram client lifecycle and authentication.
type Manager struct {
	client *gotgproto.Client
	cfg    *config.Config
	log    *logger.Logger

	status Status
	mu     sync.RWMutex

	clientFactory   ClientFactory
	qrClientFactory QRClientFactory
}

// NewManager creates a new Telegram Manager.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		cfg:             cfg,
		log:             logger.Get().With("telegram"),
		status:          StatusInitializing,
		clientFactory:   NewPersistentClient,
		qrClientFactory: NewQRClient,
	}
}

// SetClientFactory overrides client creation (e.g. for testing).
func (m *Manager) SetClientFactory(f ClientFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clientFactory = f
}

// SetQRClientFactory overrides QR client creation (e.g. for testing).
func (m *Manager) SetQRClientFactory(f QRClientFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.qrClientFactory = f
}

// GetStatus returns the current client status.
func (m *Manager) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// GetClient returns the underlying protocol client, nil until Start succeeds.
func (m *Manager) GetClient() *gotgproto.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Start connects using the stored session, a session string, or phone login.
func (m *Manager) Start(ctx context.Context) error {
	ok, err := m.canLogin()
	if err != nil {
		return err
	}
	if !ok {
		m.setStatus(StatusUnauthorized)
		return ErrNoSession
	}

	m.mu.RLock()
	factory := m.clientFactory
	m.mu.RUnlock()

	client, err := factory(ctx, m.cfg)
	if err != nil {
		m.setStatus(StatusUnauthorized)
		return err
	}

	m.mu.Lock()
	m.client = client
	m.status = StatusReady
	m.mu.Unlock()

	m.log.Info().Msg("telegram: client is ready")
	return nil
}

// canLogin reports whether Start has any way to authenticate.
func (m *Manager) canLogin() (bool, error) {
	if m.cfg.TGSessionString != "" || m.cfg.TGPhone != "" {
		return true, nil
	}

	db, err := OpenSessionDB(m.cfg.TGSessionFile)
	if err != nil {
		return false, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return HasSession(db)
}

// StartQR runs the QR login flow and stores the resulting session in the
// session file. onQRCode receives each login URL to display.
// It blocks until login succeeds or ctx is canceled.
func (m *Manager) StartQR(ctx context.Context, onQRCode func(url string)) error {
	m.mu.RLock()
	factory := m.qrClientFactory
	m.mu.RUnlock()

	bundle, err := factory(m.cfg)
	if err != nil {
		return fmt.Errorf("create QR client: %w", err)
	}

	var sessionData *session.Data
	err = bundle.Client.Run(ctx, func(ctx context.Context) error {
		loggedIn := qrlogin.OnLoginToken(bundle.Dispatcher)

		_, err := bundle.Client.QR().Auth(ctx, loggedIn, func(_ context.Context, token qrlogin.Token) error {
			m.log.Info().Msg("telegram: QR token generated")
			onQRCode(token.URL())
			return nil
		})
		if err != nil {
			return err
		}

		loader := session.Loader{Storage: bundle.Storage}
		sessionData, err = loader.Load(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		return fmt.Errorf("QR auth flow failed: %w", err)
	}

	db, err := OpenSessionDB(m.cfg.TGSessionFile)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	m.log.Info().Str("file", m.cfg.TGSessionFile).Msg("telegram: saving session")
	return SaveSession(db, sessionData)
}

// Stop stops the protocol client.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		m.client.Stop()
		m.client = nil
	}
	m.status = StatusStopped
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}
