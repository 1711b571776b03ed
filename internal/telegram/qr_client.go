package telegram

import (
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"

	"github.com/blockedby/crypto-digest/internal/config"
)

// QRClientBundle contains everything needed for QR authentication.
type QRClientBundle struct {
	Client     *telegram.Client
	Dispatcher *tg.UpdateDispatcher
	Storage    *session.StorageMemory
}

// NewQRClient creates a raw td/telegram client for QR login.
// Unlike gotgproto's NewClient, it does not attempt interactive phone auth.
func NewQRClient(cfg *config.Config) (*QRClientBundle, error) {
	memStorage := &session.StorageMemory{}
	dispatcher := tg.NewUpdateDispatcher()

	client := telegram.NewClient(cfg.TGApiID, cfg.TGApiHash, telegram.Options{
		SessionStorage: memStorage,
		UpdateHandler:  &dispatcher,
	})

	return &QRClientBundle{
		Client:     client,
		Dispatcher: &dispatcher,
		Storage:    memStorage,
	}, nil
}
