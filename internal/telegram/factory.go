package telegram

import (
	"context"
	"fmt"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/blockedby/crypto-digest/internal/config"
)

// NewPersistentClient creates a protocol client whose session lives in the
// sqlite session file, so auth keys survive between runs. When
// TG_SESSION_STRING is set it seeds an in-memory session instead.
// With no stored session, gotgproto runs the interactive phone login for TG_PHONE.
func NewPersistentClient(_ context.Context, cfg *config.Config) (*gotgproto.Client, error) {
	opts := &gotgproto.ClientOpts{
		DisableCopyright: true,
	}

	if cfg.TGSessionString != "" {
		opts.Session = sessionMaker.StringSession(cfg.TGSessionString)
		opts.InMemory = true
	} else {
		opts.Session = sessionMaker.SqlSession(sqlite.Open(cfg.TGSessionFile))
	}

	client, err := gotgproto.NewClient(
		cfg.TGApiID,
		cfg.TGApiHash,
		gotgproto.ClientTypePhone(cfg.TGPhone),
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	return client, nil
}

// OpenSessionDB opens the sqlite session file used by NewPersistentClient.
func OpenSessionDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open session db %s: %w", path, err)
	}
	return db, nil
}
